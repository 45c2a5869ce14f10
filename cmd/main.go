package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	app "github.com/okian/edgeline/internal/app"
	"github.com/okian/edgeline/internal/config"
	"github.com/okian/edgeline/internal/domain/adjust"
	"github.com/okian/edgeline/internal/domain/edge"
	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
	"github.com/okian/edgeline/pkg/logger"
)

// entityDoc is one entity's record set as it appears in the input file.
type entityDoc struct {
	EntityID string              `json:"entity_id"`
	Kind     types.Kind          `json:"kind"`
	Records  []model.EventRecord `json:"records"`
}

// adjustmentDoc is the file form of one adjustment. The well-known factor
// names (altitude, back_to_back, pace, luck_regression) may omit their
// numeric field; the configured factor constants fill it in.
type adjustmentDoc struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Magnitude float64 `json:"magnitude,omitempty"`
	Reference float64 `json:"reference,omitempty"`
	Strength  float64 `json:"strength,omitempty"`
	PaceDiff  float64 `json:"pace_diff,omitempty"`
}

// analysisDoc is the input file: the target, the candidate catalog, the
// baseline, and the adjustment chain. Quote fields come from flags.
type analysisDoc struct {
	Target      entityDoc       `json:"target"`
	Candidates  []entityDoc     `json:"candidates"`
	Window      model.Window    `json:"window"`
	Baseline    float64         `json:"baseline"`
	Adjustments []adjustmentDoc `json:"adjustments"`
}

func main() {
	var (
		eventsPath = flag.String("events", "", "Path to the analysis JSON file (target, candidates, baseline, adjustments)")
		line       = flag.Float64("line", 0, "Posted line")
		price      = flag.Int("price", -110, "American-odds price for the chosen side")
		publicPct  = flag.Float64("public", -1, "Public-money percentage on the chosen side (-1: unknown)")
		sharpPct   = flag.Float64("sharp", -1, "Sharp-money percentage on the chosen side (-1: unknown)")
		opening    = flag.Float64("opening", 0, "Opening line for closing-line-value (0: unknown)")
		over       = flag.Bool("over", false, "Analyze the over side (default: under)")
		spot       = flag.String("spot", "", "Situational spot type, e.g. playoff_favorite")
		hitRate    = flag.Float64("hit-rate", -1, "Historical hit rate override in percent (-1: estimate)")
		sample     = flag.Int("sample", 0, "Sample size behind the hit rate (0: use target profile)")
		weather    = flag.String("weather", "", "Weather condition, e.g. snow, wind_15mph")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *eventsPath == "" {
		os.Stderr.WriteString("usage: edgeline -events <file.json> -line <n> [flags]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	doc, err := readAnalysisDoc(*eventsPath)
	if err != nil {
		log.Error(ctx, "failed to read analysis file",
			logger.String("path", *eventsPath), logger.Error(err))
		os.Exit(1)
	}

	opts := append(app.FromConfig(cfg), app.WithLogger(log))
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start engine", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	quote := model.MarketQuote{Line: *line, Price: *price}
	if *publicPct >= 0 {
		quote.PublicPct = model.Float(*publicPct)
	}
	if *sharpPct >= 0 {
		quote.SharpPct = model.Float(*sharpPct)
	}
	if *opening != 0 {
		quote.OpeningLine = model.Float(*opening)
	}

	market := edge.Input{
		SpotType:         types.SpotType(*spot),
		IsOver:           *over,
		SampleSize:       *sample,
		WeatherCondition: *weather,
	}
	if *hitRate >= 0 {
		market.HitRate = model.Float(*hitRate)
	}

	analysis, err := svc.AnalyzeProp(ctx, app.AnalysisRequest{
		Target:      toEntityRecords(doc.Target),
		Candidates:  toCandidates(doc.Candidates),
		Window:      doc.Window,
		Baseline:    doc.Baseline,
		Adjustments: toAdjustments(doc.Adjustments, svc.Factors()),
		Quote:       quote,
		Market:      market,
	})
	if err != nil {
		log.Error(ctx, "analysis failed", logger.Error(err))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		log.Error(ctx, "failed to encode analysis", logger.Error(err))
		os.Exit(1)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func readAnalysisDoc(path string) (analysisDoc, error) {
	var doc analysisDoc
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	err = json.Unmarshal(data, &doc)
	return doc, err
}

func toEntityRecords(doc entityDoc) app.EntityRecords {
	return app.EntityRecords{
		EntityID: doc.EntityID,
		Kind:     doc.Kind,
		Records:  doc.Records,
	}
}

func toCandidates(docs []entityDoc) []app.EntityRecords {
	out := make([]app.EntityRecords, len(docs))
	for i, d := range docs {
		out[i] = toEntityRecords(d)
	}
	return out
}

func toAdjustments(docs []adjustmentDoc, factors adjust.Factors) []adjust.Adjustment {
	out := make([]adjust.Adjustment, len(docs))
	for i, d := range docs {
		out[i] = toAdjustment(d, factors)
	}
	return out
}

// toAdjustment resolves one document entry. A well-known factor name with its
// numeric field omitted is built from the configured factor constants, so
// overrides like EDGELINE_PACE_TO_POINTS reach the projection.
func toAdjustment(d adjustmentDoc, factors adjust.Factors) adjust.Adjustment {
	switch d.Name {
	case "altitude":
		if d.Magnitude == 0 {
			return factors.Altitude()
		}
	case "back_to_back":
		if d.Magnitude == 0 {
			return factors.BackToBack()
		}
	case "pace":
		if d.Magnitude == 0 {
			return factors.Pace(d.PaceDiff)
		}
	case "luck_regression":
		if d.Strength == 0 {
			return factors.LuckRegression(d.Reference)
		}
	}
	return adjust.Adjustment{
		Name:      d.Name,
		Kind:      types.AdjustmentKind(d.Kind),
		Magnitude: d.Magnitude,
		Reference: d.Reference,
		Strength:  d.Strength,
	}
}
