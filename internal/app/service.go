// Package service wires the projection engine together: profile builds fan
// out through the queue and worker pool, similarity/projection/validation are
// direct delegates to the domain packages.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	buildqueue "github.com/okian/edgeline/internal/adapters/mq/queue"
	workerpool "github.com/okian/edgeline/internal/adapters/mq/worker"
	repository "github.com/okian/edgeline/internal/adapters/repository"
	"github.com/okian/edgeline/internal/config"
	"github.com/okian/edgeline/internal/domain/adjust"
	"github.com/okian/edgeline/internal/domain/edge"
	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/profile"
	"github.com/okian/edgeline/internal/domain/schema"
	"github.com/okian/edgeline/internal/domain/similarity"
	"github.com/okian/edgeline/internal/domain/types"
	"github.com/okian/edgeline/pkg/logger"
	"github.com/okian/edgeline/pkg/metrics"
)

// EntityRecords groups one entity's pre-filtered event records for a build.
type EntityRecords struct {
	EntityID string
	Kind     types.Kind
	Records  []model.EventRecord
}

// AnalysisRequest carries everything one end-to-end prop analysis needs.
// Candidates are the catalog the similarity query runs against.
type AnalysisRequest struct {
	Target      EntityRecords
	Candidates  []EntityRecords
	Window      model.Window
	Baseline    float64
	Adjustments []adjust.Adjustment
	Quote       model.MarketQuote
	Market      edge.Input
}

// Analysis is the full output of AnalyzeProp.
type Analysis struct {
	Profile    model.Profile          `json:"profile"`
	Similarity model.SimilarityResult `json:"similarity"`
	Projection model.Projection       `json:"projection"`
	Edge       model.EdgeResult       `json:"edge"`
}

// Service owns the engine components and their lifecycle.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry   *schema.Registry
	builder    *profile.Builder
	cache      repository.Store
	memo       *repository.Memoizer
	buildQueue buildqueue.Queue
	pool       *workerpool.Pool
	index      *similarity.Index
	pipeline   *adjust.Pipeline
	validator  *edge.Validator

	// Configuration
	workerCount    int
	queueCapacity  int
	cacheMaxSize   int
	evictionPolicy repository.EvictionPolicy
	topN           int
	minSampleSize  int
	metricScales   map[string]float64
	metricWeights  map[string]float64
	factors        adjust.Factors
	validatorOpts  []edge.Option

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of build workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueCapacity bounds the build request queue.
func WithQueueCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.queueCapacity = capacity
		}
	}
}

// WithCacheMaxSize bounds the profile cache.
func WithCacheMaxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheMaxSize = size
		}
	}
}

// WithEvictionPolicy selects the cache eviction policy.
func WithEvictionPolicy(policy repository.EvictionPolicy) Option {
	return func(s *Service) {
		if policy != "" {
			s.evictionPolicy = policy
		}
	}
}

// WithTopN caps how many matches a similarity query returns.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithMinSampleSize filters thin candidate profiles from similarity queries.
func WithMinSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minSampleSize = n
		}
	}
}

// WithMetricScales overrides per-metric normalization scales, keyed "kind.metric".
func WithMetricScales(scales map[string]float64) Option {
	return func(s *Service) {
		s.metricScales = scales
	}
}

// WithMetricWeights overrides per-metric similarity weights, keyed "kind.metric".
func WithMetricWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.metricWeights = weights
	}
}

// WithFactors sets the factor constants the named contextual adjustments are
// built from. Non-positive fields keep their defaults.
func WithFactors(f adjust.Factors) Option {
	return func(s *Service) {
		if f.AltitudeBoost > 0 {
			s.factors.AltitudeBoost = f.AltitudeBoost
		}
		if f.BackToBackPenalty > 0 {
			s.factors.BackToBackPenalty = f.BackToBackPenalty
		}
		if f.LuckRegressionStrength > 0 {
			s.factors.LuckRegressionStrength = f.LuckRegressionStrength
		}
		if f.PaceToPoints > 0 {
			s.factors.PaceToPoints = f.PaceToPoints
		}
	}
}

// WithValidatorOptions forwards options to the edge validator.
func WithValidatorOptions(opts ...edge.Option) Option {
	return func(s *Service) {
		s.validatorOpts = append(s.validatorOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig translates loaded configuration into service options.
func FromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueCapacity(cfg.QueueCapacity),
		WithCacheMaxSize(cfg.CacheMaxSize),
		WithEvictionPolicy(repository.EvictionPolicy(cfg.CacheEvictionPolicy)),
		WithTopN(cfg.SimilarityTopN),
		WithMinSampleSize(cfg.SimilarityMinSampleSize),
		WithMetricScales(cfg.MetricScales),
		WithMetricWeights(cfg.MetricWeights),
		WithFactors(adjust.Factors{
			AltitudeBoost:          cfg.AltitudeBoost,
			BackToBackPenalty:      cfg.BackToBackPenalty,
			LuckRegressionStrength: cfg.LuckRegressionStrength,
			PaceToPoints:           cfg.PaceToPoints,
		}),
		WithValidatorOptions(
			edge.WithPublicThreshold(cfg.PublicThreshold),
			edge.WithSharpThreshold(cfg.SharpThreshold),
			edge.WithCLVThreshold(cfg.CLVThreshold),
			edge.WithLowSampleFloor(cfg.LowSampleFloor),
			edge.WithEdgeThresholds(cfg.SmallEdge, cfg.StrongEdge, cfg.HighEdge),
			edge.WithHardMinimumSample(cfg.HardMinimumSample),
			edge.WithWeatherTrapThreshold(cfg.WeatherTrapThreshold),
		),
	}

	if len(cfg.SpotRates) > 0 {
		rates := make(map[types.SpotType]float64, len(cfg.SpotRates))
		for spot, rate := range cfg.SpotRates {
			rates[types.SpotType(spot)] = rate
		}
		opts = append(opts, WithValidatorOptions(edge.WithSpotRates(rates)))
	}
	if len(cfg.WeatherImpact) > 0 {
		opts = append(opts, WithValidatorOptions(edge.WithWeatherImpact(cfg.WeatherImpact)))
	}

	return opts
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueCapacity:  1024,
		cacheMaxSize:   4096,
		evictionPolicy: repository.EvictOldest,
		topN:           5,
		minSampleSize:  100,
		factors:        adjust.DefaultFactors(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the engine components and spins up the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting projection engine...")

	schemaOpts := []schema.Option{}
	if len(s.metricScales) > 0 {
		schemaOpts = append(schemaOpts, schema.WithScales(s.metricScales))
	}
	if len(s.metricWeights) > 0 {
		schemaOpts = append(schemaOpts, schema.WithWeights(s.metricWeights))
	}
	s.registry = schema.New(schemaOpts...)

	s.builder = profile.NewBuilder(profile.WithRegistry(s.registry))
	s.cache = repository.NewInMemoryCache(
		repository.WithMaxSize(s.cacheMaxSize),
		repository.WithEvictionPolicy(s.evictionPolicy),
	)
	s.memo = repository.NewMemoizer(s.builder, s.cache)
	s.buildQueue = buildqueue.NewInMemoryQueue(
		buildqueue.WithCapacity(s.queueCapacity),
	)
	s.index = similarity.NewIndex(
		similarity.WithRegistry(s.registry),
		similarity.WithTopN(s.topN),
		similarity.WithMinSampleSize(s.minSampleSize),
	)
	s.pipeline = adjust.NewPipeline()
	s.validator = edge.NewValidator(s.validatorOpts...)

	s.pool = workerpool.NewPool(s.workerCount, s.buildQueue, s.memo)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "projection engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueCapacity", s.queueCapacity),
		logger.Int("cacheMaxSize", s.cacheMaxSize),
	)

	return nil
}

// Stop gracefully shuts the engine down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping projection engine...")

	if s.buildQueue != nil {
		_ = s.buildQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "projection engine stopped")
}

// BuildProfiles fans build requests out to the worker pool and joins the
// results. Profiles come back in request order.
func (s *Service) BuildProfiles(ctx context.Context, reqs []buildqueue.BuildRequest) ([]model.Profile, error) {
	s.mu.RLock()
	started := s.started
	q := s.buildQueue
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}

	results := make([]chan buildqueue.BuildResult, len(reqs))
	for i, req := range reqs {
		ch := make(chan buildqueue.BuildResult, 1)
		results[i] = ch
		if !q.Enqueue(ctx, buildqueue.BuildJob{Request: req, Result: ch}) {
			return nil, fmt.Errorf("%w: %s", ErrEnqueueRejected, req.EntityID)
		}
	}

	profiles := make([]model.Profile, len(reqs))
	for i, ch := range results {
		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, fmt.Errorf("build %s: %w", reqs[i].EntityID, res.Err)
			}
			profiles[i] = res.Profile
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return profiles, nil
}

// FindSimilar ranks candidates by profile similarity to the target.
func (s *Service) FindSimilar(ctx context.Context, target model.Profile, candidates []model.Profile) (model.SimilarityResult, error) {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()

	if idx == nil {
		return model.SimilarityResult{}, ErrNotStarted
	}

	metrics.RecordSimilarityQuery()
	return idx.FindSimilar(target, candidates)
}

// Project applies the ordered adjustment chain to a baseline.
func (s *Service) Project(ctx context.Context, baseline float64, adjustments []adjust.Adjustment) (model.Projection, error) {
	s.mu.RLock()
	p := s.pipeline
	s.mu.RUnlock()

	if p == nil {
		return model.Projection{}, ErrNotStarted
	}

	metrics.RecordProjection()
	return p.Project(baseline, adjustments)
}

// Validate classifies a quote against an estimated hit rate.
func (s *Service) Validate(ctx context.Context, in edge.Input, quote model.MarketQuote) (model.EdgeResult, error) {
	s.mu.RLock()
	v := s.validator
	s.mu.RUnlock()

	if v == nil {
		return model.EdgeResult{}, ErrNotStarted
	}

	res, err := v.Validate(in, quote)
	if err != nil {
		return model.EdgeResult{}, err
	}
	metrics.RecordValidation(string(res.Recommendation))
	return res, nil
}

// AnalyzeProp runs the full chain: build the target and candidate profiles,
// rank candidates, project the baseline through the adjustments, then
// validate the quote.
func (s *Service) AnalyzeProp(ctx context.Context, req AnalysisRequest) (Analysis, error) {
	requestID := uuid.NewString()
	log := s.log().Named("analyze")

	log.Info(ctx, "analyzing prop",
		logger.String("requestID", requestID),
		logger.String("entityID", req.Target.EntityID),
		logger.String("kind", string(req.Target.Kind)),
		logger.Int("candidates", len(req.Candidates)),
		logger.Float64("baseline", req.Baseline),
		logger.Float64("line", req.Quote.Line),
		logger.Int("price", req.Quote.Price),
	)

	builds := make([]buildqueue.BuildRequest, 0, len(req.Candidates)+1)
	builds = append(builds, buildqueue.BuildRequest{
		EntityID: req.Target.EntityID,
		Kind:     req.Target.Kind,
		Window:   req.Window,
		Records:  req.Target.Records,
	})
	for _, cand := range req.Candidates {
		builds = append(builds, buildqueue.BuildRequest{
			EntityID: cand.EntityID,
			Kind:     cand.Kind,
			Window:   req.Window,
			Records:  cand.Records,
		})
	}

	profiles, err := s.BuildProfiles(ctx, builds)
	if err != nil {
		log.Error(ctx, "profile build failed",
			logger.String("requestID", requestID),
			logger.Error(err),
		)
		return Analysis{}, err
	}

	target, candidates := profiles[0], profiles[1:]

	sim, err := s.FindSimilar(ctx, target, candidates)
	if err != nil {
		log.Error(ctx, "similarity query failed",
			logger.String("requestID", requestID),
			logger.Error(err),
		)
		return Analysis{}, err
	}

	proj, err := s.Project(ctx, req.Baseline, req.Adjustments)
	if err != nil {
		log.Error(ctx, "projection failed",
			logger.String("requestID", requestID),
			logger.Error(err),
		)
		return Analysis{}, err
	}

	in := req.Market
	if in.Projection == nil && in.HitRate == nil && in.SpotType == "" {
		in.Projection = model.Float(proj.Value)
	}
	if in.SampleSize == 0 {
		in.SampleSize = target.SampleSize
	}

	result, err := s.Validate(ctx, in, req.Quote)
	if err != nil {
		log.Error(ctx, "validation failed",
			logger.String("requestID", requestID),
			logger.Error(err),
		)
		return Analysis{}, err
	}

	log.Info(ctx, "prop analyzed",
		logger.String("requestID", requestID),
		logger.Float64("projection", proj.Value),
		logger.Float64("edgePct", result.EdgePercent),
		logger.String("recommendation", string(result.Recommendation)),
		logger.String("confidence", string(result.Confidence)),
	)

	return Analysis{
		Profile:    target,
		Similarity: sim,
		Projection: proj,
		Edge:       result,
	}, nil
}

// Factors returns the configured factor constants. Callers assembling an
// adjustment chain use them so overrides in configuration reach the engine.
func (s *Service) Factors() adjust.Factors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factors
}

// PurgeProfiles drops every cached profile, forcing fresh builds.
func (s *Service) PurgeProfiles(ctx context.Context) {
	s.mu.RLock()
	memo := s.memo
	s.mu.RUnlock()

	if memo != nil {
		memo.Purge(ctx)
	}
}

// Stats returns engine statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueCapacity": s.queueCapacity,
		"cacheMaxSize":  s.cacheMaxSize,
	}

	if s.started {
		queueLen := s.buildQueue.Len(ctx)
		cacheLen := s.cache.Len(ctx)

		stats["queueLength"] = queueLen
		stats["cachedProfiles"] = cacheLen

		metrics.UpdateQueueDepth(queueLen)
		metrics.UpdateCacheSize(cacheLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.logger != nil {
		return s.logger
	}
	return logger.Get().Named("service")
}
