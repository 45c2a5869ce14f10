// Command gen-events writes deterministic event record fixtures as JSON,
// shaped to drop straight into the analysis file the main command reads.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
	"github.com/okian/edgeline/internal/testdata"
)

// Default generation constants.
const (
	defaultEntities = 8
	defaultRecords  = 40
	defaultSeed     = 1
)

type entityDoc struct {
	EntityID string              `json:"entity_id"`
	Kind     types.Kind          `json:"kind"`
	Records  []model.EventRecord `json:"records"`
}

func main() {
	var (
		kindFlag = flag.String("kind", "team", "Entity kind: defense, goalie, team, skater")
		entities = flag.Int("entities", defaultEntities, "Number of entities to generate")
		records  = flag.Int("records", defaultRecords, "Records per entity")
		seed     = flag.Int64("seed", defaultSeed, "Generator seed")
		prefix   = flag.String("prefix", "", "Entity id prefix (default: the kind)")
	)
	flag.Parse()

	kind := types.Kind(strings.ToLower(*kindFlag))
	switch kind {
	case types.KindDefense, types.KindGoalie, types.KindTeam, types.KindSkater:
	default:
		os.Stderr.WriteString("unknown kind: " + *kindFlag + "\n")
		os.Exit(2)
	}

	idPrefix := *prefix
	if idPrefix == "" {
		idPrefix = string(kind)
	}

	gen := testdata.NewGenerator(testdata.WithSeed(*seed))

	docs := make([]entityDoc, *entities)
	for i := range docs {
		id := fmt.Sprintf("%s_%02d", idPrefix, i)
		docs[i] = entityDoc{
			EntityID: id,
			Kind:     kind,
			Records:  gen.Records(id, kind, *records),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		os.Stderr.WriteString("failed to encode records: " + err.Error() + "\n")
		os.Exit(1)
	}
}
