package agreement_test

import (
	"fmt"
	"sort"

	"github.com/agentstation/tonematch/pkg/agreement"
)

// speaker builds an AnnotatorResult from word -> group pairs. Keys are
// emitted in sorted order so fixtures are deterministic.
func speaker(id string, assignments map[string]int, groups ...int) agreement.AnnotatorResult {
	keys := make([]string, 0, len(assignments))
	for k := range assignments {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]agreement.Record, 0, len(keys))
	for _, k := range keys {
		records = append(records, agreement.Record{
			"Reference":          k,
			"SurfaceMelodyGroup": fmt.Sprint(assignments[k]),
		})
	}

	defs := make([]agreement.GroupDefinition, 0, len(groups))
	for _, g := range groups {
		defs = append(defs, agreement.NewGroupDefinition(agreement.GroupNumber(g), agreement.Record{
			"Tone Group":   fmt.Sprint(g),
			"Written Form": fmt.Sprintf("%s-ex%d", id, g),
		}))
	}

	return agreement.AnnotatorResult{ID: id, Groups: defs, Records: records}
}

// same assigns every key to one group.
func same(group int, keys ...string) map[string]int {
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[k] = group
	}
	return out
}

func annotators(results ...agreement.AnnotatorResult) []agreement.Annotator {
	out := make([]agreement.Annotator, len(results))
	for i, r := range results {
		out[i] = agreement.NewAnnotator(r, agreement.DefaultFields())
	}
	return out
}
