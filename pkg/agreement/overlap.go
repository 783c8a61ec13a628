package agreement

import (
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// pair identifies two speakers by input index, with i < j.
type pair struct {
	i, j int
}

// pairs enumerates every unordered speaker pair once, i before j.
func pairs(n int) []pair {
	var out []pair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, pair{i: i, j: j})
		}
	}
	return out
}

// ComparePair finds groups of a whose membership collapses into a single
// group of b. The ratio is measured over a's group only, so
// ComparePair(a, b) and ComparePair(b, a) can disagree. A candidate is
// emitted only when the ratio is strictly greater than threshold.
//
// Output is ordered by a's group number, then b's group number.
func ComparePair(a, b Annotator, threshold float64) []MergedGroup {
	partition := a.Map.Partition()

	var merged []MergedGroup
	for _, groupA := range a.Map.Groups() {
		members := partition[groupA]
		size := len(members)
		if size == 0 {
			continue
		}

		counts := make(map[GroupNumber]int)
		for _, key := range members {
			if groupB, ok := b.Map.Get(key); ok {
				counts[groupB]++
			}
		}

		targets := make([]GroupNumber, 0, len(counts))
		for g := range counts {
			targets = append(targets, g)
		}
		slices.Sort(targets)

		for _, groupB := range targets {
			shared := counts[groupB]
			// cross-multiplied so a ratio exactly at the threshold is rejected
			if float64(shared)*100 <= threshold*float64(size) {
				continue
			}
			ratio := float64(shared) / float64(size) * 100
			merged = append(merged, MergedGroup{
				Annotator1:     a.ID,
				Group1:         groupA,
				Exemplar1:      a.Exemplar(groupA),
				Annotator2:     b.ID,
				Group2:         groupB,
				Exemplar2:      b.Exemplar(groupB),
				SharedWords:    shared,
				GroupSize:      size,
				OverlapRatio:   ratio,
				OverlapPercent: strconv.FormatFloat(ratio, 'f', 1, 64),
			})
		}
	}
	return merged
}

// FindMergedGroups compares every speaker pair (i < j in input order) and
// concatenates the candidates pair by pair. With concurrency above one the
// pairs are compared in parallel; the result is identical to the
// sequential scan.
func FindMergedGroups(annotators []Annotator, threshold float64, concurrency int) []MergedGroup {
	ps := pairs(len(annotators))
	perPair := make([][]MergedGroup, len(ps))

	if concurrency <= 1 || len(ps) <= 1 {
		for idx, p := range ps {
			perPair[idx] = ComparePair(annotators[p.i], annotators[p.j], threshold)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(concurrency)
		for idx, p := range ps {
			g.Go(func() error {
				perPair[idx] = ComparePair(annotators[p.i], annotators[p.j], threshold)
				return nil
			})
		}
		_ = g.Wait() // comparisons never fail
	}

	merged := []MergedGroup{}
	for _, candidates := range perPair {
		merged = append(merged, candidates...)
	}
	return merged
}
