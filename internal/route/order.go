package route

import "sort"

// CanonicalOrder returns the stops in travel order: the start stop first, the
// end stop last, and every other stop in between by ascending sequence. The
// sort is stable, so stops sharing a sequence keep their input order. When
// more than one stop is tagged with the same role, the first one encountered
// keeps the role position and the rest are treated as interior stops. The
// input slice is not modified.
func CanonicalOrder(stops []Stop) []Stop {
	if len(stops) == 0 {
		return nil
	}

	startIdx := -1
	endIdx := -1
	for i := range stops {
		if startIdx < 0 && stops[i].IsStart {
			startIdx = i
		}
		if endIdx < 0 && stops[i].IsEnd && i != startIdx {
			endIdx = i
		}
	}

	var interior []Stop
	ordered := make([]Stop, 0, len(stops))
	for i, s := range stops {
		if i == startIdx || i == endIdx {
			continue
		}
		interior = append(interior, s)
	}
	sort.SliceStable(interior, func(i, j int) bool {
		return interior[i].Sequence < interior[j].Sequence
	})

	if startIdx >= 0 {
		ordered = append(ordered, stops[startIdx])
	}
	ordered = append(ordered, interior...)
	if endIdx >= 0 {
		ordered = append(ordered, stops[endIdx])
	}

	return ordered
}
