package pipeline

import "sort"

// Assemble finalizes the matched, parsed, classified results: it applies
// the low-confidence penalty when the extraction was tagged, drops the
// weaker of two results for the same test on adjacent rows (a segmentation
// artifact), and returns the survivors in report order. A test repeated on
// non-adjacent rows is a genuine repeat and both results survive.
func Assemble(results []LabResult, lowConfidence bool, penalty float64) []LabResult {
	out := make([]LabResult, 0, len(results))

	sorted := make([]LabResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].row < sorted[j].row })

	for _, r := range sorted {
		if lowConfidence {
			r.Confidence *= penalty
		}
		r.Confidence = clamp01(r.Confidence)

		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.TestName == r.TestName && r.row-prev.row == 1 {
				if r.Confidence > prev.Confidence {
					*prev = r
				}
				continue
			}
		}
		out = append(out, r)
	}

	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
