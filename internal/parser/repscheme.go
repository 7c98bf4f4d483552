package parser

import "github.com/meltforce/wodparse/internal/parser/patterns"

// PropagateRepSchemes fills missing rep counts. movements must be aligned with
// doc.Lines. An explicit rep count is never overwritten. A line-specific scheme
// contributes its first count; the workout-level scheme (from the document, or
// the detector's chipper match) is applied positionally, and only when it has
// an entry for every movement still missing reps.
func PropagateRepSchemes(doc *Document, match TypeMatch, movements []MovementLine) []MovementLine {
	out := make([]MovementLine, len(movements))
	copy(out, movements)

	var missing []int
	for i := range out {
		if out[i].Reps != nil {
			continue
		}
		if s, ok := doc.LineSchemes[i]; ok {
			s := s
			out[i].Reps = intPtr(s.Reps[0])
			out[i].RepScheme = &s
			continue
		}
		if out[i].empty() {
			continue
		}
		missing = append(missing, i)
	}

	scheme := workoutScheme(doc, match)
	if scheme == nil || len(missing) == 0 || len(scheme.Reps) < len(missing) {
		return out
	}
	for k, i := range missing {
		s := *scheme
		out[i].Reps = intPtr(s.Reps[k])
		out[i].RepScheme = &s
	}
	return out
}

func workoutScheme(doc *Document, match TypeMatch) *patterns.RepScheme {
	if doc.WorkoutScheme != nil {
		return doc.WorkoutScheme
	}
	return match.Scheme
}
