package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

// SchemeKind classifies the shape of a rep scheme.
type SchemeKind string

const (
	SchemeFixed      SchemeKind = "fixed"
	SchemeAscending  SchemeKind = "ascending"
	SchemeDescending SchemeKind = "descending"
	SchemeCustom     SchemeKind = "custom"
)

// RepScheme is an ordered sequence of positive rep counts, e.g. 21-15-9.
type RepScheme struct {
	Reps    []int      `json:"reps"`
	Kind    SchemeKind `json:"kind"`
	Matched string     `json:"matched"`
}

// String renders the scheme the way it is usually written.
func (s RepScheme) String() string {
	parts := make([]string, len(s.Reps))
	for i, r := range s.Reps {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, "-")
}

// Total returns the sum of all rep counts in the scheme.
func (s RepScheme) Total() int {
	total := 0
	for _, r := range s.Reps {
		total += r
	}
	return total
}

// SchemeMovement is a movement line carrying its own rep scheme, before or
// after the name: "21-15-9 Thrusters (95/65 lb)", "Deadlift 5-5-5-3-3".
type SchemeMovement struct {
	Scheme   RepScheme
	Movement string
}

var (
	// chipperLineRe matches a line that is only a scheme: "21-15-9", "21-15-9 reps for time:"
	chipperLineRe = regexp.MustCompile(`(?i)^(` + schemeExpr + `)\s*(?:reps?)?\s*(?:(?:for\s+time|rft)\b)?\s*(?:of)?\s*:?$`)

	// perRoundLineRe matches: "Reps: 10-8-6", "Rep scheme: 5, 4, 3", "Reps per round: 5-5-5"
	perRoundLineRe = regexp.MustCompile(`(?i)^(?:rep\s+scheme|scheme|reps?(?:\s+per\s+round)?)\s*[:\-]?\s*(\d+(?:\s*[-,/]\s*\d+)+)\s*:?$`)

	// roundsOfSchemeRe matches: "Rounds of 21-15-9:", "3 rounds of 5-4-3"
	roundsOfSchemeRe = regexp.MustCompile(`(?i)^(?:\d+\s+)?rounds?\s+of\s+(` + schemeExpr + `)\s*(?:reps?)?\s*:?$`)

	// schemeMovementRe matches: "21-15-9 Thrusters", "5-5-5-3-3 reps of Deadlift"
	schemeMovementRe = regexp.MustCompile(`(?i)^(` + schemeExpr + `)\s+(?:reps?\s+(?:of\s+)?)?([a-z].*)$`)

	// movementSchemeRe matches: "Deadlift 5-5-5-3-3", "Back Squat: 5-3-1 reps".
	// At least three counts, so a bare load pair ("Wall Balls 20-14") is not a scheme.
	movementSchemeRe = regexp.MustCompile(`(?i)^([a-z].*?)\s*:?\s+(\d+(?:\s*-\s*\d+){2,})\s*(?:reps?)?$`)

	schemeNumberRe = regexp.MustCompile(`\d+`)
)

// NewRepScheme builds a scheme from rep counts, classifying it in a single pass.
// It returns false for an empty sequence or a non-positive count.
func NewRepScheme(reps []int, matched string) (RepScheme, bool) {
	if len(reps) == 0 {
		return RepScheme{}, false
	}
	up, down := false, false
	for i, r := range reps {
		if r <= 0 {
			return RepScheme{}, false
		}
		if i == 0 {
			continue
		}
		switch {
		case r > reps[i-1]:
			up = true
		case r < reps[i-1]:
			down = true
		}
	}

	kind := SchemeFixed
	switch {
	case up && down:
		kind = SchemeCustom
	case up:
		kind = SchemeAscending
	case down:
		kind = SchemeDescending
	}

	out := make([]int, len(reps))
	copy(out, reps)
	return RepScheme{Reps: out, Kind: kind, Matched: matched}, true
}

func schemeFromDigits(s, matched string) (RepScheme, bool) {
	var reps []int
	for _, d := range schemeNumberRe.FindAllString(s, -1) {
		n, ok := atoi(d)
		if !ok {
			return RepScheme{}, false
		}
		reps = append(reps, n)
	}
	return NewRepScheme(reps, matched)
}

// MatchChipperLine matches a line that consists only of a chipper scheme.
func MatchChipperLine(line string) (RepScheme, bool) {
	line = strings.TrimSpace(line)
	m := chipperLineRe.FindStringSubmatch(line)
	if m == nil {
		return RepScheme{}, false
	}
	return schemeFromDigits(m[1], m[0])
}

// MatchPerRoundLine matches an explicit per-round rep prescription.
func MatchPerRoundLine(line string) (RepScheme, bool) {
	line = strings.TrimSpace(line)
	if m := perRoundLineRe.FindStringSubmatch(line); m != nil {
		return schemeFromDigits(m[1], m[0])
	}
	if m := roundsOfSchemeRe.FindStringSubmatch(line); m != nil {
		return schemeFromDigits(m[1], m[0])
	}
	return RepScheme{}, false
}

// MatchSchemeMovement matches a movement line that carries its own scheme.
func MatchSchemeMovement(line string) (SchemeMovement, bool) {
	line = strings.TrimSpace(line)
	var expr, name string
	if m := schemeMovementRe.FindStringSubmatch(line); m != nil {
		expr, name = m[1], m[2]
	} else if m := movementSchemeRe.FindStringSubmatch(line); m != nil && !perRoundLineRe.MatchString(line) && !roundsOfSchemeRe.MatchString(line) {
		expr, name = m[2], m[1]
	} else {
		return SchemeMovement{}, false
	}
	scheme, ok := schemeFromDigits(expr, expr)
	if !ok {
		return SchemeMovement{}, false
	}
	return SchemeMovement{Scheme: scheme, Movement: strings.TrimSpace(name)}, true
}
