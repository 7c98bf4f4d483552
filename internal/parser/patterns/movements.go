package patterns

import (
	"regexp"
	"strings"
)

// RepsMovement is a movement line that leads or ends with a rep count. Sets is
// set only for sets-by-reps notation ("Back Squat 5x5"), where Reps is per set.
type RepsMovement struct {
	Reps int
	Sets int
	Name string
}

// DurationMovement is a movement line prescribed by time.
type DurationMovement struct {
	Seconds int
	Name    string
}

// Slot is an EMOM minute or buy-in label that prefixes a movement.
type Slot struct {
	Label string
	Rest  string
}

var (
	// repsMovementRe matches: 21 Thrusters, 10 x Burpees, 15 reps of Wall Balls
	repsMovementRe = regexp.MustCompile(`(?i)^(\d+)\s*(?:x\s*|reps?\s+(?:of\s+)?)?([a-z].*)$`)

	// repeatMovementRe matches: 5 x 400m Run, 3x 500m Row
	repeatMovementRe = regexp.MustCompile(`(?i)^(\d+)\s*x\s*(\d.*[a-z].*)$`)

	// setsRepsRe matches: Back Squat 5x5 @ 80%, Strict Press 3 x 8 (65 lb)
	setsRepsRe = regexp.MustCompile(`(?i)^([a-z][^0-9:]*?)\s*:?\s+(\d+)\s*x\s*(\d+)\b\s*(.*)$`)

	// suffixRepsRe matches: Pull-ups x 10, Air Squats: 50
	suffixRepsRe = regexp.MustCompile(`(?i)^([a-z][^:]*?)\s*(?::|\bx)\s*(\d+)\s*(?:reps?)?$`)

	// unitLeadRe matches a name candidate that is really the unit of the leading number.
	unitLeadRe = regexp.MustCompile(`(?i)^(?:` + timeUnits + `|` + distanceUnits + `|` + weightUnits + `|cals?|calories?|rounds?|rds?|rnds?|rft|sets?|inch(?:es)?|in|cm)\b`)

	// durationMovementRe matches: 30 sec Plank Hold, 2 min of Rowing
	durationMovementRe = regexp.MustCompile(`(?i)^(` + numExpr + `)\s*-?\s*(hours?|hrs?|minutes?|mins?|min|` + secondUnits + `)\s+(?:of\s+)?([a-z].*)$`)

	// clockMovementRe matches: 1:00 Wall Sit
	clockMovementRe = regexp.MustCompile(`(?i)^(` + clockExpr + `)\s+(?:of\s+)?([a-z].*)$`)

	// trailingDurationRe matches: Plank Hold 30 sec, Wall Sit: 1:00, L-sit for 20 seconds
	trailingDurationRe = regexp.MustCompile(`(?i)^([a-z].*?)\s*[:\-]?\s*(?:for\s+)?(?:(` + clockExpr + `)|(` + numExpr + `)\s*-?\s*(hours?|hrs?|minutes?|mins?|min|` + secondUnits + `))\s*$`)

	// slotRe matches: Min 1:, Minute 2 -, Odd:, Even:, Buy-in:, Cash out:
	slotRe = regexp.MustCompile(`(?i)^((?:min(?:ute)?\s*\d+(?:\s*-\s*\d+)?)|odd(?:\s+minutes?)?|even(?:\s+minutes?)?|buy[\s-]?in|cash[\s-]?out)\s*[:\-.)]\s*(.*)$`)
)

// MatchRepsMovement matches the "reps + movement name" shape in either order.
// A leading number followed by a unit (400m, 15 cal, 20 min, 135 lb) is not reps.
func MatchRepsMovement(line string) (RepsMovement, bool) {
	line = strings.TrimSpace(line)
	if m := repeatMovementRe.FindStringSubmatch(line); m != nil {
		if n, ok := atoi(m[1]); ok && n > 0 {
			return RepsMovement{Reps: n, Name: strings.TrimSpace(m[2])}, true
		}
	}
	if m := repsMovementRe.FindStringSubmatch(line); m != nil && !unitLeadRe.MatchString(m[2]) {
		if n, ok := atoi(m[1]); ok && n > 0 {
			return RepsMovement{Reps: n, Name: strings.TrimSpace(m[2])}, true
		}
	}
	if m := setsRepsRe.FindStringSubmatch(line); m != nil && !unitLeadRe.MatchString(m[4]) {
		sets, sok := atoi(m[2])
		reps, rok := atoi(m[3])
		if sok && rok && sets > 0 && reps > 0 {
			name := strings.TrimSpace(m[1] + " " + m[4])
			return RepsMovement{Reps: reps, Sets: sets, Name: name}, true
		}
	}
	if m := suffixRepsRe.FindStringSubmatch(line); m != nil {
		if n, ok := atoi(m[2]); ok && n > 0 {
			return RepsMovement{Reps: n, Name: strings.TrimSpace(m[1])}, true
		}
	}
	return RepsMovement{}, false
}

// MatchDurationMovement matches the "duration + movement name" shape, or a
// movement name followed by its duration.
func MatchDurationMovement(line string) (DurationMovement, bool) {
	line = strings.TrimSpace(line)
	if m := durationMovementRe.FindStringSubmatch(line); m != nil {
		if secs, ok := timeToken(m[1], m[2]); ok {
			return DurationMovement{Seconds: secs, Name: strings.TrimSpace(m[3])}, true
		}
	}
	if m := clockMovementRe.FindStringSubmatch(line); m != nil {
		if secs, ok := clockSeconds(m[1]); ok && secs > 0 {
			return DurationMovement{Seconds: secs, Name: strings.TrimSpace(m[2])}, true
		}
	}
	if m := trailingDurationRe.FindStringSubmatch(line); m != nil {
		var secs int
		var ok bool
		if m[2] != "" {
			secs, ok = clockSeconds(m[2])
		} else {
			secs, ok = timeToken(m[3], m[4])
		}
		if ok && secs > 0 {
			return DurationMovement{Seconds: secs, Name: strings.TrimSpace(m[1])}, true
		}
	}
	return DurationMovement{}, false
}

// MatchSlot splits an EMOM minute or buy-in label from the rest of the line.
func MatchSlot(line string) (Slot, bool) {
	m := slotRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil || strings.TrimSpace(m[2]) == "" {
		return Slot{}, false
	}
	label := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
	label = strings.ReplaceAll(label, "buy in", "buy-in")
	label = strings.ReplaceAll(label, "cash out", "cash-out")
	return Slot{Label: label, Rest: strings.TrimSpace(m[2])}, true
}

// LooksLikeMovement reports whether a line has a reps or duration movement shape.
func LooksLikeMovement(line string) bool {
	if _, ok := MatchRepsMovement(line); ok {
		return true
	}
	_, ok := MatchDurationMovement(line)
	return ok
}

// HasQuantity reports whether any load, distance, calorie or percentage appears.
func HasQuantity(line string) bool {
	return weightRe.MatchString(line) ||
		weightPairRe.MatchString(line) ||
		distanceRe.MatchString(line) ||
		caloriesRe.MatchString(line) ||
		percentageRe.MatchString(line)
}
