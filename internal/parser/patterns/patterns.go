// Package patterns holds the compiled lexical matchers used by the workout parser.
//
// Every matcher is a pure function of a single line and returns a typed result plus
// an ok flag. Matchers never panic: a numeric literal that fails to convert is
// treated as "no match".
package patterns

import (
	"math"
	"strconv"
	"strings"
)

// Shared sub-expressions. Kept as strings so the compiled table below reads like
// the conventions it recognizes.
const (
	numExpr       = `\d+(?:\.\d+)?`
	clockExpr     = `\d{1,2}:[0-5]\d`
	minuteUnits   = `minutes?|mins?|min|m`
	secondUnits   = `seconds?|secs?|sec|s`
	weightUnits   = `lbs?|pounds?|kgs?|kilos?|kilograms?|poods?`
	distanceUnits = `km|kilometers?|kilometres?|miles?|mi|meters?|metres?|m|feet|ft|yards?|yds?`
	schemeExpr    = `\d+(?:\s*-\s*\d+)+`
)

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func atof(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// clockSeconds converts "12:00" or "1:30" (minutes:seconds) to seconds.
func clockSeconds(s string) (int, bool) {
	mins, secs, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	m, ok := atoi(mins)
	if !ok {
		return 0, false
	}
	sec, ok := atoi(secs)
	if !ok || sec >= 60 {
		return 0, false
	}
	return m*60 + sec, true
}

// unitSeconds converts a value with a time unit to seconds. An empty unit is
// treated as minutes, which is how bare numbers read next to AMRAP/EMOM/cap.
func unitSeconds(value float64, unit string) int {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch {
	case u == "":
		return int(math.Round(value * 60))
	case strings.HasPrefix(u, "h"):
		return int(math.Round(value * 3600))
	case strings.HasPrefix(u, "s"):
		return int(math.Round(value))
	default:
		return int(math.Round(value * 60))
	}
}

// timeToken parses either a clock literal or a number with an optional time unit.
func timeToken(value, unit string) (int, bool) {
	if strings.Contains(value, ":") {
		return clockSeconds(value)
	}
	v, ok := atof(value)
	if !ok || v <= 0 {
		return 0, false
	}
	return unitSeconds(v, unit), true
}
