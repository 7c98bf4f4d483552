package parser

import (
	"fmt"
	"strings"

	"github.com/meltforce/wodparse/internal/parser/patterns"
)

const (
	tabataWorkSeconds = 20
	tabataRestSeconds = 10
	tabataRounds      = 8

	confidenceExplicit = 1.0
	confidenceRounds   = 0.9
	confidenceChipper  = 0.8
	confidenceDefault  = 0.5
)

// detector returns a match when its marker is present anywhere in the document.
type detector func(doc *Document, lines []string) (TypeMatch, bool)

// detectors run in priority order; the first match wins. EMOM must stay ahead of
// the interval and For Time checks, and Tabata ahead of AMRAP.
var detectors = []detector{
	detectTabata,
	detectAmrap,
	detectEmom,
	detectInterval,
	detectForTime,
	detectRounds,
	detectChipper,
}

// DetectWorkoutType classifies the document. It never fails: without any marker
// it falls back to For Time with low confidence.
func DetectWorkoutType(doc *Document) TypeMatch {
	lines := strings.Split(doc.Text, "\n")

	match := TypeMatch{Type: ForTime, Confidence: confidenceDefault, TimeCapSeconds: findTimeCap(lines)}
	for _, d := range detectors {
		if m, ok := d(doc, lines); ok {
			match = m
			break
		}
	}

	if match.Type != Intervals {
		for _, l := range lines {
			if patterns.IsDistanceRepeat(l) && strings.Contains(strings.ToLower(l), "rest") {
				match.Err = fmt.Sprintf("%q repeats a distance; not read as timed intervals", l)
				break
			}
		}
	}
	return match
}

func findTimeCap(lines []string) *int {
	for _, l := range lines {
		if c, ok := patterns.MatchTimeCap(l); ok {
			return intPtr(c.Seconds)
		}
	}
	return nil
}

func detectTabata(_ *Document, lines []string) (TypeMatch, bool) {
	for _, l := range lines {
		if marker, ok := patterns.MatchTabata(l); ok {
			interval := tabataWorkSeconds + tabataRestSeconds
			return TypeMatch{
				Type:            Intervals,
				TimeCapSeconds:  intPtr(interval * tabataRounds),
				Rounds:          intPtr(tabataRounds),
				IntervalSeconds: intPtr(interval),
				WorkSeconds:     intPtr(tabataWorkSeconds),
				RestSeconds:     intPtr(tabataRestSeconds),
				Confidence:      confidenceExplicit,
				Matched:         marker,
			}, true
		}
	}
	return TypeMatch{}, false
}

func detectAmrap(_ *Document, lines []string) (TypeMatch, bool) {
	for _, l := range lines {
		a, ok := patterns.MatchAmrap(l)
		if !ok {
			continue
		}
		m := TypeMatch{Type: Amrap, Confidence: confidenceExplicit, Matched: a.Matched}
		if a.DurationSeconds > 0 {
			m.TimeCapSeconds = intPtr(a.DurationSeconds)
		} else {
			m.TimeCapSeconds = findTimeCap(lines)
		}
		return m, true
	}
	return TypeMatch{}, false
}

func detectEmom(_ *Document, lines []string) (TypeMatch, bool) {
	for _, l := range lines {
		e, ok := patterns.MatchEmom(l)
		if !ok {
			continue
		}
		m := TypeMatch{
			Type:            Emom,
			IntervalSeconds: intPtr(e.IntervalSeconds),
			Confidence:      confidenceExplicit,
			Matched:         e.Matched,
		}
		if e.DurationSeconds > 0 {
			m.TimeCapSeconds = intPtr(e.DurationSeconds)
		}
		if e.Rounds > 0 {
			m.Rounds = intPtr(e.Rounds)
		}
		return m, true
	}
	return TypeMatch{}, false
}

func detectInterval(_ *Document, lines []string) (TypeMatch, bool) {
	for _, l := range lines {
		if patterns.IsDistanceRepeat(l) {
			continue
		}
		c, ok := patterns.MatchInterval(l)
		if !ok {
			continue
		}
		return TypeMatch{
			Type:            Intervals,
			TimeCapSeconds:  intPtr(c.Rounds * c.IntervalSeconds()),
			Rounds:          intPtr(c.Rounds),
			IntervalSeconds: intPtr(c.IntervalSeconds()),
			WorkSeconds:     intPtr(c.WorkSeconds),
			RestSeconds:     intPtr(c.RestSeconds),
			Confidence:      confidenceExplicit,
			Matched:         c.Matched,
		}, true
	}
	return TypeMatch{}, false
}

func detectForTime(_ *Document, lines []string) (TypeMatch, bool) {
	for _, l := range lines {
		f, ok := patterns.MatchForTime(l)
		if !ok {
			continue
		}
		m := TypeMatch{
			Type:           ForTime,
			TimeCapSeconds: findTimeCap(lines),
			Confidence:     confidenceExplicit,
			Matched:        f.Matched,
		}
		if f.Rounds > 0 {
			m.Rounds = intPtr(f.Rounds)
		} else if rc := findRoundCount(lines); rc > 0 {
			m.Rounds = intPtr(rc)
		}
		return m, true
	}
	return TypeMatch{}, false
}

func findRoundCount(lines []string) int {
	for _, l := range lines {
		if rc, ok := patterns.MatchRoundCount(l); ok {
			return rc.Rounds
		}
	}
	return 0
}

func detectRounds(_ *Document, lines []string) (TypeMatch, bool) {
	for _, l := range lines {
		rc, ok := patterns.MatchRoundCount(l)
		if !ok {
			continue
		}
		return TypeMatch{
			Type:           Rounds,
			TimeCapSeconds: findTimeCap(lines),
			Rounds:         intPtr(rc.Rounds),
			Confidence:     confidenceRounds,
			Matched:        rc.Matched,
		}, true
	}
	return TypeMatch{}, false
}

func detectChipper(doc *Document, lines []string) (TypeMatch, bool) {
	scheme := doc.WorkoutScheme
	if scheme == nil {
		for _, l := range lines {
			if s, ok := patterns.MatchChipperLine(l); ok {
				scheme = &s
				break
			}
		}
	}
	if scheme == nil {
		return TypeMatch{}, false
	}
	s := *scheme
	return TypeMatch{
		Type:           ForTime,
		TimeCapSeconds: findTimeCap(lines),
		Scheme:         &s,
		Confidence:     confidenceChipper,
		Matched:        s.Matched,
	}, true
}
