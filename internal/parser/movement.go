package parser

import (
	"strconv"
	"strings"

	"github.com/meltforce/wodparse/internal/parser/patterns"
)

// ParseLine extracts reps, quantities and a cleaned movement name from one line.
// It never fails; a line with nothing recognizable yields only its raw name.
func ParseLine(line Line) MovementLine {
	out := MovementLine{Line: line.Text, LineNumber: line.Number}
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return out
	}

	if slot, ok := patterns.MatchSlot(text); ok {
		out.Slot = slot.Label
		text = slot.Rest
	}

	name := text
	if rm, ok := patterns.MatchRepsMovement(text); ok {
		out.Reps = intPtr(rm.Reps)
		out.RepScheme = setsScheme(rm)
		name = rm.Name
	} else if dm, ok := patterns.MatchDurationMovement(text); ok {
		out.DurationSeconds = intPtr(dm.Seconds)
		name = dm.Name
	}

	var strip []string

	if wp, ok := patterns.FindWeightPair(name); ok {
		out.WeightPair = &wp
		strip = append(strip, wp.Matched)
	} else if w, ok := patterns.FindWeight(name); ok {
		out.Weight = &w
		strip = append(strip, w.Matched)
	}

	if cp, ok := patterns.FindCaloriePair(name); ok {
		out.CaloriePair = &cp
		strip = append(strip, cp.Matched)
	} else if c, ok := patterns.FindCalories(name); ok {
		out.Calories = &c
		strip = append(strip, c.Matched)
	}

	if d, ok := patterns.FindDistance(withoutAll(name, strip)); ok {
		out.Distance = &d
		strip = append(strip, d.Matched)
	}

	if p, ok := patterns.FindPercentage(name); ok {
		out.Percentage = &p
		strip = append(strip, p.Matched)
	}

	if mk, ok := patterns.FindMarker(withoutAll(name, strip)); ok {
		out.Marker = mk.Text
		if mk.Height != nil {
			out.Height = mk.Height
			strip = append(strip, mk.Height.Matched)
		}
	}

	if mod, matched, ok := patterns.FindModifier(name); ok {
		out.Modifier = mod
		strip = append(strip, matched)
	}

	out.Name = cleanName(withoutAll(name, strip))
	return out
}

// maxSets bounds the sets of "NxM" notation expanded into a scheme.
const maxSets = 20

// setsScheme expands "5x5" into the fixed scheme 5-5-5-5-5.
func setsScheme(rm patterns.RepsMovement) *patterns.RepScheme {
	if rm.Sets < 2 || rm.Sets > maxSets {
		return nil
	}
	reps := make([]int, rm.Sets)
	for i := range reps {
		reps[i] = rm.Reps
	}
	s, ok := patterns.NewRepScheme(reps, strconv.Itoa(rm.Sets)+"x"+strconv.Itoa(rm.Reps))
	if !ok {
		return nil
	}
	return &s
}

// withoutAll removes the first occurrence of every matched substring.
func withoutAll(s string, matched []string) string {
	for _, m := range matched {
		if m == "" {
			continue
		}
		s = strings.Replace(s, m, " ", 1)
	}
	return s
}

// cleanName collapses whitespace, drops empty brackets and trims dangling separators.
func cleanName(s string) string {
	for {
		next := emptyParensRe.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,;:-@/+")
	s = strings.TrimSuffix(s, " of")
	s = strings.TrimSuffix(s, " x")
	return strings.TrimSpace(s)
}
