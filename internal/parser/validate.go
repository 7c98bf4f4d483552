package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	typeWeight           = 0.4
	identificationWeight = 0.6
	lowMatchScore        = 60
)

// confidenceLevels maps a score to its level; boundaries are inclusive lower
// bounds in strictly decreasing order.
var confidenceLevels = []struct {
	min   int
	level ConfidenceLevel
}{
	{90, Perfect},
	{70, High},
	{40, Medium},
	{0, Low},
}

// LevelFor maps a 0–100 score to its confidence level.
func LevelFor(score int) ConfidenceLevel {
	for _, c := range confidenceLevels {
		if score >= c.min {
			return c.level
		}
	}
	return Low
}

// QuickValidate checks structural emptiness without running the pipeline.
func QuickValidate(text string) []Issue {
	if strings.TrimSpace(text) == "" {
		return []Issue{{
			ErrorType: IssueEmptyInput,
			Message:   "workout text is empty",
			Severity:  SeverityError,
		}}
	}
	return nil
}

// EmptyResult is the result for text with nothing to parse.
func EmptyResult(text string) *Result {
	return &Result{
		OriginalText:    text,
		Type:            TypeMatch{Type: ForTime},
		Movements:       []MovementLine{},
		Errors:          QuickValidate(""),
		ConfidenceScore: 0,
		ConfidenceLevel: Low,
		Description:     "",
		IsUsable:        false,
	}
}

// Validate scores a parse and assembles the Result. movements must be aligned
// with doc.Lines; lines that yielded nothing are dropped.
func Validate(doc *Document, match TypeMatch, movements []MovementLine) *Result {
	res := &Result{
		OriginalText:  doc.Original,
		Title:         doc.Title,
		Type:          match,
		WorkoutScheme: doc.WorkoutScheme,
		Movements:     []MovementLine{},
		Errors:        typeIssues(match),
		IsUsable:      strings.TrimSpace(doc.Original) != "",
	}

	identified := 0
	for _, m := range movements {
		if m.empty() {
			continue
		}
		res.Movements = append(res.Movements, m)
		switch {
		case !m.Identified():
			res.Errors = append(res.Errors, Issue{
				ErrorType:  IssueUnresolvedMovement,
				Message:    fmt.Sprintf("movement %q not found in vocabulary", m.Name),
				LineNumber: m.LineNumber,
				Severity:   SeverityWarning,
			})
		case m.MatchScore < lowMatchScore:
			identified++
			res.Errors = append(res.Errors, Issue{
				ErrorType:  IssueLowConfidenceMatch,
				Message:    fmt.Sprintf("%q matched %q with score %d", m.Name, m.MatchedName, m.MatchScore),
				LineNumber: m.LineNumber,
				Severity:   SeverityWarning,
			})
		default:
			identified++
		}
	}

	rate := 0.0
	if len(res.Movements) == 0 {
		res.Errors = append(res.Errors, Issue{
			ErrorType: IssueNoMovements,
			Message:   "no movement lines found",
			Severity:  SeverityWarning,
		})
	} else {
		rate = float64(identified) / float64(len(res.Movements))
	}

	score := int(math.Round(100 * (typeWeight*match.Confidence + identificationWeight*rate)))
	res.ConfidenceScore = min(max(score, 0), 100)
	res.ConfidenceLevel = LevelFor(res.ConfidenceScore)
	res.Description = describe(res)
	return res
}

func typeIssues(match TypeMatch) []Issue {
	var issues []Issue
	if match.Matched == "" {
		issues = append(issues, Issue{
			ErrorType: IssueMissingTypeMarker,
			Message:   "no workout type marker found; assuming for time",
			Severity:  SeverityWarning,
		})
	}
	if (match.Type == Amrap || match.Type == Emom) && match.TimeCapSeconds == nil {
		issues = append(issues, Issue{
			ErrorType: IssueMissingTimeCap,
			Message:   fmt.Sprintf("%s has no duration", strings.ToUpper(string(match.Type))),
			Severity:  SeverityWarning,
		})
	}
	if match.Err != "" {
		issues = append(issues, Issue{
			ErrorType: IssueAmbiguousInterval,
			Message:   match.Err,
			Severity:  SeverityWarning,
		})
	}
	return issues
}

// formatSeconds renders 600 as "10 min", 90 as "1:30" and 45 as "45 sec".
func formatSeconds(secs int) string {
	switch {
	case secs >= 60 && secs%60 == 0:
		return strconv.Itoa(secs/60) + " min"
	case secs > 60:
		return fmt.Sprintf("%d:%02d", secs/60, secs%60)
	default:
		return strconv.Itoa(secs) + " sec"
	}
}

func describe(r *Result) string {
	var b strings.Builder
	t := r.Type

	switch t.Type {
	case Amrap:
		if t.TimeCapSeconds != nil {
			b.WriteString(formatSeconds(*t.TimeCapSeconds) + " ")
		}
		b.WriteString("AMRAP")
	case Emom:
		if t.IntervalSeconds != nil && *t.IntervalSeconds != 60 {
			b.WriteString("Every " + formatSeconds(*t.IntervalSeconds))
		} else {
			b.WriteString("EMOM")
		}
		if t.TimeCapSeconds != nil {
			b.WriteString(" for " + formatSeconds(*t.TimeCapSeconds))
		}
	case Intervals:
		if t.Rounds != nil {
			fmt.Fprintf(&b, "%d rounds", *t.Rounds)
		} else {
			b.WriteString("Intervals")
		}
		if t.WorkSeconds != nil && t.RestSeconds != nil {
			fmt.Fprintf(&b, " of %s work / %s rest", formatSeconds(*t.WorkSeconds), formatSeconds(*t.RestSeconds))
		}
	case Rounds:
		if t.Rounds != nil {
			fmt.Fprintf(&b, "%d rounds", *t.Rounds)
		} else {
			b.WriteString("Rounds")
		}
	default:
		if t.Rounds != nil {
			fmt.Fprintf(&b, "%d rounds for time", *t.Rounds)
		} else {
			b.WriteString("For time")
		}
	}

	if r.WorkoutScheme != nil {
		b.WriteString(" (" + r.WorkoutScheme.String() + ")")
	} else if t.Scheme != nil {
		b.WriteString(" (" + t.Scheme.String() + ")")
	}
	if t.TimeCapSeconds != nil && (t.Type == ForTime || t.Type == Rounds) {
		b.WriteString(", " + formatSeconds(*t.TimeCapSeconds) + " cap")
	}

	if len(r.Movements) > 0 {
		b.WriteString(": ")
		for i, m := range r.Movements {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(describeMovement(m))
		}
	}
	return b.String()
}

func describeMovement(m MovementLine) string {
	name := m.Name
	if m.MatchedName != "" {
		name = m.MatchedName
	}
	var parts []string
	if m.Slot != "" {
		parts = append(parts, m.Slot+":")
	}
	switch {
	case m.Reps != nil:
		parts = append(parts, strconv.Itoa(*m.Reps))
	case m.DurationSeconds != nil:
		parts = append(parts, formatSeconds(*m.DurationSeconds))
	}
	if m.Distance != nil {
		parts = append(parts, strconv.FormatFloat(m.Distance.Value, 'f', -1, 64)+string(m.Distance.Unit))
	}
	if m.CaloriePair != nil {
		parts = append(parts, fmt.Sprintf("%d/%d cal", m.CaloriePair.Male, m.CaloriePair.Female))
	} else if m.Calories != nil {
		parts = append(parts, fmt.Sprintf("%d cal", m.Calories.Value))
	}
	if name != "" {
		parts = append(parts, name)
	}
	if m.WeightPair != nil {
		parts = append(parts, fmt.Sprintf("(%s/%s %s)",
			strconv.FormatFloat(m.WeightPair.Male, 'f', -1, 64),
			strconv.FormatFloat(m.WeightPair.Female, 'f', -1, 64),
			m.WeightPair.Unit))
	} else if m.Weight != nil {
		parts = append(parts, fmt.Sprintf("(%s %s)", strconv.FormatFloat(m.Weight.Value, 'f', -1, 64), m.Weight.Unit))
	}
	return strings.Join(parts, " ")
}
