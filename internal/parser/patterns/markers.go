package patterns

import (
	"regexp"
	"strings"
)

const (
	timeUnits = `hours?|hrs?|` + minuteUnits + `|` + secondUnits
	// Interval tokens never accept a bare "m"; "400m" is a distance.
	intervalTimeExpr = clockExpr + `|` + numExpr + `\s*-?\s*(?:minutes?|mins?|min|` + secondUnits + `)\b`
)

// AmrapMarker is an AMRAP with its optional duration.
type AmrapMarker struct {
	DurationSeconds int // 0 when the text gives no duration
	Matched         string
}

// EmomMarker is an EMOM-family marker. IntervalSeconds defaults to 60.
type EmomMarker struct {
	IntervalSeconds int
	DurationSeconds int
	Rounds          int
	Matched         string
}

// IntervalConfig is a rounds x work/rest prescription.
type IntervalConfig struct {
	Rounds      int    `json:"rounds"`
	WorkSeconds int    `json:"work_seconds"`
	RestSeconds int    `json:"rest_seconds"`
	Matched     string `json:"-"`
}

// IntervalSeconds is the length of one work+rest interval.
func (c IntervalConfig) IntervalSeconds() int {
	return c.WorkSeconds + c.RestSeconds
}

// ForTimeMarker is a "For Time" marker with its optional leading round count.
type ForTimeMarker struct {
	Rounds  int
	Matched string
}

// TimeCap is an explicit cap on a workout.
type TimeCap struct {
	Seconds int
	Matched string
}

// RoundCount is a number of rounds, e.g. "5 rounds".
type RoundCount struct {
	Rounds  int
	Matched string
}

var (
	// tabataRe matches: Tabata, tabata squats
	tabataRe = regexp.MustCompile(`(?i)\btabata\b`)

	// amrapRe matches: AMRAP, As many rounds as possible, as many rounds and reps as possible
	amrapRe = regexp.MustCompile(`(?i)\b(?:amrap|as\s+many\s+(?:rounds|reps)(?:\s*(?:and|or|\+|/)\s*reps)?\s+as\s+possible)\b`)

	// emomRe matches: EMOM, E2MOM, OTM, every minute on the minute, every 2 minutes, every 1:30
	emomRe = regexp.MustCompile(`(?i)\b(?:e(\d+)?mom|emotm|otm|every\s+minute(?:\s+on\s+the\s+minute)?|every\s+(?:(` + clockExpr + `)|(` + numExpr + `)\s*-?\s*(minutes?|mins?|min|` + secondUnits + `)\b))`)

	// leadDurationRe matches the end of the text before a marker: "20 min ", "10-minute "
	leadDurationRe = regexp.MustCompile(`(?i)(?:^|[\s(])(?:(` + clockExpr + `)|(` + numExpr + `)\s*-?\s*(` + timeUnits + `))\.?\s*-?\s*$`)

	// leadBareRe matches a bare number that is the whole text before a marker: "20 AMRAP"
	leadBareRe = regexp.MustCompile(`^\s*(\d+)\s*-?\s*$`)

	// tailDurationRe matches the text after a marker: " 20", " in 12:00", " for 10 minutes"
	tailDurationRe = regexp.MustCompile(`(?i)^\s*[:\-(]?\s*(?:(?:for|in|of)\s+)?(?:(` + clockExpr + `)|(` + numExpr + `)\s*-?\s*(` + timeUnits + `)\b|(\d+)\s*[:.)]?\s*$)`)

	// tailRoundsRe matches an EMOM round count after the marker: " x 10", " for 5 rounds"
	tailRoundsRe = regexp.MustCompile(`(?i)^\s*[:\-(]?\s*(?:x\s*(\d+)\b|(?:for\s+)?(\d+)\s*(?:rounds?|rds?|sets?)\b)`)

	// intervalRe matches: 8 x 3 min on / 1 min off, 5 rounds: 2:00 work, 1:00 rest
	intervalRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:x|rounds?(?:\s+of)?|sets?(?:\s+of)?)\s*[:\-]?\s*(?:work\s*:?\s*)?(` + intervalTimeExpr + `)\s*(?:on|work)?\s*[,/:;\-]?\s*(?:then\s+)?(?:(?:rest|off)\s*:?\s*(` + intervalTimeExpr + `)|(` + intervalTimeExpr + `)\s*(?:off|rest)\b)`)

	// intervalTokenRe splits a single interval token into value and unit.
	intervalTokenRe = regexp.MustCompile(`(?i)^(` + numExpr + `)\s*-?\s*([a-z]*)$`)

	// distanceRepeatRe matches: 5 x 400m, 10x100 m
	distanceRepeatRe = regexp.MustCompile(`(?i)\b(\d+)\s*x\s*` + numExpr + `\s*(?:` + distanceUnits + `)\b`)

	// forTimeRe matches: For Time, 5 rounds for time, 3 RFT
	forTimeRe = regexp.MustCompile(`(?i)(?:\b(\d+)\s*(?:rounds?|rds?|rnds?)\s*,?\s*)?\bfor\s+time\b|\b(?:(\d+)\s*)?rft\b`)

	// timeCapRe matches: Time cap: 20 min, TC 15, cap 12:00
	timeCapRe = regexp.MustCompile(`(?i)\b(?:time\s*cap|tc|cap)\b\s*(?:of\s+)?[:\-=]?\s*(?:(` + clockExpr + `)|(` + numExpr + `)\s*-?\s*(` + timeUnits + `)?\b)`)

	// timeCapLeadRe matches: 20 min cap, 20-minute time cap, 15:00 cap
	timeCapLeadRe = regexp.MustCompile(`(?i)(?:(\b` + clockExpr + `)|\b(` + numExpr + `)\s*-?\s*(` + timeUnits + `))\.?\s*-?\s*(?:time\s*)?cap\b`)

	// roundCountRe matches: 5 rounds, 3 rds, 4 RFT
	roundCountRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:rounds?|rds?|rnds?|rft)\b`)

	// roundsLabelRe matches: Rounds: 5
	roundsLabelRe = regexp.MustCompile(`(?i)\brounds?\s*[:\-]\s*(\d+)\b`)

	// bareRoundLineRe matches a line that only announces a round count: "5 Rounds", "3 rounds of:"
	bareRoundLineRe = regexp.MustCompile(`(?i)^(?:complete\s+|do\s+)?(\d+)\s*(?:rounds?|rds?|rnds?)(?:\s+(?:of|for\s+time(?:\s+of)?))?\s*[:.]?$`)

	// restNoteRe matches: Rest 2:00, rest 1 min between rounds
	restNoteRe = regexp.MustCompile(`(?i)^(?:then\s+)?rest\b`)

	wordRe = regexp.MustCompile(`[a-z]+`)
)

// markerFillers are the words a header line may carry besides its markers.
var markerFillers = map[string]bool{
	"of": true, "for": true, "in": true, "on": true, "the": true, "with": true,
	"then": true, "and": true, "complete": true, "do": true, "reps": true, "rep": true,
	"rounds": true, "round": true, "min": true, "mins": true, "minute": true, "minutes": true,
	"sec": true, "secs": true, "second": true, "seconds": true, "time": true, "workout": true,
	"wod": true, "x": true, "a": true, "as": true, "possible": true, "many": true, "total": true,
	"between": true, "rest": true, "each": true, "every": true, "m": true, "s": true,
}

// MatchTabata reports the Tabata marker.
func MatchTabata(line string) (string, bool) {
	m := tabataRe.FindString(line)
	return m, m != ""
}

// leadingDuration reads a duration that immediately precedes a marker.
func leadingDuration(before string) int {
	if m := leadDurationRe.FindStringSubmatch(before); m != nil {
		if m[1] != "" {
			secs, _ := clockSeconds(m[1])
			return secs
		}
		secs, _ := timeToken(m[2], m[3])
		return secs
	}
	if m := leadBareRe.FindStringSubmatch(before); m != nil {
		secs, _ := timeToken(m[1], "")
		return secs
	}
	return 0
}

// trailingDuration reads a duration that immediately follows a marker. A bare
// number only counts at the end of the line so "AMRAP 5 Pull-ups" has none.
func trailingDuration(after string) int {
	m := tailDurationRe.FindStringSubmatch(after)
	if m == nil {
		return 0
	}
	switch {
	case m[1] != "":
		secs, _ := clockSeconds(m[1])
		return secs
	case m[2] != "":
		secs, _ := timeToken(m[2], m[3])
		return secs
	case m[4] != "":
		secs, _ := timeToken(m[4], "")
		return secs
	}
	return 0
}

// MatchAmrap reports an AMRAP marker and its duration: "20 min AMRAP", "AMRAP 20",
// "AMRAP in 12:00".
func MatchAmrap(line string) (AmrapMarker, bool) {
	loc := amrapRe.FindStringIndex(line)
	if loc == nil {
		return AmrapMarker{}, false
	}
	out := AmrapMarker{Matched: line[loc[0]:loc[1]]}
	if secs := leadingDuration(line[:loc[0]]); secs > 0 {
		out.DurationSeconds = secs
	} else if secs := trailingDuration(line[loc[1]:]); secs > 0 {
		out.DurationSeconds = secs
	}
	return out, true
}

// MatchEmom reports an EMOM-family marker with its interval, duration and rounds.
// When only two of the three are given, the third is derived.
func MatchEmom(line string) (EmomMarker, bool) {
	m := emomRe.FindStringSubmatchIndex(line)
	if m == nil {
		return EmomMarker{}, false
	}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return line[m[2*i]:m[2*i+1]]
	}

	out := EmomMarker{IntervalSeconds: 60, Matched: line[m[0]:m[1]]}
	switch {
	case group(1) != "":
		// E2MOM: every 2 minutes
		if n, ok := atoi(group(1)); ok && n > 0 {
			out.IntervalSeconds = n * 60
		}
	case group(2) != "":
		if secs, ok := clockSeconds(group(2)); ok && secs > 0 {
			out.IntervalSeconds = secs
		}
	case group(3) != "":
		if secs, ok := timeToken(group(3), group(4)); ok && secs > 0 {
			out.IntervalSeconds = secs
		}
	}

	before, after := line[:m[0]], line[m[1]:]
	if r := tailRoundsRe.FindStringSubmatch(after); r != nil {
		n := r[1]
		if n == "" {
			n = r[2]
		}
		if rounds, ok := atoi(n); ok {
			out.Rounds = rounds
		}
	}
	if out.Rounds == 0 {
		if secs := leadingDuration(before); secs > 0 {
			out.DurationSeconds = secs
		} else if secs := trailingDuration(after); secs > 0 {
			out.DurationSeconds = secs
		}
	}

	switch {
	case out.Rounds > 0 && out.DurationSeconds == 0:
		out.DurationSeconds = out.Rounds * out.IntervalSeconds
	case out.DurationSeconds > 0 && out.Rounds == 0:
		out.Rounds = out.DurationSeconds / out.IntervalSeconds
	}
	return out, true
}

func intervalTokenSeconds(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if strings.Contains(tok, ":") {
		return clockSeconds(tok)
	}
	m := intervalTokenRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	return timeToken(m[1], m[2])
}

// MatchInterval reports a rounds x work/rest prescription.
func MatchInterval(line string) (IntervalConfig, bool) {
	m := intervalRe.FindStringSubmatch(line)
	if m == nil {
		return IntervalConfig{}, false
	}
	rounds, ok := atoi(m[1])
	if !ok || rounds <= 0 {
		return IntervalConfig{}, false
	}
	work, ok := intervalTokenSeconds(m[2])
	if !ok {
		return IntervalConfig{}, false
	}
	restTok := m[3]
	if restTok == "" {
		restTok = m[4]
	}
	rest, ok := intervalTokenSeconds(restTok)
	if !ok {
		return IntervalConfig{}, false
	}
	return IntervalConfig{Rounds: rounds, WorkSeconds: work, RestSeconds: rest, Matched: m[0]}, true
}

// IsDistanceRepeat reports a pure distance repeat such as "5 x 400m".
func IsDistanceRepeat(line string) bool {
	return distanceRepeatRe.MatchString(line)
}

// MatchForTime reports a For Time marker.
func MatchForTime(line string) (ForTimeMarker, bool) {
	m := forTimeRe.FindStringSubmatch(line)
	if m == nil {
		return ForTimeMarker{}, false
	}
	out := ForTimeMarker{Matched: strings.TrimSpace(m[0])}
	n := m[1]
	if n == "" {
		n = m[2]
	}
	if n != "" {
		if rounds, ok := atoi(n); ok {
			out.Rounds = rounds
		}
	}
	return out, true
}

// MatchTimeCap reports an explicit time cap. A cap without unit reads as minutes.
func MatchTimeCap(line string) (TimeCap, bool) {
	if m := timeCapRe.FindStringSubmatch(line); m != nil {
		var secs int
		var ok bool
		if m[1] != "" {
			secs, ok = clockSeconds(m[1])
		} else {
			secs, ok = timeToken(m[2], m[3])
		}
		if ok && secs > 0 {
			return TimeCap{Seconds: secs, Matched: m[0]}, true
		}
	}
	if m := timeCapLeadRe.FindStringSubmatch(line); m != nil {
		var secs int
		var ok bool
		if m[1] != "" {
			secs, ok = clockSeconds(m[1])
		} else {
			secs, ok = timeToken(m[2], m[3])
		}
		if ok && secs > 0 {
			return TimeCap{Seconds: secs, Matched: m[0]}, true
		}
	}
	return TimeCap{}, false
}

// MatchRoundCount reports a round count anywhere on the line.
func MatchRoundCount(line string) (RoundCount, bool) {
	m := roundCountRe.FindStringSubmatch(line)
	if m == nil {
		m = roundsLabelRe.FindStringSubmatch(line)
	}
	if m == nil {
		return RoundCount{}, false
	}
	n, ok := atoi(m[1])
	if !ok || n <= 0 {
		return RoundCount{}, false
	}
	return RoundCount{Rounds: n, Matched: m[0]}, true
}

// IsBareRoundLine reports a line that only announces a round count.
func IsBareRoundLine(line string) bool {
	return bareRoundLineRe.MatchString(strings.TrimSpace(line))
}

// IsRestNote reports a rest instruction line such as "Rest 2:00".
func IsRestNote(line string) bool {
	return restNoteRe.MatchString(strings.TrimSpace(line))
}

// HasTypeMarker reports whether any workout-type or cap marker is present.
func HasTypeMarker(line string) bool {
	return tabataRe.MatchString(line) ||
		amrapRe.MatchString(line) ||
		emomRe.MatchString(line) ||
		intervalRe.MatchString(line) ||
		forTimeRe.MatchString(line) ||
		timeCapRe.MatchString(line) ||
		timeCapLeadRe.MatchString(line)
}

// IsHeaderLine reports a line made only of structural markers: type markers,
// caps, round counts and durations, plus filler words such as "of" or "for".
func IsHeaderLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if IsBareRoundLine(line) || IsRestNote(line) {
		return true
	}
	if !HasTypeMarker(line) && !roundsLabelRe.MatchString(line) {
		return false
	}
	residue := line
	for _, re := range []*regexp.Regexp{
		intervalRe, timeCapRe, timeCapLeadRe, tabataRe, amrapRe, emomRe, forTimeRe,
		roundCountRe, roundsLabelRe, durationRe, clockRe,
	} {
		residue = re.ReplaceAllString(residue, " ")
	}
	for _, w := range wordRe.FindAllString(strings.ToLower(residue), -1) {
		if !markerFillers[w] {
			return false
		}
	}
	return true
}
