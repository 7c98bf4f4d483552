package patterns

import (
	"regexp"
	"strings"
)

// WeightUnit tags a load value.
type WeightUnit string

const (
	Pounds    WeightUnit = "lb"
	Kilograms WeightUnit = "kg"
	Pood      WeightUnit = "pood"
)

// DistanceUnit tags a distance value.
type DistanceUnit string

const (
	Meters     DistanceUnit = "m"
	Kilometers DistanceUnit = "km"
	Miles      DistanceUnit = "mi"
	Feet       DistanceUnit = "ft"
	Yards      DistanceUnit = "yd"
)

// Weight is a single load, e.g. "135 lb".
type Weight struct {
	Value   float64    `json:"value"`
	Unit    WeightUnit `json:"unit"`
	Matched string     `json:"-"`
}

// WeightPair is an RX male/female load, e.g. "95/65 lb".
type WeightPair struct {
	Male    float64    `json:"male"`
	Female  float64    `json:"female"`
	Unit    WeightUnit `json:"unit"`
	Matched string     `json:"-"`
}

// Distance is a distance with unit, e.g. "400m".
type Distance struct {
	Value   float64      `json:"value"`
	Unit    DistanceUnit `json:"unit"`
	Matched string       `json:"-"`
}

// Meters converts the distance to meters.
func (d Distance) Meters() float64 {
	switch d.Unit {
	case Kilometers:
		return d.Value * 1000
	case Miles:
		return d.Value * 1609.344
	case Feet:
		return d.Value * 0.3048
	case Yards:
		return d.Value * 0.9144
	default:
		return d.Value
	}
}

// Calories is a single calorie target, e.g. "15 cal".
type Calories struct {
	Value   int    `json:"value"`
	Matched string `json:"-"`
}

// CaloriePair is a male/female calorie target, e.g. "15/12 cal".
type CaloriePair struct {
	Male    int    `json:"male"`
	Female  int    `json:"female"`
	Matched string `json:"-"`
}

// PercentageLoad is a load relative to a max, e.g. "@ 75% 1RM".
type PercentageLoad struct {
	Percent   float64 `json:"percent"`
	Reference string  `json:"reference,omitempty"`
	Matched   string  `json:"-"`
}

// ClockTime is a mm:ss literal.
type ClockTime struct {
	Seconds int
	Matched string
}

// Duration is a length of time in seconds, e.g. "30 sec" or "1:30".
type Duration struct {
	Seconds int
	Matched string
}

// Height is a box/target height, e.g. `24/20"`.
type Height struct {
	Male    float64 `json:"male"`
	Female  float64 `json:"female,omitempty"`
	Unit    string  `json:"unit"`
	Matched string  `json:"-"`
}

// Marker is the free-form height/hold annotation of a movement line.
type Marker struct {
	Text   string
	Height *Height
	Hold   bool
}

var (
	// weightRe matches: 135 lb, 24kg, 1.5 pood, 95#
	weightRe = regexp.MustCompile(`(?i)(` + numExpr + `)\s*(?:(` + weightUnits + `)\b|(#))`)

	// weightPairRe matches: 95/65 lb, 24/16kg, 135 lb/95 lb, 50/35#
	weightPairRe = regexp.MustCompile(`(?i)(` + numExpr + `)\s*(?:lbs?|kgs?|#)?\s*/\s*(` + numExpr + `)\s*(?:(` + weightUnits + `)\b|(#))`)

	// weightPairParenRe matches a bare RX pair in parentheses: (95/65)
	weightPairParenRe = regexp.MustCompile(`\(\s*(` + numExpr + `)\s*/\s*(` + numExpr + `)\s*\)`)

	// distanceRe matches: 400m, 1 mile, 2.5 km, 50 ft
	distanceRe = regexp.MustCompile(`(?i)(` + numExpr + `)\s*(` + distanceUnits + `)\b`)

	// caloriesRe matches: 15 cal, 20 calories
	caloriesRe = regexp.MustCompile(`(?i)(\d+)\s*(?:cals?|calories?)\b`)

	// caloriePairRe matches: 15/12 cal
	caloriePairRe = regexp.MustCompile(`(?i)(\d+)\s*/\s*(\d+)\s*(?:cals?|calories?)\b`)

	// percentageRe matches: @ 75%, 80% of 1RM, 70% max
	percentageRe = regexp.MustCompile(`(?i)@?\s*(` + numExpr + `)\s*%(?:\s*(?:of\s+)?(1\s*rm|rm|max|bw|bodyweight)\b)?`)

	// clockRe matches: 12:00, 1:30
	clockRe = regexp.MustCompile(`\b(` + clockExpr + `)\b`)

	// durationRe matches: 30 sec, 2 min, 1.5 minutes, 1 hour, 20-min
	durationRe = regexp.MustCompile(`(?i)(` + numExpr + `)\s*-?\s*(hours?|hrs?|minutes?|mins?|min|` + secondUnits + `)\b`)

	// heightRe matches: 24", 24/20", 30 in, 20 inch, 60 cm
	heightRe = regexp.MustCompile(`(?i)(` + numExpr + `)(?:\s*/\s*(` + numExpr + `))?\s*(?:("|'')|(inch(?:es)?|in|cm)\b)`)

	// holdRe matches a static-hold annotation.
	holdRe = regexp.MustCompile(`(?i)\b(hold|holds|hang)\b`)

	// modifierRe matches execution qualifiers that are not part of a movement name.
	modifierRe = regexp.MustCompile(`(?i)\(?\b(each\s+(?:side|arm|leg|way|direction)|per\s+(?:side|arm|leg|hand)|alternating|unbroken|e/s)\b\)?`)
)

func weightUnitOf(unit, hash string) WeightUnit {
	if hash != "" {
		return Pounds
	}
	u := strings.ToLower(unit)
	switch {
	case strings.HasPrefix(u, "k"):
		return Kilograms
	case strings.HasPrefix(u, "pood"):
		return Pood
	default:
		return Pounds
	}
}

func distanceUnitOf(unit string) DistanceUnit {
	u := strings.ToLower(unit)
	switch {
	case u == "km" || strings.HasPrefix(u, "kilo"):
		return Kilometers
	case u == "mi" || strings.HasPrefix(u, "mile"):
		return Miles
	case u == "ft" || u == "feet":
		return Feet
	case strings.HasPrefix(u, "y"):
		return Yards
	default:
		return Meters
	}
}

// FindWeight returns the first single load on the line.
func FindWeight(line string) (Weight, bool) {
	m := weightRe.FindStringSubmatch(line)
	if m == nil {
		return Weight{}, false
	}
	v, ok := atof(m[1])
	if !ok {
		return Weight{}, false
	}
	return Weight{Value: v, Unit: weightUnitOf(m[2], m[3]), Matched: m[0]}, true
}

// FindWeightPair returns the first male/female load pair on the line. A bare
// parenthesized pair such as "(95/65)" defaults to pounds.
func FindWeightPair(line string) (WeightPair, bool) {
	if m := weightPairRe.FindStringSubmatch(line); m != nil {
		male, ok1 := atof(m[1])
		female, ok2 := atof(m[2])
		if ok1 && ok2 {
			return WeightPair{Male: male, Female: female, Unit: weightUnitOf(m[3], m[4]), Matched: m[0]}, true
		}
	}
	if m := weightPairParenRe.FindStringSubmatch(line); m != nil {
		male, ok1 := atof(m[1])
		female, ok2 := atof(m[2])
		if ok1 && ok2 {
			// Keep the parentheses out of Matched so cleanup leaves "()" to collapse.
			inner := strings.TrimSuffix(strings.TrimPrefix(m[0], "("), ")")
			return WeightPair{Male: male, Female: female, Unit: Pounds, Matched: strings.TrimSpace(inner)}, true
		}
	}
	return WeightPair{}, false
}

// FindDistance returns the first distance on the line.
func FindDistance(line string) (Distance, bool) {
	m := distanceRe.FindStringSubmatch(line)
	if m == nil {
		return Distance{}, false
	}
	v, ok := atof(m[1])
	if !ok {
		return Distance{}, false
	}
	return Distance{Value: v, Unit: distanceUnitOf(m[2]), Matched: m[0]}, true
}

// FindCalories returns the first single calorie target on the line.
func FindCalories(line string) (Calories, bool) {
	m := caloriesRe.FindStringSubmatch(line)
	if m == nil {
		return Calories{}, false
	}
	v, ok := atoi(m[1])
	if !ok {
		return Calories{}, false
	}
	return Calories{Value: v, Matched: m[0]}, true
}

// FindCaloriePair returns the first male/female calorie pair on the line.
func FindCaloriePair(line string) (CaloriePair, bool) {
	m := caloriePairRe.FindStringSubmatch(line)
	if m == nil {
		return CaloriePair{}, false
	}
	male, ok1 := atoi(m[1])
	female, ok2 := atoi(m[2])
	if !ok1 || !ok2 {
		return CaloriePair{}, false
	}
	return CaloriePair{Male: male, Female: female, Matched: m[0]}, true
}

// FindPercentage returns the first percentage-of-max load on the line.
func FindPercentage(line string) (PercentageLoad, bool) {
	m := percentageRe.FindStringSubmatch(line)
	if m == nil {
		return PercentageLoad{}, false
	}
	v, ok := atof(m[1])
	if !ok {
		return PercentageLoad{}, false
	}
	ref := strings.ToLower(strings.ReplaceAll(m[2], " ", ""))
	return PercentageLoad{Percent: v, Reference: ref, Matched: strings.TrimSpace(m[0])}, true
}

// FindClockTime returns the first mm:ss literal on the line.
func FindClockTime(line string) (ClockTime, bool) {
	m := clockRe.FindStringSubmatch(line)
	if m == nil {
		return ClockTime{}, false
	}
	secs, ok := clockSeconds(m[1])
	if !ok {
		return ClockTime{}, false
	}
	return ClockTime{Seconds: secs, Matched: m[0]}, true
}

// FindDuration returns the leftmost duration on the line, either a number with a
// time unit or a clock literal.
func FindDuration(line string) (Duration, bool) {
	var best Duration
	bestAt := -1

	if loc := durationRe.FindStringSubmatchIndex(line); loc != nil {
		value := line[loc[2]:loc[3]]
		unit := line[loc[4]:loc[5]]
		if secs, ok := timeToken(value, unit); ok {
			best = Duration{Seconds: secs, Matched: line[loc[0]:loc[1]]}
			bestAt = loc[0]
		}
	}
	if loc := clockRe.FindStringSubmatchIndex(line); loc != nil && (bestAt < 0 || loc[0] < bestAt) {
		if secs, ok := clockSeconds(line[loc[2]:loc[3]]); ok {
			best = Duration{Seconds: secs, Matched: line[loc[0]:loc[1]]}
			bestAt = loc[0]
		}
	}
	return best, bestAt >= 0
}

// FindMarker returns the height or hold annotation of a line. Height wins when
// both are present since it carries a measurable value.
func FindMarker(line string) (Marker, bool) {
	if m := heightRe.FindStringSubmatch(line); m != nil {
		male, ok := atof(m[1])
		if ok {
			h := &Height{Male: male, Unit: "in", Matched: m[0]}
			if m[2] != "" {
				if female, ok := atof(m[2]); ok {
					h.Female = female
				}
			}
			if strings.EqualFold(m[4], "cm") {
				h.Unit = "cm"
			}
			return Marker{Text: strings.TrimSpace(m[0]), Height: h}, true
		}
	}
	if m := holdRe.FindString(line); m != "" {
		return Marker{Text: strings.ToLower(m), Hold: true}, true
	}
	return Marker{}, false
}

// FindModifier returns an execution qualifier such as "each side" or "unbroken".
// The second return value is the literal text to strip from the movement name.
func FindModifier(line string) (modifier, matched string, ok bool) {
	m := modifierRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(strings.Join(strings.Fields(m[1]), " ")), m[0], true
}
