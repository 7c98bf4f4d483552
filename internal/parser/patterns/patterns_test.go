package patterns

import (
	"reflect"
	"testing"
)

// TestFindWeightPair verifies RX load pairs in the common notations, including
// the bare parenthesized form that defaults to pounds.
func TestFindWeightPair(t *testing.T) {
	tests := []struct {
		line    string
		male    float64
		female  float64
		unit    WeightUnit
		matched string
	}{
		{"21 Thrusters (95/65 lb)", 95, 65, Pounds, "95/65 lb"},
		{"15 KB Swings 24/16 kg", 24, 16, Kilograms, "24/16 kg"},
		{"10 Thrusters (95/65)", 95, 65, Pounds, "95/65"},
		{"Russian swings 1.5/1 pood", 1.5, 1, Pood, "1.5/1 pood"},
		{"Clean 135/95#", 135, 95, Pounds, "135/95#"},
	}
	for _, tt := range tests {
		got, ok := FindWeightPair(tt.line)
		if !ok {
			t.Errorf("FindWeightPair(%q) did not match", tt.line)
			continue
		}
		if got.Male != tt.male || got.Female != tt.female {
			t.Errorf("FindWeightPair(%q) = %v/%v, want %v/%v", tt.line, got.Male, got.Female, tt.male, tt.female)
		}
		if got.Unit != tt.unit {
			t.Errorf("FindWeightPair(%q).Unit = %q, want %q", tt.line, got.Unit, tt.unit)
		}
		if got.Matched != tt.matched {
			t.Errorf("FindWeightPair(%q).Matched = %q, want %q", tt.line, got.Matched, tt.matched)
		}
	}
}

// TestFindWeight verifies single loads and that a line without a unit has none.
func TestFindWeight(t *testing.T) {
	tests := []struct {
		line  string
		value float64
		unit  WeightUnit
		ok    bool
	}{
		{"5 Deadlifts 225 lb", 225, Pounds, true},
		{"Farmer carry 24kg", 24, Kilograms, true},
		{"Clean 95#", 95, Pounds, true},
		{"21 Thrusters", 0, "", false},
	}
	for _, tt := range tests {
		got, ok := FindWeight(tt.line)
		if ok != tt.ok {
			t.Errorf("FindWeight(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && (got.Value != tt.value || got.Unit != tt.unit) {
			t.Errorf("FindWeight(%q) = %v %s, want %v %s", tt.line, got.Value, got.Unit, tt.value, tt.unit)
		}
	}
}

// TestFindDistance verifies unit normalization for distances.
func TestFindDistance(t *testing.T) {
	tests := []struct {
		line  string
		value float64
		unit  DistanceUnit
	}{
		{"400m Run", 400, Meters},
		{"Run 1 mile", 1, Miles},
		{"2.5 km Row", 2.5, Kilometers},
		{"50 ft Handstand Walk", 50, Feet},
	}
	for _, tt := range tests {
		got, ok := FindDistance(tt.line)
		if !ok {
			t.Errorf("FindDistance(%q) did not match", tt.line)
			continue
		}
		if got.Value != tt.value || got.Unit != tt.unit {
			t.Errorf("FindDistance(%q) = %v %s, want %v %s", tt.line, got.Value, got.Unit, tt.value, tt.unit)
		}
	}
	if _, ok := FindDistance("5 Muscle-ups"); ok {
		t.Error("FindDistance matched a movement name starting with m")
	}
}

// TestFindCalories verifies single and paired calorie targets.
func TestFindCalories(t *testing.T) {
	pair, ok := FindCaloriePair("15/12 cal Row")
	if !ok || pair.Male != 15 || pair.Female != 12 {
		t.Errorf("FindCaloriePair = %+v, %v; want 15/12", pair, ok)
	}
	cal, ok := FindCalories("20 calories Bike")
	if !ok || cal.Value != 20 {
		t.Errorf("FindCalories = %+v, %v; want 20", cal, ok)
	}
}

// TestFindPercentage verifies percentage-of-max loads with their reference.
func TestFindPercentage(t *testing.T) {
	got, ok := FindPercentage("5 Back Squat @ 75% 1RM")
	if !ok {
		t.Fatal("FindPercentage did not match")
	}
	if got.Percent != 75 {
		t.Errorf("Percent = %v, want 75", got.Percent)
	}
	if got.Reference != "1rm" {
		t.Errorf("Reference = %q, want 1rm", got.Reference)
	}
	if got.Matched != "@ 75% 1RM" {
		t.Errorf("Matched = %q, want %q", got.Matched, "@ 75% 1RM")
	}
}

// TestFindDuration verifies unit and clock durations, leftmost first.
func TestFindDuration(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"30 sec Plank", 30},
		{"Row 2 min", 120},
		{"Rest 1:30", 90},
		{"20 min AMRAP", 1200},
		{"1.5 minutes", 90},
	}
	for _, tt := range tests {
		got, ok := FindDuration(tt.line)
		if !ok || got.Seconds != tt.want {
			t.Errorf("FindDuration(%q) = %d, %v; want %d", tt.line, got.Seconds, ok, tt.want)
		}
	}
}

// TestFindMarker verifies height markers win over holds.
func TestFindMarker(t *testing.T) {
	m, ok := FindMarker(`Box Jumps 24/20"`)
	if !ok || m.Height == nil {
		t.Fatalf("FindMarker height = %+v, %v", m, ok)
	}
	if m.Height.Male != 24 || m.Height.Female != 20 || m.Height.Unit != "in" {
		t.Errorf("height = %+v, want 24/20 in", *m.Height)
	}

	m, ok = FindMarker("Plank Hold")
	if !ok || !m.Hold || m.Text != "hold" {
		t.Errorf("FindMarker hold = %+v, %v", m, ok)
	}
}

// TestFindModifier verifies execution qualifiers are normalized.
func TestFindModifier(t *testing.T) {
	mod, matched, ok := FindModifier("Lunges (each  leg)")
	if !ok {
		t.Fatal("FindModifier did not match")
	}
	if mod != "each leg" {
		t.Errorf("modifier = %q, want each leg", mod)
	}
	if matched != "(each  leg)" {
		t.Errorf("matched = %q, want (each  leg)", matched)
	}
}

// TestNewRepScheme verifies classification agrees with monotonicity.
func TestNewRepScheme(t *testing.T) {
	tests := []struct {
		reps []int
		kind SchemeKind
		ok   bool
	}{
		{[]int{21, 15, 9}, SchemeDescending, true},
		{[]int{1, 2, 3, 4}, SchemeAscending, true},
		{[]int{5}, SchemeFixed, true},
		{[]int{5, 5, 5}, SchemeFixed, true},
		{[]int{5, 3, 5}, SchemeCustom, true},
		{[]int{10, 10, 8}, SchemeDescending, true},
		{nil, "", false},
		{[]int{3, 0}, "", false},
	}
	for _, tt := range tests {
		got, ok := NewRepScheme(tt.reps, "")
		if ok != tt.ok {
			t.Errorf("NewRepScheme(%v) ok = %v, want %v", tt.reps, ok, tt.ok)
			continue
		}
		if ok && got.Kind != tt.kind {
			t.Errorf("NewRepScheme(%v).Kind = %q, want %q", tt.reps, got.Kind, tt.kind)
		}
	}
}

// TestSchemeLines verifies the three rep-scheme shapes.
func TestSchemeLines(t *testing.T) {
	s, ok := MatchChipperLine("21-15-9 reps for time:")
	if !ok || !reflect.DeepEqual(s.Reps, []int{21, 15, 9}) {
		t.Errorf("MatchChipperLine = %+v, %v", s, ok)
	}
	if s.String() != "21-15-9" || s.Total() != 45 {
		t.Errorf("String/Total = %q/%d, want 21-15-9/45", s.String(), s.Total())
	}
	if _, ok := MatchChipperLine("21-15-9 Thrusters"); ok {
		t.Error("MatchChipperLine matched a scheme-prefixed movement")
	}

	s, ok = MatchPerRoundLine("Reps: 10-8-6")
	if !ok || !reflect.DeepEqual(s.Reps, []int{10, 8, 6}) {
		t.Errorf("MatchPerRoundLine(Reps) = %+v, %v", s, ok)
	}
	s, ok = MatchPerRoundLine("Rounds of 21-15-9:")
	if !ok || !reflect.DeepEqual(s.Reps, []int{21, 15, 9}) {
		t.Errorf("MatchPerRoundLine(Rounds of) = %+v, %v", s, ok)
	}

	sm, ok := MatchSchemeMovement("21-15-9 Thrusters")
	if !ok || sm.Movement != "Thrusters" || sm.Scheme.Kind != SchemeDescending {
		t.Errorf("MatchSchemeMovement = %+v, %v", sm, ok)
	}
}

// TestMatchSchemeMovementSuffix verifies a scheme written after the movement
// name, and that load pairs and per-round prescriptions are left alone.
func TestMatchSchemeMovementSuffix(t *testing.T) {
	tests := []struct {
		line     string
		movement string
		reps     []int
	}{
		{"Deadlift 5-5-5-3-3", "Deadlift", []int{5, 5, 5, 3, 3}},
		{"Back Squat: 5-3-1 reps", "Back Squat", []int{5, 3, 1}},
		{"Strict Press 3 - 3 - 3", "Strict Press", []int{3, 3, 3}},
	}
	for _, tt := range tests {
		sm, ok := MatchSchemeMovement(tt.line)
		if !ok {
			t.Errorf("MatchSchemeMovement(%q) did not match", tt.line)
			continue
		}
		if sm.Movement != tt.movement || !reflect.DeepEqual(sm.Scheme.Reps, tt.reps) {
			t.Errorf("MatchSchemeMovement(%q) = %q %v, want %q %v", tt.line, sm.Movement, sm.Scheme.Reps, tt.movement, tt.reps)
		}
	}

	for _, line := range []string{"Wall Balls 20-14", "Reps: 10-8-6", "Rounds of 21-15-9", "Deadlift 5-5-5 @ 80%"} {
		if sm, ok := MatchSchemeMovement(line); ok {
			t.Errorf("MatchSchemeMovement(%q) = %+v, want no match", line, sm)
		}
	}
}

// TestMatchAmrap verifies the duration may come before or after the marker.
func TestMatchAmrap(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"20 min AMRAP:", 1200},
		{"AMRAP 20", 1200},
		{"AMRAP in 12:00", 720},
		{"As many rounds as possible in 15 minutes", 900},
		{"AMRAP: 5 Pull-ups", 0},
	}
	for _, tt := range tests {
		got, ok := MatchAmrap(tt.line)
		if !ok {
			t.Errorf("MatchAmrap(%q) did not match", tt.line)
			continue
		}
		if got.DurationSeconds != tt.want {
			t.Errorf("MatchAmrap(%q).DurationSeconds = %d, want %d", tt.line, got.DurationSeconds, tt.want)
		}
	}
}

// TestMatchEmom verifies interval, duration and round derivation.
func TestMatchEmom(t *testing.T) {
	tests := []struct {
		line     string
		interval int
		duration int
		rounds   int
	}{
		{"10 min EMOM:", 60, 600, 10},
		{"EMOM 12", 60, 720, 12},
		{"E2MOM x 5", 120, 600, 5},
		{"Every 90 seconds for 12 minutes", 90, 720, 8},
		{"EMOM", 60, 0, 0},
	}
	for _, tt := range tests {
		got, ok := MatchEmom(tt.line)
		if !ok {
			t.Errorf("MatchEmom(%q) did not match", tt.line)
			continue
		}
		if got.IntervalSeconds != tt.interval || got.DurationSeconds != tt.duration || got.Rounds != tt.rounds {
			t.Errorf("MatchEmom(%q) = %+v, want interval=%d duration=%d rounds=%d",
				tt.line, got, tt.interval, tt.duration, tt.rounds)
		}
	}
}

// TestMatchInterval verifies work/rest extraction and the distance-repeat guard.
func TestMatchInterval(t *testing.T) {
	got, ok := MatchInterval("8 x 3 min on / 1 min off")
	if !ok {
		t.Fatal("MatchInterval did not match")
	}
	if got.Rounds != 8 || got.WorkSeconds != 180 || got.RestSeconds != 60 {
		t.Errorf("MatchInterval = %+v, want 8 x 180/60", got)
	}
	if got.IntervalSeconds() != 240 {
		t.Errorf("IntervalSeconds = %d, want 240", got.IntervalSeconds())
	}

	got, ok = MatchInterval("5 rounds: 2:00 work, 1:00 rest")
	if !ok || got.Rounds != 5 || got.WorkSeconds != 120 || got.RestSeconds != 60 {
		t.Errorf("MatchInterval(rounds) = %+v, %v", got, ok)
	}

	if _, ok := MatchInterval("5 x 400m"); ok {
		t.Error("MatchInterval matched a distance repeat")
	}
	if !IsDistanceRepeat("5 x 400m") {
		t.Error("IsDistanceRepeat(5 x 400m) = false, want true")
	}
}

// TestMatchForTimeAndCap verifies For Time markers and caps in both word orders.
func TestMatchForTimeAndCap(t *testing.T) {
	ft, ok := MatchForTime("5 Rounds For Time")
	if !ok || ft.Rounds != 5 {
		t.Errorf("MatchForTime = %+v, %v; want 5 rounds", ft, ok)
	}
	ft, ok = MatchForTime("3 RFT")
	if !ok || ft.Rounds != 3 {
		t.Errorf("MatchForTime(RFT) = %+v, %v; want 3 rounds", ft, ok)
	}

	caps := []struct {
		line string
		want int
	}{
		{"Time cap: 20 min", 1200},
		{"TC 15", 900},
		{"(20 min cap)", 1200},
		{"cap 12:00", 720},
	}
	for _, tt := range caps {
		got, ok := MatchTimeCap(tt.line)
		if !ok || got.Seconds != tt.want {
			t.Errorf("MatchTimeCap(%q) = %d, %v; want %d", tt.line, got.Seconds, ok, tt.want)
		}
	}
}

// TestMatchRoundCount verifies both round count notations.
func TestMatchRoundCount(t *testing.T) {
	if rc, ok := MatchRoundCount("5 rounds of"); !ok || rc.Rounds != 5 {
		t.Errorf("MatchRoundCount = %+v, %v; want 5", rc, ok)
	}
	if rc, ok := MatchRoundCount("Rounds: 4"); !ok || rc.Rounds != 4 {
		t.Errorf("MatchRoundCount(label) = %+v, %v; want 4", rc, ok)
	}
}

// TestIsHeaderLine verifies structural lines are separated from movement lines.
func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"20 min AMRAP:", true},
		{"For Time:", true},
		{"5 Rounds For Time", true},
		{"AMRAP in 12:00 of:", true},
		{"Rest 2:00", true},
		{"5 Pull-ups", false},
		{"Tabata Air Squats", false},
	}
	for _, tt := range tests {
		if got := IsHeaderLine(tt.line); got != tt.want {
			t.Errorf("IsHeaderLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

// TestMatchRepsMovement verifies the reps shape and its unit guard.
func TestMatchRepsMovement(t *testing.T) {
	tests := []struct {
		line string
		reps int
		name string
		ok   bool
	}{
		{"21 Thrusters (95/65 lb)", 21, "Thrusters (95/65 lb)", true},
		{"10 x Burpees", 10, "Burpees", true},
		{"15 reps of Wall Balls", 15, "Wall Balls", true},
		{"Pull-ups x 10", 10, "Pull-ups", true},
		{"Air Squats: 50", 50, "Air Squats", true},
		{"5 x 400m Run", 5, "400m Run", true},
		{"400m Run", 0, "", false},
		{"15 cal Row", 0, "", false},
		{"20 min AMRAP", 0, "", false},
	}
	for _, tt := range tests {
		got, ok := MatchRepsMovement(tt.line)
		if ok != tt.ok {
			t.Errorf("MatchRepsMovement(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && (got.Reps != tt.reps || got.Name != tt.name) {
			t.Errorf("MatchRepsMovement(%q) = %d %q, want %d %q", tt.line, got.Reps, got.Name, tt.reps, tt.name)
		}
	}
}

// TestMatchRepsMovementSets verifies sets-by-reps notation after the name.
func TestMatchRepsMovementSets(t *testing.T) {
	tests := []struct {
		line       string
		sets, reps int
		name       string
	}{
		{"Back Squat 5x5 @ 80%", 5, 5, "Back Squat @ 80%"},
		{"Strict Press: 3 x 8 (65 lb)", 3, 8, "Strict Press (65 lb)"},
		{"Deadlift 4x3", 4, 3, "Deadlift"},
	}
	for _, tt := range tests {
		got, ok := MatchRepsMovement(tt.line)
		if !ok {
			t.Errorf("MatchRepsMovement(%q) did not match", tt.line)
			continue
		}
		if got.Sets != tt.sets || got.Reps != tt.reps || got.Name != tt.name {
			t.Errorf("MatchRepsMovement(%q) = %dx%d %q, want %dx%d %q",
				tt.line, got.Sets, got.Reps, got.Name, tt.sets, tt.reps, tt.name)
		}
	}

	if got, ok := MatchRepsMovement("Row 5 x 500 m"); ok && got.Sets != 0 {
		t.Errorf("distance repeat read as sets: %+v", got)
	}
}

// TestMatchDurationMovement verifies leading and trailing durations.
func TestMatchDurationMovement(t *testing.T) {
	tests := []struct {
		line string
		secs int
		name string
	}{
		{"30 sec Plank Hold", 30, "Plank Hold"},
		{"1:00 Wall Sit", 60, "Wall Sit"},
		{"Plank Hold 45 seconds", 45, "Plank Hold"},
	}
	for _, tt := range tests {
		got, ok := MatchDurationMovement(tt.line)
		if !ok || got.Seconds != tt.secs || got.Name != tt.name {
			t.Errorf("MatchDurationMovement(%q) = %+v, %v; want %d %q", tt.line, got, ok, tt.secs, tt.name)
		}
	}
}

// TestMatchSlot verifies EMOM minute and buy-in labels are split off.
func TestMatchSlot(t *testing.T) {
	s, ok := MatchSlot("Min 1: 10 Burpees")
	if !ok || s.Label != "min 1" || s.Rest != "10 Burpees" {
		t.Errorf("MatchSlot(Min 1) = %+v, %v", s, ok)
	}
	s, ok = MatchSlot("Buy-in: 1000m Row")
	if !ok || s.Label != "buy-in" || s.Rest != "1000m Row" {
		t.Errorf("MatchSlot(Buy-in) = %+v, %v", s, ok)
	}
	if _, ok := MatchSlot("21 Thrusters"); ok {
		t.Error("MatchSlot matched a plain movement line")
	}
}

// TestMatchersNeverPanic feeds hostile input to every matcher.
func TestMatchersNeverPanic(t *testing.T) {
	inputs := []string{"", " ", "99999999999999999999999 Thrusters", "1e999 lb", ":::", "((((", "x x x"}
	for _, in := range inputs {
		FindWeight(in)
		FindWeightPair(in)
		FindDistance(in)
		FindCalories(in)
		FindCaloriePair(in)
		FindPercentage(in)
		FindClockTime(in)
		FindDuration(in)
		FindMarker(in)
		FindModifier(in)
		MatchChipperLine(in)
		MatchPerRoundLine(in)
		MatchSchemeMovement(in)
		MatchAmrap(in)
		MatchEmom(in)
		MatchInterval(in)
		MatchForTime(in)
		MatchTimeCap(in)
		MatchRoundCount(in)
		MatchRepsMovement(in)
		MatchDurationMovement(in)
		MatchSlot(in)
		IsHeaderLine(in)
	}
	if _, ok := MatchRepsMovement("99999999999999999999999 Thrusters"); ok {
		t.Error("overflowing rep count should not match")
	}
}
