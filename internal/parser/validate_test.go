package parser

import "testing"

// TestLevelFor checks every boundary of the confidence levels.
func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  ConfidenceLevel
	}{
		{100, Perfect},
		{90, Perfect},
		{89, High},
		{70, High},
		{69, Medium},
		{40, Medium},
		{39, Low},
		{0, Low},
		{-5, Low},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

// TestConfidenceLevelsMonotonic verifies the boundaries strictly decrease and
// name each level once.
func TestConfidenceLevelsMonotonic(t *testing.T) {
	seen := map[ConfidenceLevel]bool{}
	for i, c := range confidenceLevels {
		if i > 0 && c.min >= confidenceLevels[i-1].min {
			t.Errorf("boundary %d (%d) not below %d", i, c.min, confidenceLevels[i-1].min)
		}
		if seen[c.level] {
			t.Errorf("level %s listed twice", c.level)
		}
		seen[c.level] = true
	}
	if len(seen) != 4 {
		t.Errorf("levels = %d, want 4", len(seen))
	}
}

// TestValidateIssues verifies issue ordering, low-confidence matches and that
// empty lines are dropped.
func TestValidateIssues(t *testing.T) {
	doc := &Document{Original: "AMRAP\n5 Heavy Thruster\n3 Quantum", Text: "AMRAP"}
	match := TypeMatch{Type: Amrap, Confidence: 1, Matched: "AMRAP"}
	movements := []MovementLine{
		{Name: "Heavy Thruster", LineNumber: 2, Reps: intPtr(5), MovementID: "thruster", MatchedName: "Thruster", MatchScore: 40},
		{Name: "Quantum", LineNumber: 3, Reps: intPtr(3)},
		{LineNumber: 4},
	}
	res := Validate(doc, match, movements)

	if len(res.Movements) != 2 {
		t.Fatalf("movements = %d, want 2", len(res.Movements))
	}
	want := []string{IssueMissingTimeCap, IssueLowConfidenceMatch, IssueUnresolvedMovement}
	if len(res.Errors) != len(want) {
		t.Fatalf("errors = %+v, want %v", res.Errors, want)
	}
	for i, w := range want {
		if res.Errors[i].ErrorType != w {
			t.Errorf("errors[%d] = %s, want %s", i, res.Errors[i].ErrorType, w)
		}
	}
	// Low-confidence matches still count as identified: 0.4 + 0.6*0.5.
	if res.ConfidenceScore != 70 || res.ConfidenceLevel != High {
		t.Errorf("score = %d %s, want 70 high", res.ConfidenceScore, res.ConfidenceLevel)
	}
	if !res.IsUsable {
		t.Error("result not usable")
	}
}

// TestQuickValidate verifies only blank text is rejected up front.
func TestQuickValidate(t *testing.T) {
	if issues := QuickValidate(" \n "); len(issues) != 1 || issues[0].Severity != SeverityError {
		t.Errorf("QuickValidate(blank) = %+v", issues)
	}
	if issues := QuickValidate("Burpees"); len(issues) != 0 {
		t.Errorf("QuickValidate(text) = %+v", issues)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{600, "10 min"},
		{60, "1 min"},
		{90, "1:30"},
		{45, "45 sec"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.secs); got != tt.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
