package parser

import "testing"

func testSnapshot() *Snapshot {
	v := newFakeVocab()
	return NewSnapshot(v.movements, v.aliases)
}

// TestResolveScores walks the scoring table from exact canonical down to
// "canonical contains the query".
func TestResolveScores(t *testing.T) {
	snap := testSnapshot()
	tests := []struct {
		name  string
		id    string
		score int
	}{
		{"thruster", "thruster", 100},
		{"Pull-up", "pull_up", 100},
		{"Wall Ball", "wall_ball", 100},
		{"Thrusters", "thruster", 90},
		{"KB Swings", "kettlebell_swing", 90},
		{"du", "double_under", 90},
		{"Thruster complex", "thruster", 70},
		{"Heavy Thruster", "thruster", 40},
		{"Heavy Wall Ball Shots", "wall_ball", 40},
		{"wall", "wall_ball", 20},
	}
	for _, tt := range tests {
		r, ok := snap.Resolve(tt.name)
		if !ok {
			t.Errorf("Resolve(%q) not found", tt.name)
			continue
		}
		if r.Movement.ID != tt.id || r.Score != tt.score {
			t.Errorf("Resolve(%q) = %s/%d, want %s/%d", tt.name, r.Movement.ID, r.Score, tt.id, tt.score)
		}
	}
}

// TestResolvePluralVariant verifies singular/plural variants can lift a partial match.
func TestResolvePluralVariant(t *testing.T) {
	snap := NewSnapshot([]Movement{{ID: "sit_up", CanonicalName: "sit_up", DisplayName: "Sit-up"}}, nil)
	r, ok := snap.Resolve("Sit-ups")
	if !ok || r.Movement.ID != "sit_up" || r.Score != 100 {
		t.Errorf("Resolve(Sit-ups) = %+v, %v; want sit_up/100", r, ok)
	}
}

// TestResolveLongestCandidate verifies the longest hit wins inside a rule and
// ties go to the lower ID regardless of input order.
func TestResolveLongestCandidate(t *testing.T) {
	snap := NewSnapshot([]Movement{
		{ID: "power_clean", CanonicalName: "power_clean", DisplayName: "Power Clean"},
		{ID: "clean", CanonicalName: "clean", DisplayName: "Clean"},
	}, nil)
	r, _ := snap.Resolve("heavy power clean")
	if r.Movement.ID != "power_clean" || r.Score != 40 {
		t.Errorf("Resolve(heavy power clean) = %s/%d, want power_clean/40", r.Movement.ID, r.Score)
	}

	snap = NewSnapshot([]Movement{
		{ID: "b_move", CanonicalName: "b_move", DisplayName: "B"},
		{ID: "a_move", CanonicalName: "a_move", DisplayName: "A"},
	}, map[string]string{"xyz": "b_move", "abc": "a_move"})
	r, _ = snap.Resolve("qabcxyz")
	if r.Movement.ID != "a_move" || r.Score != 30 {
		t.Errorf("Resolve(qabcxyz) = %s/%d, want a_move/30", r.Movement.ID, r.Score)
	}
}

// TestResolveMisses verifies short, empty and unknown names stay unresolved.
func TestResolveMisses(t *testing.T) {
	snap := testSnapshot()
	for _, name := range []string{"", "  ", "Quantum Wiggles", "zz"} {
		if r, ok := snap.Resolve(name); ok {
			t.Errorf("Resolve(%q) = %s/%d, want miss", name, r.Movement.ID, r.Score)
		}
	}
	if _, ok := NewSnapshot(nil, nil).Resolve("thruster"); ok {
		t.Error("empty snapshot resolved a name")
	}
	var nilSnap *Snapshot
	if _, ok := nilSnap.Resolve("thruster"); ok {
		t.Error("nil snapshot resolved a name")
	}
}
