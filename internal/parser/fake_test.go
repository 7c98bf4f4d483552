package parser

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// fakeVocab is a small read-only vocabulary. When fail is set every method
// returns it.
type fakeVocab struct {
	movements []Movement
	aliases   map[string]string
	fail      error
}

func newFakeVocab() *fakeVocab {
	v := &fakeVocab{aliases: map[string]string{}}
	add := func(id, display, category string, aliases ...string) {
		v.movements = append(v.movements, Movement{ID: id, CanonicalName: id, DisplayName: display, Category: category})
		for _, a := range aliases {
			v.aliases[NormalizeName(a)] = id
		}
	}
	add("air_squat", "Air Squat", "gymnastics", "air squats")
	add("box_jump", "Box Jump", "gymnastics", "box jumps")
	add("burpee", "Burpee", "gymnastics", "burpees")
	add("deadlift", "Deadlift", "weightlifting", "deadlifts")
	add("double_under", "Double-under", "gymnastics", "double unders", "du")
	add("kettlebell_swing", "Kettlebell Swing", "kettlebell", "kettlebell swings", "kb swings")
	add("lunge", "Lunge", "gymnastics", "lunges")
	add("plank", "Plank", "gymnastics", "plank hold")
	add("pull_up", "Pull-up", "gymnastics", "pull-ups", "pullups")
	add("push_up", "Push-up", "gymnastics", "push-ups")
	add("row", "Row", "monostructural", "rowing")
	add("run", "Run", "monostructural", "running")
	add("thruster", "Thruster", "weightlifting", "thrusters")
	add("wall_ball", "Wall Ball", "kettlebell", "wall balls", "wall ball shots")
	return v
}

func (v *fakeVocab) byID(id string) *Movement {
	for _, m := range v.movements {
		if m.ID == id {
			m := m
			return &m
		}
	}
	return nil
}

func (v *fakeVocab) AliasMap(context.Context) (map[string]string, error) {
	if v.fail != nil {
		return nil, v.fail
	}
	out := make(map[string]string, len(v.aliases))
	for k, id := range v.aliases {
		out[k] = id
	}
	return out, nil
}

func (v *fakeVocab) Normalize(ctx context.Context, text string) (string, bool, error) {
	m, err := v.FindByAlias(ctx, text)
	if err != nil || m == nil {
		return "", false, err
	}
	return m.CanonicalName, true, nil
}

func (v *fakeVocab) FindByCanonicalName(_ context.Context, name string) (*Movement, error) {
	if v.fail != nil {
		return nil, v.fail
	}
	key := NormalizeName(name)
	for _, m := range v.movements {
		if NormalizeName(m.CanonicalName) == key {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (v *fakeVocab) FindByAlias(_ context.Context, text string) (*Movement, error) {
	if v.fail != nil {
		return nil, v.fail
	}
	if id, ok := v.aliases[NormalizeName(text)]; ok {
		return v.byID(id), nil
	}
	return nil, nil
}

func (v *fakeVocab) Search(_ context.Context, query string) ([]Movement, error) {
	if v.fail != nil {
		return nil, v.fail
	}
	q := NormalizeName(query)
	var out []Movement
	for _, m := range v.movements {
		if q == "" || strings.Contains(NormalizeName(m.CanonicalName), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(newFakeVocab(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func hasIssue(issues []Issue, errorType string) bool {
	for _, i := range issues {
		if i.ErrorType == errorType {
			return true
		}
	}
	return false
}

func intValue(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}
