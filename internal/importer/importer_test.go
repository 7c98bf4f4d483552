package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/wodparse/internal/parser"
	"github.com/meltforce/wodparse/internal/vocabulary"
)

type memSaver struct {
	mu      sync.Mutex
	sources []string
	fail    error
}

func (m *memSaver) SaveParsedWorkout(_ context.Context, source string, _ *parser.Result) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return uuid.Nil, m.fail
	}
	m.sources = append(m.sources, source)
	return uuid.New(), nil
}

func (m *memSaver) sorted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.sources...)
	sort.Strings(out)
	return out
}

func testParser(t *testing.T) *parser.Parser {
	t.Helper()
	vocab, err := vocabulary.Default()
	if err != nil {
		t.Fatal(err)
	}
	p, err := parser.New(vocab, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// workoutDir lays out two workout files, one holding two workouts, plus files
// the importer must ignore.
func workoutDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "fran.txt", "Fran\n21-15-9 For Time\nThrusters (95/65 lb)\nPull-ups\n")
	writeFile(t, dir, "week1/monday.wod", "20 min AMRAP\n5 Pull-ups\n10 Push-ups\n15 Air Squats\n---\nEMOM 10 min\n10 Quantum Wiggles\n")
	writeFile(t, dir, "notes.pdf", "not a workout")
	writeFile(t, dir, ".hidden/secret.txt", "10 Burpees")
	return dir
}

// TestImportSavesEachWorkout verifies every workout in every file is parsed and
// saved under a source naming its file, and that unresolved names are collected.
func TestImportSavesEachWorkout(t *testing.T) {
	saver := &memSaver{}
	imp, err := New(testParser(t), saver, nil, testLogger(), Options{Concurrency: 2})
	if err != nil {
		t.Fatal(err)
	}

	stats, err := imp.Import(context.Background(), workoutDir(t))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesSeen != 2 || stats.FilesParsed != 2 || stats.FilesErrored != 0 {
		t.Errorf("files seen/parsed/errored = %d/%d/%d, want 2/2/0", stats.FilesSeen, stats.FilesParsed, stats.FilesErrored)
	}
	if stats.WorkoutsParsed != 3 || stats.WorkoutsSaved != 3 {
		t.Errorf("workouts parsed/saved = %d/%d, want 3/3", stats.WorkoutsParsed, stats.WorkoutsSaved)
	}

	want := []string{
		"import:fran.txt",
		"import:" + filepath.Join("week1", "monday.wod") + "#1",
		"import:" + filepath.Join("week1", "monday.wod") + "#2",
	}
	sort.Strings(want)
	if got := saver.sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("sources = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(stats.Unresolved, []string{"quantum wiggles"}) {
		t.Errorf("unresolved = %v, want [quantum wiggles]", stats.Unresolved)
	}
}

// TestImportSkipsUnchangedFiles verifies the state DB skips files already
// imported and picks up files whose content changed.
func TestImportSkipsUnchangedFiles(t *testing.T) {
	dir := workoutDir(t)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	saver := &memSaver{}
	imp, _ := New(testParser(t), saver, state, testLogger(), Options{})
	if _, err := imp.Import(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if n, _ := state.Count(); n != 2 {
		t.Errorf("state count = %d, want 2", n)
	}

	writeFile(t, dir, "fran.txt", "Fran\n21-15-9 For Time\nThrusters (95/65 lb)\nChest-to-bar Pull-ups\n")

	imp, _ = New(testParser(t), saver, state, testLogger(), Options{})
	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 1 || stats.FilesParsed != 1 {
		t.Errorf("skipped/parsed = %d/%d, want 1/1", stats.FilesSkipped, stats.FilesParsed)
	}
	if len(saver.sorted()) != 4 {
		t.Errorf("saves = %d, want 4", len(saver.sorted()))
	}
}

// TestImportDryRun verifies dry-run parses without saving or recording state.
func TestImportDryRun(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	imp, err := New(testParser(t), nil, state, testLogger(), Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	stats, err := imp.Import(context.Background(), workoutDir(t))
	if err != nil {
		t.Fatal(err)
	}
	if stats.WorkoutsParsed != 3 || stats.WorkoutsSaved != 0 {
		t.Errorf("parsed/saved = %d/%d, want 3/0", stats.WorkoutsParsed, stats.WorkoutsSaved)
	}
	if n, _ := state.Count(); n != 0 {
		t.Errorf("state count = %d, want 0", n)
	}
}

// TestImportSaveFailure verifies a failing save counts the file as errored
// without aborting the run or marking state.
func TestImportSaveFailure(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	saver := &memSaver{fail: errors.New("db down")}
	imp, _ := New(testParser(t), saver, state, testLogger(), Options{})
	stats, err := imp.Import(context.Background(), workoutDir(t))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesErrored != 2 || stats.FilesParsed != 0 {
		t.Errorf("errored/parsed = %d/%d, want 2/0", stats.FilesErrored, stats.FilesParsed)
	}
	if n, _ := state.Count(); n != 0 {
		t.Errorf("state count = %d, want 0", n)
	}
}

// TestImportCancelled verifies a cancelled context is reported.
func TestImportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imp, _ := New(testParser(t), nil, nil, testLogger(), Options{DryRun: true})
	if _, err := imp.Import(ctx, workoutDir(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// TestNewRequiresSaver verifies a saver is mandatory outside dry-run.
func TestNewRequiresSaver(t *testing.T) {
	if _, err := New(testParser(t), nil, nil, testLogger(), Options{}); err == nil {
		t.Error("expected error without saver")
	}
}

// TestImportMissingDir verifies a missing directory fails the walk.
func TestImportMissingDir(t *testing.T) {
	imp, _ := New(testParser(t), nil, nil, testLogger(), Options{DryRun: true})
	if _, err := imp.Import(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

// TestSplitWorkouts verifies separator handling.
func TestSplitWorkouts(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"10 Burpees", []string{"10 Burpees"}},
		{"A\n---\nB", []string{"A", "B"}},
		{"---\nA\n  -----  \n\n---\nB\n", []string{"A", "B"}},
		{"5 Burpees - fast\n--\n", []string{"5 Burpees - fast\n--"}},
		{"  \n---\n", nil},
	}
	for _, tt := range tests {
		if got := SplitWorkouts(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitWorkouts(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// TestStateDB verifies the state round trip keyed by path, size and hash.
func TestStateDB(t *testing.T) {
	dir := t.TempDir()
	state, err := OpenStateDB(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if ok, _ := state.IsImported("a.txt", 10, "h1"); ok {
		t.Error("empty state reports imported")
	}
	if err := state.MarkImported("a.txt", 10, "h1", 1); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.IsImported("a.txt", 10, "h1"); !ok {
		t.Error("marked file not imported")
	}
	if ok, _ := state.IsImported("a.txt", 10, "h2"); ok {
		t.Error("changed hash reported as imported")
	}

	writeFile(t, dir, "x.txt", "abc")
	hash, err := HashFile(filepath.Join(dir, "x.txt"))
	if err != nil {
		t.Fatal(err)
	}
	const abc = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if hash != abc {
		t.Errorf("HashFile = %s, want %s", hash, abc)
	}
}
