// Package importer parses directories of workout text files in bulk.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/meltforce/wodparse/internal/parser"
)

// DefaultConcurrency is the number of files parsed at once when Options leaves it unset.
const DefaultConcurrency = 4

// Extensions read by the importer.
var Extensions = []string{".txt", ".wod", ".md"}

// Saver stores parse results. *storage.DB implements it.
type Saver interface {
	SaveParsedWorkout(ctx context.Context, source string, res *parser.Result) (uuid.UUID, error)
}

// Stats tracks import progress.
type Stats struct {
	FilesSeen    int
	FilesParsed  int
	FilesSkipped int
	FilesErrored int

	WorkoutsParsed   int
	WorkoutsSaved    int
	WorkoutsUnusable int
	ByLevel          map[parser.ConfidenceLevel]int

	// Unresolved lists distinct movement names no vocabulary entry matched.
	Unresolved []string
}

// Options configures an Importer.
type Options struct {
	Concurrency int
	DryRun      bool
}

// Importer reads workout files from a directory, parses them and saves the results.
type Importer struct {
	parser      *parser.Parser
	saver       Saver
	state       *StateDB
	log         *slog.Logger
	dryRun      bool
	concurrency int

	mu         sync.Mutex
	stats      Stats
	unresolved map[string]bool
}

// New creates a new Importer. saver may be nil only in dry-run mode; state may
// be nil to re-parse every file.
func New(p *parser.Parser, saver Saver, state *StateDB, log *slog.Logger, opts Options) (*Importer, error) {
	if saver == nil && !opts.DryRun {
		return nil, fmt.Errorf("importer: saver required unless dry-run")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Importer{
		parser:      p,
		saver:       saver,
		state:       state,
		log:         log,
		dryRun:      opts.DryRun,
		concurrency: opts.Concurrency,
		stats:       Stats{ByLevel: map[parser.ConfidenceLevel]int{}},
		unresolved:  map[string]bool{},
	}, nil
}

// Import processes every workout file under dir. Per-file failures are logged
// and counted; the returned error is set only when the walk fails or ctx ends.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := listWorkoutFiles(dir)
	if err != nil {
		return imp.snapshot(), err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.concurrency)

	for _, rel := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := imp.importFile(gctx, dir, rel); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				imp.log.Warn("import failed", "file", rel, "error", err)
				imp.count(func(s *Stats) { s.FilesErrored++ })
			}
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return imp.snapshot(), err
}

func (imp *Importer) importFile(ctx context.Context, dir, rel string) error {
	imp.count(func(s *Stats) { s.FilesSeen++ })

	path := filepath.Join(dir, rel)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	if imp.state != nil {
		done, err := imp.state.IsImported(rel, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			imp.count(func(s *Stats) { s.FilesSkipped++ })
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	workouts := SplitWorkouts(string(data))
	for i, text := range workouts {
		res, err := imp.parser.Parse(ctx, text)
		if err != nil {
			return fmt.Errorf("parsing workout %d: %w", i+1, err)
		}
		imp.record(res)

		if imp.dryRun {
			continue
		}
		source := "import:" + rel
		if len(workouts) > 1 {
			source = fmt.Sprintf("%s#%d", source, i+1)
		}
		if _, err := imp.saver.SaveParsedWorkout(ctx, source, res); err != nil {
			return fmt.Errorf("saving workout %d: %w", i+1, err)
		}
		imp.count(func(s *Stats) { s.WorkoutsSaved++ })
	}

	if !imp.dryRun && imp.state != nil {
		if err := imp.state.MarkImported(rel, info.Size(), hash, len(workouts)); err != nil {
			return fmt.Errorf("marking imported: %w", err)
		}
	}
	imp.count(func(s *Stats) { s.FilesParsed++ })
	return nil
}

func (imp *Importer) record(res *parser.Result) {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	imp.stats.WorkoutsParsed++
	imp.stats.ByLevel[res.ConfidenceLevel]++
	if !res.IsUsable {
		imp.stats.WorkoutsUnusable++
	}
	for _, m := range res.Movements {
		if !m.Identified() && m.Name != "" {
			imp.unresolved[strings.ToLower(m.Name)] = true
		}
	}
}

func (imp *Importer) count(fn func(*Stats)) {
	imp.mu.Lock()
	fn(&imp.stats)
	imp.mu.Unlock()
}

func (imp *Importer) snapshot() *Stats {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	s := imp.stats
	s.ByLevel = make(map[parser.ConfidenceLevel]int, len(imp.stats.ByLevel))
	for k, v := range imp.stats.ByLevel {
		s.ByLevel[k] = v
	}
	s.Unresolved = make([]string, 0, len(imp.unresolved))
	for name := range imp.unresolved {
		s.Unresolved = append(s.Unresolved, name)
	}
	sort.Strings(s.Unresolved)
	return &s
}

// listWorkoutFiles returns paths relative to dir of files with a known
// extension, sorted. Hidden files and directories are skipped.
func listWorkoutFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasWorkoutExt(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func hasWorkoutExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SplitWorkouts splits a file holding several workouts separated by lines of
// "---" (or longer). Blank sections are dropped.
func SplitWorkouts(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		section := strings.TrimSpace(strings.Join(cur, "\n"))
		if section != "" {
			out = append(out, section)
		}
		cur = cur[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 3 && strings.Trim(trimmed, "-") == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}
