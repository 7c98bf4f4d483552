package mcp

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
)

// ErrNoStore is returned by Local when saving or listing without a database.
var ErrNoStore = errors.New("persistence is not configured")

// ParseOutput is a parse result plus the saved workout ID, if any. It matches
// the JSON of POST /api/v1/parse.
type ParseOutput struct {
	*parser.Result
	ID *uuid.UUID `json:"id,omitempty"`
}

// DataSource abstracts the parser backend for MCP tools. Both Local (in-process)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Parse(ctx context.Context, text string, save bool, source string) (*ParseOutput, error)
	Validate(ctx context.Context, text string) ([]parser.Issue, error)
	SearchMovements(ctx context.Context, query string) ([]parser.Movement, error)
	ListParsedWorkouts(ctx context.Context, limit int) ([]models.ParsedWorkoutRow, error)
}

// Store is the persistence Local needs. *storage.DB implements it.
type Store interface {
	SaveParsedWorkout(ctx context.Context, source string, res *parser.Result) (uuid.UUID, error)
	ListParsedWorkouts(ctx context.Context, limit int) ([]models.ParsedWorkoutRow, error)
}

// Local runs the parser in-process.
type Local struct {
	parser *parser.Parser
	vocab  parser.Vocabulary
	store  Store
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal creates a Local data source. store may be nil.
func NewLocal(p *parser.Parser, vocab parser.Vocabulary, store Store) *Local {
	return &Local{parser: p, vocab: vocab, store: store}
}

func (l *Local) Parse(ctx context.Context, text string, save bool, source string) (*ParseOutput, error) {
	if save && l.store == nil {
		return nil, ErrNoStore
	}
	res, err := l.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	out := &ParseOutput{Result: res}
	if save {
		id, err := l.store.SaveParsedWorkout(ctx, source, res)
		if err != nil {
			return nil, err
		}
		out.ID = &id
	}
	return out, nil
}

func (l *Local) Validate(ctx context.Context, text string) ([]parser.Issue, error) {
	return l.parser.Validate(ctx, text)
}

func (l *Local) SearchMovements(ctx context.Context, query string) ([]parser.Movement, error) {
	return l.vocab.Search(ctx, query)
}

func (l *Local) ListParsedWorkouts(ctx context.Context, limit int) ([]models.ParsedWorkoutRow, error) {
	if l.store == nil {
		return nil, ErrNoStore
	}
	return l.store.ListParsedWorkouts(ctx, limit)
}
