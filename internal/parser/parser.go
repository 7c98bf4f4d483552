// Package parser turns free-text workout descriptions into structured workouts.
//
// The pipeline runs Preprocess, DetectWorkoutType, ParseLine for each line,
// PropagateRepSchemes and Validate. Every stage is a pure function; the only I/O
// is the vocabulary lookup done through the Vocabulary interface.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meltforce/wodparse/internal/parser/patterns"
)

// Parser parses workout text against a movement vocabulary. It is immutable
// after New and safe for concurrent use.
type Parser struct {
	vocab Vocabulary
	log   *slog.Logger
}

// New creates a Parser. It returns ErrNilVocabulary when vocab is nil.
func New(vocab Vocabulary, log *slog.Logger) (*Parser, error) {
	if vocab == nil {
		return nil, ErrNilVocabulary
	}
	if log == nil {
		log = slog.Default()
	}
	return &Parser{vocab: vocab, log: log}, nil
}

// Parse runs the full pipeline. Empty input yields a result with a single
// EmptyInput issue and a nil error. The only error returned is the context's;
// the partial result is returned alongside it.
func (p *Parser) Parse(ctx context.Context, text string) (*Result, error) {
	doc, err := Preprocess(text)
	if errors.Is(err, ErrEmptyInput) {
		return EmptyResult(text), nil
	}

	snap, vocabErr := p.snapshot(ctx)
	if vocabErr != nil {
		p.log.Warn("vocabulary unavailable", "error", vocabErr)
	}
	doc = reclaimTitle(doc, snap)

	match := DetectWorkoutType(doc)

	lines := make([]MovementLine, 0, len(doc.Lines))
	for _, ln := range doc.Lines {
		if err := ctx.Err(); err != nil {
			res := Validate(doc, match, PropagateRepSchemes(doc, match, lines))
			res.Errors = append(res.Errors, Issue{
				ErrorType:  IssueCancelled,
				Message:    "parse cancelled before all lines were read",
				LineNumber: ln.Number,
				Severity:   SeverityError,
			})
			return res, err
		}
		ml := ParseLine(ln)
		p.resolve(ctx, snap, &ml)
		lines = append(lines, ml)
	}

	res := Validate(doc, match, PropagateRepSchemes(doc, match, lines))
	if vocabErr != nil {
		res.Errors = append(res.Errors, Issue{
			ErrorType: IssueVocabularyUnavailable,
			Message:   vocabErr.Error(),
			Severity:  SeverityWarning,
		})
	}

	p.log.Debug("parsed workout",
		"type", res.Type.Type,
		"movements", len(res.Movements),
		"score", res.ConfidenceScore,
		"issues", len(res.Errors),
	)
	return res, nil
}

// Validate returns the issues a parse of text would report.
func (p *Parser) Validate(ctx context.Context, text string) ([]Issue, error) {
	if issues := QuickValidate(text); len(issues) > 0 {
		return issues, nil
	}
	res, err := p.Parse(ctx, text)
	if res == nil {
		return nil, err
	}
	return res.Errors, err
}

// ParseToLegacyShape returns only the structured workout. It returns
// ErrEmptyInput when the text has nothing to parse.
func (p *Parser) ParseToLegacyShape(ctx context.Context, text string) (*LegacyWorkout, error) {
	if len(QuickValidate(text)) > 0 {
		return nil, ErrEmptyInput
	}
	res, err := p.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return ToLegacy(res), nil
}

func (p *Parser) snapshot(ctx context.Context) (*Snapshot, error) {
	aliases, err := p.vocab.AliasMap(ctx)
	if err != nil {
		return NewSnapshot(nil, nil), fmt.Errorf("loading alias map: %w", err)
	}
	movements, err := p.vocab.Search(ctx, "")
	if err != nil {
		return NewSnapshot(nil, nil), fmt.Errorf("listing movements: %w", err)
	}
	return NewSnapshot(movements, aliases), nil
}

// resolve fills the movement identity of ml. The snapshot is tried first, then
// the vocabulary's own alias and canonical-name lookups.
func (p *Parser) resolve(ctx context.Context, snap *Snapshot, ml *MovementLine) {
	if ml.Name == "" {
		return
	}
	if r, ok := snap.Resolve(ml.Name); ok {
		applyResolution(ml, r)
		return
	}

	m, err := p.vocab.FindByAlias(ctx, ml.Name)
	if err != nil {
		p.log.Debug("alias lookup failed", "name", ml.Name, "error", err)
		return
	}
	if m == nil {
		canonical, ok, err := p.vocab.Normalize(ctx, ml.Name)
		if err != nil || !ok {
			return
		}
		if m, err = p.vocab.FindByCanonicalName(ctx, canonical); err != nil || m == nil {
			return
		}
	}
	applyResolution(ml, Resolution{Movement: *m, Score: exactFloor})
}

func applyResolution(ml *MovementLine, r Resolution) {
	ml.MovementID = r.Movement.ID
	ml.MatchedName = r.Movement.DisplayName
	ml.Category = r.Movement.Category
	ml.MatchScore = r.Score
}

// reclaimTitle turns a title that names a known movement back into the first
// movement line.
func reclaimTitle(doc *Document, snap *Snapshot) *Document {
	if doc.Title == "" {
		return doc
	}
	r, ok := snap.Resolve(doc.Title)
	if !ok || r.Score < exactFloor {
		return doc
	}

	out := *doc
	out.Title = ""
	out.TitleLine = 0
	out.Lines = append([]Line{{Text: doc.Title, Number: doc.TitleLine}}, doc.Lines...)
	out.LineSchemes = make(map[int]patterns.RepScheme, len(doc.LineSchemes))
	for i, s := range doc.LineSchemes {
		out.LineSchemes[i+1] = s
	}
	return &out
}
