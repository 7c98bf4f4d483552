package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
)

// Vocabulary serves movement lookups from the movements and movement_aliases tables.
type Vocabulary struct {
	db *DB
}

var _ parser.Vocabulary = (*Vocabulary)(nil)

// Vocabulary returns a parser vocabulary backed by this database.
func (db *DB) Vocabulary() *Vocabulary {
	return &Vocabulary{db: db}
}

// AliasMap returns normalized alias -> movement ID.
func (v *Vocabulary) AliasMap(ctx context.Context) (map[string]string, error) {
	rows, err := v.db.Pool.Query(ctx, `SELECT alias_key, movement_id FROM movement_aliases`)
	if err != nil {
		return nil, fmt.Errorf("querying movement aliases: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("scanning movement alias: %w", err)
		}
		out[key] = id
	}
	return out, rows.Err()
}

// Normalize maps text to the canonical name of the movement it names.
func (v *Vocabulary) Normalize(ctx context.Context, text string) (string, bool, error) {
	m, err := v.FindByAlias(ctx, text)
	if err != nil || m == nil {
		return "", false, err
	}
	return m.CanonicalName, true, nil
}

// FindByCanonicalName returns the movement with the given canonical name, or nil.
func (v *Vocabulary) FindByCanonicalName(ctx context.Context, name string) (*parser.Movement, error) {
	return v.findOne(ctx,
		`SELECT id, canonical_name, display_name, category
		 FROM movements WHERE canonical_key = $1`,
		parser.NormalizeName(name))
}

// FindByAlias returns the movement an alias, canonical or display name refers to,
// or nil. Aliases win over canonical names, which win over display names.
func (v *Vocabulary) FindByAlias(ctx context.Context, text string) (*parser.Movement, error) {
	key := parser.NormalizeName(text)
	if key == "" {
		return nil, nil
	}
	return v.findOne(ctx,
		`SELECT id, canonical_name, display_name, category FROM (
		   SELECT m.id, m.canonical_name, m.display_name, m.category, 0 AS rank
		   FROM movement_aliases a JOIN movements m ON m.id = a.movement_id
		   WHERE a.alias_key = $1
		   UNION ALL
		   SELECT id, canonical_name, display_name, category, 1 FROM movements WHERE canonical_key = $1
		   UNION ALL
		   SELECT id, canonical_name, display_name, category, 2 FROM movements WHERE display_key = $1
		 ) hits
		 ORDER BY rank, id
		 LIMIT 1`,
		key)
}

func (v *Vocabulary) findOne(ctx context.Context, query string, args ...any) (*parser.Movement, error) {
	var m parser.Movement
	err := v.db.Pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CanonicalName, &m.DisplayName, &m.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying movement: %w", err)
	}
	return &m, nil
}

// Search returns movements whose names or aliases contain query, ordered by ID.
// An empty query returns every movement.
func (v *Vocabulary) Search(ctx context.Context, query string) ([]parser.Movement, error) {
	rows, err := v.db.Pool.Query(ctx,
		`SELECT m.id, m.canonical_name, m.display_name, m.category
		 FROM movements m
		 WHERE $1 = ''
		    OR strpos(m.canonical_key, $1) > 0
		    OR strpos(m.display_key, $1) > 0
		    OR EXISTS (SELECT 1 FROM movement_aliases a
		               WHERE a.movement_id = m.id AND strpos(a.alias_key, $1) > 0)
		 ORDER BY m.id`,
		parser.NormalizeName(query))
	if err != nil {
		return nil, fmt.Errorf("searching movements: %w", err)
	}
	defer rows.Close()

	var out []parser.Movement
	for rows.Next() {
		var m parser.Movement
		if err := rows.Scan(&m.ID, &m.CanonicalName, &m.DisplayName, &m.Category); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SeedMovements upserts movements and replaces their aliases in one transaction.
// Returns the number of movements written.
func (db *DB) SeedMovements(ctx context.Context, movements []models.MovementRow) (int, error) {
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		for _, m := range movements {
			if _, err := tx.Exec(ctx,
				`INSERT INTO movements (id, canonical_name, display_name, category, canonical_key, display_key)
				 VALUES ($1,$2,$3,$4,$5,$6)
				 ON CONFLICT (id) DO UPDATE SET
				 canonical_name = EXCLUDED.canonical_name, display_name = EXCLUDED.display_name,
				 category = EXCLUDED.category, canonical_key = EXCLUDED.canonical_key,
				 display_key = EXCLUDED.display_key`,
				m.ID, m.CanonicalName, m.DisplayName, m.Category,
				parser.NormalizeName(m.CanonicalName), parser.NormalizeName(m.DisplayName)); err != nil {
				return fmt.Errorf("upserting movement %s: %w", m.ID, err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM movement_aliases WHERE movement_id = $1`, m.ID); err != nil {
				return fmt.Errorf("clearing aliases for %s: %w", m.ID, err)
			}
			for _, alias := range m.Aliases {
				key := parser.NormalizeName(alias)
				if key == "" {
					continue
				}
				if _, err := tx.Exec(ctx,
					`INSERT INTO movement_aliases (alias_key, alias, movement_id)
					 VALUES ($1,$2,$3)
					 ON CONFLICT (alias_key) DO UPDATE SET alias = EXCLUDED.alias, movement_id = EXCLUDED.movement_id`,
					key, alias, m.ID); err != nil {
					return fmt.Errorf("inserting alias %q: %w", alias, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(movements), nil
}
