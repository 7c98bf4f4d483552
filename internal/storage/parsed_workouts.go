package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// DefaultListLimit caps ListParsedWorkouts when no limit is given.
const DefaultListLimit = 50

// ParsedWorkoutRows converts a parse result into rows for the parsed_workouts
// and parsed_movements tables.
func ParsedWorkoutRows(id uuid.UUID, source string, res *parser.Result) (models.ParsedWorkoutRow, []models.ParsedMovementRow, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return models.ParsedWorkoutRow{}, nil, fmt.Errorf("encoding parse result: %w", err)
	}

	w := models.ParsedWorkoutRow{
		ID:              id,
		Source:          source,
		Title:           res.Title,
		WorkoutType:     string(res.Type.Type),
		ConfidenceScore: res.ConfidenceScore,
		ConfidenceLevel: string(res.ConfidenceLevel),
		IsUsable:        res.IsUsable,
		OriginalText:    res.OriginalText,
		Description:     res.Description,
		Result:          raw,
	}

	movements := make([]models.ParsedMovementRow, 0, len(res.Movements))
	for i, m := range res.Movements {
		row := models.ParsedMovementRow{
			WorkoutID:  id,
			Position:   i,
			LineNumber: m.LineNumber,
			Name:       m.Name,
			Reps:       m.Reps,
			MatchScore: m.MatchScore,
		}
		if m.Identified() {
			mid := m.MovementID
			row.MovementID = &mid
		}
		movements = append(movements, row)
	}
	return w, movements, nil
}

// SaveParsedWorkout stores a parse result and its movements in one transaction.
func (db *DB) SaveParsedWorkout(ctx context.Context, source string, res *parser.Result) (uuid.UUID, error) {
	id := uuid.New()
	w, movements, err := ParsedWorkoutRows(id, source, res)
	if err != nil {
		return uuid.Nil, err
	}

	err = pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO parsed_workouts (id, source, title, workout_type, confidence_score,
			 confidence_level, is_usable, original_text, description, result)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			w.ID, w.Source, w.Title, w.WorkoutType, w.ConfidenceScore,
			w.ConfidenceLevel, w.IsUsable, w.OriginalText, w.Description, w.Result); err != nil {
			return fmt.Errorf("inserting parsed workout: %w", err)
		}
		return insertParsedMovements(ctx, tx, movements)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func insertParsedMovements(ctx context.Context, tx pgx.Tx, rows []models.ParsedMovementRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO parsed_movements (workout_id, position, line_number, name, movement_id, reps, match_score) VALUES `
	args := make([]any, 0, len(rows)*7)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, r.WorkoutID, r.Position, r.LineNumber, r.Name, r.MovementID, r.Reps, r.MatchScore)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting parsed movements: %w", err)
	}
	return nil
}

// ListParsedWorkouts returns the most recent saved parses, newest first.
// The full result JSON is left out of list rows.
func (db *DB) ListParsedWorkouts(ctx context.Context, limit int) ([]models.ParsedWorkoutRow, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, title, workout_type, confidence_score,
		 confidence_level, is_usable, original_text, description
		 FROM parsed_workouts
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying parsed workouts: %w", err)
	}
	defer rows.Close()

	var result []models.ParsedWorkoutRow
	for rows.Next() {
		var w models.ParsedWorkoutRow
		if err := rows.Scan(&w.ID, &w.CreatedAt, &w.Source, &w.Title, &w.WorkoutType,
			&w.ConfidenceScore, &w.ConfidenceLevel, &w.IsUsable, &w.OriginalText, &w.Description); err != nil {
			return nil, fmt.Errorf("scanning parsed workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetParsedWorkout retrieves a saved parse with its movement rows.
// Returns ErrNotFound when no workout has the given ID.
func (db *DB) GetParsedWorkout(ctx context.Context, id uuid.UUID) (*models.ParsedWorkoutDetail, error) {
	var w models.ParsedWorkoutRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, created_at, source, title, workout_type, confidence_score,
		 confidence_level, is_usable, original_text, description, result
		 FROM parsed_workouts
		 WHERE id = $1`,
		id).Scan(&w.ID, &w.CreatedAt, &w.Source, &w.Title, &w.WorkoutType,
		&w.ConfidenceScore, &w.ConfidenceLevel, &w.IsUsable, &w.OriginalText, &w.Description, &w.Result)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("parsed workout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying parsed workout: %w", err)
	}

	detail := &models.ParsedWorkoutDetail{ParsedWorkoutRow: w}

	rows, err := db.Pool.Query(ctx,
		`SELECT workout_id, position, line_number, name, movement_id, reps, match_score
		 FROM parsed_movements
		 WHERE workout_id = $1
		 ORDER BY position ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying parsed movements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ParsedMovementRow
		if err := rows.Scan(&m.WorkoutID, &m.Position, &m.LineNumber, &m.Name, &m.MovementID, &m.Reps, &m.MatchScore); err != nil {
			return nil, fmt.Errorf("scanning parsed movement: %w", err)
		}
		detail.Movements = append(detail.Movements, m)
	}
	return detail, rows.Err()
}
