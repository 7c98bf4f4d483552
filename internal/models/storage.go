package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ParsedWorkoutRow is a row ready for insertion into the parsed_workouts table.
type ParsedWorkoutRow struct {
	ID              uuid.UUID       `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	Source          string          `json:"source"`
	Title           string          `json:"title,omitempty"`
	WorkoutType     string          `json:"workout_type"`
	ConfidenceScore int             `json:"confidence_score"`
	ConfidenceLevel string          `json:"confidence_level"`
	IsUsable        bool            `json:"is_usable"`
	OriginalText    string          `json:"original_text"`
	Description     string          `json:"description"`
	Result          json.RawMessage `json:"result,omitempty"`
}

// ParsedMovementRow is a row for the parsed_movements table.
type ParsedMovementRow struct {
	WorkoutID  uuid.UUID `json:"workout_id"`
	Position   int       `json:"position"`
	LineNumber int       `json:"line_number"`
	Name       string    `json:"name"`
	MovementID *string   `json:"movement_id"`
	Reps       *int      `json:"reps"`
	MatchScore int       `json:"match_score"`
}

// ParsedWorkoutDetail is a saved parse with its movement rows.
type ParsedWorkoutDetail struct {
	ParsedWorkoutRow
	Movements []ParsedMovementRow `json:"movements"`
}

// MovementRow is a row for the movements table plus its aliases.
type MovementRow struct {
	ID            string
	CanonicalName string
	DisplayName   string
	Category      string
	Aliases       []string
}

// ImportLogRow records one batch import run.
type ImportLogRow struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	FilesSeen    int       `json:"files_seen"`
	FilesParsed  int       `json:"files_parsed"`
	FilesSkipped int       `json:"files_skipped"`
	FilesFailed  int       `json:"files_failed"`
	DurationMs   *int      `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}
