package parser

import (
	"errors"

	"github.com/meltforce/wodparse/internal/parser/patterns"
)

var (
	// ErrEmptyInput is returned when the text contains nothing to parse.
	ErrEmptyInput = errors.New("parser: empty input")
	// ErrNilVocabulary is returned by New when no vocabulary is supplied.
	ErrNilVocabulary = errors.New("parser: nil vocabulary")
)

// WorkoutType is the classified shape of a workout.
type WorkoutType string

const (
	ForTime   WorkoutType = "for_time"
	Amrap     WorkoutType = "amrap"
	Emom      WorkoutType = "emom"
	Intervals WorkoutType = "intervals"
	Rounds    WorkoutType = "rounds"
	Tabata    WorkoutType = "tabata"
)

// TypeMatch is the detector's verdict. Fields that do not apply to Type stay nil.
type TypeMatch struct {
	Type            WorkoutType         `json:"type"`
	TimeCapSeconds  *int                `json:"time_cap_seconds,omitempty"`
	Rounds          *int                `json:"rounds,omitempty"`
	IntervalSeconds *int                `json:"interval_seconds,omitempty"`
	WorkSeconds     *int                `json:"work_seconds,omitempty"`
	RestSeconds     *int                `json:"rest_seconds,omitempty"`
	Scheme          *patterns.RepScheme `json:"scheme,omitempty"`
	Confidence      float64             `json:"confidence"`
	Matched         string              `json:"matched,omitempty"`
	// Err describes a shape the detector saw but declined, e.g. a distance repeat
	// that reads like an interval.
	Err string `json:"error,omitempty"`
}

// Line is one content line with its 1-based position in the source text.
type Line struct {
	Text   string `json:"text"`
	Number int    `json:"number"`
}

// Document is the preprocessed form of a workout text.
type Document struct {
	Original      string
	Text          string
	Title         string
	TitleLine     int
	Lines         []Line
	Headers       []Line
	WorkoutScheme *patterns.RepScheme
	// LineSchemes is keyed by index into Lines.
	LineSchemes map[int]patterns.RepScheme
}

// MovementLine is the parse of a single movement line.
type MovementLine struct {
	Line            string                   `json:"line"`
	LineNumber      int                      `json:"line_number"`
	Reps            *int                     `json:"reps,omitempty"`
	Name            string                   `json:"name"`
	Weight          *patterns.Weight         `json:"weight,omitempty"`
	WeightPair      *patterns.WeightPair     `json:"weight_pair,omitempty"`
	Distance        *patterns.Distance       `json:"distance,omitempty"`
	Calories        *patterns.Calories       `json:"calories,omitempty"`
	CaloriePair     *patterns.CaloriePair    `json:"calorie_pair,omitempty"`
	Percentage      *patterns.PercentageLoad `json:"percentage,omitempty"`
	DurationSeconds *int                     `json:"duration_seconds,omitempty"`
	Marker          string                   `json:"marker,omitempty"`
	Height          *patterns.Height         `json:"height,omitempty"`
	Modifier        string                   `json:"modifier,omitempty"`
	Slot            string                   `json:"slot,omitempty"`
	RepScheme       *patterns.RepScheme      `json:"rep_scheme,omitempty"`
	MovementID      string                   `json:"movement_id,omitempty"`
	MatchedName     string                   `json:"matched_name,omitempty"`
	Category        string                   `json:"category,omitempty"`
	MatchScore      int                      `json:"match_score,omitempty"`
}

// Identified reports whether the line resolved to a known movement.
func (m MovementLine) Identified() bool {
	return m.MovementID != ""
}

// empty reports a line that carried neither a name nor any quantity.
func (m MovementLine) empty() bool {
	return m.Name == "" && m.Reps == nil && m.Weight == nil && m.WeightPair == nil &&
		m.Distance == nil && m.Calories == nil && m.CaloriePair == nil && m.DurationSeconds == nil
}

// Severity of an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue tags.
const (
	IssueEmptyInput            = "EmptyInput"
	IssueMissingTypeMarker     = "MissingTypeMarker"
	IssueMissingTimeCap        = "MissingTimeCap"
	IssueAmbiguousInterval     = "AmbiguousInterval"
	IssueUnresolvedMovement    = "UnresolvedMovement"
	IssueLowConfidenceMatch    = "LowConfidenceMatch"
	IssueNoMovements           = "NoMovements"
	IssueVocabularyUnavailable = "VocabularyUnavailable"
	IssueCancelled             = "Cancelled"
)

// Issue is a warning or error attached to a parse.
type Issue struct {
	ErrorType  string   `json:"error_type"`
	Message    string   `json:"message"`
	LineNumber int      `json:"line_number"`
	Severity   Severity `json:"severity"`
}

// ConfidenceLevel buckets the confidence score.
type ConfidenceLevel string

const (
	Perfect ConfidenceLevel = "perfect"
	High    ConfidenceLevel = "high"
	Medium  ConfidenceLevel = "medium"
	Low     ConfidenceLevel = "low"
)

// Result is the outcome of parsing one workout text.
type Result struct {
	OriginalText    string              `json:"original_text"`
	Title           string              `json:"title,omitempty"`
	Type            TypeMatch           `json:"type"`
	WorkoutScheme   *patterns.RepScheme `json:"workout_scheme,omitempty"`
	Movements       []MovementLine      `json:"movements"`
	Errors          []Issue             `json:"errors"`
	ConfidenceScore int                 `json:"confidence_score"`
	ConfidenceLevel ConfidenceLevel     `json:"confidence_level"`
	Description     string              `json:"description"`
	IsUsable        bool                `json:"is_usable"`
}

func intPtr(n int) *int {
	return &n
}
