package parser

import (
	"fmt"
	"strings"
)

// LegacyWorkout is the structured workout shape for callers that do not need
// confidence metadata.
type LegacyWorkout struct {
	Name            string           `json:"name,omitempty"`
	Type            WorkoutType      `json:"type"`
	TimeCapSeconds  *int             `json:"time_cap_seconds,omitempty"`
	Rounds          *int             `json:"rounds,omitempty"`
	IntervalSeconds *int             `json:"interval_seconds,omitempty"`
	RepScheme       []int            `json:"rep_scheme,omitempty"`
	Description     string           `json:"description"`
	Movements       []LegacyMovement `json:"movements"`
}

// LegacyMovement flattens a MovementLine into scalar fields.
type LegacyMovement struct {
	Order           int      `json:"order"`
	MovementID      string   `json:"movement_id,omitempty"`
	Name            string   `json:"name"`
	Reps            *int     `json:"reps,omitempty"`
	WeightMale      *float64 `json:"weight_male,omitempty"`
	WeightFemale    *float64 `json:"weight_female,omitempty"`
	WeightUnit      string   `json:"weight_unit,omitempty"`
	DistanceMeters  *float64 `json:"distance_meters,omitempty"`
	Calories        *int     `json:"calories,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// ToLegacy converts a Result into the legacy workout shape.
func ToLegacy(r *Result) *LegacyWorkout {
	w := &LegacyWorkout{
		Name:            r.Title,
		Type:            r.Type.Type,
		TimeCapSeconds:  r.Type.TimeCapSeconds,
		Rounds:          r.Type.Rounds,
		IntervalSeconds: r.Type.IntervalSeconds,
		Description:     r.Description,
		Movements:       make([]LegacyMovement, 0, len(r.Movements)),
	}
	switch {
	case r.WorkoutScheme != nil:
		w.RepScheme = r.WorkoutScheme.Reps
	case r.Type.Scheme != nil:
		w.RepScheme = r.Type.Scheme.Reps
	}

	for i, m := range r.Movements {
		lm := LegacyMovement{
			Order:           i + 1,
			MovementID:      m.MovementID,
			Name:            m.Name,
			Reps:            m.Reps,
			DurationSeconds: m.DurationSeconds,
		}
		if m.MatchedName != "" {
			lm.Name = m.MatchedName
		}
		switch {
		case m.WeightPair != nil:
			male, female := m.WeightPair.Male, m.WeightPair.Female
			lm.WeightMale, lm.WeightFemale = &male, &female
			lm.WeightUnit = string(m.WeightPair.Unit)
		case m.Weight != nil:
			v := m.Weight.Value
			lm.WeightMale, lm.WeightFemale = &v, &v
			lm.WeightUnit = string(m.Weight.Unit)
		}
		if m.Distance != nil {
			meters := m.Distance.Meters()
			lm.DistanceMeters = &meters
		}
		switch {
		case m.CaloriePair != nil:
			lm.Calories = intPtr(m.CaloriePair.Male)
		case m.Calories != nil:
			lm.Calories = intPtr(m.Calories.Value)
		}
		lm.Notes = legacyNotes(m)
		w.Movements = append(w.Movements, lm)
	}
	return w
}

func legacyNotes(m MovementLine) string {
	var notes []string
	if m.Slot != "" {
		notes = append(notes, m.Slot)
	}
	if m.Percentage != nil {
		p := fmt.Sprintf("%g%%", m.Percentage.Percent)
		if m.Percentage.Reference != "" {
			p += " " + m.Percentage.Reference
		}
		notes = append(notes, p)
	}
	if m.Marker != "" {
		notes = append(notes, m.Marker)
	}
	if m.Modifier != "" {
		notes = append(notes, m.Modifier)
	}
	if m.RepScheme != nil {
		notes = append(notes, m.RepScheme.String())
	}
	return strings.Join(notes, "; ")
}
