package parser

import (
	"context"
	"strings"
)

// Movement describes a canonical movement in the vocabulary.
type Movement struct {
	ID            string `json:"id"`
	CanonicalName string `json:"canonical_name"`
	DisplayName   string `json:"display_name"`
	Category      string `json:"category"`
}

// Vocabulary is the movement lookup capability the parser consumes. All methods
// are read-only. Lookups that find nothing return nil (or false) with a nil error.
type Vocabulary interface {
	// AliasMap returns normalized alias -> movement ID.
	AliasMap(ctx context.Context) (map[string]string, error)
	// Normalize maps free text to a canonical name.
	Normalize(ctx context.Context, text string) (string, bool, error)
	FindByCanonicalName(ctx context.Context, name string) (*Movement, error)
	FindByAlias(ctx context.Context, text string) (*Movement, error)
	// Search returns movements matching query ordered by ID; "" returns all.
	Search(ctx context.Context, query string) ([]Movement, error)
}

var nameStripper = strings.NewReplacer("-", "", "_", "", " ", "", "'", "", "’", "")

// NormalizeName is the comparison form of a movement name: hyphens, underscores,
// spaces and apostrophes removed, lowercased.
func NormalizeName(s string) string {
	return strings.ToLower(nameStripper.Replace(strings.TrimSpace(s)))
}
