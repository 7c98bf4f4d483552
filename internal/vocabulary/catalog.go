// Package vocabulary provides movement vocabularies for the workout parser.
package vocabulary

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
)

//go:embed movements.yaml
var defaultCatalog []byte

// Entry is one movement as written in a catalog file.
type Entry struct {
	ID        string   `yaml:"id" json:"id"`
	Canonical string   `yaml:"canonical" json:"canonical_name"`
	Display   string   `yaml:"display" json:"display_name"`
	Category  string   `yaml:"category" json:"category"`
	Aliases   []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Catalog is an in-memory vocabulary. It is read-only after loading.
type Catalog struct {
	entries     []Entry
	movements   []parser.Movement
	byID        map[string]parser.Movement
	byCanonical map[string]string // normalized canonical -> ID
	aliases     map[string]string // normalized alias -> ID
	lookup      map[string]string // aliases plus canonical and display names
}

var _ parser.Vocabulary = (*Catalog)(nil)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML.
//
// Expected format:
//
//	movements:
//	  - id: thruster
//	    canonical: thruster
//	    display: Thruster
//	    category: weightlifting
//	    aliases: [thrusters]
func Parse(data []byte) (*Catalog, error) {
	var file struct {
		Movements []Entry `yaml:"movements"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(file.Movements)
}

// New builds a catalog from entries. IDs must be unique and an alias may not
// point at two movements.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		byID:        make(map[string]parser.Movement, len(entries)),
		byCanonical: make(map[string]string, len(entries)),
		aliases:     make(map[string]string),
		lookup:      make(map[string]string),
	}

	for _, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		e.Canonical = strings.TrimSpace(e.Canonical)
		if e.ID == "" || e.Canonical == "" {
			return nil, fmt.Errorf("catalog entry %+v: id and canonical are required", e)
		}
		if e.Display == "" {
			e.Display = e.Canonical
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate movement id %q", e.ID)
		}

		m := parser.Movement{ID: e.ID, CanonicalName: e.Canonical, DisplayName: e.Display, Category: e.Category}
		c.byID[e.ID] = m
		c.byCanonical[parser.NormalizeName(e.Canonical)] = e.ID
		c.entries = append(c.entries, e)

		for _, a := range e.Aliases {
			key := parser.NormalizeName(a)
			if key == "" {
				continue
			}
			if other, ok := c.aliases[key]; ok && other != e.ID {
				return nil, fmt.Errorf("alias %q maps to both %s and %s", a, other, e.ID)
			}
			c.aliases[key] = e.ID
		}
	}

	for k, id := range c.aliases {
		c.lookup[k] = id
	}
	for _, e := range c.entries {
		for _, name := range []string{e.Canonical, e.Display} {
			if key := parser.NormalizeName(name); key != "" {
				if _, taken := c.lookup[key]; !taken {
					c.lookup[key] = e.ID
				}
			}
		}
	}

	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].ID < c.entries[j].ID })
	c.movements = make([]parser.Movement, 0, len(c.entries))
	for _, e := range c.entries {
		c.movements = append(c.movements, c.byID[e.ID])
	}
	return c, nil
}

// MovementRows returns the catalog as rows for seeding the movements tables.
func (c *Catalog) MovementRows() []models.MovementRow {
	rows := make([]models.MovementRow, 0, len(c.entries))
	for _, e := range c.entries {
		rows = append(rows, models.MovementRow{
			ID:            e.ID,
			CanonicalName: e.Canonical,
			DisplayName:   e.Display,
			Category:      e.Category,
			Aliases:       append([]string(nil), e.Aliases...),
		})
	}
	return rows
}

// Len returns the number of movements.
func (c *Catalog) Len() int {
	return len(c.movements)
}

// AliasMap returns a copy of the normalized alias -> ID map.
func (c *Catalog) AliasMap(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out, nil
}

// Normalize maps text to the canonical name of the movement it names.
func (c *Catalog) Normalize(_ context.Context, text string) (string, bool, error) {
	id, ok := c.lookup[parser.NormalizeName(text)]
	if !ok {
		return "", false, nil
	}
	return c.byID[id].CanonicalName, true, nil
}

// FindByCanonicalName returns the movement with the given canonical name, or nil.
func (c *Catalog) FindByCanonicalName(_ context.Context, name string) (*parser.Movement, error) {
	id, ok := c.byCanonical[parser.NormalizeName(name)]
	if !ok {
		return nil, nil
	}
	m := c.byID[id]
	return &m, nil
}

// FindByAlias returns the movement an alias, canonical or display name refers to, or nil.
func (c *Catalog) FindByAlias(_ context.Context, text string) (*parser.Movement, error) {
	id, ok := c.lookup[parser.NormalizeName(text)]
	if !ok {
		return nil, nil
	}
	m := c.byID[id]
	return &m, nil
}

// Search returns movements whose names or aliases contain query, ordered by ID.
// An empty query returns every movement.
func (c *Catalog) Search(_ context.Context, query string) ([]parser.Movement, error) {
	q := parser.NormalizeName(query)
	if q == "" {
		out := make([]parser.Movement, len(c.movements))
		copy(out, c.movements)
		return out, nil
	}

	var out []parser.Movement
	for _, e := range c.entries {
		if c.entryMatches(e, q) {
			out = append(out, c.byID[e.ID])
		}
	}
	return out, nil
}

func (c *Catalog) entryMatches(e Entry, q string) bool {
	for _, name := range append([]string{e.Canonical, e.Display}, e.Aliases...) {
		if strings.Contains(parser.NormalizeName(name), q) {
			return true
		}
	}
	return false
}
