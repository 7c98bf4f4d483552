package parser

import (
	"sort"
	"strings"
)

// Minimum length of a candidate name for the partial-match rules. Shorter
// names ("du", "hs") only match exactly.
const minPartialLen = 3

type matchField int

const (
	fieldCanonical matchField = iota
	fieldDisplay
	fieldAlias
)

type matchKind int

const (
	kindExact     matchKind = iota
	kindPrefix              // query starts with the candidate
	kindSubstring           // query contains the candidate
	kindContained           // candidate contains the query
)

type matchRule struct {
	field matchField
	kind  matchKind
	score int
}

// matchRules is evaluated top to bottom; the first rule that hits any movement
// decides the score.
var matchRules = []matchRule{
	{fieldCanonical, kindExact, 100},
	{fieldDisplay, kindExact, 95},
	{fieldAlias, kindExact, 90},
	{fieldCanonical, kindPrefix, 70},
	{fieldDisplay, kindPrefix, 65},
	{fieldAlias, kindPrefix, 60},
	{fieldCanonical, kindSubstring, 40},
	{fieldDisplay, kindSubstring, 35},
	{fieldAlias, kindSubstring, 30},
	{fieldCanonical, kindContained, 20},
}

// exactFloor is the lowest score an exact rule can produce.
const exactFloor = 90

func (k matchKind) hit(query, candidate string) bool {
	if candidate == "" || query == "" {
		return false
	}
	switch k {
	case kindExact:
		return query == candidate
	case kindPrefix:
		return len(candidate) >= minPartialLen && strings.HasPrefix(query, candidate)
	case kindSubstring:
		return len(candidate) >= minPartialLen && strings.Contains(query, candidate)
	case kindContained:
		return len(query) > 2 && strings.Contains(candidate, query)
	}
	return false
}

type snapshotEntry struct {
	movement  Movement
	canonical string
	display   string
	aliases   []string
}

func (e snapshotEntry) names(f matchField) []string {
	switch f {
	case fieldCanonical:
		return []string{e.canonical}
	case fieldDisplay:
		return []string{e.display}
	default:
		return e.aliases
	}
}

// Snapshot is a read-only view of the vocabulary taken once per parse.
type Snapshot struct {
	entries []snapshotEntry
}

// Resolution is a scored vocabulary match.
type Resolution struct {
	Movement Movement
	Score    int
}

// NewSnapshot builds a snapshot from movements and a normalized alias -> ID map.
// Movements are ordered by ID so resolution is deterministic.
func NewSnapshot(movements []Movement, aliases map[string]string) *Snapshot {
	byID := make(map[string][]string)
	for alias, id := range aliases {
		byID[id] = append(byID[id], NormalizeName(alias))
	}

	sorted := make([]Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s := &Snapshot{entries: make([]snapshotEntry, 0, len(sorted))}
	for _, m := range sorted {
		a := byID[m.ID]
		sort.Strings(a)
		s.entries = append(s.entries, snapshotEntry{
			movement:  m,
			canonical: NormalizeName(m.CanonicalName),
			display:   NormalizeName(m.DisplayName),
			aliases:   a,
		})
	}
	return s
}

// Len returns the number of movements in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Resolve scores name against the snapshot. When no exact rule hits, singular and
// plural variants are tried and the best score kept.
func (s *Snapshot) Resolve(name string) (Resolution, bool) {
	if s.Len() == 0 {
		return Resolution{}, false
	}
	query := NormalizeName(name)
	if query == "" {
		return Resolution{}, false
	}

	best, ok := s.score(query)
	if ok && best.Score >= exactFloor {
		return best, true
	}
	for _, v := range pluralVariants(query) {
		if r, vok := s.score(v); vok && (!ok || r.Score > best.Score) {
			best, ok = r, true
		}
	}
	return best, ok
}

// score returns the first rule with any hit. Within that rule the longest
// matching candidate wins, and equal lengths keep the lowest movement ID.
func (s *Snapshot) score(query string) (Resolution, bool) {
	for _, rule := range matchRules {
		var (
			found   *snapshotEntry
			longest int
		)
		for i := range s.entries {
			for _, cand := range s.entries[i].names(rule.field) {
				if rule.kind.hit(query, cand) && len(cand) > longest {
					found, longest = &s.entries[i], len(cand)
				}
			}
		}
		if found != nil {
			return Resolution{Movement: found.movement, Score: rule.score}, true
		}
	}
	return Resolution{}, false
}

func pluralVariants(q string) []string {
	var out []string
	if strings.HasSuffix(q, "es") && len(q) > 3 {
		out = append(out, strings.TrimSuffix(q, "es"))
	}
	if strings.HasSuffix(q, "s") && len(q) > 2 {
		out = append(out, strings.TrimSuffix(q, "s"))
	} else {
		out = append(out, q+"s")
	}
	return out
}
