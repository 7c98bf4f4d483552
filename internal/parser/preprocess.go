package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/meltforce/wodparse/internal/parser/patterns"
)

const maxTitleLen = 50

var (
	punctReplacer = strings.NewReplacer(
		"\r\n", "\n", "\r", "\n", "\t", " ",
		"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "−", "-",
		"×", "x", "‘", "'", "’", "'", "“", `"`, "”", `"`,
	)

	// thousandsRe matches a digit-grouping comma: 1,000m
	thousandsRe = regexp.MustCompile(`(\d),(\d{3})\b`)

	// bulletRe matches list markers: "- ", "* ", "• ", "1. ", "2) "
	bulletRe = regexp.MustCompile(`^(?:[-*•·>]+|\d{1,2}[.)])\s+`)

	// inlineHeaderRe splits "AMRAP 20: 5 Pull-ups" into header and body.
	inlineHeaderRe = regexp.MustCompile(`^([^:]+?):\s+(.+)$`)

	// emptyParensRe matches brackets left holding only separators once their
	// quantities are stripped: "()", "( , )", "[ / ]"
	emptyParensRe = regexp.MustCompile(`\([\s,;/&+\-]*\)|\[[\s,;/&+\-]*\]`)
)

// Preprocess normalizes raw workout text into a Document. It returns
// ErrEmptyInput when the text has no non-blank line.
func Preprocess(text string) (*Document, error) {
	raw := splitLines(normalizeText(text))
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	texts := make([]string, len(raw))
	for i, ln := range raw {
		texts[i] = ln.Text
	}
	doc := &Document{
		Original:    text,
		Text:        strings.Join(texts, "\n"),
		LineSchemes: make(map[int]patterns.RepScheme),
	}

	if len(raw) > 1 && isTitle(raw[0].Text) {
		doc.Title = cleanTitle(raw[0].Text)
		doc.TitleLine = raw[0].Number
		raw = raw[1:]
	}

	for _, ln := range raw {
		text := ln.Text

		if doc.WorkoutScheme == nil && len(doc.Lines) == 0 {
			if s, ok := patterns.MatchChipperLine(text); ok {
				doc.WorkoutScheme = &s
				continue
			}
			if s, ok := patterns.MatchPerRoundLine(text); ok {
				doc.WorkoutScheme = &s
				continue
			}
		}

		header, body := splitHeader(text)
		if header != "" {
			doc.Headers = append(doc.Headers, Line{Text: header, Number: ln.Number})
		}
		if body == "" {
			continue
		}

		if sm, ok := patterns.MatchSchemeMovement(body); ok {
			items := splitItems(sm.Movement)
			if len(items) > 1 && doc.WorkoutScheme == nil && len(doc.Lines) == 0 {
				s := sm.Scheme
				doc.WorkoutScheme = &s
				for _, item := range items {
					doc.Lines = append(doc.Lines, Line{Text: item, Number: ln.Number})
				}
				continue
			}
			for _, item := range items {
				doc.LineSchemes[len(doc.Lines)] = sm.Scheme
				doc.Lines = append(doc.Lines, Line{Text: item, Number: ln.Number})
			}
			continue
		}

		for _, item := range splitItems(body) {
			// "5 x 400m Run, rest 1:00": the rest part is structure, not a movement.
			if patterns.IsRestNote(item) {
				doc.Headers = append(doc.Headers, Line{Text: item, Number: ln.Number})
				continue
			}
			doc.Lines = append(doc.Lines, Line{Text: item, Number: ln.Number})
		}
	}
	return doc, nil
}

func normalizeText(text string) string {
	s := norm.NFKC.String(text)
	s = punctReplacer.Replace(s)
	return thousandsRe.ReplaceAllString(s, "${1}${2}")
}

// splitLines returns trimmed, bullet-free, non-blank lines with their source numbers.
func splitLines(text string) []Line {
	var lines []Line
	for i, l := range strings.Split(text, "\n") {
		l = strings.Join(strings.Fields(l), " ")
		l = strings.TrimSpace(bulletRe.ReplaceAllString(l, ""))
		if l == "" {
			continue
		}
		lines = append(lines, Line{Text: l, Number: i + 1})
	}
	return lines
}

func isTitle(line string) bool {
	if len(line) > maxTitleLen || strings.ContainsAny(line, ",;") {
		return false
	}
	if patterns.IsHeaderLine(line) || patterns.HasTypeMarker(line) || patterns.LooksLikeMovement(line) ||
		patterns.HasQuantity(line) {
		return false
	}
	if _, ok := patterns.MatchChipperLine(line); ok {
		return false
	}
	if _, ok := patterns.MatchPerRoundLine(line); ok {
		return false
	}
	if _, ok := patterns.MatchSchemeMovement(line); ok {
		return false
	}
	if _, ok := patterns.MatchRoundCount(line); ok {
		return false
	}
	if _, ok := patterns.MatchSlot(line); ok {
		return false
	}
	return true
}

func cleanTitle(line string) string {
	t := strings.TrimRight(strings.TrimSpace(line), ":.")
	return strings.TrimSpace(strings.Trim(t, `"'`))
}

// splitHeader separates a structural prefix from the movement text on a line.
// Either part may be empty.
func splitHeader(line string) (header, body string) {
	if patterns.IsHeaderLine(line) {
		return line, ""
	}
	if m := inlineHeaderRe.FindStringSubmatch(line); m != nil && patterns.IsHeaderLine(m[1]) {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if marker, ok := patterns.MatchTabata(line); ok {
		rest := strings.Trim(strings.Replace(line, marker, "", 1), " :-")
		return marker, rest
	}
	return "", line
}

// splitItems splits a line on commas and semicolons outside parentheses.
func splitItems(line string) []string {
	var items []string
	depth, start := 0, 0
	flush := func(end int) {
		if item := strings.TrimSpace(line[start:end]); item != "" {
			items = append(items, strings.TrimSpace(strings.TrimPrefix(item, "and ")))
		}
	}
	for i, r := range line {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',', ';':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(line))
	return items
}
