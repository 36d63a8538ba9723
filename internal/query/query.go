package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Wildcard matches everything; used when there are no terms and no language.
const Wildcard = "*"

var ErrUnknownPreset = errors.New("unknown preset")

// Build serializes terms and an optional language code into the search query grammar:
// terms become one parenthesized OR-group, lang becomes a lang: clause.
func Build(terms []string, lang string) string {
	var clauses []string
	if len(terms) > 0 {
		clauses = append(clauses, "("+strings.Join(terms, " OR ")+")")
	}
	if lang != "" {
		clauses = append(clauses, "lang:"+lang)
	}
	if len(clauses) == 0 {
		return Wildcard
	}
	return strings.Join(clauses, " ")
}

// Presets maps a preset name to its hashtag list. Build one with NewPresets;
// lookups return copies so callers cannot mutate it.
type Presets struct {
	m map[string][]string
}

// NewPresets copies m, normalizing every term.
func NewPresets(m map[string][]string) Presets {
	p := Presets{m: make(map[string][]string, len(m))}
	for name, tags := range m {
		p.m[name] = cleanTerms(tags)
	}
	return p
}

// Lookup returns the hashtags of a preset.
func (p Presets) Lookup(name string) ([]string, bool) {
	tags, ok := p.m[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), tags...), true
}

// Names returns preset names sorted.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p.m))
	for n := range p.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Terms resolves the match terms of a run: the named preset when preset is set,
// the literal hashtags otherwise.
func Terms(p Presets, preset string, hashtags []string) ([]string, error) {
	if preset != "" {
		tags, ok := p.Lookup(preset)
		if !ok {
			return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownPreset, preset, strings.Join(p.Names(), ", "))
		}
		return tags, nil
	}
	return cleanTerms(hashtags), nil
}

// cleanTerms trims, drops empties and NFC-normalizes so composed and decomposed
// accents (e.g. "#FabryEspañol") produce the same query.
func cleanTerms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, norm.NFC.String(t))
	}
	return out
}
