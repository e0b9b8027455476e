package reference

import "strings"

// Entry is the category and level a known word belongs to.
type Entry struct {
	Category string
	Level    string
}

// Map resolves a lowercased word to its entry.
type Map map[string]Entry

// Lookup folds word to lowercase and resolves it. Matching is exact.
func (m Map) Lookup(word string) (Entry, bool) {
	e, ok := m[strings.ToLower(word)]
	return e, ok
}

// BuildOption tweaks map construction.
type BuildOption func(*buildOptions)

type buildOptions struct {
	skipEmpty bool
}

// SkipEmptyWords leaves empty-string words out of the map. Without it an
// empty word in the table resolves records whose english text is "".
func SkipEmptyWords(skip bool) BuildOption {
	return func(o *buildOptions) {
		o.skipEmpty = skip
	}
}

// Build flattens t into a Map. Levels, categories and words are visited in
// table order and a word seen again overwrites the earlier entry.
func Build(t *Table, opts ...BuildOption) Map {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	m := make(Map, t.WordCount())
	walk(t, o, func(word string, e Entry) {
		m[word] = e
	})
	return m
}

// Override records a word whose earlier mapping was replaced during Build.
type Override struct {
	Word     string
	Previous Entry
	Current  Entry
}

// Overrides lists, in table order, every replacement Build performs.
func Overrides(t *Table, opts ...BuildOption) []Override {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	seen := make(map[string]Entry, t.WordCount())
	var out []Override
	walk(t, o, func(word string, e Entry) {
		if prev, ok := seen[word]; ok {
			out = append(out, Override{Word: word, Previous: prev, Current: e})
		}
		seen[word] = e
	})
	return out
}

func walk(t *Table, o buildOptions, fn func(word string, e Entry)) {
	for _, level := range t.Levels {
		for _, cat := range level.Categories {
			for _, w := range cat.Words {
				if w == "" && o.skipEmpty {
					continue
				}
				fn(strings.ToLower(w), Entry{Category: cat.Name, Level: level.Name})
			}
		}
	}
}
