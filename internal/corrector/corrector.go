// Package corrector reassigns placeholder-tagged word records to the category
// and level the reference map knows them by.
package corrector

import (
	"strings"

	"github.com/starford/vocabfix/internal/models"
	"github.com/starford/vocabfix/internal/reference"
)

// DefaultPlaceholder is the category given to records whose real category
// was never assigned.
const DefaultPlaceholder = "General"

// Option configures a correction pass.
type Option func(*options)

type options struct {
	placeholder string
}

// WithPlaceholder overrides DefaultPlaceholder. Comparison ignores case.
func WithPlaceholder(p string) Option {
	return func(o *options) {
		if p != "" {
			o.placeholder = p
		}
	}
}

func newOptions(opts []Option) options {
	o := options{placeholder: DefaultPlaceholder}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Correction describes one record that was reassigned.
type Correction struct {
	Index    int
	English  string
	Category string
	Level    string
}

// Result summarises a correction pass.
type Result struct {
	Fixed       int
	NotFound    int
	Unmatched   []string
	Corrections []Correction
}

// Apply corrects records in place. Only records whose category equals the
// placeholder are inspected; a hit overwrites category and level together,
// a miss leaves the record untouched and is reported in Unmatched.
func Apply(records []*models.Record, ref reference.Map, opts ...Option) Result {
	o := newOptions(opts)

	var res Result
	for i, r := range records {
		if !isPlaceholder(r, o.placeholder) {
			continue
		}

		// A record without english is a miss, never an abort.
		english, hasEnglish := r.String(models.FieldEnglish)
		entry, ok := reference.Entry{}, false
		if hasEnglish {
			entry, ok = ref.Lookup(english)
		}
		if !ok {
			res.NotFound++
			res.Unmatched = append(res.Unmatched, english)
			continue
		}

		r.SetString(models.FieldCategory, entry.Category)
		r.SetString(models.FieldLevel, entry.Level)
		res.Fixed++
		res.Corrections = append(res.Corrections, Correction{
			Index:    i,
			English:  english,
			Category: entry.Category,
			Level:    entry.Level,
		})
	}
	return res
}

// Pending describes a placeholder record and what Apply would do with it.
type Pending struct {
	Index    int
	English  string
	Level    string
	Resolved bool
	Entry    reference.Entry
}

// Inspect lists placeholder records with their would-be resolution without
// modifying anything.
func Inspect(records []*models.Record, ref reference.Map, opts ...Option) []Pending {
	o := newOptions(opts)

	var out []Pending
	for i, r := range records {
		if !isPlaceholder(r, o.placeholder) {
			continue
		}
		p := Pending{Index: i}
		p.Level, _ = r.String(models.FieldLevel)
		if english, ok := r.String(models.FieldEnglish); ok {
			p.English = english
			p.Entry, p.Resolved = ref.Lookup(english)
		}
		out = append(out, p)
	}
	return out
}

func isPlaceholder(r *models.Record, placeholder string) bool {
	category, ok := r.String(models.FieldCategory)
	if !ok {
		return false
	}
	return strings.ToLower(category) == strings.ToLower(placeholder)
}
