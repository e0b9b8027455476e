// Package report tallies category distributions and prints human-readable
// progress for a correction run.
package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/starford/vocabfix/internal/corrector"
	"github.com/starford/vocabfix/internal/models"
	"github.com/starford/vocabfix/internal/reference"
	"github.com/starford/vocabfix/internal/storage"
)

// UnknownCategory counts records without a string category.
const UnknownCategory = "Unknown"

// Distribution maps a category name to the number of records carrying it.
type Distribution map[string]int

// Categories returns the category names sorted.
func (d Distribution) Categories() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Total returns the number of records counted.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Tally counts records per category.
func Tally(records []*models.Record) Distribution {
	d := make(Distribution)
	for _, r := range records {
		cat, ok := r.String(models.FieldCategory)
		if !ok {
			cat = UnknownCategory
		}
		d[cat]++
	}
	return d
}

// Printer writes the console report. Output is meant for people, not parsers.
type Printer struct {
	w          io.Writer
	sampleSize int
	verbose    bool
}

// NewPrinter returns a Printer writing to w. At most sampleSize unmatched
// words are listed; verbose adds one line per inspected record.
func NewPrinter(w io.Writer, sampleSize int, verbose bool) *Printer {
	return &Printer{w: w, sampleSize: sampleSize, verbose: verbose}
}

// Phase announces a step of the run.
func (p *Printer) Phase(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Distribution prints d under title, one category per line.
func (p *Printer) Distribution(title string, d Distribution) {
	fmt.Fprintf(p.w, "\n%s:\n", title)
	for _, cat := range d.Categories() {
		fmt.Fprintf(p.w, "  %s: %d words\n", cat, d[cat])
	}
	fmt.Fprintf(p.w, "  Total: %d words\n", d.Total())
}

// Corrections prints every change and miss when verbose output is enabled.
func (p *Printer) Corrections(res corrector.Result) {
	if !p.verbose {
		return
	}
	for _, c := range res.Corrections {
		fmt.Fprintf(p.w, "  ✓ %s → %s (%s)\n", c.English, c.Category, c.Level)
	}
	for _, w := range res.Unmatched {
		fmt.Fprintf(p.w, "  ✗ %s - not in reference table\n", w)
	}
}

// Summary prints fixed/not-found totals and a capped sample of misses.
func (p *Printer) Summary(res corrector.Result) {
	fmt.Fprintf(p.w, "\nFixed: %d words\n", res.Fixed)
	fmt.Fprintf(p.w, "Not found: %d words\n", res.NotFound)

	sample := res.Unmatched
	if len(sample) > p.sampleSize {
		sample = sample[:p.sampleSize]
	}
	if len(sample) == 0 {
		return
	}
	fmt.Fprintf(p.w, "\nUnmatched words (max %d):\n", p.sampleSize)
	for _, w := range sample {
		fmt.Fprintf(p.w, "  - %s\n", w)
	}
}

// Pending prints placeholder records and how each would be resolved.
func (p *Printer) Pending(placeholder string, pending []corrector.Pending) {
	fmt.Fprintf(p.w, "\nWords in category %q: %d\n", placeholder, len(pending))
	for _, item := range pending {
		target := "no match"
		if item.Resolved {
			target = fmt.Sprintf("%s (%s)", item.Entry.Category, item.Entry.Level)
		}
		fmt.Fprintf(p.w, "  [%s] %s → %s\n", item.Level, item.English, target)
	}
}

// Runs prints recorded correction passes, most recent first.
func (p *Printer) Runs(runs []storage.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, "No runs recorded")
		return
	}
	for _, r := range runs {
		mode := ""
		if r.DryRun {
			mode = " (dry run)"
		}
		fmt.Fprintf(p.w, "%s  %s  fixed %d, not found %d, took %s%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.ID, r.Fixed, r.NotFound,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond), mode)
	}
}

// Overrides prints reference words defined more than once.
func (p *Printer) Overrides(overrides []reference.Override) {
	if len(overrides) == 0 {
		return
	}
	fmt.Fprintf(p.w, "\nReference words defined more than once (last definition wins):\n")
	for _, o := range overrides {
		fmt.Fprintf(p.w, "  %q: %s (%s) replaced by %s (%s)\n",
			o.Word, o.Previous.Category, o.Previous.Level, o.Current.Category, o.Current.Level)
	}
}
