// Package reference builds the word → (category, level) lookup used to
// repair placeholder-tagged vocabulary records.
package reference

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/vocabfix/internal/apperr"
)

//go:embed words.yaml
var defaultTableYAML []byte

// Table is the curated reference data: levels, each holding categories,
// each holding words. Slices keep document order.
type Table struct {
	Levels []Level
}

// Level is one proficiency tier (A1, A2, ...).
type Level struct {
	Name       string
	Categories []Category
}

// Category is a topical group of words within a level.
type Category struct {
	Name  string
	Words []string
}

// WordCount returns the number of word entries, duplicates included.
func (t *Table) WordCount() int {
	n := 0
	for _, l := range t.Levels {
		for _, c := range l.Categories {
			n += len(c.Words)
		}
	}
	return n
}

// DefaultTable returns the table compiled into the binary.
func DefaultTable() (*Table, error) {
	return LoadTable(bytes.NewReader(defaultTableYAML))
}

// LoadTableFile reads a table from a YAML file on disk.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reference: open %s: %w", path, err)
	}
	defer f.Close()
	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reference: %s: %w", path, err)
	}
	return t, nil
}

// LoadTable parses a YAML mapping of level → category → word list. The node
// API is used instead of plain maps so that the order of the document, which
// decides which duplicate wins, survives parsing.
func LoadTable(r io.Reader) (*Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("%w: reference table: %v", apperr.ErrMalformed, err)
	}
	if len(doc.Content) == 0 {
		return &Table{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed(root, "top level must map levels to categories")
	}

	t := &Table{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		levelKey, levelVal := root.Content[i], root.Content[i+1]
		if levelVal.Kind != yaml.MappingNode {
			return nil, malformed(levelVal, "level %q must map categories to word lists", levelKey.Value)
		}
		level := Level{Name: levelKey.Value}
		for j := 0; j+1 < len(levelVal.Content); j += 2 {
			catKey, catVal := levelVal.Content[j], levelVal.Content[j+1]
			if catVal.Kind != yaml.SequenceNode {
				return nil, malformed(catVal, "category %q in level %q must be a list of words", catKey.Value, level.Name)
			}
			cat := Category{Name: catKey.Value, Words: make([]string, 0, len(catVal.Content))}
			for _, w := range catVal.Content {
				if w.Kind != yaml.ScalarNode {
					return nil, malformed(w, "category %q in level %q holds a non-scalar word", cat.Name, level.Name)
				}
				cat.Words = append(cat.Words, w.Value)
			}
			level.Categories = append(level.Categories, cat)
		}
		t.Levels = append(t.Levels, level)
	}
	return t, nil
}

func malformed(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: reference table line %d: %s", apperr.ErrMalformed, n.Line, fmt.Sprintf(format, args...))
}
