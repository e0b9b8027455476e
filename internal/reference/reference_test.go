package reference

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabfix/internal/apperr"
)

func mustLoad(t *testing.T, doc string) *Table {
	t.Helper()
	tbl, err := LoadTable(strings.NewReader(doc))
	require.NoError(t, err)
	return tbl
}

func TestDefaultTable(t *testing.T) {
	tbl, err := DefaultTable()
	require.NoError(t, err)

	names := make([]string, 0, len(tbl.Levels))
	for _, l := range tbl.Levels {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"A1", "A2", "B1", "B2", "C1"}, names)
	assert.Equal(t, 386, tbl.WordCount())

	m := Build(tbl)
	assert.Len(t, m, 383)

	e, ok := m.Lookup("apple")
	require.True(t, ok)
	assert.Equal(t, Entry{Category: "Jedzenie", Level: "A1"}, e)

	e, ok = m.Lookup("Xenophobia")
	require.True(t, ok)
	assert.Equal(t, Entry{Category: "Społeczeństwo", Level: "C1"}, e)
}

func TestDefaultTableDuplicatesResolveToLastOccurrence(t *testing.T) {
	tbl, err := DefaultTable()
	require.NoError(t, err)
	m := Build(tbl)

	assert.Equal(t, Entry{Category: "Zakupy", Level: "A2"}, m["shop"])
	assert.Equal(t, Entry{Category: "Zdrowie", Level: "B1"}, m["hospital"])
	assert.Equal(t, Entry{Category: "Nauka", Level: "B2"}, m["research"])

	overrides := Overrides(tbl)
	require.Len(t, overrides, 3)
	assert.Equal(t, Override{
		Word:     "shop",
		Previous: Entry{Category: "Miasto", Level: "A2"},
		Current:  Entry{Category: "Zakupy", Level: "A2"},
	}, overrides[0])
	assert.Equal(t, "hospital", overrides[1].Word)
	assert.Equal(t, "research", overrides[2].Word)
}

func TestDefaultTableEmptyWord(t *testing.T) {
	tbl, err := DefaultTable()
	require.NoError(t, err)

	e, ok := Build(tbl).Lookup("")
	require.True(t, ok)
	assert.Equal(t, Entry{Category: "Psychologia", Level: "B2"}, e)

	_, ok = Build(tbl, SkipEmptyWords(true)).Lookup("")
	assert.False(t, ok)
}

func TestBuildLowercasesWords(t *testing.T) {
	tbl := mustLoad(t, "A1:\n  Food: [Apple, BREAD]\n")
	m := Build(tbl)

	_, ok := m["apple"]
	assert.True(t, ok)
	_, ok = m["Apple"]
	assert.False(t, ok)

	e, ok := m.Lookup("BrEaD")
	require.True(t, ok)
	assert.Equal(t, Entry{Category: "Food", Level: "A1"}, e)
}

func TestBuildLastWriteWinsAcrossLevels(t *testing.T) {
	tbl := mustLoad(t, `
B1:
  Zdrowie: [hospital]
A2:
  Miasto: [hospital]
`)
	// Document order, not level name order, decides.
	assert.Equal(t, Entry{Category: "Miasto", Level: "A2"}, Build(tbl)["hospital"])
}

func TestLoadTableKeepsScalarsAsText(t *testing.T) {
	tbl := mustLoad(t, "A1:\n  Misc: [no, yes, 10, null]\n")
	assert.Equal(t, []string{"no", "yes", "10", "null"}, tbl.Levels[0].Categories[0].Words)
}

func TestLoadTableEmptyDocument(t *testing.T) {
	tbl := mustLoad(t, "")
	assert.Empty(t, tbl.Levels)
	assert.Empty(t, Build(tbl))
}

func TestLoadTableRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"top-level list":    "- A1\n- A2\n",
		"level not mapping": "A1: [apple]\n",
		"category not list": "A1:\n  Food: apple\n",
		"nested word":       "A1:\n  Food: [[apple]]\n",
		"invalid yaml":      "A1:\n  Food: [apple\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrMalformed), "got %v", err)
		})
	}
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("C1:\n  Emocje: [wary]\n"), 0o644))

	tbl, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, Entry{Category: "Emocje", Level: "C1"}, Build(tbl)["wary"])

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
