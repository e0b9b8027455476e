package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vocabfix/internal/apperr"
	"github.com/starford/vocabfix/internal/models"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestJSONFileLoadAndSave(t *testing.T) {
	in := `[{"id":1,"english":"apple","polish":"jabłko","category":"General"},{"id":2,"english":"dog","category":"Zwierzęta"}]`
	path := writeFile(t, in)
	store := NewJSONFile(path)
	ctx := context.Background()

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	records[0].SetString(models.FieldCategory, "Jedzenie")
	records[0].SetString(models.FieldLevel, "A1")
	require.NoError(t, store.Save(ctx, records))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"id":1,"english":"apple","polish":"jabłko","category":"Jedzenie","level":"A1"},{"id":2,"english":"dog","category":"Zwierzęta"}]`,
		string(got))
}

func TestJSONFileSavePreservesModeAndLeavesNoTemp(t *testing.T) {
	path := writeFile(t, `[]`)
	store := NewJSONFile(path)

	require.NoError(t, store.Save(context.Background(), nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, _ := os.ReadFile(path)
	assert.Equal(t, "[]", string(got))

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".vocabfix-tmp-*"))
	assert.Empty(t, matches)
}

func TestJSONFileLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := NewJSONFile(path).Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "load must not create the file")
}

func TestJSONFileLoadMalformed(t *testing.T) {
	cases := []string{
		`{"english":"apple"}`,
		`[{"english":"apple",}]`,
		`[null]`,
		`null`,
		``,
	}
	for _, c := range cases {
		path := writeFile(t, c)
		_, err := NewJSONFile(path).Load(context.Background())
		require.Error(t, err, "input %q", c)
		assert.True(t, errors.Is(err, apperr.ErrMalformed), "input %q: %v", c, err)

		got, _ := os.ReadFile(path)
		assert.Equal(t, c, string(got), "failed load must leave the file alone")
	}
}

func TestJSONFileSaveWritesThroughSymlink(t *testing.T) {
	target := writeFile(t, `[{"english":"apple","category":"General"}]`)
	link := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.Symlink(target, link))
	store := NewJSONFile(link)
	ctx := context.Background()

	records, err := store.Load(ctx)
	require.NoError(t, err)
	records[0].SetString(models.FieldCategory, "Jedzenie")
	require.NoError(t, store.Save(ctx, records))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0, "link must survive the save")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `[{"english":"apple","category":"Jedzenie"}]`, string(got))
}
