package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodePreservesFieldsAndOrder(t *testing.T) {
	in := `[{"id":7,"english":"apple","polish":"jabłko","category":"General","examples":["An apple a day"],"meta":{"z":1,"a":2}}]`

	records, err := DecodeRecords([]byte(in))
	require.NoError(t, err)
	require.Len(t, records, 1)

	out, err := EncodeRecords(records)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestSetStringKeepsPositionAndAppends(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"english":"apple","category":"General"}]`))
	require.NoError(t, err)

	r := records[0]
	r.SetString(FieldCategory, "Jedzenie")
	r.SetString(FieldLevel, "A1")

	out, err := EncodeRecords(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"english":"apple","category":"Jedzenie","level":"A1"}]`, string(out))
}

func TestEncodeWritesNonASCIIAndHTMLLiterally(t *testing.T) {
	r := NewRecord()
	r.SetString("polish", "żółć <&>")

	out, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"polish":"żółć <&>"}`, string(out))
}

func TestEncodeCompactsNestedValues(t *testing.T) {
	records, err := DecodeRecords([]byte("[\n  {\n    \"english\": \"cat\",\n    \"tags\": [ \"a\", \"b\" ]\n  }\n]"))
	require.NoError(t, err)

	out, err := EncodeRecords(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"english":"cat","tags":["a","b"]}]`, string(out))
}

func TestStringAccessor(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"english":"Apple","category":3}]`))
	require.NoError(t, err)
	r := records[0]

	v, ok := r.String(FieldEnglish)
	assert.True(t, ok)
	assert.Equal(t, "Apple", v)

	_, ok = r.String(FieldCategory)
	assert.False(t, ok, "non-string value")

	_, ok = r.String(FieldLevel)
	assert.False(t, ok, "missing value")
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	cases := []string{
		`null`,
		`  null  `,
		``,
		`"words"`,
		`[null]`,
		`["apple"]`,
		`[1]`,
		`{"english":"apple"}`,
		`[{"english":`,
	}
	for _, c := range cases {
		_, err := DecodeRecords([]byte(c))
		assert.Error(t, err, "input %s", c)
	}
}
