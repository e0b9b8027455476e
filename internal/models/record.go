// Package models defines the domain types for vocabfix.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Well-known record fields. Every other field is carried through untouched.
const (
	FieldEnglish  = "english"
	FieldCategory = "category"
	FieldLevel    = "level"
)

// Record is one vocabulary entry. Fields keep the order they were decoded in
// and values of fields that are never set are re-emitted verbatim.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, json.RawMessage]()}
}

// String returns the value of key when it is present and holds a JSON string.
// A null value counts as absent.
func (r *Record) String(key string) (string, bool) {
	raw, ok := r.fields.Get(key)
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// SetString sets key to a string value. An existing key keeps its position,
// a new key is appended.
func (r *Record) SetString(key, value string) {
	r.fields.Set(key, json.RawMessage(encodeString(value)))
}

// UnmarshalJSON decodes a JSON object, preserving field order.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("record must be a JSON object")
	}
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

// MarshalJSON encodes the record compactly without HTML escaping, so
// non-ASCII text and <, >, & are written literally.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(encodeString(pair.Key))
		buf.WriteByte(':')
		if err := json.Compact(&buf, pair.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", pair.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}
