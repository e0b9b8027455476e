package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRecords parses a JSON array of record objects.
func DecodeRecords(data []byte) ([]*Record, error) {
	// json.Unmarshal accepts a bare null as an empty slice.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("word data must be a JSON array")
	}
	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("record %d: record must be a JSON object", i)
		}
	}
	return records, nil
}

// EncodeRecords writes records as a compact JSON array with no trailing newline.
func EncodeRecords(records []*Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := r.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
