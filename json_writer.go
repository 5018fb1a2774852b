package ystocker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err    error
	indent string // when set, one field per line
}

// Append adds a new key-value pair to the JSON object. The value is marshaled
// to JSON using `json.Marshal`.
func (w *jsonObjectWriter) Append(key string, value interface{}) *jsonObjectWriter {
	if w.err != nil {
		return w
	}

	var valBytes []byte
	var err error
	if w.indent != "" {
		valBytes, err = json.MarshalIndent(value, w.indent, w.indent)
	} else {
		valBytes, err = json.Marshal(value)
	}
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	keyBytes, _ := json.Marshal(key)

	if w.indent != "" {
		w.WriteString("\n")
		w.WriteString(w.indent)
	}
	w.Write(keyBytes)
	w.WriteString(":")
	if w.indent != "" {
		w.WriteString(" ")
	}
	w.Write(valBytes)
	w.WriteString(",")
	return w
}

// Optional appends a key-value pair to the JSON object only if the provided
// value is not its type's zero value.
func (w *jsonObjectWriter) Optional(key string, value interface{}) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON finalizes the JSON object construction, wraps the content in
// braces, and returns the complete JSON byte slice.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+4)
	final = append(final, '{')
	final = append(final, content...)
	if w.indent != "" && len(content) > 0 {
		final = append(final, '\n')
	}
	final = append(final, '}')

	return final, nil
}
