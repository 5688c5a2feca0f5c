package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StripCodeFences removes Markdown code-fence markers that models often
// wrap around JSON and trims the result.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Fields is a decoded JSON object whose values are read leniently: missing
// keys, nulls and values of the wrong type all read as absent.
type Fields map[string]json.RawMessage

// DecodeObject strips code fences from model output and decodes it as a
// JSON object. Blank output decodes to an empty object.
func DecodeObject(text string) (Fields, error) {
	text = StripCodeFences(text)
	if text == "" {
		return Fields{}, nil
	}
	var fields Fields
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Fields{}, fmt.Errorf("llm: decode json object: %w", err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, nil
}

// DecodeArray strips code fences and decodes a JSON array of objects.
func DecodeArray(text string) ([]Fields, error) {
	text = StripCodeFences(text)
	if text == "" {
		return nil, nil
	}
	var items []Fields
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("llm: decode json array: %w", err)
	}
	return items, nil
}

// String returns a trimmed, non-empty string value.
func (f Fields) String(key string) (string, bool) {
	raw, ok := f.raw(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || isNullWord(s) {
		return "", false
	}
	return s, true
}

// Number returns a numeric value. Numeric strings are accepted.
func (f Fields) Number(key string) (float64, bool) {
	raw, ok := f.raw(key)
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	s, ok := f.String(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Strings returns the string elements of an array value; a lone string is
// treated as a one-element list. Non-string elements are skipped.
func (f Fields) Strings(key string) []string {
	raw, ok := f.raw(key)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s, ok := f.String(key); ok {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Flag returns a boolean value, accepting "yes"/"no" style strings.
func (f Fields) Flag(key string) (bool, bool) {
	raw, ok := f.raw(key)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	s, ok := f.String(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(s) {
	case "yes", "y", "true":
		return true, true
	case "no", "n", "false":
		return false, true
	}
	return false, false
}

func (f Fields) raw(key string) (json.RawMessage, bool) {
	raw, ok := f[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func isNullWord(s string) bool {
	switch strings.ToLower(s) {
	case "null", "none", "n/a":
		return true
	}
	return false
}
