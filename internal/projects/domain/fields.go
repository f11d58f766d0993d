package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Storage field names that other packages look up directly.
const (
	FieldCompanyName = "company_name"
	FieldServiceName = "service_name"
	FieldMainPurpose = "main_purpose"
)

// Fields is one content section: a flat mapping of string fields.
// Decoding tolerates list values (joined by newlines) and scalars.
type Fields map[string]string

func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("section must be an object: %w", err)
	}
	out := make(Fields, len(raw))
	for k, v := range raw {
		s, ok := fieldString(v)
		if ok {
			out[k] = s
		}
	}
	*f = out
	return nil
}

func fieldString(v json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", false
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := fieldString(it); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n"), true
	default:
		return string(trimmed), true
	}
}
