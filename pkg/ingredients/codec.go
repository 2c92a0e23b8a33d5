// Package ingredients converts recipe ingredient input to and from the
// canonical form stored on a recipe row.
package ingredients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"kitchenlog/domain"
	"strings"
)

// Parse accepts a JSON array of strings or a single comma-separated string.
// JSON null yields an empty list. Any other shape is rejected.
func Parse(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []string{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidIngredients, err)
		}
		return Normalize(items), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidIngredients, err)
		}
		return FromString(s), nil
	default:
		return nil, domain.ErrInvalidIngredients
	}
}

// FromString splits comma-separated text into normalized entries.
func FromString(s string) []string {
	return Normalize(strings.Split(s, ","))
}

// Normalize trims every entry and drops empty ones, keeping order.
func Normalize(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Serialize returns the stored form: a JSON array of the normalized list.
func Serialize(items []string) string {
	b, err := json.Marshal(Normalize(items))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Deserialize reads the stored form. Rows written before the JSON format are
// plain comma-separated text; anything unreadable becomes an empty list.
func Deserialize(stored string) []string {
	trimmed := strings.TrimSpace(stored)
	if trimmed == "" {
		return []string{}
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		switch v := decoded.(type) {
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				switch x := item.(type) {
				case string:
					items = append(items, x)
				case nil:
				default:
					items = append(items, fmt.Sprint(x))
				}
			}
			return Normalize(items)
		case string:
			return FromString(v)
		default:
			return []string{}
		}
	}

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return []string{}
	}
	return FromString(trimmed)
}
