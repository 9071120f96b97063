package db

import (
	"encoding/json"
	"fmt"
)

// encodeList stores a list column. nil and empty both become "[]".
func encodeList[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

// decodeList reads a list column; empty lists come back nil
func decodeList[T any](raw string) ([]T, error) {
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}
