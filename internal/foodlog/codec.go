package foodlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// storedEntry is the persisted shape of an entry. Timestamps are RFC 3339
// text so they survive any string-valued key-value store.
type storedEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Calories  int    `json:"calories"`
	Timestamp string `json:"timestamp"`
}

// Encode serializes entries (in order) as a JSON array.
func Encode(entries []Entry) ([]byte, error) {
	stored := make([]storedEntry, len(entries))
	for i, e := range entries {
		stored[i] = storedEntry{
			ID:        e.ID,
			Name:      e.Name,
			Calories:  e.Calories,
			Timestamp: e.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return json.Marshal(stored)
}

// Decode parses a payload written by Encode.
// Any malformed element makes the whole payload invalid.
func Decode(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("payload is not a JSON array")
	}

	var stored []storedEntry
	if err := json.Unmarshal(trimmed, &stored); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}

	entries := make([]Entry, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for i, s := range stored {
		if s.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true

		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("entry %d: missing name", i)
		}
		if s.Calories <= 0 || s.Calories > MaxCalories {
			return nil, fmt.Errorf("entry %d: calories out of range, got %d", i, s.Calories)
		}

		createdAt, err := time.Parse(time.RFC3339Nano, s.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("entry %d: timestamp: %w", i, err)
		}

		entries = append(entries, Entry{
			ID:        s.ID,
			Name:      name,
			Calories:  s.Calories,
			CreatedAt: createdAt.UTC(),
		})
	}

	return entries, nil
}
