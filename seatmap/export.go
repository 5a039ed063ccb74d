package seatmap

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Export serializes the full preferences structure for a file download. The
// JSON round-trips through Import without losing order or priorities.
func Export(p Preferences) ([]byte, error) {
	// Keys become strings in JSON; keep an explicit map so Import can reject
	// non-numeric buckets instead of silently dropping them.
	out := make(map[string][]Strategy, len(p))
	for count, strategies := range p {
		out[strconv.Itoa(count)] = strategies
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("[Export] marshal preferences: %w", err)
	}
	return data, nil
}

// Import parses an exported preferences file. Bucket keys must be numeric and
// within range; priorities are re-derived from array position, so a file with
// stale ranks still imports into a consistent state.
func Import(data []byte) (Preferences, error) {
	var in map[string][]Strategy
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("[Import] parse preferences file: %w", err)
	}

	p := NewPreferences()
	for key, strategies := range in {
		count, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("[Import] bucket key %q is not a passenger count", key)
		}
		if count < MinPassengers || count > MaxPassengers {
			return nil, fmt.Errorf("[Import] passenger count %d out of range", count)
		}
		if strategies == nil {
			strategies = []Strategy{}
		}
		renumber(strategies)
		p[count] = strategies
	}
	return p, nil
}
