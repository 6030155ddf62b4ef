package metrics

import "unicode/utf8"

// Fixed per-message overhead for deterministic estimates; changing this requires updating the guard test.
const messageOverhead = 4

// EstimateTokens is a deterministic input-size estimate for a history:
// rune count of every message plus a fixed overhead each. It is only
// reported, never used to trim what is sent.
func EstimateTokens(contents ...string) int {
	total := 0
	for _, c := range contents {
		total += utf8.RuneCountInString(c) + messageOverhead
	}
	return total
}
