package scraper

import (
	"sort"

	"github.com/s0up4200/sejmscraper/sejm"
)

// DedupeResult is the canonical working set built from a raw session list
type DedupeResult struct {
	Sessions   []sejm.Session
	Invalid    int
	Duplicates int
}

// Deduplicate drops sessions without a positive number, keeps the first
// record for every number and sorts the result ascending by number.
func Deduplicate(raw []sejm.Session) DedupeResult {
	var result DedupeResult
	seen := make(map[int]struct{}, len(raw))

	for _, session := range raw {
		if session.Number <= 0 {
			result.Invalid++
			continue
		}
		if _, ok := seen[session.Number]; ok {
			result.Duplicates++
			continue
		}
		seen[session.Number] = struct{}{}
		result.Sessions = append(result.Sessions, session)
	}

	sort.Slice(result.Sessions, func(i, j int) bool {
		return result.Sessions[i].Number < result.Sessions[j].Number
	})

	return result
}

// Numbers returns the session numbers in order
func Numbers(sessions []sejm.Session) []int {
	numbers := make([]int, 0, len(sessions))
	for _, s := range sessions {
		numbers = append(numbers, s.Number)
	}
	return numbers
}
