// Package seen keeps a JSON history of fetched vacancies so repeated
// ingests can report what is new.
package seen

import (
	"strings"

	"github.com/jimezsa/hhvac/internal/models"
)

const keySeparator = "::"

// DiffStats captures stats for fetched-minus-history filtering.
type DiffStats struct {
	TotalNew    int
	TotalSeen   int
	InvalidNew  int
	InvalidSeen int
	Unseen      int
}

// InvalidSkipped returns the total invalid records skipped during comparison.
func (s DiffStats) InvalidSkipped() int {
	return s.InvalidNew + s.InvalidSeen
}

// MergeStats captures stats for history updates.
type MergeStats struct {
	TotalSeen    int
	TotalInput   int
	InvalidInput int
	Added        int
	TotalOut     int
}

// Normalize lowercases value and collapses whitespace.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key identifies a vacancy by its HeadHunter id, falling back to the
// normalized title and employer id for records without one.
func Key(vacancy models.Vacancy) (string, bool) {
	if id := strings.TrimSpace(vacancy.ID); id != "" {
		return "id" + keySeparator + id, true
	}
	title := Normalize(vacancy.Title)
	employer := strings.TrimSpace(vacancy.EmployerID)
	if title == "" || employer == "" {
		return "", false
	}
	return title + keySeparator + employer, true
}

// Diff returns the vacancies in fetched whose key is not in history.
// Duplicate keys in fetched are reported once.
func Diff(fetched []models.Vacancy, history []models.Vacancy) ([]models.Vacancy, DiffStats) {
	stats := DiffStats{TotalNew: len(fetched), TotalSeen: len(history)}

	seenKeys := make(map[string]struct{}, len(history))
	for _, vacancy := range history {
		key, ok := Key(vacancy)
		if !ok {
			stats.InvalidSeen++
			continue
		}
		seenKeys[key] = struct{}{}
	}

	fetchedKeys := make(map[string]struct{}, len(fetched))
	unseen := make([]models.Vacancy, 0, len(fetched))
	for _, vacancy := range fetched {
		key, ok := Key(vacancy)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, exists := fetchedKeys[key]; exists {
			continue
		}
		fetchedKeys[key] = struct{}{}
		if _, exists := seenKeys[key]; exists {
			continue
		}
		unseen = append(unseen, vacancy)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}

// Merge appends vacancies from input that history lacks. History entries
// win collisions, and records without a key are kept in history but never
// added from input.
func Merge(history []models.Vacancy, input []models.Vacancy) ([]models.Vacancy, MergeStats) {
	stats := MergeStats{TotalSeen: len(history), TotalInput: len(input)}

	keys := make(map[string]struct{}, len(history)+len(input))
	out := make([]models.Vacancy, 0, len(history)+len(input))
	for _, vacancy := range history {
		if key, ok := Key(vacancy); ok {
			if _, exists := keys[key]; exists {
				continue
			}
			keys[key] = struct{}{}
		}
		out = append(out, vacancy)
	}

	for _, vacancy := range input {
		key, ok := Key(vacancy)
		if !ok {
			stats.InvalidInput++
			continue
		}
		if _, exists := keys[key]; exists {
			continue
		}
		keys[key] = struct{}{}
		out = append(out, vacancy)
		stats.Added++
	}

	stats.TotalOut = len(out)
	return out, stats
}
