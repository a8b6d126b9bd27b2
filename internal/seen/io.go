package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/hhvac/internal/models"
)

// Read reads a JSON array of vacancies from path. A blank file is an
// empty history.
func Read(path string) ([]models.Vacancy, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.Vacancy{}, nil
	}

	var vacancies []models.Vacancy
	if err := json.Unmarshal(data, &vacancies); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if vacancies == nil {
		return []models.Vacancy{}, nil
	}
	return vacancies, nil
}

// ReadAllowMissing is Read with a missing file treated as empty history.
func ReadAllowMissing(path string) ([]models.Vacancy, error) {
	vacancies, err := Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Vacancy{}, nil
	}
	return vacancies, err
}

// Write writes vacancies as indented JSON.
func Write(path string, vacancies []models.Vacancy) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if vacancies == nil {
		vacancies = []models.Vacancy{}
	}
	data, err := json.MarshalIndent(vacancies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Update merges fetched into the history at path and returns the
// vacancies that were not in it before.
func Update(path string, fetched []models.Vacancy) ([]models.Vacancy, DiffStats, error) {
	history, err := ReadAllowMissing(path)
	if err != nil {
		return nil, DiffStats{}, err
	}
	unseen, stats := Diff(fetched, history)
	merged, _ := Merge(history, unseen)
	if err := Write(path, merged); err != nil {
		return nil, stats, err
	}
	return unseen, stats, nil
}
