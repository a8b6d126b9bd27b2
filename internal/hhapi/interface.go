package hhapi

import (
	"context"

	"github.com/jimezsa/hhvac/internal/models"
)

// JobAPI is a source of employers, vacancies and areas.
type JobAPI interface {
	Connect(ctx context.Context) error
	FindEmployers(ctx context.Context, names []string) ([]models.Employer, error)
	ListVacancies(ctx context.Context, employerID string, areaID string, perPage int) ([]models.Vacancy, error)
	ResolveAreas(ctx context.Context, cityName string) ([]models.AreaMatch, error)
}

var _ JobAPI = (*HeadHunter)(nil)
