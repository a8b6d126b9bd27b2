// Package ingest copies employers and their vacancies from the API into
// the store.
package ingest

import (
	"context"
	"fmt"

	"github.com/jimezsa/hhvac/internal/models"
	"github.com/rs/zerolog"
)

// Source is the part of the API client the pipeline reads from.
type Source interface {
	FindEmployers(ctx context.Context, names []string) ([]models.Employer, error)
	ListVacancies(ctx context.Context, employerID string, areaID string, perPage int) ([]models.Vacancy, error)
}

// Sink is the part of the store the pipeline writes to.
type Sink interface {
	InsertEmployer(ctx context.Context, employer models.Employer) error
	InsertVacancy(ctx context.Context, vacancy models.Vacancy) error
}

type Options struct {
	Companies []string
	AreaID    string
	PerPage   int
}

type Result struct {
	Employers []models.Employer
	// Vacancies maps employer id to the number of vacancies stored for it.
	Vacancies map[string]int
	// Stored lists the stored vacancies in insertion order.
	Stored []models.Vacancy
}

// TotalVacancies sums Vacancies.
func (r Result) TotalVacancies() int {
	total := 0
	for _, n := range r.Vacancies {
		total += n
	}
	return total
}

type Pipeline struct {
	Source Source
	Sink   Sink
	Logger zerolog.Logger
}

// FetchEmployers resolves the configured company names and stores the
// employers found. Names resolving to the same employer id keep the first.
func (p *Pipeline) FetchEmployers(ctx context.Context, companies []string) ([]models.Employer, error) {
	found, err := p.Source.FindEmployers(ctx, companies)
	if err != nil {
		return nil, fmt.Errorf("find employers: %w", err)
	}
	employers := make([]models.Employer, 0, len(found))
	ids := make(map[string]struct{}, len(found))
	for _, employer := range found {
		if _, dup := ids[employer.ID]; dup {
			p.Logger.Debug().Str("employer", employer.ID).Str("name", employer.Name).Msg("duplicate employer skipped")
			continue
		}
		ids[employer.ID] = struct{}{}
		employers = append(employers, employer)
	}
	for _, employer := range employers {
		if err := p.Sink.InsertEmployer(ctx, employer); err != nil {
			return nil, err
		}
	}
	p.Logger.Info().Int("count", len(employers)).Msg("employers stored")
	return employers, nil
}

// FetchVacancies stores one page of vacancies for each employer. The
// employers must already be stored. On error the result covers the
// employers finished so far.
func (p *Pipeline) FetchVacancies(ctx context.Context, employers []models.Employer, areaID string, perPage int) (Result, error) {
	result := Result{Employers: employers, Vacancies: make(map[string]int, len(employers))}
	for _, employer := range employers {
		vacancies, err := p.Source.ListVacancies(ctx, employer.ID, areaID, perPage)
		if err != nil {
			return result, fmt.Errorf("list vacancies for %s: %w", employer.Name, err)
		}
		for _, vacancy := range vacancies {
			if vacancy.EmployerID == "" {
				vacancy.EmployerID = employer.ID
			}
			if err := p.Sink.InsertVacancy(ctx, vacancy); err != nil {
				return result, err
			}
			result.Stored = append(result.Stored, vacancy)
		}
		result.Vacancies[employer.ID] = len(vacancies)
		p.Logger.Info().
			Str("employer", employer.Name).
			Str("area_id", areaID).
			Int("count", len(vacancies)).
			Msg("vacancies stored")
	}
	return result, nil
}

// Run stores employers first and then their vacancies.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	employers, err := p.FetchEmployers(ctx, opts.Companies)
	if err != nil {
		return Result{}, err
	}
	return p.FetchVacancies(ctx, employers, opts.AreaID, opts.PerPage)
}
