// Package store runs the insert and report queries against the employers
// and vacancies tables.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jimezsa/hhvac/internal/models"
)

// Manager owns a single connection for its lifetime.
type Manager struct {
	conn *pgx.Conn
}

func Connect(ctx context.Context, dsn string) (*Manager, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Manager{conn: conn}, nil
}

func (m *Manager) Close(ctx context.Context) error {
	if m == nil || m.conn == nil {
		return nil
	}
	return m.conn.Close(ctx)
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.conn.Ping(ctx)
}

// InsertEmployer adds employer; an existing id is left untouched.
func (m *Manager) InsertEmployer(ctx context.Context, employer models.Employer) error {
	_, err := m.conn.Exec(ctx, insertEmployerSQL,
		employer.ID,
		employer.Name,
		employer.URL,
		employer.OpenVacancies,
	)
	if err != nil {
		return fmt.Errorf("insert employer %s: %w", employer.ID, err)
	}
	return nil
}

// InsertVacancy adds vacancy; an existing id is left untouched. The
// referenced employer must already be stored.
func (m *Manager) InsertVacancy(ctx context.Context, vacancy models.Vacancy) error {
	_, err := m.conn.Exec(ctx, insertVacancySQL,
		vacancy.ID,
		vacancy.EmployerID,
		vacancy.Title,
		vacancy.SalaryFrom,
		vacancy.SalaryTo,
		vacancy.Currency,
		vacancy.URL,
		vacancy.Description,
		vacancy.City,
	)
	if err != nil {
		return fmt.Errorf("insert vacancy %s: %w", vacancy.ID, err)
	}
	return nil
}

func (m *Manager) CompaniesAndVacanciesCount(ctx context.Context) ([]models.CompanyCount, error) {
	return collect[models.CompanyCount](ctx, m.conn, companiesCountSQL)
}

func (m *Manager) AllVacancies(ctx context.Context) ([]models.VacancyListing, error) {
	return collect[models.VacancyListing](ctx, m.conn, allVacanciesSQL)
}

// AverageSalary returns nil averages when no vacancy has a salary.
func (m *Manager) AverageSalary(ctx context.Context) (models.SalaryAverage, error) {
	var avg models.SalaryAverage
	if err := m.conn.QueryRow(ctx, avgSalarySQL).Scan(&avg.AvgSalaryFrom, &avg.AvgSalaryTo); err != nil {
		return avg, fmt.Errorf("average salary: %w", err)
	}
	return avg, nil
}

func (m *Manager) VacanciesWithHigherSalary(ctx context.Context) ([]models.VacancyListing, error) {
	return collect[models.VacancyListing](ctx, m.conn, higherSalarySQL)
}

// VacanciesWithKeyword matches keyword anywhere in the title, ignoring case.
func (m *Manager) VacanciesWithKeyword(ctx context.Context, keyword string) ([]models.VacancyListing, error) {
	return collect[models.VacancyListing](ctx, m.conn, keywordSQL, containsPattern(keyword))
}

// VacanciesByCity matches city anywhere in the vacancy city, ignoring case.
func (m *Manager) VacanciesByCity(ctx context.Context, city string) ([]models.VacancyListing, error) {
	return collect[models.VacancyListing](ctx, m.conn, byCitySQL, containsPattern(city))
}

func (m *Manager) CitiesWithCounts(ctx context.Context) ([]models.CityCount, error) {
	return collect[models.CityCount](ctx, m.conn, citiesCountSQL)
}

// Truncate empties both tables.
func (m *Manager) Truncate(ctx context.Context) error {
	if _, err := m.conn.Exec(ctx, truncateSQL); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

func collect[T any](ctx context.Context, conn *pgx.Conn, query string, args ...any) ([]T, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching value as a literal
// substring.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
