//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/jimezsa/hhvac/internal/models"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleEmployer() models.Employer {
	return models.Employer{ID: "12345", Name: "Test Company", URL: "http://test.com", OpenVacancies: 10}
}

func sampleVacancy() models.Vacancy {
	return models.Vacancy{
		ID:          "54321",
		EmployerID:  "12345",
		Title:       "Test Vacancy",
		SalaryFrom:  ptr(100000),
		SalaryTo:    ptr(150000),
		Currency:    ptr("RUB"),
		URL:         "http://test.com/vacancy",
		Description: "Test description",
		City:        ptr("Москва"),
	}
}

func seed(t *testing.T, m *Manager, employers []models.Employer, vacancies []models.Vacancy) {
	t.Helper()
	ctx := context.Background()
	for _, employer := range employers {
		require.NoError(t, m.InsertEmployer(ctx, employer))
	}
	for _, vacancy := range vacancies {
		require.NoError(t, m.InsertVacancy(ctx, vacancy))
	}
}

func TestManager_InsertIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	seed(t, m, []models.Employer{sampleEmployer(), sampleEmployer()}, []models.Vacancy{sampleVacancy(), sampleVacancy()})

	companies, err := m.CompaniesAndVacanciesCount(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, "Test Company", companies[0].Name)
	require.EqualValues(t, 1, companies[0].VacanciesCount)

	vacancies, err := m.AllVacancies(ctx)
	require.NoError(t, err)
	require.Len(t, vacancies, 1)
}

func TestManager_InsertConflictKeepsFirstRow(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	seed(t, m, []models.Employer{sampleEmployer()}, nil)
	renamed := sampleEmployer()
	renamed.Name = "Renamed"
	require.NoError(t, m.InsertEmployer(ctx, renamed))

	companies, err := m.CompaniesAndVacanciesCount(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, "Test Company", companies[0].Name)
}

func TestManager_InsertVacancyRequiresEmployer(t *testing.T) {
	m := newTestManager(t)
	require.Error(t, m.InsertVacancy(context.Background(), sampleVacancy()))
}

func TestManager_CompaniesAndVacanciesCount(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	empty := models.Employer{ID: "2", Name: "Empty Corp", URL: "http://empty.test"}
	second := sampleVacancy()
	second.ID = "54322"
	seed(t, m, []models.Employer{sampleEmployer(), empty}, []models.Vacancy{sampleVacancy(), second})

	companies, err := m.CompaniesAndVacanciesCount(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.CompanyCount{
		{Name: "Test Company", VacanciesCount: 2},
		{Name: "Empty Corp", VacanciesCount: 0},
	}, companies)
}

func TestManager_AllVacanciesOrdering(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	other := models.Employer{ID: "1", Name: "Alpha", URL: "http://alpha.test"}
	noSalary := sampleVacancy()
	noSalary.ID = "3"
	noSalary.SalaryFrom, noSalary.SalaryTo, noSalary.Currency = nil, nil, nil
	low := sampleVacancy()
	low.ID = "4"
	low.SalaryFrom = ptr(50000)
	alpha := sampleVacancy()
	alpha.ID = "5"
	alpha.EmployerID = "1"
	alpha.Title = "Alpha Vacancy"

	seed(t, m, []models.Employer{sampleEmployer(), other}, []models.Vacancy{noSalary, low, sampleVacancy(), alpha})

	vacancies, err := m.AllVacancies(ctx)
	require.NoError(t, err)
	require.Len(t, vacancies, 4)
	require.Equal(t, "Alpha", vacancies[0].Company)
	require.Equal(t, 100000, *vacancies[1].SalaryFrom)
	require.Equal(t, 50000, *vacancies[2].SalaryFrom)
	require.Nil(t, vacancies[3].SalaryFrom)
	require.Nil(t, vacancies[3].Currency)
}

func TestManager_AverageSalary(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	avg, err := m.AverageSalary(ctx)
	require.NoError(t, err)
	require.Nil(t, avg.AvgSalaryFrom)
	require.Nil(t, avg.AvgSalaryTo)

	other := sampleVacancy()
	other.ID = "2"
	other.SalaryFrom = ptr(50000)
	other.SalaryTo = nil
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy(), other})

	avg, err = m.AverageSalary(ctx)
	require.NoError(t, err)
	require.NotNil(t, avg.AvgSalaryFrom)
	require.NotNil(t, avg.AvgSalaryTo)
	require.InDelta(t, 75000, *avg.AvgSalaryFrom, 0.001)
	require.InDelta(t, 150000, *avg.AvgSalaryTo, 0.001)
}

func TestManager_VacanciesWithHigherSalary(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	low := sampleVacancy()
	low.ID = "2"
	low.Title = "Junior"
	low.SalaryFrom = ptr(30000)
	low.SalaryTo = ptr(40000)
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy(), low})

	vacancies, err := m.VacanciesWithHigherSalary(ctx)
	require.NoError(t, err)
	require.Len(t, vacancies, 1)
	require.Equal(t, "Test Vacancy", vacancies[0].Title)
}

func TestManager_VacanciesWithHigherSalaryOrdering(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	toOnly := sampleVacancy()
	toOnly.ID = "2"
	toOnly.Title = "To Only"
	toOnly.SalaryFrom = nil
	toOnly.SalaryTo = ptr(400000)
	low := sampleVacancy()
	low.ID = "3"
	low.Title = "Low"
	low.SalaryFrom = ptr(10000)
	low.SalaryTo = ptr(20000)
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy(), toOnly, low})

	vacancies, err := m.VacanciesWithHigherSalary(ctx)
	require.NoError(t, err)
	require.Len(t, vacancies, 2)
	require.Equal(t, "To Only", vacancies[0].Title)
	require.Equal(t, "Test Vacancy", vacancies[1].Title)
}

func TestManager_VacanciesWithHigherSalaryAllNull(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	vacancy := sampleVacancy()
	vacancy.SalaryFrom, vacancy.SalaryTo = nil, nil
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{vacancy})

	vacancies, err := m.VacanciesWithHigherSalary(ctx)
	require.NoError(t, err)
	require.Empty(t, vacancies)
}

func TestManager_VacanciesWithKeyword(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy()})

	vacancies, err := m.VacanciesWithKeyword(ctx, "Test")
	require.NoError(t, err)
	require.Len(t, vacancies, 1)
	require.Equal(t, "Test Vacancy", vacancies[0].Title)
	require.Equal(t, "Test Company", vacancies[0].Company)

	vacancies, err = m.VacanciesWithKeyword(ctx, "vacancy")
	require.NoError(t, err)
	require.Len(t, vacancies, 1)

	vacancies, err = m.VacanciesWithKeyword(ctx, "Nonexistent")
	require.NoError(t, err)
	require.Empty(t, vacancies)
	require.NotNil(t, vacancies)
}

func TestManager_VacanciesWithKeywordLiteralWildcards(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy()})

	for _, keyword := range []string{"%", "_", "Test_Vacancy"} {
		vacancies, err := m.VacanciesWithKeyword(ctx, keyword)
		require.NoError(t, err)
		require.Empty(t, vacancies, "keyword %q", keyword)
	}
}

func TestManager_VacanciesByCity(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	noCity := sampleVacancy()
	noCity.ID = "2"
	noCity.City = nil
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy(), noCity})

	vacancies, err := m.VacanciesByCity(ctx, "моск")
	require.NoError(t, err)
	require.Len(t, vacancies, 1)
	require.Equal(t, "Test Vacancy", vacancies[0].Title)

	vacancies, err = m.VacanciesByCity(ctx, "Казань")
	require.NoError(t, err)
	require.Empty(t, vacancies)
}

func TestManager_CitiesWithCounts(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	second := sampleVacancy()
	second.ID = "2"
	kazan := sampleVacancy()
	kazan.ID = "3"
	kazan.City = ptr("Казань")
	noCity := sampleVacancy()
	noCity.ID = "4"
	noCity.City = nil
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy(), second, kazan, noCity})

	cities, err := m.CitiesWithCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.CityCount{
		{City: "Москва", VacanciesCount: 2},
		{City: "Казань", VacanciesCount: 1},
	}, cities)
}

func TestManager_Truncate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	seed(t, m, []models.Employer{sampleEmployer()}, []models.Vacancy{sampleVacancy()})

	require.NoError(t, m.Truncate(ctx))

	companies, err := m.CompaniesAndVacanciesCount(ctx)
	require.NoError(t, err)
	require.Empty(t, companies)
}
