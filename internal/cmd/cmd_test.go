package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jimezsa/hhvac/internal/config"
	"github.com/jimezsa/hhvac/internal/export"
	"github.com/jimezsa/hhvac/internal/hhapi"
	"github.com/jimezsa/hhvac/internal/models"
	"github.com/jimezsa/hhvac/internal/ui"
	"github.com/rs/zerolog"
)

type fakeStore struct {
	employers []models.Employer
	vacancies []models.Vacancy
	companies []models.CompanyCount
	listings  []models.VacancyListing
	average   models.SalaryAverage
	cities    []models.CityCount
	keywords  []string
	truncated bool
	closed    bool
}

func (s *fakeStore) InsertEmployer(ctx context.Context, employer models.Employer) error {
	s.employers = append(s.employers, employer)
	return nil
}

func (s *fakeStore) InsertVacancy(ctx context.Context, vacancy models.Vacancy) error {
	s.vacancies = append(s.vacancies, vacancy)
	return nil
}

func (s *fakeStore) CompaniesAndVacanciesCount(ctx context.Context) ([]models.CompanyCount, error) {
	return s.companies, nil
}

func (s *fakeStore) AllVacancies(ctx context.Context) ([]models.VacancyListing, error) {
	return s.listings, nil
}

func (s *fakeStore) AverageSalary(ctx context.Context) (models.SalaryAverage, error) {
	return s.average, nil
}

func (s *fakeStore) VacanciesWithHigherSalary(ctx context.Context) ([]models.VacancyListing, error) {
	return s.listings, nil
}

func (s *fakeStore) VacanciesWithKeyword(ctx context.Context, keyword string) ([]models.VacancyListing, error) {
	s.keywords = append(s.keywords, keyword)
	return nil, nil
}

func (s *fakeStore) VacanciesByCity(ctx context.Context, city string) ([]models.VacancyListing, error) {
	return s.listings, nil
}

func (s *fakeStore) CitiesWithCounts(ctx context.Context) ([]models.CityCount, error) {
	return s.cities, nil
}

func (s *fakeStore) Truncate(ctx context.Context) error {
	s.truncated = true
	return nil
}

func (s *fakeStore) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

type fakeAPI struct {
	connectErr error
	employers  []models.Employer
	areas      []models.AreaMatch
	listAreas  []string
}

func (a *fakeAPI) Connect(ctx context.Context) error {
	return a.connectErr
}

func (a *fakeAPI) FindEmployers(ctx context.Context, names []string) ([]models.Employer, error) {
	return a.employers, nil
}

func (a *fakeAPI) ListVacancies(ctx context.Context, employerID string, areaID string, perPage int) ([]models.Vacancy, error) {
	a.listAreas = append(a.listAreas, areaID)
	return []models.Vacancy{{ID: employerID + "-1"}}, nil
}

func (a *fakeAPI) ResolveAreas(ctx context.Context, cityName string) ([]models.AreaMatch, error) {
	return a.areas, nil
}

func newTestContext(t *testing.T, input string, st *fakeStore, api *fakeAPI) (*Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HHVAC_PROXIES", "")

	var out, errOut bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.Companies = []string{"Acme", "Beta"}
	cfg.PerPage = 20
	ctx := &Context{
		Ctx:    context.Background(),
		In:     strings.NewReader(input),
		Out:    &out,
		Err:    &errOut,
		UI:     ui.New(&out, &errOut, ui.ColorNever, true),
		Config: cfg,
		Logger: zerolog.Nop(),
		OpenStore: func(context.Context) (Store, error) {
			return st, nil
		},
		OpenAPI: func([]string) (hhapi.JobAPI, error) {
			return api, nil
		},
		SetupDB: func(context.Context) error { return nil },
	}
	return ctx, &out, &errOut
}

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		name   string
		ctx    *Context
		format string
		output string
		want   export.Format
	}{
		{"json flag wins", &Context{Out: io.Discard, JSONOutput: true}, "md", "", export.FormatJSON},
		{"plain flag", &Context{Out: io.Discard, PlainText: true}, "", "", export.FormatTSV},
		{"explicit format", &Context{Out: io.Discard}, "md", "out.md", export.FormatMarkdown},
		{"file defaults to csv", &Context{Out: io.Discard}, "", "out.csv", export.FormatCSV},
		{"non tty defaults to csv", &Context{Out: io.Discard}, "", "", export.FormatCSV},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveFormat(tc.ctx, tc.format, tc.output)
			if err != nil {
				t.Fatalf("resolveFormat() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("resolveFormat() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMenuRunsChoicesUntilExit(t *testing.T) {
	st := &fakeStore{companies: []models.CompanyCount{{Name: "Acme", VacanciesCount: 3}}}
	ctx, out, errOut := newTestContext(t, "1\n9\n5\n golang \n0\n2\n", st, &fakeAPI{})

	if err := (&MenuCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "company,vacancies\nAcme,3\n") {
		t.Fatalf("companies report missing from output: %q", out.String())
	}
	if !strings.Contains(errOut.String(), `Invalid choice "9"`) {
		t.Fatalf("invalid choice not reported: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), `No vacancies found for keyword "golang"`) {
		t.Fatalf("empty keyword search not reported: %q", errOut.String())
	}
	if !reflect.DeepEqual(st.keywords, []string{"golang"}) {
		t.Fatalf("keywords = %v", st.keywords)
	}
	if strings.Count(out.String(), "0. Exit") != 4 {
		t.Fatalf("menu should be shown once per choice, got %q", out.String())
	}
	if !st.closed {
		t.Fatalf("store was not closed")
	}
}

func TestMenuStopsAtEndOfInput(t *testing.T) {
	st := &fakeStore{average: models.SalaryAverage{}}
	ctx, out, _ := newTestContext(t, "3\n", st, &fakeAPI{})

	if err := (&MenuCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "avg_salary_from,avg_salary_to\nn/a,n/a\n") {
		t.Fatalf("average report missing: %q", out.String())
	}
}

func TestRunPromptsForCityAndOpensMenu(t *testing.T) {
	st := &fakeStore{}
	api := &fakeAPI{
		employers: []models.Employer{{ID: "1", Name: "Acme"}},
		areas:     []models.AreaMatch{{ID: "1", Name: "Москва"}, {ID: "2", Name: "Москва"}},
	}
	ctx, out, errOut := newTestContext(t, "y\nМосква\n5\n2\n0\n", st, api)

	if err := (&RunCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(api.listAreas, []string{"2"}) {
		t.Fatalf("ListVacancies areas = %v, want [2]", api.listAreas)
	}
	if len(st.employers) != 1 || len(st.vacancies) != 1 || st.vacancies[0].EmployerID != "1" {
		t.Fatalf("unexpected stored rows: %+v %+v", st.employers, st.vacancies)
	}
	if !strings.Contains(errOut.String(), "Enter a number from 1 to 2") {
		t.Fatalf("out of range choice not re-asked: %q", errOut.String())
	}
	if !strings.Contains(out.String(), "Fetched 1 vacancies for Acme") || !strings.Contains(out.String(), "0. Exit") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunDeclinedCityFilter(t *testing.T) {
	api := &fakeAPI{employers: []models.Employer{{ID: "1", Name: "Acme"}}}
	ctx, _, _ := newTestContext(t, "n\n", newFakeStore(), api)

	if err := (&RunCmd{NoMenu: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(api.listAreas, []string{""}) {
		t.Fatalf("ListVacancies areas = %v, want no filter", api.listAreas)
	}
}

func TestIngestAmbiguousCityNeedsArea(t *testing.T) {
	api := &fakeAPI{
		employers: []models.Employer{{ID: "1", Name: "Acme"}},
		areas:     []models.AreaMatch{{ID: "1", Name: "Москва"}, {ID: "2", Name: "Москва"}},
	}
	ctx, _, _ := newTestContext(t, "", newFakeStore(), api)

	err := (&IngestCmd{IngestOptions{City: "Москва"}}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "--area") {
		t.Fatalf("Run() error = %v, want hint about --area", err)
	}
	if len(api.listAreas) != 0 {
		t.Fatalf("vacancies fetched despite ambiguous city: %v", api.listAreas)
	}
}

func TestIngestAreaOverridesCity(t *testing.T) {
	api := &fakeAPI{employers: []models.Employer{{ID: "1", Name: "Acme"}}}
	ctx, _, _ := newTestContext(t, "", newFakeStore(), api)

	if err := (&IngestCmd{IngestOptions{City: "Казань", Area: "88"}}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(api.listAreas, []string{"88"}) {
		t.Fatalf("ListVacancies areas = %v, want [88]", api.listAreas)
	}
}

func TestIngestConnectFailure(t *testing.T) {
	connectErr := &hhapi.ConnectionError{Op: "connect", Err: errors.New("refused")}
	ctx, _, _ := newTestContext(t, "", newFakeStore(), &fakeAPI{connectErr: connectErr})

	err := (&IngestCmd{}).Run(ctx)
	if !errors.Is(err, hhapi.ErrConnectionFailed) {
		t.Fatalf("Run() error = %v, want ErrConnectionFailed", err)
	}
}

func TestIngestRejectsPerPage(t *testing.T) {
	ctx, _, _ := newTestContext(t, "", newFakeStore(), &fakeAPI{})
	if err := (&IngestCmd{IngestOptions{PerPage: 500}}).Run(ctx); err == nil {
		t.Fatalf("Run() error = nil, want per-page error")
	}
}

func TestIngestReportsNewVacancies(t *testing.T) {
	history := filepath.Join(t.TempDir(), "seen.json")
	api := &fakeAPI{employers: []models.Employer{{ID: "1", Name: "Acme"}}}
	opts := IngestOptions{Area: "1", Seen: history, ShowNew: true}

	ctx, out, _ := newTestContext(t, "", newFakeStore(), api)
	if err := (&IngestCmd{opts}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 new vacancies since the last run (0 already in") {
		t.Fatalf("first run summary missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "company,title,salary,url\nAcme,,-,\n") {
		t.Fatalf("new vacancy listing missing: %q", out.String())
	}

	ctx, out, _ = newTestContext(t, "", newFakeStore(), api)
	if err := (&IngestCmd{opts}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "0 new vacancies since the last run (1 already in") {
		t.Fatalf("second run summary missing: %q", out.String())
	}
}

func TestIngestShowNewRequiresSeen(t *testing.T) {
	ctx, _, _ := newTestContext(t, "", newFakeStore(), &fakeAPI{})
	if err := (&IngestCmd{IngestOptions{ShowNew: true}}).Run(ctx); err == nil {
		t.Fatalf("Run() error = nil, want --seen error")
	}
}

func TestPickAreaSingleMatch(t *testing.T) {
	ctx, _, _ := newTestContext(t, "", newFakeStore(), &fakeAPI{})
	id, err := pickArea(ctx, "Казань", []models.AreaMatch{{ID: "88", Name: "Казань"}}, false)
	if err != nil || id != "88" {
		t.Fatalf("pickArea() = %q, %v", id, err)
	}
	id, err = pickArea(ctx, "Атлантида", nil, true)
	if err != nil || id != "" {
		t.Fatalf("pickArea(no matches) = %q, %v", id, err)
	}
}

func TestDBResetAsksFirst(t *testing.T) {
	fake := newFakeStore()
	ctx, _, _ := newTestContext(t, "n\n", fake, &fakeAPI{})
	if err := (&DBResetCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if fake.truncated {
		t.Fatalf("store truncated after declining")
	}

	ctx, _, _ = newTestContext(t, "", fake, &fakeAPI{})
	if err := (&DBResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !fake.truncated {
		t.Fatalf("store not truncated with --yes")
	}
}

func TestAPIPingDirect(t *testing.T) {
	ctx, out, _ := newTestContext(t, "", newFakeStore(), &fakeAPI{})
	ctx.JSONOutput = true
	if err := (&APIPingCmd{Direct: true, Timeout: 1}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), `"proxy": "direct"`) || !strings.Contains(out.String(), `"status": "ok"`) {
		t.Fatalf("unexpected ping output: %q", out.String())
	}

	ctx, _, _ = newTestContext(t, "", newFakeStore(), &fakeAPI{connectErr: errors.New("down")})
	if err := (&APIPingCmd{Direct: true, Timeout: 1}).Run(ctx); err == nil {
		t.Fatalf("Run() error = nil, want unreachable")
	}
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}
