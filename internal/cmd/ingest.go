package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/hhvac/internal/config"
	"github.com/jimezsa/hhvac/internal/export"
	"github.com/jimezsa/hhvac/internal/hhapi"
	"github.com/jimezsa/hhvac/internal/ingest"
	"github.com/jimezsa/hhvac/internal/models"
	"github.com/jimezsa/hhvac/internal/seen"
	"github.com/jimezsa/hhvac/internal/ui"
)

type IngestCmd struct {
	IngestOptions
}

type IngestOptions struct {
	City      string `help:"Only fetch vacancies in this city."`
	Area      string `help:"Only fetch vacancies in this HeadHunter area id; overrides --city."`
	Companies string `help:"Comma-separated employer names (default: from config)."`
	PerPage   int    `name:"per-page" help:"Vacancies fetched per employer, 1-100 (default: from config)."`
	Proxies   string `help:"Comma-separated proxy URLs." env:"HHVAC_PROXIES"`
	Seen      string `help:"Vacancy history JSON file; new vacancies are reported and added to it."`
	ShowNew   bool   `name:"show-new" help:"List the new vacancies (requires --seen)."`
}

type RunCmd struct {
	IngestOptions
	MenuOptions
	NoMenu bool `name:"no-menu" help:"Exit after ingesting."`
}

func (c *IngestCmd) Run(ctx *Context) error {
	if err := ctx.setupDB(ctx.runContext()); err != nil {
		return err
	}
	return withStore(ctx, func(runCtx context.Context, st Store) error {
		_, err := runIngest(runCtx, ctx, st, c.IngestOptions, false)
		return err
	})
}

// Run does everything in order: database setup, API probe, ingestion
// with an optional city prompt, then the menu.
func (c *RunCmd) Run(ctx *Context) error {
	if err := ctx.setupDB(ctx.runContext()); err != nil {
		return err
	}
	return withStore(ctx, func(runCtx context.Context, st Store) error {
		if _, err := runIngest(runCtx, ctx, st, c.IngestOptions, true); err != nil {
			return err
		}
		if c.NoMenu {
			return nil
		}
		return runMenu(runCtx, ctx, st, c.output())
	})
}

func runIngest(runCtx context.Context, ctx *Context, st Store, opts IngestOptions, interactive bool) (ingest.Result, error) {
	if opts.ShowNew && strings.TrimSpace(opts.Seen) == "" {
		return ingest.Result{}, fmt.Errorf("--show-new requires --seen")
	}
	perPage := opts.PerPage
	if perPage == 0 {
		perPage = ctx.Config.PerPage
	}
	if perPage < 1 || perPage > hhapi.MaxPerPage {
		return ingest.Result{}, fmt.Errorf("--per-page must be between 1 and %d", hhapi.MaxPerPage)
	}
	companies := ctx.Config.Companies
	if strings.TrimSpace(opts.Companies) != "" {
		companies = config.SplitCSV(opts.Companies)
	}
	if len(companies) == 0 {
		return ingest.Result{}, fmt.Errorf("no companies configured")
	}

	api, err := ctx.openAPI(opts.Proxies)
	if err != nil {
		return ingest.Result{}, err
	}
	if err := api.Connect(runCtx); err != nil {
		return ingest.Result{}, err
	}

	pipeline := &ingest.Pipeline{Source: api, Sink: st, Logger: ctx.Logger}
	employers, err := pipeline.FetchEmployers(runCtx, companies)
	if err != nil {
		return ingest.Result{}, err
	}
	ctx.UI.Infof("Found %d of %d companies", len(employers), len(companies))

	areaID, err := chooseArea(runCtx, ctx, api, opts, interactive)
	if err != nil {
		return ingest.Result{Employers: employers}, err
	}

	result, err := pipeline.FetchVacancies(runCtx, employers, areaID, perPage)
	for _, employer := range employers {
		if n, ok := result.Vacancies[employer.ID]; ok {
			ctx.UI.Printf("Fetched %d vacancies for %s\n", n, employer.Name)
		}
	}
	if err != nil {
		return result, err
	}
	ctx.UI.Successf("Stored %d employers and %d vacancies", len(employers), result.TotalVacancies())

	if strings.TrimSpace(opts.Seen) != "" {
		if err := reportUnseen(ctx, result, opts); err != nil {
			return result, err
		}
	}
	return result, nil
}

func reportUnseen(ctx *Context, result ingest.Result, opts IngestOptions) error {
	unseen, stats, err := seen.Update(opts.Seen, result.Stored)
	if err != nil {
		return fmt.Errorf("update --seen: %w", err)
	}
	ctx.UI.Infof("%d new vacancies since the last run (%d already in %s)", len(unseen), stats.TotalSeen, opts.Seen)
	if !opts.ShowNew || len(unseen) == 0 {
		return nil
	}

	names := make(map[string]string, len(result.Employers))
	for _, employer := range result.Employers {
		names[employer.ID] = employer.Name
	}
	listings := make([]models.VacancyListing, 0, len(unseen))
	for _, vacancy := range unseen {
		link := vacancy.URL
		listings = append(listings, models.VacancyListing{
			Company:    names[vacancy.EmployerID],
			Title:      vacancy.Title,
			SalaryFrom: vacancy.SalaryFrom,
			SalaryTo:   vacancy.SalaryTo,
			Currency:   vacancy.Currency,
			URL:        &link,
		})
	}
	return writeReport(ctx, export.Vacancies(listings), OutputOptions{})
}

// chooseArea returns the area id to filter vacancies by, or "" for no
// filter.
func chooseArea(runCtx context.Context, ctx *Context, api hhapi.JobAPI, opts IngestOptions, interactive bool) (string, error) {
	if area := strings.TrimSpace(opts.Area); area != "" {
		return area, nil
	}

	city := strings.TrimSpace(opts.City)
	if city == "" && interactive {
		prompter := ctx.prompter()
		filter, err := prompter.Confirm("Filter vacancies by city?")
		if err != nil || !filter {
			return "", ignoreNoInput(err)
		}
		city, err = prompter.Ask("City name: ")
		if err != nil {
			return "", ignoreNoInput(err)
		}
	}
	if city == "" {
		return "", nil
	}

	matches, err := api.ResolveAreas(runCtx, city)
	if err != nil {
		return "", err
	}
	return pickArea(ctx, city, matches, interactive)
}

func pickArea(ctx *Context, city string, matches []models.AreaMatch, interactive bool) (string, error) {
	switch len(matches) {
	case 0:
		ctx.UI.Warnf("No locations match %q; vacancies are not filtered by city.", city)
		return "", nil
	case 1:
		ctx.UI.Infof("Using location %s (%s)", matches[0].Name, matches[0].ID)
		return matches[0].ID, nil
	}

	names := make([]string, len(matches))
	labels := make([]string, len(matches))
	for i, match := range matches {
		names[i] = match.Name
		labels[i] = fmt.Sprintf("%s (%s)", match.Name, match.ID)
	}
	if !interactive {
		return "", fmt.Errorf("city %q matches several locations: %s; pass --area", city, strings.Join(labels, ", "))
	}

	ctx.UI.Infof("Found locations: %s", strings.Join(names, ", "))
	idx, err := ctx.prompter().Choose("Choose a location:", labels)
	if err != nil {
		return "", err
	}
	return matches[idx].ID, nil
}

// ignoreNoInput treats a closed stdin as declining the prompt.
func ignoreNoInput(err error) error {
	if errors.Is(err, ui.ErrNoInput) {
		return nil
	}
	return err
}
