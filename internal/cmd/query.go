package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/jimezsa/hhvac/internal/export"
)

type CompaniesCmd struct {
	OutputOptions
}

type VacanciesCmd struct {
	OutputOptions
}

type AvgSalaryCmd struct {
	OutputOptions
}

type TopSalaryCmd struct {
	OutputOptions
}

type SearchCmd struct {
	Keyword string `arg:"" help:"Substring to look for in vacancy titles."`
	OutputOptions
}

type CityCmd struct {
	Name string `arg:"" help:"City name or part of it."`
	OutputOptions
}

type CitiesCmd struct {
	OutputOptions
}

// query names one of the stored-data reports.
type query int

const (
	queryCompanies query = iota + 1
	queryVacancies
	queryAverage
	queryTopSalary
	queryKeyword
	queryCity
	queryCities
)

func (c *CompaniesCmd) Run(ctx *Context) error {
	return runQuery(ctx, queryCompanies, "", c.OutputOptions)
}

func (c *VacanciesCmd) Run(ctx *Context) error {
	return runQuery(ctx, queryVacancies, "", c.OutputOptions)
}

func (c *AvgSalaryCmd) Run(ctx *Context) error {
	return runQuery(ctx, queryAverage, "", c.OutputOptions)
}

func (c *TopSalaryCmd) Run(ctx *Context) error {
	return runQuery(ctx, queryTopSalary, "", c.OutputOptions)
}

func (c *SearchCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Keyword) == "" {
		return errors.New("keyword is required")
	}
	return runQuery(ctx, queryKeyword, c.Keyword, c.OutputOptions)
}

func (c *CityCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("city name is required")
	}
	return runQuery(ctx, queryCity, c.Name, c.OutputOptions)
}

func (c *CitiesCmd) Run(ctx *Context) error {
	return runQuery(ctx, queryCities, "", c.OutputOptions)
}

func runQuery(ctx *Context, q query, arg string, opts OutputOptions) error {
	return withStore(ctx, func(runCtx context.Context, st Store) error {
		report, err := buildReport(runCtx, st, q, arg)
		if err != nil {
			return err
		}
		return writeReport(ctx, report, opts)
	})
}

func withStore(ctx *Context, fn func(context.Context, Store) error) error {
	runCtx := ctx.runContext()
	st, err := ctx.openStore(runCtx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.WithoutCancel(runCtx)); err != nil {
			ctx.Logger.Debug().Err(err).Msg("close store")
		}
	}()
	return fn(runCtx, st)
}

func buildReport(ctx context.Context, st Store, q query, arg string) (export.Report, error) {
	switch q {
	case queryCompanies:
		rows, err := st.CompaniesAndVacanciesCount(ctx)
		return export.Companies(rows), err
	case queryVacancies:
		rows, err := st.AllVacancies(ctx)
		return export.Vacancies(rows), err
	case queryAverage:
		avg, err := st.AverageSalary(ctx)
		return export.Average(avg), err
	case queryTopSalary:
		rows, err := st.VacanciesWithHigherSalary(ctx)
		return export.Vacancies(rows), err
	case queryKeyword:
		rows, err := st.VacanciesWithKeyword(ctx, strings.TrimSpace(arg))
		return export.Vacancies(rows), err
	case queryCity:
		rows, err := st.VacanciesByCity(ctx, strings.TrimSpace(arg))
		return export.Vacancies(rows), err
	case queryCities:
		rows, err := st.CitiesWithCounts(ctx)
		return export.Cities(rows), err
	default:
		return export.Report{}, errors.New("unknown query")
	}
}
