package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/jimezsa/hhvac/internal/ui"
)

type MenuCmd struct {
	MenuOptions
}

type MenuOptions struct {
	Format string `help:"Output format for menu results: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
}

func (o MenuOptions) output() OutputOptions {
	return OutputOptions{Format: o.Format, Links: o.Links}
}

var menuItems = []string{
	"1. List companies and their vacancy counts",
	"2. List all vacancies",
	"3. Show the average salary",
	"4. List vacancies paying above average",
	"5. Search vacancies by keyword",
	"6. List vacancies in a city",
	"7. List cities with vacancy counts",
	"0. Exit",
}

func (m *MenuCmd) Run(ctx *Context) error {
	return withStore(ctx, func(runCtx context.Context, st Store) error {
		return runMenu(runCtx, ctx, st, m.output())
	})
}

// runMenu reads menu choices until 0 or end of input.
func runMenu(runCtx context.Context, ctx *Context, st Store, opts OutputOptions) error {
	prompter := ctx.prompter()
	for {
		if err := runCtx.Err(); err != nil {
			return err
		}
		ctx.UI.Printf("\n")
		ctx.UI.Heading("Choose an action:")
		for _, item := range menuItems {
			ctx.UI.Printf("%s\n", item)
		}

		choice, err := prompter.Ask("> ")
		if errors.Is(err, ui.ErrNoInput) {
			return nil
		}
		if err != nil {
			return err
		}

		var (
			q   query
			arg string
		)
		switch choice {
		case "0":
			return nil
		case "1":
			q = queryCompanies
		case "2":
			q = queryVacancies
		case "3":
			q = queryAverage
		case "4":
			q = queryTopSalary
		case "5":
			q = queryKeyword
			arg, err = prompter.Ask("Keyword: ")
		case "6":
			q = queryCity
			arg, err = prompter.Ask("City: ")
		case "7":
			q = queryCities
		default:
			ctx.UI.Warnf("Invalid choice %q, try again.", choice)
			continue
		}
		if errors.Is(err, ui.ErrNoInput) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := runMenuQuery(runCtx, ctx, st, q, arg, opts); err != nil {
			return err
		}
	}
}

func runMenuQuery(runCtx context.Context, ctx *Context, st Store, q query, arg string, opts OutputOptions) error {
	if (q == queryKeyword || q == queryCity) && strings.TrimSpace(arg) == "" {
		ctx.UI.Warnf("Nothing entered.")
		return nil
	}
	report, err := buildReport(runCtx, st, q, arg)
	if err != nil {
		return err
	}
	if len(report.Rows) == 0 {
		switch q {
		case queryKeyword:
			ctx.UI.Warnf("No vacancies found for keyword %q. Try a less specific keyword.", arg)
			return nil
		case queryCity:
			ctx.UI.Warnf("No vacancies found in %s. Option 7 lists the known cities.", arg)
			return nil
		case queryCities:
			ctx.UI.Warnf("No city information stored.")
			return nil
		}
	}
	return writeReport(ctx, report, opts)
}
