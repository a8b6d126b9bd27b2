package cmd

import (
	"errors"
	"strings"

	"github.com/jimezsa/hhvac/internal/export"
)

type AreasCmd struct {
	Name    string `arg:"" help:"City name, matched case-insensitively."`
	Proxies string `help:"Comma-separated proxy URLs." env:"HHVAC_PROXIES"`
	OutputOptions
}

func (a *AreasCmd) Run(ctx *Context) error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("city name is required")
	}
	api, err := ctx.openAPI(a.Proxies)
	if err != nil {
		return err
	}
	matches, err := api.ResolveAreas(ctx.runContext(), a.Name)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		ctx.UI.Warnf("No locations match %q", a.Name)
		return nil
	}
	return writeReport(ctx, export.Areas(matches), a.OutputOptions)
}
