package cmd

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/jimezsa/hhvac/internal/export"
	"github.com/muesli/termenv"
)

type OutputOptions struct {
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

func resolveFormat(ctx *Context, format string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if format != "" {
		return export.ParseFormat(format)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func writeReport(ctx *Context, report export.Report, opts OutputOptions) error {
	format, err := resolveFormat(ctx, opts.Format, opts.Output)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && opts.Output == ""
	linkStyle := export.LinkStyleFull
	if strings.EqualFold(opts.Links, string(export.LinkStyleShort)) {
		linkStyle = export.LinkStyleShort
	}
	if err := export.Write(writer, report, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}
	if opts.Output != "" && ctx.UI != nil {
		ctx.UI.Successf("Wrote %d rows to %s", len(report.Rows), opts.Output)
	}
	return nil
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func writeJSONValue(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
