package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/hhvac/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// Report is a rendered query result. Value is what JSON output encodes;
// Header and Rows feed the text formats. LinkColumn is the index of the
// column holding URLs, or -1.
type Report struct {
	Header     []string
	Rows       [][]string
	Value      any
	LinkColumn int
}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func Write(w io.Writer, report Report, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report.Value)
	case FormatCSV:
		return writeCSV(w, report, ',')
	case FormatTSV:
		return writeCSV(w, report, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, report)
	default:
		return writeTable(w, report, opts)
	}
}

func Companies(rows []models.CompanyCount) Report {
	report := Report{Header: []string{"company", "vacancies"}, Value: rows, LinkColumn: -1}
	for _, row := range rows {
		report.Rows = append(report.Rows, []string{safe(row.Name), strconv.FormatInt(row.VacanciesCount, 10)})
	}
	return report
}

func Vacancies(rows []models.VacancyListing) Report {
	report := Report{Header: []string{"company", "title", "salary", "url"}, Value: rows, LinkColumn: 3}
	for _, row := range rows {
		report.Rows = append(report.Rows, []string{
			safe(row.Company),
			safe(row.Title),
			SalaryText(row.SalaryFrom, row.SalaryTo, row.Currency),
			safe(deref(row.URL)),
		})
	}
	return report
}

func Average(avg models.SalaryAverage) Report {
	return Report{
		Header:     []string{"avg_salary_from", "avg_salary_to"},
		Rows:       [][]string{{AverageText(avg.AvgSalaryFrom), AverageText(avg.AvgSalaryTo)}},
		Value:      avg,
		LinkColumn: -1,
	}
}

func Cities(rows []models.CityCount) Report {
	report := Report{Header: []string{"city", "vacancies"}, Value: rows, LinkColumn: -1}
	for _, row := range rows {
		report.Rows = append(report.Rows, []string{safe(row.City), strconv.FormatInt(row.VacanciesCount, 10)})
	}
	return report
}

func Areas(rows []models.AreaMatch) Report {
	report := Report{Header: []string{"id", "name"}, Value: rows, LinkColumn: -1}
	for _, row := range rows {
		report.Rows = append(report.Rows, []string{row.ID, safe(row.Name)})
	}
	return report
}

// SalaryText renders a salary range as "from-to currency", with "?" for a
// missing bound and "-" when both are missing.
func SalaryText(from, to *int, currency *string) string {
	if from == nil && to == nil {
		return "-"
	}
	text := boundText(from) + "-" + boundText(to)
	if c := safe(deref(currency)); c != "" {
		text += " " + c
	}
	return text
}

// AverageText formats an average with two decimals, or "n/a" when nil.
func AverageText(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}

func boundText(value *int) string {
	if value == nil || *value == 0 {
		return "?"
	}
	return strconv.Itoa(*value)
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeCSV(w io.Writer, report Report, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(report.Header); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, report Report, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(report.Header, "\t"))
	output := termenv.NewOutput(w)
	for _, row := range report.Rows {
		cells := append([]string(nil), row...)
		if report.LinkColumn >= 0 && report.LinkColumn < len(cells) {
			cells[report.LinkColumn] = linkCell(cells[report.LinkColumn], output, opts)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, report Report) error {
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	lines := []string{
		"| " + strings.Join(report.Header, " | ") + " |",
		"|" + strings.Repeat(" --- |", len(report.Header)),
	}
	for _, row := range report.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == report.LinkColumn && cell != "" {
				cell = fmt.Sprintf("[Open listing](<%s>)", cell)
			}
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func linkCell(raw string, output *termenv.Output, opts WriteOptions) string {
	const linkColor = "#87CEEB"

	link := safe(raw)
	if link == "" {
		return "-"
	}
	display := link
	if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
		display = shortURLLabel(link)
	}
	if opts.ColorEnabled {
		display = output.String(display).Foreground(output.Color(linkColor)).String()
	}
	if opts.Hyperlinks {
		display = hyperlink(link, display)
	}
	return display
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
