package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Run       RunCmd       `cmd:"" default:"withargs" help:"Create the database, ingest vacancies and open the menu."`
	DB        DBCmd        `cmd:"" name:"db" help:"Database utilities."`
	Ingest    IngestCmd    `cmd:"" help:"Fetch employers and vacancies into the database."`
	Areas     AreasCmd     `cmd:"" help:"Look up area ids by city name."`
	Companies CompaniesCmd `cmd:"" help:"List companies with their vacancy counts."`
	Vacancies VacanciesCmd `cmd:"" help:"List all stored vacancies."`
	AvgSalary AvgSalaryCmd `cmd:"" name:"avg-salary" help:"Print the average salary bounds."`
	TopSalary TopSalaryCmd `cmd:"" name:"top-salary" help:"List vacancies paying above average."`
	Search    SearchCmd    `cmd:"" help:"List vacancies whose title contains a keyword."`
	City      CityCmd      `cmd:"" help:"List vacancies in a city."`
	Cities    CitiesCmd    `cmd:"" help:"List cities with their vacancy counts."`
	Menu      MenuCmd      `cmd:"" help:"Interactive menu over the stored vacancies."`
	API       APICmd       `cmd:"" name:"api" help:"HeadHunter API utilities."`
	Config    ConfigCmd    `cmd:"" help:"Manage configuration."`
	Version   VersionCmd   `cmd:"" help:"Print version."`
}

func NewCLI() *CLI {
	return &CLI{}
}
