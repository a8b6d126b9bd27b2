package cmd

import (
	"context"
	"io"
	"time"

	"github.com/jimezsa/hhvac/internal/config"
	"github.com/jimezsa/hhvac/internal/hhapi"
	"github.com/jimezsa/hhvac/internal/ingest"
	"github.com/jimezsa/hhvac/internal/models"
	"github.com/jimezsa/hhvac/internal/network"
	"github.com/jimezsa/hhvac/internal/schema"
	"github.com/jimezsa/hhvac/internal/store"
	"github.com/jimezsa/hhvac/internal/ui"
	"github.com/rs/zerolog"
)

const proxyBanDuration = 10 * time.Minute

// Store is what the commands need from the vacancy database.
type Store interface {
	ingest.Sink
	CompaniesAndVacanciesCount(ctx context.Context) ([]models.CompanyCount, error)
	AllVacancies(ctx context.Context) ([]models.VacancyListing, error)
	AverageSalary(ctx context.Context) (models.SalaryAverage, error)
	VacanciesWithHigherSalary(ctx context.Context) ([]models.VacancyListing, error)
	VacanciesWithKeyword(ctx context.Context, keyword string) ([]models.VacancyListing, error)
	VacanciesByCity(ctx context.Context, city string) ([]models.VacancyListing, error)
	CitiesWithCounts(ctx context.Context) ([]models.CityCount, error)
	Truncate(ctx context.Context) error
	Close(ctx context.Context) error
}

type Context struct {
	Ctx        context.Context
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Overridable in tests.
	OpenStore func(ctx context.Context) (Store, error)
	OpenAPI   func(proxies []string) (hhapi.JobAPI, error)
	SetupDB   func(ctx context.Context) error

	prompt *ui.Prompter
}

func (c *Context) runContext() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// prompter returns one Prompter per Context so buffered input is not lost
// between prompts.
func (c *Context) prompter() *ui.Prompter {
	if c.prompt == nil {
		c.prompt = ui.NewPrompter(c.UI, c.In)
	}
	return c.prompt
}

func (c *Context) openStore(ctx context.Context) (Store, error) {
	if c.OpenStore != nil {
		return c.OpenStore(ctx)
	}
	db := c.Config.Database
	manager, err := store.Connect(ctx, db.DSN(db.Name))
	if err != nil {
		return nil, err
	}
	return manager, nil
}

// openAPI builds a client using the proxies from the flag value, the
// environment or the proxies file.
func (c *Context) openAPI(proxyFlag string) (hhapi.JobAPI, error) {
	proxies, err := config.LoadProxies(proxyFlag)
	if err != nil {
		return nil, err
	}
	return c.openAPIWith(proxies)
}

func (c *Context) openAPIWith(proxies []string) (hhapi.JobAPI, error) {
	if c.OpenAPI != nil {
		return c.OpenAPI(proxies)
	}
	api, err := c.newHeadHunter(proxies)
	if err != nil {
		return nil, err
	}
	return api, nil
}

func (c *Context) newHeadHunter(proxies []string) (*hhapi.HeadHunter, error) {
	var rotator *network.Rotator
	if len(proxies) > 0 {
		var err error
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}
	clientCfg := c.Config.Client(proxies)
	client, err := network.NewClient(clientCfg, rotator)
	if err != nil {
		return nil, err
	}
	return hhapi.NewHeadHunter(client, clientCfg, c.Logger)
}

func (c *Context) setupDB(ctx context.Context) error {
	if c.SetupDB != nil {
		return c.SetupDB(ctx)
	}
	creator := schema.NewCreator(c.Config.Database.DSN, c.Logger)
	return creator.Setup(ctx, c.Config.Database.Name)
}
