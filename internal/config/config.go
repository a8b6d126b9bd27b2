package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/hhvac/internal/models"
	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "hhvac"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	DotEnvFile      = ".env"

	maxPerPage = 100
)

// DefaultCompanies is the employer list ingested when none is configured.
var DefaultCompanies = []string{
	"Яндекс",
	"Тинькофф",
	"Сбер",
	"ВКонтакте",
	"Ростелеком",
	"Лаборатория Касперского",
	"1С",
	"МТС",
	"Газпром нефть",
	"Ozon",
}

// Config contains database and API settings.
type Config struct {
	Database Database `json:"database"`
	API      API      `json:"api"`

	Companies []string `json:"companies"`
	PerPage   int      `json:"per_page"`
}

// Database holds PostgreSQL connection parameters.
type Database struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"sslmode"`
}

// API holds HeadHunter client settings.
type API struct {
	BaseURL        string `json:"base_url"`
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"request_timeout_seconds"`
}

// DefaultConfig is FromEnv with unparsable values replaced by their
// defaults.
func DefaultConfig() Config {
	cfg, _ := FromEnv()
	return cfg
}

// FromEnv builds the defaults overridden by environment variables. Values
// that do not parse keep their default and are reported in the error.
func FromEnv() (Config, error) {
	env := &envReader{}
	cfg := Config{
		Database: Database{
			Host:     env.text("DB_HOST", "localhost"),
			Port:     env.number("DB_PORT", 5432),
			User:     env.text("DB_USER", "postgres"),
			Password: env.text("DB_PASSWORD", "password"),
			Name:     env.text("DB_NAME", "hh_vacancies"),
			SSLMode:  env.text("DB_SSLMODE", "disable"),
		},
		API: API{
			BaseURL:        env.text("HH_BASE_URL", "https://api.hh.ru/"),
			UserAgent:      env.text("HH_USER_AGENT", "HHVacancyParser/1.0"),
			TimeoutSeconds: env.number("HHVAC_TIMEOUT", 30),
		},
		Companies: env.list("HHVAC_COMPANIES", DefaultCompanies),
		PerPage:   env.number("HHVAC_PER_PAGE", maxPerPage),
	}
	return cfg, errors.Join(env.errs...)
}

// DSN returns a pgx connection string for dbname on the configured server.
func (d Database) DSN(dbname string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + dbname,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// Client converts the API section into transport options.
func (c Config) Client(proxies []string) models.ClientConfig {
	return models.ClientConfig{
		BaseURL:   c.API.BaseURL,
		UserAgent: c.API.UserAgent,
		Timeout:   time.Duration(c.API.TimeoutSeconds) * time.Second,
		Proxies:   proxies,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Name) == "" {
		return errors.New("database name is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil || strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("invalid api base_url: %q", c.API.BaseURL)
	}
	if c.PerPage < 1 || c.PerPage > maxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d", maxPerPage)
	}
	return nil
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load reads DotEnvFile from the working directory into the environment,
// then the config file over the environment defaults. Variables already
// set in the process win over the .env file.
func Load() (Config, error) {
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return DefaultConfig(), err
	}
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFile(path)
}

// LoadDotEnv sets variables from a dotenv file that are not already in the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadFile reads path over the environment defaults. A missing or blank
// file yields the defaults. The result is validated either way.
func LoadFile(path string) (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return SplitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("HHVAC_PROXIES")); env != "" {
		return SplitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return readProxiesFile(path)
}

func readProxiesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

type envReader struct {
	errs []error
}

func (r *envReader) text(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func (r *envReader) number(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, val))
		return fallback
	}
	return parsed
}

func (r *envReader) list(key string, fallback []string) []string {
	if values := SplitCSV(os.Getenv(key)); len(values) > 0 {
		return values
	}
	return append([]string(nil), fallback...)
}

// SplitCSV splits a comma-separated value, dropping blank entries.
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
