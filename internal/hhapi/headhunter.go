package hhapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/hhvac/internal/models"
	"github.com/jimezsa/hhvac/internal/network"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.hh.ru/"
	MaxPerPage     = 100
)

// HeadHunter talks to the api.hh.ru REST endpoints.
type HeadHunter struct {
	client    network.Doer
	baseURL   *url.URL
	userAgent string
	logger    zerolog.Logger
	connected bool
}

func NewHeadHunter(client network.Doer, cfg models.ClientConfig, logger zerolog.Logger) (*HeadHunter, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", raw)
	}

	return &HeadHunter{
		client:    client,
		baseURL:   base,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// Connected reports whether a liveness probe has succeeded.
func (h *HeadHunter) Connected() bool {
	return h.connected
}

// Connect probes the vacancies endpoint. It is safe to call repeatedly.
func (h *HeadHunter) Connect(ctx context.Context) error {
	values := url.Values{}
	values.Set("per_page", "1")
	if err := h.getJSON(ctx, "vacancies", values, nil); err != nil {
		return &ConnectionError{Op: "connect", Err: err}
	}
	h.connected = true
	h.logger.Debug().Str("base_url", h.baseURL.String()).Msg("connected to hh api")
	return nil
}

func (h *HeadHunter) ensureConnected(ctx context.Context) error {
	if h.connected {
		return nil
	}
	return h.Connect(ctx)
}

// FindEmployers looks up each name and keeps the first employer with open
// vacancies. Names without a match or with a failed request are skipped.
func (h *HeadHunter) FindEmployers(ctx context.Context, names []string) ([]models.Employer, error) {
	if err := h.ensureConnected(ctx); err != nil {
		return nil, err
	}

	employers := make([]models.Employer, 0, len(names))
	for _, name := range names {
		values := url.Values{}
		values.Set("text", name)
		values.Set("only_with_vacancies", "true")
		values.Set("per_page", "1")

		var resp employersResponse
		if err := h.getJSON(ctx, "employers", values, &resp); err != nil {
			if ctx.Err() != nil {
				return employers, ctx.Err()
			}
			h.logger.Warn().Err(err).Str("name", name).Msg("employer lookup failed")
			continue
		}
		if len(resp.Items) == 0 {
			h.logger.Info().Str("name", name).Msg("no employer found")
			continue
		}

		employer := resp.Items[0].toModel()
		h.logger.Debug().Str("name", name).Str("employer", employer.ID).Msg("employer found")
		employers = append(employers, employer)
	}
	return employers, nil
}

// ListVacancies fetches a single page of vacancies for employerID,
// optionally restricted to areaID. perPage is capped at MaxPerPage.
func (h *HeadHunter) ListVacancies(ctx context.Context, employerID string, areaID string, perPage int) ([]models.Vacancy, error) {
	if err := h.ensureConnected(ctx); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("employer_id", employerID)
	values.Set("per_page", strconv.Itoa(clampPerPage(perPage)))
	values.Set("locale", "RU")
	if strings.TrimSpace(areaID) != "" {
		values.Set("area", areaID)
	}

	var resp vacanciesResponse
	if err := h.getJSON(ctx, "vacancies", values, &resp); err != nil {
		return nil, &ConnectionError{Op: "list vacancies", Err: err}
	}

	vacancies := parseVacancies(resp.Items)
	h.logger.Debug().Str("employer", employerID).Str("area_id", areaID).Int("count", len(vacancies)).Msg("vacancies fetched")
	return vacancies, nil
}

// ResolveAreas fetches the area tree and returns every node named
// cityName, compared case-insensitively.
func (h *HeadHunter) ResolveAreas(ctx context.Context, cityName string) ([]models.AreaMatch, error) {
	if err := h.ensureConnected(ctx); err != nil {
		return nil, err
	}

	var areas []models.Area
	if err := h.getJSON(ctx, "areas", nil, &areas); err != nil {
		return nil, &ConnectionError{Op: "resolve areas", Err: err}
	}
	return FindAreas(areas, cityName), nil
}

func (h *HeadHunter) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	target := h.baseURL.ResolveReference(&url.URL{Path: path})
	if len(values) > 0 {
		target.RawQuery = values.Encode()
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode}
	}
	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func clampPerPage(perPage int) int {
	if perPage <= 0 || perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}
