// Package hh talks to the hh.ru public REST API.
package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/httpx"
	"github.com/baxromumarov/hh-vacancies/internal/model"
	"github.com/baxromumarov/hh-vacancies/internal/observability"
)

const (
	DefaultBaseURL   = "https://api.hh.ru"
	DefaultUserAgent = "HH-User-Agent"
)

// Only the first page is ever requested.
var (
	employerParams = url.Values{
		"text":                {""},
		"page":                {"0"},
		"per_page":            {"100"},
		"only_with_vacancies": {"true"},
		"sort_by":             {"by_name"},
	}
	vacancyParams = url.Values{
		"text":             {""},
		"page":             {"0"},
		"per_page":         {"100"},
		"only_with_salary": {"true"},
	}
)

type vacancyPage struct {
	Items []model.RawDocument `json:"items"`
	Found int                 `json:"found"`
	Pages int                 `json:"pages"`
}

// Client issues one blocking GET per call. It does not retry.
type Client struct {
	client    *http.Client
	base      string
	userAgent string
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		base:      strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
	}
}

// FetchEmployers returns the raw /employers/{id} document for every id, in
// order. The first failure aborts the whole call.
func (c *Client) FetchEmployers(ctx context.Context, ids []string) ([]model.RawDocument, error) {
	docs := make([]model.RawDocument, 0, len(ids))
	for _, id := range ids {
		var doc model.RawDocument
		endpoint := c.base + "/employers/" + url.PathEscape(id)
		if err := c.getJSON(ctx, endpoint, employerParams, &doc); err != nil {
			observability.IncError(observability.ClassifyFetchError(err), "hh")
			return nil, fmt.Errorf("employer %s fetch failed: %w", id, err)
		}
		docs = append(docs, doc)
	}
	observability.AddEmployersFetched(len(docs))
	return docs, nil
}

// FetchVacancies fetches the first page of vacancies behind every target
// and ties each one to the target's company row id.
//
// Failure is all-or-nothing: if any request fails the error is logged and an
// empty slice is returned, discarding vacancies already fetched for earlier
// targets.
func (c *Client) FetchVacancies(ctx context.Context, targets []model.VacancyTarget) []model.Vacancy {
	var vacancies []model.Vacancy
	for _, target := range targets {
		var page vacancyPage
		if err := c.getJSON(ctx, target.VacanciesURL, vacancyParams, &page); err != nil {
			errType := observability.ClassifyFetchError(err)
			observability.IncError(errType, "hh")
			log.Error().
				Err(err).
				Int("company_id", target.CompanyID).
				Str("url", target.VacanciesURL).
				Str("error_type", errType).
				Msg("vacancy fetch failed, discarding batch")
			return []model.Vacancy{}
		}
		if page.Pages > 1 {
			log.Debug().
				Int("company_id", target.CompanyID).
				Int("found", page.Found).
				Int("pages", page.Pages).
				Msg("only the first page of vacancies is loaded")
		}
		vacancies = append(vacancies, model.NewVacancies(page.Items, target.CompanyID)...)
	}
	observability.AddVacanciesFetched(len(vacancies))
	if vacancies == nil {
		vacancies = []model.Vacancy{}
	}
	return vacancies
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	req, err := httpx.NewRequest(ctx, rawURL, params)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.ObserveRequest(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := httpx.CheckStatus(resp); err != nil {
		return err
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}
