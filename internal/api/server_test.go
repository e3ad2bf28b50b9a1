package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/hh-vacancies/internal/store"
)

type fakeQueries struct {
	listings []store.VacancyListing
	counts   []store.CompanyVacancyCount
	avg      float64
	err      error
	keyword  string
}

func (f *fakeQueries) CompaniesWithVacancyCounts(context.Context) ([]store.CompanyVacancyCount, error) {
	return f.counts, f.err
}

func (f *fakeQueries) AllVacancies(context.Context) ([]store.VacancyListing, error) {
	return f.listings, f.err
}

func (f *fakeQueries) AverageSalary(context.Context) (float64, error) {
	return f.avg, f.err
}

func (f *fakeQueries) VacanciesAboveAverageSalary(context.Context) ([]store.VacancyListing, error) {
	return f.listings, f.err
}

func (f *fakeQueries) VacanciesByKeyword(_ context.Context, keyword string) ([]store.VacancyListing, error) {
	f.keyword = keyword
	return f.listings, f.err
}

func serve(t *testing.T, q Queries, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(q).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type listingResponse struct {
	Items []store.VacancyListing `json:"items"`
	Total int                    `json:"total"`
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeQueries{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCompanies(t *testing.T) {
	q := &fakeQueries{counts: []store.CompanyVacancyCount{{Company: "Acme", Vacancies: 0}, {Company: "Globex", Vacancies: 3}}}
	rec := serve(t, q, "/companies")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []store.CompanyVacancyCount `json:"items"`
		Total int                         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, q.counts, body.Items)
	assert.Equal(t, 2, body.Total)
}

func TestVacancyListings(t *testing.T) {
	q := &fakeQueries{listings: []store.VacancyListing{{Company: "Acme", Vacancy: "Python Developer", SalaryMin: 300, SalaryMax: 400, URL: "u"}}}

	for _, target := range []string{"/vacancies", "/vacancies/above-average", "/vacancies/search?keyword=Python"} {
		t.Run(target, func(t *testing.T) {
			rec := serve(t, q, target)
			require.Equal(t, http.StatusOK, rec.Code)

			var body listingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, q.listings, body.Items)
			assert.Equal(t, 1, body.Total)
		})
	}
	assert.Equal(t, "Python", q.keyword)
}

func TestEmptyListingsAreArrays(t *testing.T) {
	rec := serve(t, &fakeQueries{}, "/vacancies")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items": [], "total": 0}`, rec.Body.String())
}

func TestAverageSalary(t *testing.T) {
	rec := serve(t, &fakeQueries{avg: 250}, "/vacancies/average-salary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"average_salary": 250}`, rec.Body.String())
}

func TestSearchRequiresKeyword(t *testing.T) {
	rec := serve(t, &fakeQueries{}, "/vacancies/search?keyword=%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "keyword is required")
}

func TestStoreErrors(t *testing.T) {
	q := &fakeQueries{err: errors.New("connection refused")}
	for _, target := range []string{"/companies", "/vacancies", "/vacancies/average-salary"} {
		rec := serve(t, q, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "connection refused", target)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(&fakeQueries{}).Start(ctx, "127.0.0.1:0") }()

	cancel()
	require.NoError(t, <-done)
}
