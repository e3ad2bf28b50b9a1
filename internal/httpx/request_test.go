package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_MergesQuery(t *testing.T) {
	params := url.Values{"page": {"0"}, "per_page": {"100"}}

	req, err := NewRequest(context.Background(), "https://api.hh.ru/vacancies?employer_id=3529", params)
	require.NoError(t, err)

	q := req.URL.Query()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "3529", q.Get("employer_id"))
	assert.Equal(t, "0", q.Get("page"))
	assert.Equal(t, "100", q.Get("per_page"))
}

func TestNewRequest_DefaultsScheme(t *testing.T) {
	req, err := NewRequest(context.Background(), "//api.hh.ru/employers/1", nil)
	require.NoError(t, err)
	assert.Equal(t, "https", req.URL.Scheme)
}

func TestNewRequest_Empty(t *testing.T) {
	_, err := NewRequest(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	u, _ := url.Parse("https://api.hh.ru/employers/1")
	ok := &http.Response{StatusCode: http.StatusOK, Request: &http.Request{URL: u}}
	assert.NoError(t, CheckStatus(ok))

	notFound := &http.Response{StatusCode: http.StatusNotFound, Request: &http.Request{URL: u}}
	err := CheckStatus(notFound)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Contains(t, err.Error(), "status 404")
}
