package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

type FetchError struct {
	Status int
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewRequest builds a GET request with context, defaulting the scheme to
// https. params are merged over any query string already present in rawURL.
func NewRequest(ctx context.Context, rawURL string, params url.Values) (*http.Request, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			q[key] = append([]string(nil), values...)
		}
		u.RawQuery = q.Encode()
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
}

// CheckStatus returns a *FetchError for any non-2xx response.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &FetchError{
		Status: resp.StatusCode,
		URL:    resp.Request.URL.String(),
		Err:    errors.New(http.StatusText(resp.StatusCode)),
	}
}
