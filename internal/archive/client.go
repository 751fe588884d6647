package archive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html/charset"

	"github.com/i474232898/weather-diary/internal/weather"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	CityID    int
	UserAgent string

	// Retries beyond the first attempt. Zero keeps single-attempt semantics.
	Retries int
	// BreakerFailures is how many consecutive failed months open the
	// circuit. Zero disables it.
	BreakerFailures uint32
}

// Client fetches diary pages for one city and implements weather.MonthSource.
type Client struct {
	baseURL   string
	cityID    int
	userAgent string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

// NewClient creates a diary client. The http.Client's Timeout bounds each
// attempt.
func NewClient(client *http.Client, opts Options) *Client {
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		cityID:    opts.CityID,
		userAgent: opts.UserAgent,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      opts.Retries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("gismeteo-diary", opts.BreakerFailures, time.Minute),
	}
}

// MonthURL returns the diary page address for q.
func (c *Client) MonthURL(q weather.MonthQuery) string {
	return fmt.Sprintf("%s/diary/%d/%d/%02d/", c.baseURL, c.cityID, q.Year, int(q.Month))
}

// FetchMonth downloads and decodes the diary page of q. Transport failures,
// non-2xx responses and pages without the diary table all return an error
// and an empty page.
func (c *Client) FetchMonth(ctx context.Context, q weather.MonthQuery) (weather.MonthPage, error) {
	u := c.MonthURL(q)

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return weather.MonthPage{Query: q}, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return weather.MonthPage{Query: q}, fmt.Errorf("decode %s: %w", u, err)
	}

	return Extract(body, q)
}
