// Package zenoti is the REST client for the spa-management platform
// supplying raw sales and collection records.
package zenoti

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/recon"
)

const defaultBaseURL = "https://api.zenoti.com/v1"

// Client talks to the SOURCE REST API. It implements recon.SourceClient.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a SOURCE client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCenters returns the centers visible to the API key.
func (c *Client) ListCenters(ctx context.Context) ([]Center, error) {
	var resp centersResponse
	if err := c.get(ctx, "/centers", nil, &resp); err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	return resp.Centers, nil
}

// ListTransactions fetches the sales and collections reports for one
// center and window and maps them to domain records.
func (c *Client) ListTransactions(ctx context.Context, centerID string, window domain.DateWindow) (domain.SourceTransactions, error) {
	params := url.Values{
		"centerId":  {centerID},
		"startDate": {window.Start.Format(time.DateOnly)},
		"endDate":   {window.End.Format(time.DateOnly)},
	}

	var sales salesReportResponse
	if err := c.get(ctx, "/sales/salesreport", params, &sales); err != nil {
		return domain.SourceTransactions{}, fmt.Errorf("sales report: %w", err)
	}

	var collections collectionsReportResponse
	if err := c.get(ctx, "/collections_report", params, &collections); err != nil {
		return domain.SourceTransactions{}, fmt.Errorf("collections report: %w", err)
	}

	txns := domain.SourceTransactions{
		Sales:       make([]domain.RawSale, 0, len(sales.Sales)),
		Collections: make([]domain.RawCollection, 0, len(collections.Collections)),
	}
	for _, record := range sales.Sales {
		txns.Sales = append(txns.Sales, record.toDomain())
	}
	for _, record := range collections.Collections {
		txns.Collections = append(txns.Collections, record.toDomain())
	}
	return txns, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return recon.ErrRateLimited
	case resp.StatusCode >= 400:
		return fmt.Errorf("source API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
