// Package codat is the REST client for the accounting-data aggregation
// platform exposing companies, connections, accounts and asynchronous
// push operations.
package codat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/recon"
)

// statusError is a non-2xx, non-429 LEDGER response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ledger API error %d: %s", e.code, e.body)
}

const (
	defaultBaseURL  = "https://api.codat.io"
	defaultPageSize = 100
)

// Client talks to the LEDGER REST API. It implements recon.LedgerClient.
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

// NewClient creates a LEDGER client authenticated with the given API key.
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

// CreateCompany provisions a new LEDGER company.
func (c *Client) CreateCompany(ctx context.Context, name string) (domain.Company, error) {
	var resp companyRecord
	if err := c.do(ctx, http.MethodPost, "/companies", createCompanyRequest{Name: name}, &resp); err != nil {
		return domain.Company{}, fmt.Errorf("create company: %w", err)
	}
	return resp.toDomain(), nil
}

// CreateConnection creates an accounting-platform connection for a
// company and returns it, including the OAuth link URL.
func (c *Client) CreateConnection(ctx context.Context, companyID, platformKey string) (domain.Connection, error) {
	var resp connectionRecord
	path := "/companies/" + companyID + "/connections"
	if err := c.do(ctx, http.MethodPost, path, createConnectionRequest{PlatformKey: platformKey}, &resp); err != nil {
		return domain.Connection{}, fmt.Errorf("create connection: %w", err)
	}
	return resp.toDomain(), nil
}

// ListCompanies returns one page of the company list.
func (c *Client) ListCompanies(ctx context.Context, page int) (recon.CompanyPage, error) {
	var resp companiesResponse
	path := "/companies?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(defaultPageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return recon.CompanyPage{}, fmt.Errorf("list companies: %w", err)
	}
	result := recon.CompanyPage{
		Companies: make([]domain.Company, 0, len(resp.Results)),
		HasMore:   resp.Links.Next != nil,
	}
	for _, record := range resp.Results {
		result.Companies = append(result.Companies, record.toDomain())
	}
	return result, nil
}

// ListConnections returns a company's connections.
func (c *Client) ListConnections(ctx context.Context, companyID string) ([]domain.Connection, error) {
	var resp connectionsResponse
	if err := c.do(ctx, http.MethodGet, "/companies/"+companyID+"/connections", nil, &resp); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	connections := make([]domain.Connection, 0, len(resp.Results))
	for _, record := range resp.Results {
		connections = append(connections, record.toDomain())
	}
	return connections, nil
}

// ListAccountCategories returns the account categories the connection's
// accounting platform accepts.
func (c *Client) ListAccountCategories(ctx context.Context, companyID, connectionID string) ([]string, error) {
	var resp accountOptionsResponse
	path := "/companies/" + companyID + "/connections/" + connectionID + "/options/chartOfAccounts"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list account categories: %w", err)
	}
	categories := make([]string, 0, len(resp.CategoryOptions))
	for _, option := range resp.CategoryOptions {
		categories = append(categories, option.Value)
	}
	return categories, nil
}

// ListAccounts returns one page of the company's chart of accounts.
func (c *Client) ListAccounts(ctx context.Context, companyID string, page int) (recon.AccountPage, error) {
	var resp accountsResponse
	path := "/companies/" + companyID + "/data/accounts?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(defaultPageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return recon.AccountPage{}, fmt.Errorf("list accounts: %w", err)
	}
	result := recon.AccountPage{
		Accounts: make([]domain.LedgerAccount, 0, len(resp.Results)),
		HasMore:  resp.Links.Next != nil,
	}
	for _, record := range resp.Results {
		result.Accounts = append(result.Accounts, record.toDomain())
	}
	return result, nil
}

// CreateAccount submits an asynchronous account creation push.
func (c *Client) CreateAccount(ctx context.Context, companyID, connectionID string, spec recon.AccountSpec) (string, error) {
	var resp pushResponse
	path := "/companies/" + companyID + "/connections/" + connectionID + "/push/accounts"
	body := createAccountRequest{
		Name:     spec.Name,
		Type:     spec.Category,
		Currency: spec.Currency,
		Status:   "Active",
	}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", fmt.Errorf("create account %q: %w", spec.Name, err)
	}
	return resp.PushOperationKey, nil
}

// GetPushOperation returns a push operation snapshot. A 404 maps to
// recon.ErrOperationNotFound since new operations lag behind the status
// endpoint.
func (c *Client) GetPushOperation(ctx context.Context, companyID, key string) (domain.PushOperation, error) {
	var resp pushStatusResponse
	if err := c.do(ctx, http.MethodGet, "/companies/"+companyID+"/push/"+key, nil, &resp); err != nil {
		var status *statusError
		if errors.As(err, &status) && status.code == http.StatusNotFound {
			return domain.PushOperation{}, fmt.Errorf("%w: %s", recon.ErrOperationNotFound, key)
		}
		return domain.PushOperation{}, err
	}
	op := domain.PushOperation{
		Key:          key,
		Status:       domain.PushStatus(resp.Status),
		ErrorMessage: resp.ErrorMessage,
	}
	if resp.Data != nil {
		op.RecordID = resp.Data.ID
	}
	return op, nil
}

// SubmitJournal submits an asynchronous journal posting push.
func (c *Client) SubmitJournal(ctx context.Context, companyID, connectionID string, entry domain.JournalEntry) (string, error) {
	var resp pushResponse
	path := "/companies/" + companyID + "/connections/" + connectionID + "/push/journalEntries"
	if err := c.do(ctx, http.MethodPost, path, toJournalPayload(entry), &resp); err != nil {
		return "", fmt.Errorf("submit journal: %w", err)
	}
	return resp.PushOperationKey, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return recon.ErrRateLimited
	case resp.StatusCode >= 400:
		return &statusError{code: resp.StatusCode, body: string(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
