package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mnordin/dividash/internal/models"
)

const (
	defaultBaseURL = "https://www.alphavantage.co/query"
	defaultTimeout = 60 * time.Second
	rateLimit      = 1 // requests per second (free-tier friendly)
)

// Client is a rate-limited client for the fundamentals API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rateLimiter
}

// rateLimiter implements a simple token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(requestsPerSecond int) *rateLimiter {
	return &rateLimiter{
		interval: time.Second / time.Duration(requestsPerSecond),
	}
}

func (r *rateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastCall)
	if elapsed < r.interval {
		time.Sleep(r.interval - elapsed)
	}
	r.lastCall = time.Now()
}

// NewClient creates a new fundamentals API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: newRateLimiter(rateLimit),
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint
// (tests, proxies).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// fetch performs one API function call with retries and decodes into out.
func (c *Client) fetch(ctx context.Context, function, symbol string, out interface{}) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	// Rate limit
	c.limiter.Wait()

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			log.Printf("Retry attempt %d after %v", attempt, backoff)
			time.Sleep(backoff)
		}

		lastErr = c.doRequest(ctx, u.String(), out)
		if lastErr == nil {
			return nil
		}

		// Don't retry on context cancellation
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Printf("Request failed (attempt %d): %v", attempt+1, lastErr)
	}

	return fmt.Errorf("all retries failed: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, urlStr string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limited (429)")
	}

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, string(body))
	}

	// The provider reports errors and throttling in-band with a 200.
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.ErrorMessage != "" {
			return fmt.Errorf("provider error: %s", envelope.ErrorMessage)
		}
		if envelope.Note != "" {
			return fmt.Errorf("rate limited: %s", envelope.Note)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

// FetchOverview fetches the company snapshot for a symbol.
func (c *Client) FetchOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	var resp OverviewResponse
	if err := c.fetch(ctx, "OVERVIEW", symbol, &resp); err != nil {
		return nil, fmt.Errorf("fetching overview: %w", err)
	}
	if resp.Symbol == "" {
		return nil, fmt.Errorf("no overview data for %s", symbol)
	}
	return ParseOverview(&resp), nil
}

// FetchBalanceSheets fetches annual and quarterly balance-sheet entries.
func (c *Client) FetchBalanceSheets(ctx context.Context, symbol string) ([]models.BalanceSheetEntry, error) {
	var resp StatementResponse
	if err := c.fetch(ctx, "BALANCE_SHEET", symbol, &resp); err != nil {
		return nil, fmt.Errorf("fetching balance sheet: %w", err)
	}
	entries := ParseBalanceSheets(&resp, "annual")
	entries = append(entries, ParseBalanceSheets(&resp, "quarterly")...)
	return entries, nil
}

// FetchCashFlows fetches annual and quarterly cash-flow entries.
func (c *Client) FetchCashFlows(ctx context.Context, symbol string) ([]models.CashFlowEntry, error) {
	var resp StatementResponse
	if err := c.fetch(ctx, "CASH_FLOW", symbol, &resp); err != nil {
		return nil, fmt.Errorf("fetching cash flow: %w", err)
	}
	entries := ParseCashFlows(&resp, "annual")
	entries = append(entries, ParseCashFlows(&resp, "quarterly")...)
	return entries, nil
}

// FetchDividends fetches the full dividend history for a symbol.
func (c *Client) FetchDividends(ctx context.Context, symbol string) ([]models.Dividend, error) {
	var resp DividendsResponse
	if err := c.fetch(ctx, "DIVIDENDS", symbol, &resp); err != nil {
		return nil, fmt.Errorf("fetching dividends: %w", err)
	}
	if resp.Symbol == "" {
		resp.Symbol = symbol
	}
	return ParseDividends(&resp), nil
}
