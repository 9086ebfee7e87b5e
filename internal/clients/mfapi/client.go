// Package mfapi provides a client for the mfapi.in mutual fund API
package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

const (
	DefaultBaseURL   = "https://api.mfapi.in"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
// mfapi.in serves NAVs as quoted decimal strings.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// navRow is the wire shape of one NAV history entry.
type navRow struct {
	Date string      `json:"date"`
	NAV  flexFloat64 `json:"nav"`
}

// fundDetailResponse is the wire shape of /mf/{code} and /mf/{code}/latest.
type fundDetailResponse struct {
	Meta   models.FundMeta `json:"meta"`
	Data   []navRow        `json:"data"`
	Status string          `json:"status"`
}

// Client implements the MFAPIClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new mfapi.in client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mfapi error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("mfapi request complete")

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

// ListFunds returns every known scheme.
func (c *Client) ListFunds(ctx context.Context) ([]models.Fund, error) {
	var funds []models.Fund
	if err := c.get(ctx, "/mf", &funds); err != nil {
		return nil, err
	}
	c.logger.Info().Int("count", len(funds)).Msg("Fetched mutual fund list")
	return funds, nil
}

// FundDetail returns scheme metadata and the full NAV history, newest first.
func (c *Client) FundDetail(ctx context.Context, schemeCode int) (*models.FundDetail, error) {
	var resp fundDetailResponse
	endpoint := fmt.Sprintf("/mf/%d", schemeCode)
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	detail := &models.FundDetail{
		Meta: resp.Meta,
		Data: make([]models.NAVRow, len(resp.Data)),
	}
	for i, row := range resp.Data {
		detail.Data[i] = models.NAVRow{Date: row.Date, NAV: float64(row.NAV)}
	}

	c.logger.Debug().
		Int("schemeCode", schemeCode).
		Int("quotes", len(detail.Data)).
		Msg("Fetched fund detail")
	return detail, nil
}

// LatestNAV returns the most recent quote for a scheme.
func (c *Client) LatestNAV(ctx context.Context, schemeCode int) (float64, error) {
	var resp fundDetailResponse
	endpoint := fmt.Sprintf("/mf/%d/latest", schemeCode)
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("no NAV data for scheme %d", schemeCode)
	}
	return float64(resp.Data[0].NAV), nil
}
