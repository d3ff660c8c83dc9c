// Package client is a thin HTTP client for the tradegate compliance
// API, used by the CLI and the demo runner.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/meridiancap/tradegate/internal/model"
)

// Client connects to a tradegate compliance server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// CheckTradeResponse is the decision payload returned by the server,
// with the employee summary and request echo.
type CheckTradeResponse struct {
	model.ComplianceDecision
	Employee model.EmployeeSummary `json:"employee"`
	Request  struct {
		Ticker   string  `json:"ticker"`
		Action   string  `json:"action"`
		Date     string  `json:"date"`
		Quantity float64 `json:"quantity"`
	} `json:"request"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// CheckTrade submits a trade for a compliance decision.
func (c *Client) CheckTrade(ctx context.Context, employeeID, ticker, action string, date time.Time, quantity float64) (*CheckTradeResponse, error) {
	body := map[string]any{
		"employee_id": employeeID,
		"ticker":      ticker,
		"action":      action,
		"date":        date.Format(time.RFC3339),
	}
	if quantity > 0 {
		body["quantity"] = quantity
	}

	var out CheckTradeResponse
	if err := c.do(ctx, http.MethodPost, "/api/check-trade", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Employee fetches the full profile for an employee ID. The payload is
// returned as-is; callers pick the fields they need.
func (c *Client) Employee(ctx context.Context, employeeID string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/employee/"+url.PathEscape(employeeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Employees lists employees, optionally filtered by tier (0 = all).
func (c *Client) Employees(ctx context.Context, tier int) (map[string]any, error) {
	path := "/api/employees"
	if tier > 0 {
		path += "?tier=" + strconv.Itoa(tier)
	}
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchEmployees searches employees by name or ID fragment.
func (c *Client) SearchEmployees(ctx context.Context, query string) (map[string]any, error) {
	var out map[string]any
	path := "/api/search/employees?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Rules fetches the policy text for a firm.
func (c *Client) Rules(ctx context.Context, firm string) (string, error) {
	var out struct {
		Firm    string `json:"firm"`
		Content string `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/rules/"+url.PathEscape(firm), nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// Health checks server liveness and returns the health payload.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := string(data)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
