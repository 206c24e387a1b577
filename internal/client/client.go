// Package client is a typed HTTP client for the boetepot API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/boetepot/platform/internal/domain"
)

// DefaultPrefix is the path prefix the API mounts its routes on.
const DefaultPrefix = "/api/fines"

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one boetepot server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for server (e.g. "http://localhost:5000") and prefix.
// An empty prefix means DefaultPrefix.
func New(server, prefix string, opts ...Option) *Client {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	c := &Client{
		baseURL: strings.TrimRight(server, "/") + "/" + strings.Trim(prefix, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Total returns the sum of all fines.
func (c *Client) Total(ctx context.Context) (domain.Amount, error) {
	var resp struct {
		Total domain.Amount `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/total", nil, &resp); err != nil {
		return domain.Amount{}, err
	}
	return resp.Total, nil
}

// Recent returns the newest fines.
func (c *Client) Recent(ctx context.Context) ([]domain.Fine, error) {
	var fines []domain.Fine
	return fines, c.do(ctx, http.MethodGet, "/recent", nil, &fines)
}

// All returns every fine, newest first.
func (c *Client) All(ctx context.Context) ([]domain.Fine, error) {
	var fines []domain.Fine
	return fines, c.do(ctx, http.MethodGet, "/all", nil, &fines)
}

// PlayerTotals returns per-player sums in server order.
func (c *Client) PlayerTotals(ctx context.Context) ([]domain.PlayerTotal, error) {
	var totals []domain.PlayerTotal
	return totals, c.do(ctx, http.MethodGet, "/player-totals", nil, &totals)
}

// Leaderboard returns the player totals sorted for display.
func (c *Client) Leaderboard(ctx context.Context) ([]domain.PlayerTotal, error) {
	totals, err := c.PlayerTotals(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortLeaderboard(totals)
	return totals, nil
}

// PlayerHistory returns one player's fines.
func (c *Client) PlayerHistory(ctx context.Context, speler string) ([]domain.Fine, error) {
	var fines []domain.Fine
	return fines, c.do(ctx, http.MethodGet, "/player-history/"+url.PathEscape(speler), nil, &fines)
}

// AddFine records a fine.
func (c *Client) AddFine(ctx context.Context, input domain.FineInput) (domain.Fine, error) {
	var resp struct {
		Fine domain.Fine `json:"fine"`
	}
	if err := c.do(ctx, http.MethodPost, "/add", input, &resp); err != nil {
		return domain.Fine{}, err
	}
	return resp.Fine, nil
}

// DeleteFine removes a fine.
func (c *Client) DeleteFine(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/"+strconv.FormatInt(id, 10), nil, nil)
}

// Players returns the roster.
func (c *Client) Players(ctx context.Context) ([]string, error) {
	var resp struct {
		Spelers []string `json:"spelers"`
	}
	if err := c.do(ctx, http.MethodGet, "/players", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Spelers, nil
}

// AddPlayer puts a player on the roster and returns the stored name.
func (c *Client) AddPlayer(ctx context.Context, name string) (string, error) {
	var resp struct {
		Player string `json:"player"`
	}
	body := map[string]string{"playerName": name}
	if err := c.do(ctx, http.MethodPost, "/players/add", body, &resp); err != nil {
		return "", err
	}
	return resp.Player, nil
}

// DeletePlayer removes a player and all of their fines.
func (c *Client) DeletePlayer(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/players/"+url.PathEscape(name), nil, nil)
}

// Reasons returns the reason catalogue.
func (c *Client) Reasons(ctx context.Context) ([]domain.Reason, error) {
	var reasons []domain.Reason
	return reasons, c.do(ctx, http.MethodGet, "/reasons", nil, &reasons)
}

// AddReason adds a reason. A nil amount lets the server pick its default.
func (c *Client) AddReason(ctx context.Context, input domain.ReasonInput) (domain.Reason, error) {
	var resp struct {
		Reason domain.Reason `json:"reason"`
	}
	if err := c.do(ctx, http.MethodPost, "/reasons/add", input, &resp); err != nil {
		return domain.Reason{}, err
	}
	return resp.Reason, nil
}

// DeleteReason removes a reason.
func (c *Client) DeleteReason(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/reasons/"+strconv.FormatInt(id, 10), nil, nil)
}

// Login checks the admin password.
func (c *Client) Login(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPost, "/login", map[string]string{"password": password}, nil)
}

// Reset clears the season.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/reset", nil, nil)
}

// Export downloads the season workbook.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/export", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non-2xx responses into *APIError.
func (c *Client) send(ctx context.Context, method, path string, in interface{}) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}
	return resp, nil
}
