// Package rfidapi is the HTTP client of the external inventory and RFID
// reader service.
package rfidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/rfidash/internal/model"
)

// DefaultTimeout bounds every request when no HTTP client is supplied.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client calls the inventory service. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health is the service liveness report.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Result is the reply to a mutating call.
type Result struct {
	Message string      `json:"message"`
	Data    *model.Item `json:"data,omitempty"`
}

// Health handles GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h)
	return h, err
}

// Items handles GET /get_all_items.
func (c *Client) Items(ctx context.Context) ([]model.Item, error) {
	var resp struct {
		Items []model.Item `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_all_items", nil, nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Items {
		resp.Items[i].Normalize()
	}
	if resp.Items == nil {
		resp.Items = []model.Item{}
	}
	return resp.Items, nil
}

// Item handles GET /find_item_by_uid/{uid}. The service answers a missing
// item with a plain string in place of the record, reported as ErrNotFound.
func (c *Client) Item(ctx context.Context, uid string) (model.Item, error) {
	var resp struct {
		Item json.RawMessage `json:"item"`
	}
	if err := c.do(ctx, http.MethodGet, "/find_item_by_uid/"+url.PathEscape(uid), nil, nil, &resp); err != nil {
		return model.Item{}, err
	}

	var msg string
	if err := json.Unmarshal(resp.Item, &msg); err == nil {
		return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, uid)
	}

	var it model.Item
	if err := json.Unmarshal(resp.Item, &it); err != nil {
		return model.Item{}, fmt.Errorf("decoding item %s: %w", uid, err)
	}
	it.Normalize()
	return it, nil
}

// AddItem handles POST /add_manually.
func (c *Client) AddItem(ctx context.Context, it model.Item) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/add_manually", nil, it, &res)
	return res, err
}

// AddFromTag handles POST /add_from_tag/{epc}.
func (c *Client) AddFromTag(ctx context.Context, epc string) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/add_from_tag/"+url.PathEscape(epc), nil, nil, &res)
	return res, err
}

// ExitItem handles POST /exit_item/{uid}.
func (c *Client) ExitItem(ctx context.Context, uid string) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/exit_item/"+url.PathEscape(uid), nil, nil, &res)
	return res, err
}

// UpdateItem handles POST /update_item/{uid}.
func (c *Client) UpdateItem(ctx context.Context, uid string, it model.Item) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, "/update_item/"+url.PathEscape(uid), nil, it, &res)
	return res, err
}

// DeleteItem handles DELETE /delete_item/{uid}.
func (c *Client) DeleteItem(ctx context.Context, uid string) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodDelete, "/delete_item/"+url.PathEscape(uid), nil, nil, &res)
	return res, err
}

// StartReading handles GET /start_reading.
func (c *Client) StartReading(ctx context.Context) (string, error) {
	return c.message(ctx, http.MethodGet, "/start_reading", nil)
}

// StartReadingExits handles GET /start_reading_exits.
func (c *Client) StartReadingExits(ctx context.Context) (string, error) {
	return c.message(ctx, http.MethodGet, "/start_reading_exits", nil)
}

// StopReading handles POST /stop_reading.
func (c *Client) StopReading(ctx context.Context) (string, error) {
	return c.message(ctx, http.MethodPost, "/stop_reading", nil)
}

// WriteTag handles POST /write_tag?data=.
func (c *Client) WriteTag(ctx context.Context, data string) (string, error) {
	return c.message(ctx, http.MethodPost, "/write_tag", url.Values{"data": {data}})
}

func (c *Client) message(ctx context.Context, method, path string, query url.Values) (string, error) {
	var res Result
	if err := c.do(ctx, method, path, query, nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// do sends a JSON request and decodes a JSON reply into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newServiceError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
