package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rhettg/sysinfo/internal/sysinfo"
)

// Client talks to a running sysinfo server
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// Status is the response of GET /v1
type Status struct {
	Name     string         `json:"name"`
	Revision string         `json:"revision"`
	UpTime   int64          `json:"uptime"`
	Facts    sysinfo.Report `json:"facts"`
}

// NewClient creates a new sysinfo client
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// Status fetches the server name, uptime and facts.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.do(ctx, http.MethodGet, "/v1", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Reload asks the server to resolve its scripts revision again and returns
// the facts afterwards.
func (c *Client) Reload(ctx context.Context) (*sysinfo.Report, error) {
	var r sysinfo.Report
	if err := c.do(ctx, http.MethodPost, "/v1/reload", &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Watch streams the server facts, once on connect and again after every
// reload. The channel is closed when ctx is done or the server ends the watch.
func (c *Client) Watch(ctx context.Context) (<-chan sysinfo.Report, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/v1/watch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reports := make(chan sysinfo.Report)
	go func() {
		defer close(reports)
		defer resp.Body.Close()

		decoder := json.NewDecoder(resp.Body)
		for {
			var r sysinfo.Report
			if err := decoder.Decode(&r); err != nil {
				if ctx.Err() == nil {
					slog.Debug("watch ended", "error", err)
				}
				return
			}

			select {
			case reports <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

	return reports, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("HTTP %s error: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding JSON: %w", err)
	}
	return nil
}
