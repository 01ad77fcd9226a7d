package netbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Config holds connection settings for one NetBox endpoint.
type Config struct {
	// URL is the base URL, e.g. "https://netbox.example.com".
	URL string
	// Token is the NetBox API token.
	Token string
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int
}

// Client is an open handle to one NetBox endpoint.
type Client interface {
	// GetPrefixes fetches all prefixes matching the given query string
	// (raw URL query, e.g. "tenant=dcn&status=active"). Pagination is
	// followed transparently.
	GetPrefixes(ctx context.Context, query string) ([]Prefix, error)
	// Close releases the handle's idle connections.
	Close()
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an authenticated handle to a NetBox endpoint.
func NewClient(cfg Config) (Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("netbox: endpoint URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("netbox: API token is required")
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		token:   cfg.Token,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}, nil
}

func (c *client) GetPrefixes(ctx context.Context, query string) ([]Prefix, error) {
	url := c.baseURL + "/api/ipam/prefixes/"
	if query != "" {
		url += "?" + query
	}

	var prefixes []Prefix
	for url != "" {
		page, err := c.getPage(ctx, url)
		if err != nil {
			return nil, err
		}
		for _, rec := range page.Results {
			prefixes = append(prefixes, rec.toPrefix())
		}
		if page.Next != nil {
			url = *page.Next
		} else {
			url = ""
		}
	}

	return prefixes, nil
}

func (c *client) getPage(ctx context.Context, url string) (*prefixList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("netbox: build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("netbox: get prefixes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("netbox: get prefixes: unexpected status %d", resp.StatusCode)
	}

	var page prefixList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("netbox: decode prefixes: %w", err)
	}

	return &page, nil
}

func (c *client) Close() {
	c.http.CloseIdleConnections()
}
