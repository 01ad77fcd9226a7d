package nsx

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound indicates the group does not exist on the endpoint. It is
// distinct from transport failures so callers can tell "create it" apart
// from "could not ask".
var ErrNotFound = errors.New("nsx: group not found")

// Config holds connection settings for one NSX endpoint.
type Config struct {
	// Hostname is the policy manager hostname.
	Hostname string
	// Username and Password authenticate against the policy API.
	Username string
	Password string
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int
	// InsecureSkipVerify disables TLS verification.
	InsecureSkipVerify bool
}

// Client is an open handle to one NSX endpoint.
type Client interface {
	// GetGroup fetches a policy group by id within a domain. Returns
	// ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, domain, id string) (*Group, error)
	// PatchGroup creates or replaces a policy group (PATCH semantics on
	// the policy API are whole-object create-or-update).
	PatchGroup(ctx context.Context, domain, id string, group Group) error
	// Close releases the handle's idle connections.
	Close()
}

type client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient creates an authenticated handle to an NSX endpoint.
func NewClient(cfg Config) (Client, error) {
	if cfg.Hostname == "" {
		return nil, fmt.Errorf("nsx: hostname is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("nsx: credentials are required")
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
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &client{
		baseURL:  "https://" + cfg.Hostname + "/policy/api/v1",
		username: cfg.Username,
		password: cfg.Password,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}, nil
}

func (c *client) GetGroup(ctx context.Context, domain, id string) (*Group, error) {
	u := c.groupURL(domain, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("nsx: build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nsx: get group %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("nsx: get group %s: unexpected status %d", id, resp.StatusCode)
	}

	var group Group
	if err := json.NewDecoder(resp.Body).Decode(&group); err != nil {
		return nil, fmt.Errorf("nsx: decode group %s: %w", id, err)
	}

	return &group, nil
}

func (c *client) PatchGroup(ctx context.Context, domain, id string, group Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("nsx: encode group %s: %w", id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.groupURL(domain, id), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("nsx: build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nsx: patch group %s: %w", id, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nsx: patch group %s: unexpected status %d", id, resp.StatusCode)
	}

	return nil
}

func (c *client) Close() {
	c.http.CloseIdleConnections()
}

func (c *client) groupURL(domain, id string) string {
	if domain == "" {
		domain = "default"
	}
	return c.baseURL + "/infra/domains/" + url.PathEscape(domain) + "/groups/" + url.PathEscape(id)
}
