package fortios

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Config holds connection settings for one FortiOS endpoint.
type Config struct {
	// Hostname is the management hostname or IP of the firewall.
	Hostname string
	// Token is the REST API access token.
	Token string
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int
	// InsecureSkipVerify disables TLS verification (self-signed units).
	InsecureSkipVerify bool
}

// Client is an open handle to one FortiOS endpoint. All operations take the
// scope (vdom) they act in; the handle itself is safe for concurrent calls.
type Client interface {
	GetAddresses(ctx context.Context, scope string) ([]Address, error)
	CreateAddress(ctx context.Context, scope string, addr Address) error
	GetAddress(ctx context.Context, scope, name string) (*AddressDetail, error)
	DeleteAddress(ctx context.Context, scope, name string) error
	GetAddressGroups(ctx context.Context, scope string) ([]AddressGroup, error)
	CreateAddressGroup(ctx context.Context, scope string, group AddressGroup) error
	UpdateAddressGroup(ctx context.Context, scope, name string, group AddressGroup) error

	GetAddresses6(ctx context.Context, scope string) ([]Address6, error)
	CreateAddress6(ctx context.Context, scope string, addr Address6) error
	GetAddress6(ctx context.Context, scope, name string) (*AddressDetail, error)
	DeleteAddress6(ctx context.Context, scope, name string) error
	GetAddressGroups6(ctx context.Context, scope string) ([]AddressGroup, error)
	CreateAddressGroup6(ctx context.Context, scope string, group AddressGroup) error
	UpdateAddressGroup6(ctx context.Context, scope, name string, group AddressGroup) error

	// Close releases the handle's idle connections.
	Close()
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an authenticated handle to a FortiOS endpoint.
func NewClient(cfg Config) (Client, error) {
	if cfg.Hostname == "" {
		return nil, fmt.Errorf("fortios: hostname is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("fortios: API token is required")
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
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ResponseHeaderTimeout: timeoutDuration,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &client{
		baseURL: "https://" + cfg.Hostname + "/api/v2/cmdb",
		token:   cfg.Token,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}, nil
}

// IPv4 tables.

func (c *client) GetAddresses(ctx context.Context, scope string) ([]Address, error) {
	return list[Address](c, ctx, "firewall/address", scope)
}

func (c *client) CreateAddress(ctx context.Context, scope string, addr Address) error {
	return c.do(ctx, http.MethodPost, "firewall/address", scope, "", addr)
}

func (c *client) GetAddress(ctx context.Context, scope, name string) (*AddressDetail, error) {
	return c.getDetail(ctx, "firewall/address", scope, name)
}

func (c *client) DeleteAddress(ctx context.Context, scope, name string) error {
	return c.do(ctx, http.MethodDelete, "firewall/address/"+url.PathEscape(name), scope, "", nil)
}

func (c *client) GetAddressGroups(ctx context.Context, scope string) ([]AddressGroup, error) {
	return list[AddressGroup](c, ctx, "firewall/addrgrp", scope)
}

func (c *client) CreateAddressGroup(ctx context.Context, scope string, group AddressGroup) error {
	return c.do(ctx, http.MethodPost, "firewall/addrgrp", scope, "", group)
}

func (c *client) UpdateAddressGroup(ctx context.Context, scope, name string, group AddressGroup) error {
	return c.do(ctx, http.MethodPut, "firewall/addrgrp/"+url.PathEscape(name), scope, "", group)
}

// IPv6 tables.

func (c *client) GetAddresses6(ctx context.Context, scope string) ([]Address6, error) {
	return list[Address6](c, ctx, "firewall/address6", scope)
}

func (c *client) CreateAddress6(ctx context.Context, scope string, addr Address6) error {
	return c.do(ctx, http.MethodPost, "firewall/address6", scope, "", addr)
}

func (c *client) GetAddress6(ctx context.Context, scope, name string) (*AddressDetail, error) {
	return c.getDetail(ctx, "firewall/address6", scope, name)
}

func (c *client) DeleteAddress6(ctx context.Context, scope, name string) error {
	return c.do(ctx, http.MethodDelete, "firewall/address6/"+url.PathEscape(name), scope, "", nil)
}

func (c *client) GetAddressGroups6(ctx context.Context, scope string) ([]AddressGroup, error) {
	return list[AddressGroup](c, ctx, "firewall/addrgrp6", scope)
}

func (c *client) CreateAddressGroup6(ctx context.Context, scope string, group AddressGroup) error {
	return c.do(ctx, http.MethodPost, "firewall/addrgrp6", scope, "", group)
}

func (c *client) UpdateAddressGroup6(ctx context.Context, scope, name string, group AddressGroup) error {
	return c.do(ctx, http.MethodPut, "firewall/addrgrp6/"+url.PathEscape(name), scope, "", group)
}

func (c *client) Close() {
	c.http.CloseIdleConnections()
}

// list fetches a whole CMDB table for one scope.
func list[T any](c *client, ctx context.Context, path, scope string) ([]T, error) {
	body, err := c.get(ctx, path, scope, "")
	if err != nil {
		return nil, err
	}

	var envelope listResponse[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("fortios: decode %s: %w", path, err)
	}

	return envelope.Results, nil
}

// getDetail fetches one object with metadata and extracts its reference count.
func (c *client) getDetail(ctx context.Context, table, scope, name string) (*AddressDetail, error) {
	body, err := c.get(ctx, table+"/"+url.PathEscape(name), scope, "with_meta=1")
	if err != nil {
		return nil, err
	}

	var envelope listResponse[metaRecord]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("fortios: decode %s: %w", table, err)
	}
	if len(envelope.Results) == 0 {
		return nil, fmt.Errorf("fortios: %s %q not found in scope %q", table, name, scope)
	}

	rec := envelope.Results[0]
	return &AddressDetail{Name: rec.Name, ReferenceCount: rec.QRef}, nil
}

func (c *client) get(ctx context.Context, path, scope, extraQuery string) ([]byte, error) {
	u := c.baseURL + "/" + path + "?vdom=" + url.QueryEscape(scope)
	if extraQuery != "" {
		u += "&" + extraQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fortios: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fortios: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fortios: GET %s: unexpected status %d", path, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *client) do(ctx context.Context, method, path, scope, extraQuery string, payload any) error {
	u := c.baseURL + "/" + path + "?vdom=" + url.QueryEscape(scope)
	if extraQuery != "" {
		u += "&" + extraQuery
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("fortios: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("fortios: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fortios: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fortios: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	return nil
}
