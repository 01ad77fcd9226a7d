package mocks

import (
	"context"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/netbox"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of netbox.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetPrefixes(ctx context.Context, query string) ([]netbox.Prefix, error) {
	args := m.Called(ctx, query)
	if p, ok := args.Get(0).([]netbox.Prefix); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Close() {
	m.Called()
}
