package mocks

import (
	"context"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/nsx"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of nsx.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetGroup(ctx context.Context, domain, id string) (*nsx.Group, error) {
	args := m.Called(ctx, domain, id)
	if g, ok := args.Get(0).(*nsx.Group); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) PatchGroup(ctx context.Context, domain, id string, group nsx.Group) error {
	args := m.Called(ctx, domain, id, group)
	return args.Error(0)
}

func (m *Client) Close() {
	m.Called()
}
