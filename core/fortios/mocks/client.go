package mocks

import (
	"context"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/fortios"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of fortios.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetAddresses(ctx context.Context, scope string) ([]fortios.Address, error) {
	args := m.Called(ctx, scope)
	if v, ok := args.Get(0).([]fortios.Address); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateAddress(ctx context.Context, scope string, addr fortios.Address) error {
	args := m.Called(ctx, scope, addr)
	return args.Error(0)
}

func (m *Client) GetAddress(ctx context.Context, scope, name string) (*fortios.AddressDetail, error) {
	args := m.Called(ctx, scope, name)
	if v, ok := args.Get(0).(*fortios.AddressDetail); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) DeleteAddress(ctx context.Context, scope, name string) error {
	args := m.Called(ctx, scope, name)
	return args.Error(0)
}

func (m *Client) GetAddressGroups(ctx context.Context, scope string) ([]fortios.AddressGroup, error) {
	args := m.Called(ctx, scope)
	if v, ok := args.Get(0).([]fortios.AddressGroup); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateAddressGroup(ctx context.Context, scope string, group fortios.AddressGroup) error {
	args := m.Called(ctx, scope, group)
	return args.Error(0)
}

func (m *Client) UpdateAddressGroup(ctx context.Context, scope, name string, group fortios.AddressGroup) error {
	args := m.Called(ctx, scope, name, group)
	return args.Error(0)
}

func (m *Client) GetAddresses6(ctx context.Context, scope string) ([]fortios.Address6, error) {
	args := m.Called(ctx, scope)
	if v, ok := args.Get(0).([]fortios.Address6); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateAddress6(ctx context.Context, scope string, addr fortios.Address6) error {
	args := m.Called(ctx, scope, addr)
	return args.Error(0)
}

func (m *Client) GetAddress6(ctx context.Context, scope, name string) (*fortios.AddressDetail, error) {
	args := m.Called(ctx, scope, name)
	if v, ok := args.Get(0).(*fortios.AddressDetail); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) DeleteAddress6(ctx context.Context, scope, name string) error {
	args := m.Called(ctx, scope, name)
	return args.Error(0)
}

func (m *Client) GetAddressGroups6(ctx context.Context, scope string) ([]fortios.AddressGroup, error) {
	args := m.Called(ctx, scope)
	if v, ok := args.Get(0).([]fortios.AddressGroup); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateAddressGroup6(ctx context.Context, scope string, group fortios.AddressGroup) error {
	args := m.Called(ctx, scope, group)
	return args.Error(0)
}

func (m *Client) UpdateAddressGroup6(ctx context.Context, scope, name string, group fortios.AddressGroup) error {
	args := m.Called(ctx, scope, name, group)
	return args.Error(0)
}

func (m *Client) Close() {
	m.Called()
}
