package mocks

import (
	"context"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/directory"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of directory.Store
type Store struct {
	mock.Mock
}

func (m *Store) GetIntegrators(ctx context.Context, priority string) ([]directory.Integrator, error) {
	args := m.Called(ctx, priority)
	if integrators, ok := args.Get(0).([]directory.Integrator); ok {
		return integrators, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetIntegrator(ctx context.Context, id uint) (*directory.Integrator, error) {
	args := m.Called(ctx, id)
	if integrator, ok := args.Get(0).(*directory.Integrator); ok {
		return integrator, args.Error(1)
	}
	return nil, args.Error(1)
}
