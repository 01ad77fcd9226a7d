package directory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound indicates the requested integrator does not exist.
var ErrNotFound = errors.New("directory: integrator not found")

// Store provides read access to the integrator directory.
type Store interface {
	// GetIntegrators returns the enabled integrators of one priority
	// class, targets preloaded.
	GetIntegrators(ctx context.Context, priority string) ([]Integrator, error)
	// GetIntegrator returns one integrator by id regardless of its
	// enabled flag (diagnostic runs force inclusion).
	GetIntegrator(ctx context.Context, id uint) (*Integrator, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a directory store backed by the given connection.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetIntegrators(ctx context.Context, priority string) ([]Integrator, error) {
	var integrators []Integrator

	err := s.db.WithContext(ctx).
		Preload("FirewallTargets").
		Preload("SecurityTargets").
		Where("enabled = ? AND priority = ?", true, priority).
		Order("id").
		Find(&integrators).Error
	if err != nil {
		return nil, fmt.Errorf("directory: list integrators: %w", err)
	}

	return integrators, nil
}

func (s *gormStore) GetIntegrator(ctx context.Context, id uint) (*Integrator, error) {
	var integrator Integrator

	err := s.db.WithContext(ctx).
		Preload("FirewallTargets").
		Preload("SecurityTargets").
		First(&integrator, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory: get integrator %d: %w", id, err)
	}

	return &integrator, nil
}
