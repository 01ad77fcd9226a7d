package directory

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGetIntegrators(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	// Preload order between the two target associations is not guaranteed.
	mock.MatchExpectationsInOrder(false)

	rows := sqlmock.NewRows([]string{"id", "name", "enabled", "priority", "prefix_query"}).
		AddRow(1, "dcn-core", true, "high", "tenant=dcn").
		AddRow(2, "dcn-edge", true, "high", "tenant=edge")

	mock.ExpectQuery("SELECT \\* FROM `integrators`.*").
		WithArgs(true, "high").
		WillReturnRows(rows)
	// Preloads for both target associations.
	mock.ExpectQuery("SELECT \\* FROM `firewall_targets`.*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "integrator_id", "hostname", "vdoms"}).
			AddRow(10, 1, "fw1.example.com", "dmz,internal"))
	mock.ExpectQuery("SELECT \\* FROM `security_targets`.*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "integrator_id", "hostname", "domain"}))

	integrators, err := store.GetIntegrators(context.Background(), "high")
	require.NoError(t, err)
	require.Len(t, integrators, 2)

	assert.Equal(t, "dcn-core", integrators[0].Name)
	require.Len(t, integrators[0].FirewallTargets, 1)
	assert.Equal(t, []string{"dmz", "internal"}, integrators[0].FirewallTargets[0].Scopes())
	assert.Empty(t, integrators[1].FirewallTargets)
}

func TestGetIntegrator_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `integrators`.*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetIntegrator(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetIntegrator_Found(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("SELECT \\* FROM `integrators`.*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "enabled", "priority"}).
			AddRow(7, "lab", false, "low"))
	mock.ExpectQuery("SELECT \\* FROM `firewall_targets`.*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "integrator_id", "hostname", "vdoms"}))
	mock.ExpectQuery("SELECT \\* FROM `security_targets`.*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "integrator_id", "hostname", "domain"}))

	integrator, err := store.GetIntegrator(context.Background(), 7)
	require.NoError(t, err)

	// Diagnostic lookups return disabled integrators too.
	assert.Equal(t, "lab", integrator.Name)
	assert.False(t, integrator.Enabled)
}

func TestFirewallTarget_Scopes(t *testing.T) {
	target := FirewallTarget{VDOMs: " dmz , internal ,,root "}
	assert.Equal(t, []string{"dmz", "internal", "root"}, target.Scopes())

	assert.Nil(t, FirewallTarget{VDOMs: ""}.Scopes())
}

func TestIsValidPriority(t *testing.T) {
	assert.True(t, IsValidPriority(PriorityLow))
	assert.True(t, IsValidPriority(PriorityMedium))
	assert.True(t, IsValidPriority(PriorityHigh))
	assert.False(t, IsValidPriority("urgent"))
	assert.False(t, IsValidPriority(""))
}
