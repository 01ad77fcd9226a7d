package cmd

import (
	"context"
	"fmt"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/config"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/database"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/logger"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/directory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integratorsCmd lists the enabled integrators from the directory.
var integratorsCmd = &cobra.Command{
	Use:   "integrators",
	Short: "List enabled integrators per priority class",
	RunE:  runIntegrators,
}

func init() {
	RootCmd.AddCommand(integratorsCmd)
}

func runIntegrators(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to directory database: %w", err)
	}
	store := directory.NewStore(db)

	for _, priority := range []string{directory.PriorityHigh, directory.PriorityMedium, directory.PriorityLow} {
		integrators, err := store.GetIntegrators(ctx, priority)
		if err != nil {
			return fmt.Errorf("failed to list integrators: %w", err)
		}

		l.Info("Priority class", zap.String("priority", priority), zap.Int("count", len(integrators)))
		for _, integrator := range integrators {
			l.Info("Integrator",
				zap.Uint("id", integrator.ID),
				zap.String("name", integrator.Name),
				zap.String("query", integrator.PrefixQuery),
				zap.Int("firewall_targets", len(integrator.FirewallTargets)),
				zap.Int("security_targets", len(integrator.SecurityTargets)),
			)
		}
	}

	return nil
}
