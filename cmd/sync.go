package cmd

import (
	"context"
	"fmt"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/config"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/database"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/logger"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/storage"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/directory"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/syncer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncPriority     string
	syncIntegratorID uint
)

// syncCmd runs one sync from the command line and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a sync once and exit",
	Long: `Run a single sync outside the scheduler.

Examples:
  # Sync all enabled high-priority integrators
  sync --priority high

  # Diagnostic run for one integrator (ignores the enabled flag)
  sync --integrator 12`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncPriority, "priority", directory.PriorityHigh, "Priority class to sync (low, medium, high)")
	syncCmd.Flags().UintVar(&syncIntegratorID, "integrator", 0, "Sync a single integrator by id instead of a priority class")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	var archiver *syncer.ReportArchiver
	if cfg.Reports.Enabled {
		client, err := storage.NewClient(cfg.Reports)
		if err != nil {
			return fmt.Errorf("failed to create report storage client: %w", err)
		}
		archiver = syncer.NewReportArchiver(client, cfg.Reports.Bucket, l)
	}

	service := syncer.NewService(store, l, cfg.Sync, archiver)

	var report *syncer.RunReport
	if syncIntegratorID > 0 {
		l.Info("Running diagnostic sync", zap.Uint("integrator", syncIntegratorID))
		report, err = service.RunOne(ctx, syncIntegratorID)
	} else {
		if !directory.IsValidPriority(syncPriority) {
			return fmt.Errorf("unknown priority class: %s", syncPriority)
		}
		l.Info("Running sync", zap.String("priority", syncPriority))
		report, err = service.Run(ctx, syncPriority)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printRunReport(l, report)
	return nil
}

// printRunReport prints a formatted run report using logger.
func printRunReport(l *zap.Logger, report *syncer.RunReport) {
	l.Info("Sync run report",
		zap.String("run_id", report.RunID.String()),
		zap.Duration("took", report.Finished.Sub(report.Started)),
		zap.Int("integrators", len(report.Integrators)),
	)

	for _, integrator := range report.Integrators {
		if integrator.Skipped {
			l.Warn("Integrator skipped",
				zap.String("integrator", integrator.Name),
				zap.String("error", integrator.Error),
			)
			continue
		}

		l.Info("Integrator synced",
			zap.String("integrator", integrator.Name),
			zap.Int("prefixes", integrator.Prefixes),
			zap.Int("firewall_units", len(integrator.Firewalls)),
			zap.Int("security_groups", len(integrator.SecurityGroups)),
		)

		for _, result := range integrator.Firewalls {
			if result.Skipped {
				l.Warn("Firewall scope skipped",
					zap.String("hostname", result.Hostname),
					zap.String("scope", result.Scope),
					zap.Int("family", int(result.Family)),
					zap.String("error", result.Error),
				)
				continue
			}
			l.Info("Firewall scope",
				zap.String("hostname", result.Hostname),
				zap.String("scope", result.Scope),
				zap.Int("family", int(result.Family)),
				zap.Int("created", result.Created),
				zap.Int("create_failed", result.CreateFailed),
				zap.Bool("group_changed", result.GroupChanged),
				zap.Int("deleted", result.Deleted),
				zap.Int("delete_skipped", result.DeleteSkipped),
			)
		}

		for _, result := range integrator.SecurityGroups {
			l.Info("Security group",
				zap.String("hostname", result.Hostname),
				zap.String("group", result.GroupID),
				zap.Bool("changed", result.Changed),
				zap.String("error", result.Error),
			)
		}
	}
}
