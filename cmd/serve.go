package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/config"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/database"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/logger"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/middleware/auth"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/middleware/rayid"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/storage"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/directory"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/syncer"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync service",
	Long:  `Starts the HTTP trigger API and the per-priority sync schedulers.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the integrator directory
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to directory database", zap.Error(err))
		}
		store := directory.NewStore(db)

		// 4. Run-report archiving (optional)
		var archiver *syncer.ReportArchiver
		if cfg.Reports.Enabled {
			client, err := storage.NewClient(cfg.Reports)
			if err != nil {
				logg.Fatal("Failed to create report storage client", zap.Error(err))
			}
			archiver = syncer.NewReportArchiver(client, cfg.Reports.Bucket, logg)
			logg.Info("Run-report archiving enabled", zap.String("bucket", cfg.Reports.Bucket))
		}

		service := syncer.NewService(store, logg, cfg.Sync, archiver)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every request is traceable.
		app.Use(rayid.New())

		// Logging middleware using Zap + RayID.
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Health endpoint stays public for probes.
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// Everything below requires the API key.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		syncer.NewHandler(service).RegisterRoutes(app)

		// 6. Per-priority schedulers
		schedulerCtx, stopSchedulers := context.WithCancel(context.Background())
		startScheduler(schedulerCtx, logg, service, directory.PriorityLow, cfg.Sync.IntervalLowMinutes)
		startScheduler(schedulerCtx, logg, service, directory.PriorityMedium, cfg.Sync.IntervalMediumMinutes)
		startScheduler(schedulerCtx, logg, service, directory.PriorityHigh, cfg.Sync.IntervalHighMinutes)

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		stopSchedulers()
		_ = app.Shutdown()
	},
}

// startScheduler triggers scheduled runs of one priority class. A zero
// interval disables the class; a run still in flight makes the tick a no-op.
func startScheduler(ctx context.Context, logg *zap.Logger, service *syncer.Service, priority string, intervalMinutes int) {
	if intervalMinutes <= 0 {
		logg.Info("Scheduler disabled", zap.String("priority", priority))
		return
	}

	interval := time.Duration(intervalMinutes) * time.Minute
	logg.Info("Scheduler started",
		zap.String("priority", priority),
		zap.Duration("interval", interval))

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := service.Run(ctx, priority); err != nil {
					if errors.Is(err, syncer.ErrAlreadyRunning) {
						logg.Info("Scheduled run skipped, another run in flight",
							zap.String("priority", priority))
						continue
					}
					logg.Error("Scheduled run failed",
						zap.String("priority", priority), zap.Error(err))
				}
			}
		}
	}()
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
