package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reminders/core/config"
	"reminders/core/database"
	"reminders/core/dispatch"
	"reminders/core/loader"
	"reminders/core/logger"
	"reminders/core/metrics"
	"reminders/core/middleware/auth"
	"reminders/core/middleware/rayid"
	"reminders/core/query"
	"reminders/core/storage"
	"reminders/feature/export"
	"reminders/feature/integrity"
	"reminders/feature/lists"
	"reminders/feature/reminders"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "reminders/docs/swagger"
)

// @title Reminders API
// @version 1.0
// @description Lists and reminders with change-reconciled table views.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reminders server",
	Long:  `Migrates the schema, loads the table views and serves the HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The views cannot exist without the database.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
		if err := migrate(db); err != nil {
			logg.Fatal("Schema migration failed", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		// Exports and the storage check are optional.
		var client storage.Client
		if c, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Storage disabled", zap.Error(err))
		} else {
			client = c
		}

		queue := dispatch.New(cfg.Dispatch.QueueSize)
		queue.Start()
		defer queue.Stop()

		store := query.NewStore(db, cfg.Reconcile.CacheTTL(), logg.Named("query"))
		m := metrics.New()

		listsFeature, err := lists.NewFeature(store, queue, cfg.Reconcile, m.Recorder("lists"), logg)
		if err != nil {
			logg.Fatal("Failed to create lists feature", zap.Error(err))
		}
		defer listsFeature.Service().Close()
		remindersFeature := reminders.NewFeature(store, queue, cfg.Reconcile, m.Recorder("reminders"), logg)
		defer remindersFeature.Service().Close()

		mgr := loader.NewManager()
		mgr.Register(listsFeature)
		mgr.Register(remindersFeature)
		mgr.Register(export.NewFeature(store, client, cfg.Storage, logg))
		mgr.Register(integrity.NewFeature(db, client, cfg.Storage, logg))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every log line below carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			l := logger.WithRayID(logg, c)
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("took", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Info("Request", fields...)
			return nil
		})

		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Skip:   []string{"/swagger", "/metrics"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", mgr.Names()))

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout()); err != nil {
			logg.Warn("Shutdown incomplete", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
