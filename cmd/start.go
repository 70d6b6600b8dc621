package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"booking-sync/core/loader"
	"booking-sync/core/logger"
	"booking-sync/core/middleware/auth"
	"booking-sync/core/middleware/rayid"
	"booking-sync/feature/booking"
	"booking-sync/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the booking sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := loadRuntime(false)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		zap.ReplaceGlobals(rt.logger)
		logg := rt.logger

		if err := rt.openStorage(); err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		if err := rt.openSync(context.Background()); err != nil {
			logg.Fatal("Failed to initialize sync dependencies", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(integrity.NewFeature(rt.store, rt.cfg.Storage.Bucket, logg, rt.db, rt.cfg.Sync))
		mgr.Register(booking.NewFeature(rt.bookingService()))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

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

		// Scraped without the API key.
		if rt.metrics != nil {
			app.Get("/metrics", adaptor.HTTPHandler(rt.metrics.Handler()))
		}

		if rt.cfg.Server.AuthEnabled() {
			app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
		} else {
			logg.Warn("API key not configured, routes are unprotected")
		}

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
