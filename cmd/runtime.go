package cmd

import (
	"context"
	"fmt"

	"booking-sync/core/broker"
	"booking-sync/core/config"
	"booking-sync/core/database"
	"booking-sync/core/lock"
	"booking-sync/core/logger"
	"booking-sync/core/metrics"
	"booking-sync/core/storage"
	"booking-sync/feature/booking"
	"booking-sync/feature/booking/feed"
	"booking-sync/feature/booking/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the connections shared by the commands.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     storage.Client
	locker    lock.Locker
	publisher broker.Publisher
	metrics   *metrics.Recorder
}

// loadRuntime reads the configuration and opens the logger and the database.
// A database failure is fatal only when requireDB is set.
func loadRuntime(requireDB bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}
	if conn, err := database.Connect(cfg.Database); err != nil {
		if requireDB {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Info("Connected to booking database", zap.String("driver", cfg.Database.Driver))
	}
	return rt, nil
}

// openStorage creates the object storage client.
func (rt *runtime) openStorage() error {
	store, err := storage.NewClient(rt.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	rt.store = store
	return nil
}

// openSync connects the lock, the broker and the metrics recorder.
func (rt *runtime) openSync(ctx context.Context) error {
	locker, err := lock.New(ctx, rt.cfg.Redis)
	if err != nil {
		return err
	}
	rt.locker = locker

	publisher, err := broker.New(rt.cfg.Broker)
	if err != nil {
		return err
	}
	rt.publisher = publisher

	if rt.cfg.Metrics.Enabled {
		rt.metrics = metrics.New(rt.cfg.Metrics)
	}
	return nil
}

// bookingService wires the booking service. openStorage and openSync must run first.
func (rt *runtime) bookingService() *booking.Service {
	return booking.NewService(
		rt.db,
		feed.NewSource(rt.store, rt.cfg.Storage.Bucket, rt.cfg.Sync.FeedPrefix, rt.cfg.Sync.ArchivePrefix),
		rt.locker,
		notify.New(rt.publisher, rt.logger),
		rt.metrics,
		rt.logger,
		rt.cfg.Sync,
	)
}

func (rt *runtime) close() {
	if rt.publisher != nil {
		if err := rt.publisher.Close(); err != nil {
			rt.logger.Warn("Failed to close broker", zap.Error(err))
		}
	}
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = rt.logger.Sync()
}
