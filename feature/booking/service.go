package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-sync/core/config"
	"booking-sync/core/lock"
	"booking-sync/core/logger"
	"booking-sync/core/metrics"
	"booking-sync/core/reconcile"
	"booking-sync/feature/booking/feed"
	"booking-sync/feature/booking/models"
	"booking-sync/feature/booking/notify"
	engine "booking-sync/feature/booking/reconcile"
	"booking-sync/feature/booking/reference"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound is returned for unknown account codes.
	ErrAccountNotFound = errors.New("account not found")
	// ErrReservationNotFound is returned when no reservation has the requested master id.
	ErrReservationNotFound = errors.New("reservation not found")
)

// SyncReport describes one applied batch.
type SyncReport struct {
	RunID    string             `json:"run_id"`
	Account  string             `json:"account"`
	Source   string             `json:"source"`
	Summary  *reconcile.Summary `json:"summary"`
	Parked   int                `json:"parked"`
	Notified int                `json:"notified"`
}

// Service runs reconciliation batches.
type Service struct {
	db       *gorm.DB
	source   *feed.Source
	catalog  *reference.Catalog
	locker   lock.Locker
	notifier *notify.Notifier
	metrics  *metrics.Recorder
	logger   *zap.Logger
	cfg      config.SyncConfig
}

// NewService creates a booking service.
func NewService(
	db *gorm.DB,
	source *feed.Source,
	locker lock.Locker,
	notifier *notify.Notifier,
	recorder *metrics.Recorder,
	logger *zap.Logger,
	cfg config.SyncConfig,
) *Service {
	return &Service{
		db:       db,
		source:   source,
		catalog:  reference.NewCatalog(time.Duration(cfg.ReferenceTTLSeconds) * time.Second),
		locker:   locker,
		notifier: notifier,
		metrics:  recorder,
		logger:   logger,
		cfg:      cfg,
	}
}

// Account loads an account by code.
func (s *Service) Account(ctx context.Context, code string) (*models.Account, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Where("code = ?", code).Take(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &acc, nil
}

func (s *Service) acquire(ctx context.Context, account string) (lock.ReleaseFunc, error) {
	ttl := time.Duration(s.cfg.LockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return s.locker.Acquire(ctx, "sync:"+account, ttl)
}

// SyncRecords applies records of one account as a single batch.
func (s *Service) SyncRecords(ctx context.Context, accountCode, source string, records []models.ExternalBookingRecord, dryRun bool) (*SyncReport, error) {
	account, err := s.Account(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, account.Code)
	if err != nil {
		return nil, err
	}
	defer func() { _ = release(context.Background()) }()

	return s.apply(ctx, *account, source, records, dryRun)
}

// SyncFeed applies every pending export of an account in name order.
// It stops at the first failing export so later exports never overtake it.
func (s *Service) SyncFeed(ctx context.Context, accountCode string, dryRun bool) ([]*SyncReport, error) {
	account, err := s.Account(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, account.Code)
	if err != nil {
		return nil, err
	}
	defer func() { _ = release(context.Background()) }()

	names, err := s.source.Pending(ctx, account.Code)
	if err != nil {
		return nil, err
	}

	reports := make([]*SyncReport, 0, len(names))
	for _, name := range names {
		records, err := s.source.Read(ctx, name)
		if err != nil {
			return reports, err
		}

		report, err := s.apply(ctx, *account, name, records, dryRun)
		if err != nil {
			return reports, fmt.Errorf("%s: %w", name, err)
		}
		reports = append(reports, report)

		if dryRun {
			continue
		}
		if err := s.source.Archive(ctx, name); err != nil {
			// Already committed; the next pull re-applies it.
			s.logger.Warn("Failed to archive export", zap.String("object", name), zap.Error(err))
		}
	}
	return reports, nil
}

func (s *Service) apply(ctx context.Context, account models.Account, source string, records []models.ExternalBookingRecord, dryRun bool) (*SyncReport, error) {
	runID := uuid.NewString()
	l := logger.WithRun(s.logger, runID, account.Code)
	l.Info("Reconciling batch",
		zap.String("source", source),
		zap.Int("records", len(records)),
		zap.Bool("dry_run", dryRun))

	var run *engine.Run
	newSession := func(tx *gorm.DB) reconcile.Session[models.ExternalBookingRecord] {
		run = engine.NewRun(tx, account, s.catalog.Bind(tx, s.cfg.DefaultCountry),
			engine.WithRunID(runID),
			engine.WithLogger(l))
		return engine.NewSession(run)
	}

	start := time.Now()
	summary, err := reconcile.RunBatch(ctx, s.db, records, newSession, reconcile.Options{
		DryRun:      dryRun,
		FlushEvery:  s.cfg.FlushEvery,
		MaxAttempts: s.cfg.MaxAttempts,
	})
	s.metrics.ObserveBatch(account.Code, err, time.Since(start))
	if err != nil {
		if errors.Is(err, reference.ErrConfiguration) {
			l.Error("Reference data is incomplete, batch rolled back", zap.Error(err))
		} else {
			l.Error("Batch failed", zap.Error(err))
		}
		return nil, err
	}

	report := &SyncReport{
		RunID:   runID,
		Account: account.Code,
		Source:  source,
		Summary: summary,
		Parked:  run.Parked(),
	}

	if !dryRun {
		s.metrics.ObserveRecords(account.Code, string(reconcile.ActionCreated), summary.Created)
		s.metrics.ObserveRecords(account.Code, string(reconcile.ActionUpdated), summary.Updated)
		s.metrics.ObserveRecords(account.Code, string(reconcile.ActionMirrored), summary.Mirrored)
		s.metrics.ObserveRecords(account.Code, string(reconcile.ActionSkipped), summary.Skipped)
		report.Notified = s.notifier.ReservationsSynced(ctx, account.Code, runID, run.Touched())
	}

	l.Info("Batch reconciled",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("mirrored", summary.Mirrored),
		zap.Int("skipped", summary.Skipped),
		zap.Int("attempts", summary.Attempts),
		zap.Duration("duration", summary.Duration))
	return report, nil
}

// GetReservation loads a reservation and its events by effective master id.
// Legacy rows without a master id are found by their principal booking id.
func (s *Service) GetReservation(ctx context.Context, master string) (*models.Reservation, error) {
	var res models.Reservation
	err := s.db.WithContext(ctx).
		Preload("Events").
		Where("effective_master_id = ?", master).
		Or("effective_master_id IS NULL AND principal_booking_id = ?", master).
		Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrReservationNotFound, master)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &res, nil
}

// ListParked returns the newest parked records of an account.
func (s *Service) ListParked(ctx context.Context, accountCode string, limit int) ([]models.ParkedRecord, error) {
	account, err := s.Account(ctx, accountCode)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var parked []models.ParkedRecord
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Order("id DESC").
		Limit(limit).
		Find(&parked).Error; err != nil {
		return nil, fmt.Errorf("failed to list parked records: %w", err)
	}
	return parked, nil
}
