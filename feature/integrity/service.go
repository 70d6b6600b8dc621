package integrity

import (
	"context"
	"fmt"
	"path"

	"booking-sync/core/config"
	"booking-sync/core/storage"
	"booking-sync/feature/booking/models"
	"booking-sync/feature/booking/reference"
	"booking-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
	sync   config.SyncConfig
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, sync config.SyncConfig) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
		sync:   sync,
	}
}

// Folders lists the bucket folders the sync expects.
// Account feed folders are only known when the database is reachable.
func (s *Service) Folders(ctx context.Context) ([]string, error) {
	folders := []string{s.sync.FeedPrefix, s.sync.ArchivePrefix}
	if s.db == nil {
		return folders, nil
	}

	var codes []string
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Order("code").Pluck("code", &codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, code := range codes {
		folders = append(folders, path.Join(s.sync.FeedPrefix, code))
	}
	return folders, nil
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	folders, err := s.Folders(ctx)
	if err != nil {
		return nil, err
	}
	return checks.CheckStructure(ctx, s.client, s.bucket, folders)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema compares the booking models with the database.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.AllModels()...)
}

// CheckReferences verifies that every reference table can fall back.
func (s *Service) CheckReferences(ctx context.Context) ([]checks.ReferenceReport, error) {
	return checks.CheckReferences(ctx, s.db, []reference.Kind{
		reference.Status,
		reference.PaymentStatus,
		reference.Channel,
		reference.Country.WithFallbacks(s.sync.DefaultCountry),
		reference.Language,
	})
}
