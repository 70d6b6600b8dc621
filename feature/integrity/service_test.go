package integrity

import (
	"context"
	"testing"

	"booking-sync/core/config"
	"booking-sync/core/storage/mocks"
	"booking-sync/feature/booking/models"
	"booking-sync/feature/booking/seed"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var syncConfig = config.SyncConfig{FeedPrefix: "feed", ArchivePrefix: "archive", DefaultCountry: "ES"}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func seedDefaults(t *testing.T, db *gorm.DB) {
	f, err := seed.Parse(seed.Defaults)
	require.NoError(t, err)
	f.Accounts = append(f.Accounts, seed.AccountSeed{Code: "acme", Name: "Acme"})
	_, err = seed.Apply(context.Background(), db, f)
	require.NoError(t, err)
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_Folders(t *testing.T) {
	t.Run("Without Database", func(t *testing.T) {
		svc := NewService(new(mocks.Client), "bookings", zap.NewNop(), nil, syncConfig)
		folders, err := svc.Folders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"feed", "archive"}, folders)
	})

	t.Run("With Accounts", func(t *testing.T) {
		db := setupTestDB(t)
		seedDefaults(t, db)
		svc := NewService(new(mocks.Client), "bookings", zap.NewNop(), db, syncConfig)

		folders, err := svc.Folders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"feed", "archive", "feed/acme"}, folders)
	})
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "bookings", zap.NewNop(), nil, syncConfig)

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "bookings").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "bookings", mock.Anything).Return(emptyListing())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"feed", "archive"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "bookings", mock.Anything, mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"feed"})
		assert.NoError(t, err)
	})
}

func TestService_Schema(t *testing.T) {
	t.Run("Migrated", func(t *testing.T) {
		svc := NewService(new(mocks.Client), "bookings", zap.NewNop(), setupTestDB(t), syncConfig)
		report, err := svc.CheckSchema()
		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Equal(t, "sqlite", report.Driver)
		assert.Len(t, report.Tables, len(models.AllModels()))
	})

	t.Run("No Database", func(t *testing.T) {
		svc := NewService(new(mocks.Client), "bookings", zap.NewNop(), nil, syncConfig)
		_, err := svc.CheckSchema()
		assert.Error(t, err)
	})
}

func TestService_References(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(new(mocks.Client), "bookings", zap.NewNop(), db, syncConfig)

	reports, err := svc.CheckReferences(context.Background())
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, "missing_fallback", r.Status, r.Kind)
	}

	seedDefaults(t, db)
	reports, err = svc.CheckReferences(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 5)
	for _, r := range reports {
		assert.Equal(t, "ok", r.Status, r.Kind)
	}
}
