package checks

import (
	"context"
	"testing"

	"booking-sync/feature/booking/models"
	"booking-sync/feature/booking/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCheckReferences(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Status{}, &models.PaymentStatus{}, &models.Country{}))

	require.NoError(t, db.Create(&models.Status{Code: "confirmed"}).Error)
	require.NoError(t, db.Create(&models.Status{Code: "new"}).Error)
	require.NoError(t, db.Create(&models.PaymentStatus{Code: "Unpaid"}).Error)
	require.NoError(t, db.Create(&models.Country{Code: "FR"}).Error)

	reports, err := CheckReferences(context.Background(), db, []reference.Kind{
		reference.Status,
		reference.PaymentStatus,
		reference.Country.WithFallbacks("ES"),
	})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "ok", reports[0].Status)
	assert.Equal(t, 2, reports[0].Rows)
	assert.Equal(t, "ok", reports[1].Status)
	assert.Equal(t, "missing_fallback", reports[2].Status)

	_, err = CheckReferences(context.Background(), db, []reference.Kind{reference.Channel})
	assert.Error(t, err)
}
