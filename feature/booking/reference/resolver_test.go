package reference

import (
	"context"
	"fmt"
	"testing"
	"time"

	"booking-sync/feature/booking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Status{}, &models.PaymentStatus{}, &models.Channel{}, &models.Country{}, &models.Language{}))
	return db
}

func strPtr(s string) *string { return &s }

func seedAll(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Create(&[]models.Status{{Code: "new"}, {Code: "confirmed"}}).Error)
	require.NoError(t, db.Create(&[]models.PaymentStatus{{Code: "unpaid"}, {Code: "paid"}}).Error)
	require.NoError(t, db.Create(&[]models.Channel{{Code: "direct"}, {Code: "booking.com", LegacyCode: strPtr("BKG")}}).Error)
	require.NoError(t, db.Create(&[]models.Country{{Code: "ES"}, {Code: "FR"}}).Error)
	require.NoError(t, db.Create(&[]models.Language{{Code: "en"}, {Code: "es"}}).Error)
}

func idOf(t *testing.T, db *gorm.DB, table, code string) uint {
	var id uint
	require.NoError(t, db.Table(table).Select("id").Where("code = ?", code).Scan(&id).Error)
	return id
}

func TestResolvers(t *testing.T) {
	db := setupTestDB(t, "ref_resolvers")
	seedAll(t, db)
	set := NewCatalog(time.Minute).Bind(db, "ES")
	ctx := context.Background()

	tests := []struct {
		name     string
		resolver *Resolver
		code     string
		table    string
		want     string
	}{
		{"Status Exact", set.Status, "confirmed", "booking_statuses", "confirmed"},
		{"Status Case Folded", set.Status, " CONFIRMED ", "booking_statuses", "confirmed"},
		{"Status Fallback", set.Status, "tentative", "booking_statuses", "new"},
		{"Payment Second Fallback", set.PaymentStatus, "", "booking_payment_statuses", "unpaid"},
		{"Channel Legacy", set.Channel, "bkg", "booking_channels", "booking.com"},
		{"Channel Fallback", set.Channel, "expedia", "booking_channels", "direct"},
		{"Country Exact", set.Country, "fr", "booking_countries", "FR"},
		{"Country Default", set.Country, "ZZ", "booking_countries", "ES"},
		{"Language Region", set.Language, "es-AR", "booking_languages", "es"},
		{"Language Underscore", set.Language, "ES_es", "booking_languages", "es"},
		{"Language Three Letter", set.Language, "spa", "booking_languages", "es"},
		{"Language Fallback", set.Language, "de", "booking_languages", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resolver.Resolve(ctx, tt.code)
			require.NoError(t, err)
			assert.Equal(t, idOf(t, db, tt.table, tt.want), got)
		})
	}
}

func TestResolve_ConfigurationError(t *testing.T) {
	db := setupTestDB(t, "ref_config_error")
	require.NoError(t, db.Create(&models.PaymentStatus{Code: "paid"}).Error)

	r := NewResolver(NewCatalog(time.Minute), db, PaymentStatus)
	_, err := r.Resolve(context.Background(), "pending")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "payment status", cfgErr.Kind)
	assert.Equal(t, []string{"no-pagado", "unpaid"}, cfgErr.Fallbacks)
	assert.Contains(t, err.Error(), "no-pagado/unpaid")
}

func TestResolve_ReloadsStaleTable(t *testing.T) {
	db := setupTestDB(t, "ref_stale")
	require.NoError(t, db.Create(&models.Status{Code: "new"}).Error)

	catalog := NewCatalog(time.Hour)
	ctx := context.Background()

	first, err := NewResolver(catalog, db, Status).Resolve(ctx, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, idOf(t, db, "booking_statuses", "new"), first)

	// A row seeded after the snapshot wins over the fallback in the next run,
	// even though the cached snapshot has not expired.
	require.NoError(t, db.Create(&models.Status{Code: "confirmed"}).Error)
	second, err := NewResolver(catalog, db, Status).Resolve(ctx, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, idOf(t, db, "booking_statuses", "confirmed"), second)
}

func TestResolve_FallbackAfterRefreshUsesSnapshot(t *testing.T) {
	db := setupTestDB(t, "ref_refreshed")
	require.NoError(t, db.Create(&models.Status{Code: "new"}).Error)

	r := NewResolver(NewCatalog(time.Hour), db, Status)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "confirmed")
	require.NoError(t, err)
	assert.True(t, r.refreshed)

	// Within one run the table is reloaded once; later rows are seen by the next run.
	require.NoError(t, db.Create(&models.Status{Code: "tentative"}).Error)
	got, err := r.Resolve(ctx, "tentative")
	require.NoError(t, err)
	assert.Equal(t, idOf(t, db, "booking_statuses", "new"), got)
}

func TestResolve_MissingTableAfterReload(t *testing.T) {
	db := setupTestDB(t, "ref_empty")
	catalog := NewCatalog(time.Hour)
	r := NewResolver(catalog, db, Status)

	_, err := r.Resolve(context.Background(), "new")
	assert.ErrorIs(t, err, ErrConfiguration)

	// seeding afterwards is picked up because misses drop the snapshot
	require.NoError(t, db.Create(&models.Status{Code: "new"}).Error)
	_, err = r.Resolve(context.Background(), "whatever")
	assert.NoError(t, err)
}
