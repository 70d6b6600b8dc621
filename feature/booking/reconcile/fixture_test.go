package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"booking-sync/feature/booking/models"
	"booking-sync/feature/booking/reference"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	account models.Account
	mapping models.UnitMapping
	catalog *reference.Catalog
	clock   time.Time
}

func strPtr(s string) *string { return &s }

// newFixture migrates an in-memory store with one account, one mapped unit
// (property 10, room 20) and the reference rows a run needs.
func newFixture(t *testing.T, name string) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	f := &fixture{
		db:      db,
		catalog: reference.NewCatalog(time.Minute),
		clock:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	f.account = models.Account{Code: "acme", Name: "Acme Hotels"}
	require.NoError(t, db.Create(&f.account).Error)

	est := models.Establishment{Name: "Seaside", CheckInTime: "15:00", CheckOutTime: "11:00", TimeZone: "Europe/Madrid"}
	require.NoError(t, db.Create(&est).Error)
	unit := models.Unit{EstablishmentID: est.ID, Name: "Room 20"}
	require.NoError(t, db.Create(&unit).Error)

	f.mapping = models.UnitMapping{AccountID: f.account.ID, ExternalPropertyID: "10", ExternalRoomID: "20", UnitID: unit.ID}
	require.NoError(t, db.Create(&f.mapping).Error)

	require.NoError(t, db.Create(&[]models.Status{{Code: "new"}, {Code: "confirmed"}, {Code: "cancelled"}}).Error)
	require.NoError(t, db.Create(&[]models.PaymentStatus{{Code: "no-pagado"}, {Code: "paid"}}).Error)
	require.NoError(t, db.Create(&[]models.Channel{{Code: "direct"}, {Code: "booking.com", LegacyCode: strPtr("BKG")}}).Error)
	require.NoError(t, db.Create(&[]models.Country{{Code: "ES"}, {Code: "FR"}}).Error)
	require.NoError(t, db.Create(&[]models.Language{{Code: "en"}, {Code: "es"}}).Error)

	return f
}

func (f *fixture) newRun() *Run {
	return NewRun(f.db, f.account, f.catalog.Bind(f.db, "ES"), WithClock(func() time.Time { return f.clock }))
}

// batch upserts every record in one run and flushes once.
func (f *fixture) batch(t *testing.T, records ...models.ExternalBookingRecord) (*Run, []*Result) {
	t.Helper()
	run := f.newRun()
	results := make([]*Result, 0, len(records))
	for _, rec := range records {
		res, err := Upsert(context.Background(), run, rec)
		require.NoError(t, err)
		results = append(results, res)
	}
	require.NoError(t, run.Flush(context.Background()))
	return run, results
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) reservationByMaster(t *testing.T, master string) models.Reservation {
	t.Helper()
	var res models.Reservation
	require.NoError(t, f.db.Where("effective_master_id = ?", master).Take(&res).Error)
	return res
}

func (f *fixture) eventOfBooking(t *testing.T, bookingID string) models.CalendarEvent {
	t.Helper()
	var link models.BookingLink
	require.NoError(t, f.db.Preload("Event").Where("external_booking_id = ?", bookingID).Take(&link).Error)
	require.NotNil(t, link.Event)
	return *link.Event
}

func (f *fixture) refID(t *testing.T, table, code string) uint {
	t.Helper()
	var id uint
	require.NoError(t, f.db.Table(table).Select("id").Where("code = ?", code).Scan(&id).Error)
	require.NotZero(t, id)
	return id
}

// booking builds a record for the mapped unit. An empty master makes it a master record.
func booking(id, master string, price any) models.ExternalBookingRecord {
	rec := models.ExternalBookingRecord{
		ID:              models.ExternalID(id),
		PropertyID:      "10",
		RoomID:          "20",
		ChannelCode:     "booking.com",
		GuestName:       "Ana",
		GuestSurname:    "Ruiz",
		Email:           "ana@example.com",
		CountryCode:     "FR",
		LanguageCode:    "es-ES",
		StayFrom:        "2024-07-01",
		StayTo:          "2024-07-05",
		Status:          "confirmed",
		Adults:          2,
		Price:           price,
		Commission:      "1,50",
		RateDescription: "Non refundable",
		BookedAt:        "2024-05-01 10:00:00",
	}
	if master != "" {
		m := models.ExternalID(master)
		rec.MasterID = &m
	}
	return rec
}
