package models

import (
	"time"

	"gorm.io/datatypes"
)

// Account is a channel manager account whose feed is synchronized.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:191" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (Account) TableName() string { return "booking_accounts" }

// Establishment owns units and the local check-in/check-out times of a stay.
type Establishment struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:191;uniqueIndex;not null" json:"name"`
	CheckInTime  string `gorm:"size:5" json:"check_in_time"`  // HH:MM
	CheckOutTime string `gorm:"size:5" json:"check_out_time"` // HH:MM
	TimeZone     string `gorm:"size:64" json:"time_zone"`     // IANA name
}

// TableName overrides the table name.
func (Establishment) TableName() string { return "booking_establishments" }

// Unit is a rentable room.
type Unit struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	EstablishmentID uint           `gorm:"uniqueIndex:idx_unit_name;not null" json:"establishment_id"`
	Establishment   *Establishment `json:"establishment,omitempty"`
	Name            string         `gorm:"size:191;uniqueIndex:idx_unit_name;not null" json:"name"`
}

// TableName overrides the table name.
func (Unit) TableName() string { return "booking_units" }

// UnitMapping maps an external (property, room) pair of one account to a unit.
type UnitMapping struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	AccountID          uint   `gorm:"uniqueIndex:idx_unit_mapping;not null" json:"account_id"`
	ExternalPropertyID string `gorm:"size:64;uniqueIndex:idx_unit_mapping;not null" json:"external_property_id"`
	ExternalRoomID     string `gorm:"size:64;uniqueIndex:idx_unit_mapping;not null" json:"external_room_id"`
	UnitID             uint   `gorm:"not null" json:"unit_id"`
	Unit               *Unit  `json:"unit,omitempty"`
}

// TableName overrides the table name.
func (UnitMapping) TableName() string { return "booking_unit_mappings" }

// Reservation is one logical stay, possibly spanning several rooms.
// Totals are aggregated downstream from its events.
type Reservation struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	EffectiveMasterID  *string    `gorm:"size:64;uniqueIndex" json:"effective_master_id"`
	PrincipalBookingID *string    `gorm:"size:64;index" json:"principal_booking_id"`
	GuestName          *string    `gorm:"size:191" json:"guest_name"`
	GuestSurname       *string    `gorm:"size:191" json:"guest_surname"`
	Email              *string    `gorm:"size:191" json:"email"`
	Phone              *string    `gorm:"size:64" json:"phone"`
	CountryID          *uint      `json:"country_id"`
	LanguageID         *uint      `json:"language_id"`
	ChannelID          *uint      `json:"channel_id"`
	DataLocked         bool       `gorm:"not null;default:false" json:"data_locked"`
	BookedAt           *time.Time `json:"booked_at"`
	ModifiedAt         *time.Time `json:"modified_at"`
	Notes              *string    `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Events []CalendarEvent `gorm:"foreignKey:ReservationID" json:"events,omitempty"`
}

// TableName overrides the table name.
func (Reservation) TableName() string { return "booking_reservations" }

// CalendarEvent is the per-room occupation of one external booking id.
type CalendarEvent struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	UnitID            uint         `gorm:"not null;index" json:"unit_id"`
	ReservationID     *uint        `gorm:"index" json:"reservation_id"`
	Reservation       *Reservation `json:"-"`
	StartAt           *time.Time   `json:"start_at"`
	EndAt             *time.Time   `json:"end_at"`
	ExternalStatus    string       `gorm:"size:64" json:"external_status"`
	ExternalSubStatus string       `gorm:"size:64" json:"external_sub_status"`
	StatusID          uint         `json:"status_id"`
	PaymentStatusID   uint         `json:"payment_status_id"`
	Adults            int          `json:"adults"`
	Children          int          `json:"children"`
	Infants           int          `json:"infants"`
	// Amount and Commission hold 2-decimal strings; a numeric column type would
	// let sqlite drop the trailing zeros.
	Amount          *string   `gorm:"size:32" json:"amount"`
	Commission      *string   `gorm:"size:32" json:"commission"`
	RateDescription string    `gorm:"size:255" json:"rate_description"`
	GuestNameCache  *string   `gorm:"size:191" json:"guest_name_cache"`
	ChannelCache    *string   `gorm:"size:64" json:"channel_cache"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (CalendarEvent) TableName() string { return "booking_calendar_events" }

// BookingLink is the stable join from an external booking id to its event.
type BookingLink struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ExternalBookingID string         `gorm:"size:64;uniqueIndex;not null" json:"external_booking_id"`
	EventID           uint           `gorm:"index" json:"event_id"`
	Event             *CalendarEvent `json:"event,omitempty"`
	UnitMappingID     uint           `json:"unit_mapping_id"`
	IsMirror          bool           `gorm:"not null;default:false" json:"is_mirror"`
	OriginLinkID      *uint          `json:"origin_link_id"`
	Origin            *BookingLink   `gorm:"foreignKey:OriginLinkID" json:"-"`
	LastSeenAt        time.Time      `json:"last_seen_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TableName overrides the table name.
func (BookingLink) TableName() string { return "booking_links" }

// ParkedRecord is a feed record set aside for operator review.
type ParkedRecord struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	AccountID         uint           `gorm:"index" json:"account_id"`
	RunID             string         `gorm:"size:36;index" json:"run_id"`
	ExternalBookingID string         `gorm:"size:64;index" json:"external_booking_id"`
	Reason            string         `gorm:"size:255" json:"reason"`
	Payload           datatypes.JSON `json:"payload"`
	CreatedAt         time.Time      `json:"created_at"`
}

// TableName overrides the table name.
func (ParkedRecord) TableName() string { return "booking_parked_records" }
