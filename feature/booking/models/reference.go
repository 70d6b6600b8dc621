package models

// Status is an internal normalized booking status.
type Status struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:191" json:"name"`
}

// TableName overrides the table name.
func (Status) TableName() string { return "booking_statuses" }

// PaymentStatus is an internal payment state of an event.
type PaymentStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:191" json:"name"`
}

// TableName overrides the table name.
func (PaymentStatus) TableName() string { return "booking_payment_statuses" }

// Channel is a sales channel. LegacyCode keeps codes used by older records.
type Channel struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Code       string  `gorm:"size:64;uniqueIndex;not null" json:"code"`
	LegacyCode *string `gorm:"size:64;index" json:"legacy_code"`
	Name       string  `gorm:"size:191" json:"name"`
}

// TableName overrides the table name.
func (Channel) TableName() string { return "booking_channels" }

// Country is keyed by its ISO 3166 alpha-2 code.
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:8;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:191" json:"name"`
}

// TableName overrides the table name.
func (Country) TableName() string { return "booking_countries" }

// Language is keyed by its base BCP 47 code.
type Language struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:16;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:191" json:"name"`
}

// TableName overrides the table name.
func (Language) TableName() string { return "booking_languages" }

// AllModels lists every table of the reconciliation store in migration order.
func AllModels() []any {
	return []any{
		&Account{},
		&Establishment{},
		&Unit{},
		&UnitMapping{},
		&Status{},
		&PaymentStatus{},
		&Channel{},
		&Country{},
		&Language{},
		&Reservation{},
		&CalendarEvent{},
		&BookingLink{},
		&ParkedRecord{},
	}
}
