package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"booking-sync/core/utils"
)

// ExternalID is a booking identifier as sent by the channel manager.
// Feeds send it as a JSON string or number.
type ExternalID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExternalID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid external id %s: %w", data, err)
	}
	*id = ExternalID(utils.ToString(n))
	return nil
}

// String returns the trimmed identifier.
func (id ExternalID) String() string {
	return strings.TrimSpace(string(id))
}

// Count is a guest count. Feeds send numbers, numeric strings or null.
type Count int

// UnmarshalJSON never rejects a well-formed value; unreadable counts become 0.
func (c *Count) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid count %s: %w", data, err)
	}
	*c = Count(utils.ToInt(v))
	return nil
}

// ExternalBookingRecord is one room/rate of one stay as delivered by the feed.
type ExternalBookingRecord struct {
	ID              ExternalID  `json:"id"`
	MasterID        *ExternalID `json:"master_id,omitempty"`
	PropertyID      ExternalID  `json:"property_id"`
	RoomID          ExternalID  `json:"room_id"`
	ChannelCode     string      `json:"channel"`
	GuestName       string      `json:"guest_name"`
	GuestSurname    string      `json:"guest_surname"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	CountryCode     string      `json:"country"`
	LanguageCode    string      `json:"language"`
	StayFrom        string      `json:"date_from"`
	StayTo          string      `json:"date_to"`
	ArrivalTime     string      `json:"arrival_time"`
	Status          string      `json:"status"`
	SubStatus       string      `json:"sub_status"`
	PaymentStatus   string      `json:"payment_status"`
	Adults          Count       `json:"adults"`
	Children        Count       `json:"children"`
	Infants         Count       `json:"infants"`
	Price           any         `json:"price"`
	Commission      any         `json:"commission"`
	RateDescription string      `json:"rate_description"`
	Notes           string      `json:"notes"`
	Comments        string      `json:"comments"`
	BookedAt        string      `json:"booked_at"`
	ModifiedAt      string      `json:"modified_at"`
}

// HasMaster reports whether the record is a child of another booking.
func (r ExternalBookingRecord) HasMaster() bool {
	return r.MasterID != nil && r.MasterID.String() != "" && r.MasterID.String() != "0"
}

// RawMasterID returns the master id as sent, or "" when absent.
func (r ExternalBookingRecord) RawMasterID() string {
	if r.MasterID == nil {
		return ""
	}
	return string(*r.MasterID)
}

// EffectiveMasterID is the master id when present, else the record's own id.
func (r ExternalBookingRecord) EffectiveMasterID() string {
	if r.HasMaster() {
		return r.MasterID.String()
	}
	return r.ID.String()
}

// GuestFullName joins name and surname.
func (r ExternalBookingRecord) GuestFullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.GuestName) + " " + strings.TrimSpace(r.GuestSurname))
}

// CombinedNotes joins notes and guest comments, skipping empty parts.
func (r ExternalBookingRecord) CombinedNotes() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{r.Notes, r.Comments} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}
