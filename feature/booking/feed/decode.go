package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"booking-sync/feature/booking/models"
)

// envelope is the paginated export shape some accounts deliver.
type envelope struct {
	Bookings []models.ExternalBookingRecord `json:"bookings"`
}

// Decode parses a batch export. Both a bare array and {"bookings": [...]} are accepted.
// Numbers inside price and commission keep their exact text.
func Decode(r io.Reader) ([]models.ExternalBookingRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '{' {
		var env envelope
		if err := dec.Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to decode batch: %w", err)
		}
		return env.Bookings, nil
	}

	var records []models.ExternalBookingRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	return records, nil
}

// ReadFile decodes a batch export from the local filesystem.
func ReadFile(path string) ([]models.ExternalBookingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
