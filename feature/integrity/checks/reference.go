package checks

import (
	"context"
	"fmt"
	"strings"

	"booking-sync/feature/booking/reference"

	"gorm.io/gorm"
)

// ReferenceReport describes one reference table.
type ReferenceReport struct {
	Kind      string   `json:"kind"`
	Table     string   `json:"table"`
	Rows      int      `json:"rows"`
	Fallbacks []string `json:"fallbacks"`
	Status    string   `json:"status"` // "ok", "missing_fallback"
}

// CheckReferences reports reference tables where none of the fallback codes
// exist. Such tables abort any batch carrying an unknown code.
func CheckReferences(ctx context.Context, db *gorm.DB, kinds []reference.Kind) ([]ReferenceReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	reports := make([]ReferenceReport, 0, len(kinds))
	for _, kind := range kinds {
		var codes []string
		if err := db.WithContext(ctx).Table(kind.Table).Pluck("code", &codes).Error; err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", kind.Table, err)
		}

		present := make(map[string]struct{}, len(codes))
		for _, c := range codes {
			present[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
		}

		r := ReferenceReport{
			Kind:      kind.Name,
			Table:     kind.Table,
			Rows:      len(codes),
			Fallbacks: kind.Fallbacks,
			Status:    "missing_fallback",
		}
		for _, fb := range kind.Fallbacks {
			if _, ok := present[strings.ToLower(fb)]; ok {
				r.Status = "ok"
				break
			}
		}
		reports = append(reports, r)
	}
	return reports, nil
}
