// Package seed loads accounts, units, unit mappings and reference codes from YAML.
//
// Applying a file twice leaves the store unchanged: every row is matched by its
// natural key and updated in place.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"booking-sync/feature/booking/models"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"
)

// Defaults holds the reference codes shipped with the service.
//
//go:embed defaults.yaml
var Defaults []byte

// File is the seed document.
type File struct {
	Accounts        []AccountSeed       `yaml:"accounts"`
	Establishments  []EstablishmentSeed `yaml:"establishments"`
	Mappings        []MappingSeed       `yaml:"mappings"`
	Statuses        []CodeSeed          `yaml:"statuses"`
	PaymentStatuses []CodeSeed          `yaml:"payment_statuses"`
	Channels        []CodeSeed          `yaml:"channels"`
	Countries       []CodeSeed          `yaml:"countries"`
	Languages       []CodeSeed          `yaml:"languages"`
}

// AccountSeed is a channel manager account.
type AccountSeed struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// EstablishmentSeed is an establishment and the names of its units.
type EstablishmentSeed struct {
	Name     string   `yaml:"name"`
	CheckIn  string   `yaml:"check_in"`
	CheckOut string   `yaml:"check_out"`
	TimeZone string   `yaml:"time_zone"`
	Units    []string `yaml:"units"`
}

// MappingSeed maps an external property/room of an account to a unit.
type MappingSeed struct {
	Account       string `yaml:"account"`
	Property      string `yaml:"property"`
	Room          string `yaml:"room"`
	Establishment string `yaml:"establishment"`
	Unit          string `yaml:"unit"`
}

// CodeSeed is one reference row. LegacyCode only applies to channels.
type CodeSeed struct {
	Code       string `yaml:"code"`
	LegacyCode string `yaml:"legacy_code"`
	Name       string `yaml:"name"`
}

// Report counts the rows written per section.
type Report struct {
	Accounts       int `json:"accounts"`
	Establishments int `json:"establishments"`
	Units          int `json:"units"`
	Mappings       int `json:"mappings"`
	References     int `json:"references"`
}

// Parse decodes a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes a seed document from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Apply writes the document in one transaction.
func Apply(ctx context.Context, db *gorm.DB, f *File) (*Report, error) {
	report := &Report{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyReferences(tx, f, report); err != nil {
			return err
		}

		for _, a := range f.Accounts {
			var acc models.Account
			if err := tx.Where(models.Account{Code: a.Code}).
				Assign(models.Account{Name: a.Name}).
				FirstOrCreate(&acc).Error; err != nil {
				return fmt.Errorf("account %s: %w", a.Code, err)
			}
			report.Accounts++
		}

		for _, e := range f.Establishments {
			var est models.Establishment
			if err := tx.Where(models.Establishment{Name: e.Name}).
				Assign(models.Establishment{CheckInTime: e.CheckIn, CheckOutTime: e.CheckOut, TimeZone: e.TimeZone}).
				FirstOrCreate(&est).Error; err != nil {
				return fmt.Errorf("establishment %s: %w", e.Name, err)
			}
			report.Establishments++

			for _, name := range e.Units {
				var unit models.Unit
				if err := tx.Where(models.Unit{EstablishmentID: est.ID, Name: name}).
					FirstOrCreate(&unit).Error; err != nil {
					return fmt.Errorf("unit %s/%s: %w", e.Name, name, err)
				}
				report.Units++
			}
		}

		for _, m := range f.Mappings {
			if err := applyMapping(tx, m); err != nil {
				return err
			}
			report.Mappings++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func applyMapping(tx *gorm.DB, m MappingSeed) error {
	var acc models.Account
	if err := tx.Where("code = ?", m.Account).Take(&acc).Error; err != nil {
		return fmt.Errorf("mapping %s/%s: account %s: %w", m.Property, m.Room, m.Account, err)
	}

	var unit models.Unit
	if err := tx.Joins("JOIN booking_establishments e ON e.id = booking_units.establishment_id").
		Where("e.name = ? AND booking_units.name = ?", m.Establishment, m.Unit).
		Take(&unit).Error; err != nil {
		return fmt.Errorf("mapping %s/%s: unit %s/%s: %w", m.Property, m.Room, m.Establishment, m.Unit, err)
	}

	var mapping models.UnitMapping
	if err := tx.Where(models.UnitMapping{AccountID: acc.ID, ExternalPropertyID: m.Property, ExternalRoomID: m.Room}).
		Assign(models.UnitMapping{UnitID: unit.ID}).
		FirstOrCreate(&mapping).Error; err != nil {
		return fmt.Errorf("mapping %s/%s: %w", m.Property, m.Room, err)
	}
	return nil
}

func applyReferences(tx *gorm.DB, f *File, report *Report) error {
	for _, s := range f.Statuses {
		if err := upsertCode(tx, &models.Status{}, models.Status{Code: s.Code}, models.Status{Name: s.Name}); err != nil {
			return err
		}
	}
	for _, s := range f.PaymentStatuses {
		if err := upsertCode(tx, &models.PaymentStatus{}, models.PaymentStatus{Code: s.Code}, models.PaymentStatus{Name: s.Name}); err != nil {
			return err
		}
	}
	for _, s := range f.Channels {
		assign := models.Channel{Name: s.Name}
		if s.LegacyCode != "" {
			legacy := s.LegacyCode
			assign.LegacyCode = &legacy
		}
		if err := upsertCode(tx, &models.Channel{}, models.Channel{Code: s.Code}, assign); err != nil {
			return err
		}
	}
	for _, s := range f.Countries {
		if err := upsertCode(tx, &models.Country{}, models.Country{Code: s.Code}, models.Country{Name: s.Name}); err != nil {
			return err
		}
	}
	for _, s := range f.Languages {
		if err := upsertCode(tx, &models.Language{}, models.Language{Code: s.Code}, models.Language{Name: s.Name}); err != nil {
			return err
		}
	}

	report.References = len(f.Statuses) + len(f.PaymentStatuses) + len(f.Channels) + len(f.Countries) + len(f.Languages)
	return nil
}

func upsertCode[T any](tx *gorm.DB, dest *T, where, assign T) error {
	if err := tx.Where(where).Assign(assign).FirstOrCreate(dest).Error; err != nil {
		return fmt.Errorf("reference %+v: %w", where, err)
	}
	return nil
}
