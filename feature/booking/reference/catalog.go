package reference

import (
	"context"
	"fmt"
	"time"

	"booking-sync/core/reconcile"

	"gorm.io/gorm"
)

// Table is an immutable snapshot of one reference table.
type Table struct {
	byCode   map[string]uint
	byLegacy map[string]uint
}

// Lookup finds a row id by code.
func (t *Table) Lookup(code string) (uint, bool) {
	id, ok := t.byCode[normalizeCode(code)]
	return id, ok
}

// LookupLegacy finds a row id by legacy code.
func (t *Table) LookupLegacy(code string) (uint, bool) {
	id, ok := t.byLegacy[normalizeCode(code)]
	return id, ok
}

type row struct {
	ID         uint
	Code       string
	LegacyCode *string
}

// Catalog caches reference tables across runs.
type Catalog struct {
	cache *reconcile.Cache[*Table]
}

// NewCatalog creates a catalog. A zero TTL reloads tables on every run.
func NewCatalog(ttl time.Duration) *Catalog {
	return &Catalog{cache: reconcile.NewCache[*Table](ttl)}
}

// Table returns the snapshot of kind, loading it through db when stale.
func (c *Catalog) Table(ctx context.Context, db *gorm.DB, kind Kind) (*Table, error) {
	return c.cache.GetOrBuild(ctx, kind.Table, func(ctx context.Context) (*Table, error) {
		return loadTable(ctx, db, kind)
	})
}

// Invalidate drops the cached snapshot of kind.
func (c *Catalog) Invalidate(kind Kind) {
	c.cache.Invalidate(kind.Table)
}

func loadTable(ctx context.Context, db *gorm.DB, kind Kind) (*Table, error) {
	columns := []string{"id", "code"}
	if kind.Legacy {
		columns = append(columns, "legacy_code")
	}

	var rows []row
	if err := db.WithContext(ctx).Table(kind.Table).Select(columns).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s table: %w", kind.Name, err)
	}

	t := &Table{byCode: make(map[string]uint, len(rows)), byLegacy: make(map[string]uint)}
	for _, r := range rows {
		t.byCode[normalizeCode(r.Code)] = r.ID
		if r.LegacyCode != nil && *r.LegacyCode != "" {
			t.byLegacy[normalizeCode(*r.LegacyCode)] = r.ID
		}
	}
	return t, nil
}
