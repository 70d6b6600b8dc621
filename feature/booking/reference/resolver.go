package reference

import (
	"context"
	"strings"

	"booking-sync/core/reconcile"

	"gorm.io/gorm"
)

// fallbackStep prefixes the names of fallback steps.
const fallbackStep = "fallback "

// Resolver maps codes of one kind to row ids. A Resolver belongs to one run.
type Resolver struct {
	kind    Kind
	catalog *Catalog
	db      *gorm.DB

	// refreshed is set once the table was reloaded during the run.
	refreshed bool
}

// NewResolver binds kind to a catalog and a database handle.
func NewResolver(catalog *Catalog, db *gorm.DB, kind Kind) *Resolver {
	return &Resolver{kind: kind, catalog: catalog, db: db}
}

// Kind returns the resolved kind.
func (r *Resolver) Kind() Kind {
	return r.kind
}

// chain lists the strategies for code against one table snapshot.
func (r *Resolver) chain(t *Table) reconcile.Chain[string, uint] {
	steps := reconcile.Chain[string, uint]{
		{Name: "code", Find: func(ctx context.Context, code string) (uint, bool, error) {
			id, ok := t.Lookup(code)
			return id, ok, nil
		}},
	}
	if r.kind.Legacy {
		steps = append(steps, reconcile.Step[string, uint]{Name: "legacy code", Find: func(ctx context.Context, code string) (uint, bool, error) {
			id, ok := t.LookupLegacy(code)
			return id, ok, nil
		}})
	}
	if r.kind.Aliases != nil {
		steps = append(steps, reconcile.Step[string, uint]{Name: "alias", Find: func(ctx context.Context, code string) (uint, bool, error) {
			for _, alias := range r.kind.Aliases(code) {
				if id, ok := t.Lookup(alias); ok {
					return id, true, nil
				}
			}
			return 0, false, nil
		}})
	}
	for _, fb := range r.kind.Fallbacks {
		fallback := fb
		steps = append(steps, reconcile.Step[string, uint]{Name: fallbackStep + fallback, Find: func(ctx context.Context, _ string) (uint, bool, error) {
			id, ok := t.Lookup(fallback)
			return id, ok, nil
		}})
	}
	return steps
}

// Resolve returns the row id for code, falling back as configured.
//
// A fallback is only trusted on a snapshot reloaded during this run, so rows
// seeded after the shared snapshot was taken win over their fallback. A code
// that matches nothing at all always triggers one reload.
func (r *Resolver) Resolve(ctx context.Context, code string) (uint, error) {
	for attempt := 0; ; attempt++ {
		t, err := r.catalog.Table(ctx, r.db, r.kind)
		if err != nil {
			return 0, err
		}

		id, step, ok, err := r.chain(t).Resolve(ctx, code)
		if err != nil {
			return 0, err
		}
		fresh := attempt > 0 || r.refreshed
		if ok && (fresh || !strings.HasPrefix(step, fallbackStep)) {
			return id, nil
		}
		if attempt > 0 {
			return 0, &ConfigurationError{Kind: r.kind.Name, Code: code, Fallbacks: r.kind.Fallbacks}
		}

		r.catalog.Invalidate(r.kind)
		r.refreshed = true
	}
}

// Set groups the resolvers one reconciliation run needs.
type Set struct {
	Status        *Resolver
	PaymentStatus *Resolver
	Channel       *Resolver
	Country       *Resolver
	Language      *Resolver
}

// Bind returns the resolvers bound to db, usually the batch transaction.
func (c *Catalog) Bind(db *gorm.DB, defaultCountry string) *Set {
	return &Set{
		Status:        NewResolver(c, db, Status),
		PaymentStatus: NewResolver(c, db, PaymentStatus),
		Channel:       NewResolver(c, db, Channel),
		Country:       NewResolver(c, db, Country.WithFallbacks(defaultCountry)),
		Language:      NewResolver(c, db, Language),
	}
}
