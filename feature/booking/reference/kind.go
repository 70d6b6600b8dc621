package reference

import (
	"strings"

	"golang.org/x/text/language"
)

// Kind describes one reference table.
type Kind struct {
	// Name is used in errors and as cache key.
	Name string
	// Table is the database table holding the rows.
	Table string
	// Fallbacks are tried in order when the code is unknown.
	Fallbacks []string
	// Legacy enables lookups on the legacy_code column.
	Legacy bool
	// Aliases derives alternative codes tried before the fallbacks.
	Aliases func(code string) []string
}

var (
	// Status resolves normalized booking statuses.
	Status = Kind{Name: "status", Table: "booking_statuses", Fallbacks: []string{"new"}}
	// PaymentStatus resolves payment states.
	PaymentStatus = Kind{Name: "payment status", Table: "booking_payment_statuses", Fallbacks: []string{"no-pagado", "unpaid"}}
	// Channel resolves sales channels, also by legacy code.
	Channel = Kind{Name: "channel", Table: "booking_channels", Fallbacks: []string{"direct"}, Legacy: true}
	// Country resolves ISO countries. The fallback comes from configuration.
	Country = Kind{Name: "country", Table: "booking_countries"}
	// Language resolves languages, reducing regional tags to their base.
	Language = Kind{Name: "language", Table: "booking_languages", Fallbacks: []string{"en"}, Aliases: baseLanguage}
)

// WithFallbacks returns a copy of k using the given fallback codes.
func (k Kind) WithFallbacks(codes ...string) Kind {
	k.Fallbacks = codes
	return k
}

// normalizeCode folds codes so lookups ignore case and padding.
func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// baseLanguage turns "en-GB", "EN_us" or "eng" into "en".
func baseLanguage(code string) []string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if code == "" {
		return nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return nil
	}
	base, conf := tag.Base()
	if conf == language.No {
		return nil
	}
	return []string{base.String()}
}
