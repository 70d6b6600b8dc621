package reference

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration matches every *ConfigurationError.
var ErrConfiguration = errors.New("reference configuration defect")

// ConfigurationError reports a code whose fallbacks are missing too.
type ConfigurationError struct {
	Kind      string
	Code      string
	Fallbacks []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %s found for code %q and fallback %s is not seeded",
		e.Kind, e.Code, strings.Join(e.Fallbacks, "/"))
}

// Is reports ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
