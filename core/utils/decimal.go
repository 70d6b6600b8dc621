package utils

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalKeys are probed in order when a structured value is normalized.
var DecimalKeys = []string{"price", "amount", "value", "total", "gross", "net"}

var decimalPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// thousandsPattern matches a comma-grouped integer part followed by a point fraction.
var thousandsPattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// NormalizeDecimal converts an external numeric representation to a string with two
// decimal places and a point separator, rounding half away from zero. It returns nil
// when no number can be found.
func NormalizeDecimal(val any) *string {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		return normalizeDecimalString(v)
	case []byte:
		return normalizeDecimalString(string(v))
	case float64:
		return normalizeFloat(v)
	case float32:
		return normalizeFloat(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return normalizeDecimalString(fmt.Sprintf("%d", v))
	case interface{ String() string }:
		// json.Number and similar
		return normalizeDecimalString(v.String())
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return NormalizeDecimal(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		for _, key := range DecimalKeys {
			entry := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
			if !entry.IsValid() {
				continue
			}
			if out := NormalizeDecimal(entry.Interface()); out != nil {
				return out
			}
		}
		// Map iteration order is random; visit keys sorted for a stable answer.
		keys := rv.MapKeys()
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		sort.Strings(names)
		for _, name := range names {
			entry := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
			if out := NormalizeDecimal(entry.Interface()); out != nil {
				return out
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if out := NormalizeDecimal(rv.Index(i).Interface()); out != nil {
				return out
			}
		}
	}
	return nil
}

func normalizeDecimalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	if !decimalPattern.MatchString(s) {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return formatDecimal(d)
}

func normalizeFloat(f float64) *string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return formatDecimal(decimal.NewFromFloat(f))
}

func formatDecimal(d decimal.Decimal) *string {
	out := d.StringFixed(2)
	if out == "-0.00" {
		out = "0.00"
	}
	return &out
}
