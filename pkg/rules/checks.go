package rules

import (
	"fmt"
	"regexp"

	"github.com/oarkflow/convert"
	"github.com/oarkflow/date"
)

// Check validates a single field value extracted by path.
type Check func(value any) error

var (
	currencyRegex = regexp.MustCompile(`^-?\d+(\.\d{1,2})?$`)
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// GetCheck builds a validator of the named kind. Unknown kinds validate
// nothing rather than failing rule-set loading.
func GetCheck(name string, params ...any) Check {
	switch name {
	case "currency":
		return func(v any) error {
			s := toString(v)
			if s == "" {
				return nil
			}
			if !currencyRegex.MatchString(s) {
				return fmt.Errorf("value %q is not a currency amount", s)
			}
			return nil
		}
	case "date":
		return func(v any) error {
			s := toString(v)
			if s == "" {
				return nil
			}
			if isoDateRegex.MatchString(s) {
				return nil
			}
			if _, err := date.Parse(s); err == nil {
				return nil
			}
			return fmt.Errorf("value %q is not a date", s)
		}
	case "regex":
		if len(params) < 1 {
			return func(any) error { return nil }
		}
		re, err := regexp.Compile(toString(params[0]))
		if err != nil {
			return func(any) error { return fmt.Errorf("invalid pattern: %v", err) }
		}
		return func(v any) error {
			s := toString(v)
			if !re.MatchString(s) {
				return fmt.Errorf("value %q does not match pattern %s", s, re.String())
			}
			return nil
		}
	case "enum":
		allowed := make(map[string]bool, len(params))
		for _, p := range params {
			allowed[toString(p)] = true
		}
		return func(v any) error {
			s := toString(v)
			if !allowed[s] {
				return fmt.Errorf("value %q is not in the allowed set", s)
			}
			return nil
		}
	case "npi":
		return func(v any) error {
			if !ValidNPI(toString(v)) {
				return fmt.Errorf("value %q is not a valid provider identifier", toString(v))
			}
			return nil
		}
	default:
		return func(any) error { return nil }
	}
}

// ValidNPI reports whether s is a checksummed 10-digit provider identifier.
// The check digit covers the 80840 card-issuer prefix, so the full Luhn
// input is the prefixed 15-digit string. Short, non-numeric, and empty
// values all fail.
func ValidNPI(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return luhnValid("80840" + s)
}

// luhnValid runs the mod-10 double-every-second-digit-from-the-right check.
func luhnValid(s string) bool {
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	s, ok := convert.ToString(v)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
