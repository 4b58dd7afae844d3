package parsers

import (
	"strings"

	"github.com/oarkflow/convert"
	"github.com/oarkflow/date"

	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// parseAmount converts a monetary or quantity element to a float. Malformed
// input yields zero; value conversion never fails a parse.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, ok := convert.ToFloat64(s)
	if !ok {
		return 0
	}
	return f
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeDate converts the wire encodings (CCYYMMDD, YYMMDD) to
// YYYY-MM-DD. Two-digit years pivot at 50: 49 and below are 20xx. A value
// that fits no known encoding is returned as-is so the raw string survives
// for findings.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) == 8 && allDigits(s):
		return s[:4] + "-" + s[4:6] + "-" + s[6:8]
	case len(s) == 6 && allDigits(s):
		century := "20"
		if s[:2] >= "50" {
			century = "19"
		}
		return century + s[:2] + "-" + s[2:4] + "-" + s[4:6]
	}
	if t, err := date.Parse(s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

// normalizeTime converts military HHMM or HHMMSS to HH:MM.
func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if (len(s) == 4 || len(s) == 6) && allDigits(s) {
		return s[:2] + ":" + s[2:4]
	}
	return s
}

// splitComposite splits qualifier:code:modifiers on the component
// separator. A bare value with no separator is taken as the code itself.
func splitComposite(s string, d x12.Delimiters) model.CompositeCode {
	if s == "" {
		return model.CompositeCode{}
	}
	if d.Component == "" || !strings.Contains(s, d.Component) {
		return model.CompositeCode{Code: s}
	}
	parts := strings.Split(s, d.Component)
	cc := model.CompositeCode{Qualifier: parts[0]}
	if len(parts) > 1 {
		cc.Code = parts[1]
	}
	for _, m := range parts[2:] {
		if m != "" {
			cc.Modifiers = append(cc.Modifiers, m)
		}
	}
	return cc
}
