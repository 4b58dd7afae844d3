package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/oarkflow/date"

	"github.com/oarkflow/edi/pkg/model"
)

// AgingBucket accumulates claims whose service date falls within the
// bucket's day range relative to the report date. Max < 0 means open-ended.
type AgingBucket struct {
	Label   string  `json:"label"`
	MinDays int     `json:"min_days"`
	MaxDays int     `json:"max_days"`
	Count   int     `json:"count"`
	Charged float64 `json:"charged"`
	Paid    float64 `json:"paid"`
}

// Summary aggregates every remittance transaction in a document.
type Summary struct {
	Transactions          int           `json:"transactions"`
	Claims                int           `json:"claims"`
	TotalCharged          float64       `json:"total_charged"`
	TotalPaid             float64       `json:"total_paid"`
	PatientResponsibility float64       `json:"patient_responsibility"`
	Undated               int           `json:"undated"`
	Aging                 []AgingBucket `json:"aging"`
}

func newBuckets() []AgingBucket {
	return []AgingBucket{
		{Label: "0-30", MinDays: 0, MaxDays: 30},
		{Label: "31-60", MinDays: 31, MaxDays: 60},
		{Label: "61-90", MinDays: 61, MaxDays: 90},
		{Label: "90+", MinDays: 91, MaxDays: -1},
	}
}

// Build walks every remittance payload in the document and returns the
// aggregate summary. Claims without a usable service date are counted
// in Undated and excluded from aging.
func Build(doc *model.Document, asOf time.Time) *Summary {
	s := &Summary{Aging: newBuckets()}
	for _, ic := range doc.Interchanges {
		for _, g := range ic.Groups {
			for _, tx := range g.Transactions {
				ra, ok := tx.Payload.(*model.RemittanceAdvice)
				if !ok {
					continue
				}
				s.Transactions++
				s.collect(ra, asOf)
			}
		}
	}
	return s
}

func (s *Summary) collect(ra *model.RemittanceAdvice, asOf time.Time) {
	for _, c := range ra.Claims {
		s.Claims++
		s.TotalCharged += c.ChargeAmount
		s.TotalPaid += c.PaidAmount
		s.PatientResponsibility += c.PatientResponsibility

		when, ok := claimDate(c, ra)
		if !ok {
			s.Undated++
			continue
		}
		age := int(asOf.Sub(when).Hours() / 24)
		if age < 0 {
			age = 0
		}
		for i := range s.Aging {
			b := &s.Aging[i]
			if age < b.MinDays {
				continue
			}
			if b.MaxDays >= 0 && age > b.MaxDays {
				continue
			}
			b.Count++
			b.Charged += c.ChargeAmount
			b.Paid += c.PaidAmount
			break
		}
	}
}

// claimDate picks the earliest service date on the claim, falling back to
// the remittance payment date.
func claimDate(c *model.Claim, ra *model.RemittanceAdvice) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, svc := range c.Services {
		t, err := date.Parse(svc.Date)
		if err != nil {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	if found {
		return earliest, true
	}
	t, err := date.Parse(ra.Financial.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatAmount renders a dollar amount with thousands separators and two
// decimal places, e.g. -1234.5 -> "-1,234.50".
func FormatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
