package parsers

import (
	"strings"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// Professional837 parses the 837 professional claim grammar.
type Professional837 struct{}

// NewProfessional837 returns the professional-claim grammar capability.
func NewProfessional837() *Professional837 { return &Professional837{} }

func (*Professional837) SupportedCodes() []string { return []string{"837"} }

// Probe checks for the ST envelope, the BHT business header, and the CLM
// marker specific to a claim submission.
func (*Professional837) Probe(segs []x12.Segment) bool {
	var hasST, hasBHT, hasCLM bool
	for _, seg := range segs {
		switch seg.ID() {
		case "ST":
			hasST = seg.Element(1) == "837"
		case "BHT":
			hasBHT = true
		case "CLM":
			hasCLM = true
		}
	}
	return hasST && hasBHT && hasCLM
}

type claimContext struct {
	payload *model.ProfessionalClaim
	line    *model.ServiceLine
}

func (*Professional837) Parse(segs []x12.Segment, d x12.Delimiters) (model.TransactionPayload, []finding.Finding, error) {
	ctx := &claimContext{payload: &model.ProfessionalClaim{}}
	for _, seg := range segs {
		switch seg.ID() {
		case "NM1":
			ctx.consumeName(seg)
		case "SBR":
			ctx.payload.Subscriber.PayerResponsibility = seg.Element(1)
			ctx.payload.Subscriber.Relationship = seg.Element(2)
			ctx.payload.Subscriber.GroupNumber = seg.Element(3)
			ctx.payload.Subscriber.ClaimFilingCode = seg.Element(9)
		case "CLM":
			ctx.payload.Claim.ID = seg.Element(1)
			ctx.payload.Claim.ChargeAmount = parseAmount(seg.Element(2))
			place := seg.Components(5, d)
			if len(place) > 0 {
				ctx.payload.Claim.PlaceOfService = place[0]
			}
			if len(place) > 2 {
				ctx.payload.Claim.Frequency = place[2]
			}
		case "HI":
			for i := 1; i < len(seg.Elements); i++ {
				cc := splitComposite(seg.Element(i), d)
				if cc.Code != "" {
					ctx.payload.Diagnoses = append(ctx.payload.Diagnoses, cc.Code)
				}
			}
		case "LX":
			line := &model.ServiceLine{}
			ctx.payload.ServiceLines = append(ctx.payload.ServiceLines, line)
			ctx.line = line
		case "SV1":
			if ctx.line == nil {
				// Service detail with no open LX loop is dropped.
				continue
			}
			ctx.line.Procedure = splitComposite(seg.Element(1), d)
			ctx.line.ChargeAmount = parseAmount(seg.Element(2))
			ctx.line.Unit = seg.Element(3)
			ctx.line.Units = parseAmount(seg.Element(4))
			if ptrs := seg.Element(7); ptrs != "" {
				for _, p := range strings.Split(ptrs, d.Component) {
					if p != "" {
						ctx.line.DiagnosisPointers = append(ctx.line.DiagnosisPointers, p)
					}
				}
			}
		case "DTP":
			if ctx.line != nil && seg.Element(1) == "472" {
				ctx.line.Date = normalizeDate(seg.Element(3))
			}
		}
	}
	return ctx.payload, nil, nil
}

func (ctx *claimContext) consumeName(seg x12.Segment) {
	entity := model.Entity{
		LastName:    seg.Element(3),
		FirstName:   seg.Element(4),
		IDQualifier: seg.Element(8),
		ID:          seg.Element(9),
	}
	switch seg.Element(1) {
	case "41":
		ctx.payload.Submitter = entity
	case "40":
		ctx.payload.Receiver = entity
	case "85":
		ctx.payload.BillingProvider = entity
	case "82":
		ctx.payload.RenderingProvider = entity
	case "PR":
		ctx.payload.Payer = entity
	case "IL":
		ctx.payload.Subscriber.Entity = entity
	case "QC":
		patient := entity
		ctx.payload.Patient = &patient
	}
}
