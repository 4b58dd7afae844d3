package parsers

import (
	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// Remittance835 parses the 835 healthcare claim payment / remittance advice
// grammar in one linear pass. Structural markers (CLP, SVC) open a new child
// and move the current pointer; detail segments mutate only the most
// recently opened entity; a detail arriving before any parent is dropped.
type Remittance835 struct{}

// NewRemittance835 returns the remittance grammar capability.
func NewRemittance835() *Remittance835 { return &Remittance835{} }

func (*Remittance835) SupportedCodes() []string { return []string{"835"} }

// Probe checks for the ST envelope plus the BPR business header that marks a
// remittance.
func (*Remittance835) Probe(segs []x12.Segment) bool {
	var hasST, hasBPR bool
	for _, seg := range segs {
		switch seg.ID() {
		case "ST":
			hasST = seg.Element(1) == "835"
		case "BPR":
			hasBPR = true
		}
	}
	return hasST && hasBPR
}

// remitContext is the explicit parser state threaded through the segment
// loop: the currently open claim and service line.
type remitContext struct {
	payload *model.RemittanceAdvice
	claim   *model.Claim
	service *model.Service
}

func (*Remittance835) Parse(segs []x12.Segment, d x12.Delimiters) (model.TransactionPayload, []finding.Finding, error) {
	ctx := &remitContext{payload: &model.RemittanceAdvice{}}
	for _, seg := range segs {
		switch seg.ID() {
		case "BPR":
			ctx.payload.Financial = model.FinancialInfo{
				PaidAmount: parseAmount(seg.Element(2)),
				Method:     seg.Element(4),
				Date:       normalizeDate(seg.Element(16)),
			}
		case "TRN":
			ctx.payload.References = append(ctx.payload.References, model.Reference{
				Qualifier: "TRN",
				Value:     seg.Element(2),
			})
		case "REF":
			ctx.payload.References = append(ctx.payload.References, model.Reference{
				Qualifier: seg.Element(1),
				Value:     seg.Element(2),
			})
		case "DTM":
			ctx.consumeDate(seg)
		case "N1":
			party := model.Party{
				Name:        seg.Element(2),
				IDQualifier: seg.Element(3),
				ID:          seg.Element(4),
			}
			switch seg.Element(1) {
			case "PR":
				ctx.payload.Payer = party
			case "PE":
				ctx.payload.Payee = party
			}
		case "CLP":
			claim := &model.Claim{
				ID:                    seg.Element(1),
				StatusCode:            seg.Element(2),
				ChargeAmount:          parseAmount(seg.Element(3)),
				PaidAmount:            parseAmount(seg.Element(4)),
				PatientResponsibility: parseAmount(seg.Element(5)),
				PayerControlNumber:    seg.Element(7),
			}
			ctx.payload.Claims = append(ctx.payload.Claims, claim)
			ctx.claim = claim
			ctx.service = nil
		case "CAS":
			ctx.consumeAdjustments(seg)
		case "SVC":
			if ctx.claim == nil {
				continue
			}
			svc := &model.Service{
				Procedure:    splitComposite(seg.Element(1), d),
				ChargeAmount: parseAmount(seg.Element(2)),
				PaidAmount:   parseAmount(seg.Element(3)),
				RevenueCode:  seg.Element(4),
			}
			ctx.claim.Services = append(ctx.claim.Services, svc)
			ctx.service = svc
		case "PLB":
			ctx.consumeProviderAdjustments(seg, d)
		}
	}
	return ctx.payload, nil, nil
}

func (ctx *remitContext) consumeDate(seg x12.Segment) {
	qualifier := seg.Element(1)
	value := normalizeDate(seg.Element(2))
	if ctx.service != nil {
		ctx.service.Date = value
		return
	}
	if ctx.claim != nil {
		// Claim-level dates are not modeled; only header and service dates
		// survive.
		return
	}
	ctx.payload.Dates = append(ctx.payload.Dates, model.DateValue{Qualifier: qualifier, Date: value})
}

// consumeAdjustments unpacks the repeating reason/amount/quantity triplets
// of a CAS segment onto the open service, or the open claim when no service
// is open. A CAS before any CLP is dropped.
func (ctx *remitContext) consumeAdjustments(seg x12.Segment) {
	group := seg.Element(1)
	for i := 2; i < len(seg.Elements); i += 3 {
		reason := seg.Element(i)
		if reason == "" {
			continue
		}
		adj := model.Adjustment{
			GroupCode:  group,
			ReasonCode: reason,
			Amount:     parseAmount(seg.Element(i + 1)),
			Quantity:   parseAmount(seg.Element(i + 2)),
		}
		switch {
		case ctx.service != nil:
			ctx.service.Adjustments = append(ctx.service.Adjustments, adj)
		case ctx.claim != nil:
			ctx.claim.Adjustments = append(ctx.claim.Adjustments, adj)
		}
	}
}

// consumeProviderAdjustments unpacks the repeating reason/amount pairs of a
// PLB segment. The reason element is a composite of reason code and a
// reference number.
func (ctx *remitContext) consumeProviderAdjustments(seg x12.Segment, d x12.Delimiters) {
	providerID := seg.Element(1)
	fiscalPeriod := normalizeDate(seg.Element(2))
	for i := 3; i+1 <= len(seg.Elements); i += 2 {
		reason := seg.Element(i)
		if reason == "" {
			continue
		}
		cc := splitComposite(reason, d)
		adj := model.ProviderAdjustment{
			ProviderID:   providerID,
			FiscalPeriod: fiscalPeriod,
			Reason:       cc.Qualifier,
			Amount:       parseAmount(seg.Element(i + 1)),
		}
		if adj.Reason == "" {
			adj.Reason = cc.Code
		} else {
			adj.Reference = cc.Code
		}
		ctx.payload.ProviderAdjustments = append(ctx.payload.ProviderAdjustments, adj)
	}
}
