package parsers

import (
	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// ClaimStatus276 parses the claim-status inquiry (276) and response (277)
// grammars behind one capability.
type ClaimStatus276 struct{}

// NewClaimStatus276 returns the claim-status grammar capability.
func NewClaimStatus276() *ClaimStatus276 { return &ClaimStatus276{} }

func (*ClaimStatus276) SupportedCodes() []string { return []string{"276", "277"} }

// Probe checks for the ST envelope, the BHT business header, and either a
// TRN trace (inquiry) or an STC status entry (response).
func (*ClaimStatus276) Probe(segs []x12.Segment) bool {
	var hasST, hasBHT, hasMarker bool
	for _, seg := range segs {
		switch seg.ID() {
		case "ST":
			code := seg.Element(1)
			hasST = code == "276" || code == "277"
		case "BHT":
			hasBHT = true
		case "TRN", "STC":
			hasMarker = true
		}
	}
	return hasST && hasBHT && hasMarker
}

type claimStatusContext struct {
	tree *loopTree

	source     model.Entity
	receiver   model.Entity
	provider   model.Entity
	subscriber model.SubscriberInfo
	dependent  *model.SubscriberInfo
	inquiries  []model.StatusInquiry
	statuses   []model.StatusInfo

	// inquiry is the currently open trace; REF/AMT/DTP details mutate it.
	inquiry *model.StatusInquiry
}

func (*ClaimStatus276) Parse(segs []x12.Segment, d x12.Delimiters) (model.TransactionPayload, []finding.Finding, error) {
	code := ""
	ctx := &claimStatusContext{tree: newLoopTree()}
	for _, seg := range segs {
		switch seg.ID() {
		case "ST":
			code = seg.Element(1)
		case "HL":
			ctx.tree.addSegment(seg)
			ctx.inquiry = nil
		case "NM1":
			ctx.consumeName(seg)
		case "DMG":
			ctx.consumeDemographics(seg)
		case "TRN":
			ctx.inquiries = append(ctx.inquiries, model.StatusInquiry{TraceID: seg.Element(2)})
			ctx.inquiry = &ctx.inquiries[len(ctx.inquiries)-1]
		case "REF":
			if ctx.inquiry != nil {
				ctx.inquiry.ClaimID = seg.Element(2)
			}
		case "AMT":
			if ctx.inquiry != nil {
				ctx.inquiry.Amount = parseAmount(seg.Element(2))
			}
		case "DTP":
			if ctx.inquiry != nil {
				ctx.inquiry.ServiceDate = normalizeDate(seg.Element(3))
			}
		case "STC":
			cc := seg.Components(1, d)
			status := model.StatusInfo{
				EffectiveDate: normalizeDate(seg.Element(2)),
				ChargeAmount:  parseAmount(seg.Element(4)),
				PaidAmount:    parseAmount(seg.Element(5)),
			}
			if len(cc) > 0 {
				status.CategoryCode = cc[0]
			}
			if len(cc) > 1 {
				status.StatusCode = cc[1]
			}
			if len(cc) > 2 {
				status.EntityCode = cc[2]
			}
			ctx.statuses = append(ctx.statuses, status)
		}
	}
	if code == "277" {
		return &model.ClaimStatusResponse{
			Source:     ctx.source,
			Receiver:   ctx.receiver,
			Provider:   ctx.provider,
			Subscriber: ctx.subscriber,
			Dependent:  ctx.dependent,
			Statuses:   ctx.statuses,
			Loops:      ctx.tree.roots,
		}, nil, nil
	}
	return &model.ClaimStatusInquiry{
		Source:     ctx.source,
		Receiver:   ctx.receiver,
		Provider:   ctx.provider,
		Subscriber: ctx.subscriber,
		Dependent:  ctx.dependent,
		Inquiries:  ctx.inquiries,
		Loops:      ctx.tree.roots,
	}, nil, nil
}

func (ctx *claimStatusContext) consumeName(seg x12.Segment) {
	entity := model.Entity{
		LastName:    seg.Element(3),
		FirstName:   seg.Element(4),
		IDQualifier: seg.Element(8),
		ID:          seg.Element(9),
	}
	switch ctx.tree.level() {
	case model.LevelInformationSource:
		ctx.source = entity
	case model.LevelInformationReceiver:
		ctx.receiver = entity
	case model.LevelProvider:
		ctx.provider = entity
	case model.LevelSubscriber:
		ctx.subscriber.Entity = entity
	case model.LevelDependent:
		if ctx.dependent == nil {
			ctx.dependent = &model.SubscriberInfo{}
		}
		ctx.dependent.Entity = entity
	}
}

func (ctx *claimStatusContext) consumeDemographics(seg x12.Segment) {
	birth := normalizeDate(seg.Element(2))
	gender := seg.Element(3)
	switch ctx.tree.level() {
	case model.LevelSubscriber:
		ctx.subscriber.BirthDate = birth
		ctx.subscriber.Gender = gender
	case model.LevelDependent:
		if ctx.dependent == nil {
			ctx.dependent = &model.SubscriberInfo{}
		}
		ctx.dependent.BirthDate = birth
		ctx.dependent.Gender = gender
	}
}
