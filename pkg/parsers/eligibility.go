package parsers

import (
	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// Eligibility270 parses both sides of the eligibility exchange: the 270
// inquiry and the 271 response. One capability claims both codes; Parse
// branches on the transaction-set code found in ST.
type Eligibility270 struct{}

// NewEligibility270 returns the eligibility grammar capability.
func NewEligibility270() *Eligibility270 { return &Eligibility270{} }

func (*Eligibility270) SupportedCodes() []string { return []string{"270", "271"} }

// Probe checks for the ST envelope, the BHT business header, and at least
// one hierarchical loop declaration.
func (*Eligibility270) Probe(segs []x12.Segment) bool {
	var hasST, hasBHT, hasHL bool
	for _, seg := range segs {
		switch seg.ID() {
		case "ST":
			code := seg.Element(1)
			hasST = code == "270" || code == "271"
		case "BHT":
			hasBHT = true
		case "HL":
			hasHL = true
		}
	}
	return hasST && hasBHT && hasHL
}

// eligibilityContext threads the loop tree and the role targets through the
// segment loop. Entities attach to the role implied by the level code of the
// nearest enclosing loop node.
type eligibilityContext struct {
	tree *loopTree

	source     model.Entity
	receiver   model.Entity
	subscriber model.SubscriberInfo
	dependent  *model.SubscriberInfo
	dates      []model.DateValue
	inquiries  []model.BenefitInquiry
	benefits   []model.BenefitInfo
}

func (*Eligibility270) Parse(segs []x12.Segment, d x12.Delimiters) (model.TransactionPayload, []finding.Finding, error) {
	code := ""
	ctx := &eligibilityContext{tree: newLoopTree()}
	for _, seg := range segs {
		switch seg.ID() {
		case "ST":
			code = seg.Element(1)
		case "HL":
			ctx.tree.addSegment(seg)
		case "NM1":
			ctx.consumeName(seg)
		case "DMG":
			ctx.consumeDemographics(seg)
		case "DTP":
			ctx.dates = append(ctx.dates, model.DateValue{
				Qualifier: seg.Element(1),
				Date:      normalizeDate(seg.Element(3)),
			})
		case "EQ":
			ctx.inquiries = append(ctx.inquiries, model.BenefitInquiry{
				ServiceType:   seg.Element(1),
				CoverageLevel: seg.Element(3),
			})
		case "EB":
			ctx.benefits = append(ctx.benefits, model.BenefitInfo{
				InfoCode:        seg.Element(1),
				CoverageLevel:   seg.Element(2),
				ServiceType:     seg.Element(3),
				PlanDescription: seg.Element(5),
				Amount:          parseAmount(seg.Element(7)),
			})
		}
	}
	if code == "271" {
		return &model.EligibilityResponse{
			Source:     ctx.source,
			Receiver:   ctx.receiver,
			Subscriber: ctx.subscriber,
			Dependent:  ctx.dependent,
			Dates:      ctx.dates,
			Benefits:   ctx.benefits,
			Loops:      ctx.tree.roots,
		}, nil, nil
	}
	return &model.EligibilityInquiry{
		Source:     ctx.source,
		Receiver:   ctx.receiver,
		Subscriber: ctx.subscriber,
		Dependent:  ctx.dependent,
		Dates:      ctx.dates,
		Inquiries:  ctx.inquiries,
		Loops:      ctx.tree.roots,
	}, nil, nil
}

func (ctx *eligibilityContext) consumeName(seg x12.Segment) {
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
	case model.LevelSubscriber:
		ctx.subscriber.Entity = entity
	case model.LevelDependent:
		if ctx.dependent == nil {
			ctx.dependent = &model.SubscriberInfo{}
		}
		ctx.dependent.Entity = entity
	}
}

func (ctx *eligibilityContext) consumeDemographics(seg x12.Segment) {
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
