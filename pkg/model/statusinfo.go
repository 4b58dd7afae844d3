package model

// SubscriberInfo is a subscriber or dependent resolved from a hierarchical
// loop, with demographics from the DMG segment.
type SubscriberInfo struct {
	Entity
	BirthDate string
	Gender    string
}

// BenefitInquiry is one eligibility question (EQ).
type BenefitInquiry struct {
	ServiceType   string
	CoverageLevel string
}

// BenefitInfo is one eligibility or benefit answer (EB).
type BenefitInfo struct {
	InfoCode        string
	CoverageLevel   string
	ServiceType     string
	PlanDescription string
	Amount          float64
}

// EligibilityInquiry is the payload of a 270 transaction.
type EligibilityInquiry struct {
	Source     Entity
	Receiver   Entity
	Subscriber SubscriberInfo
	Dependent  *SubscriberInfo
	Dates      []DateValue
	Inquiries  []BenefitInquiry
	Loops      []*LoopNode
}

func (*EligibilityInquiry) Kind() PayloadKind { return KindEligibilityInquiry }

// EligibilityResponse is the payload of a 271 transaction.
type EligibilityResponse struct {
	Source     Entity
	Receiver   Entity
	Subscriber SubscriberInfo
	Dependent  *SubscriberInfo
	Dates      []DateValue
	Benefits   []BenefitInfo
	Loops      []*LoopNode
}

func (*EligibilityResponse) Kind() PayloadKind { return KindEligibilityResp }

// StatusInquiry is one claim-status question (TRN plus its qualifiers).
type StatusInquiry struct {
	TraceID     string
	ClaimID     string
	Amount      float64
	ServiceDate string
}

// StatusInfo is one claim-status answer (STC).
type StatusInfo struct {
	CategoryCode  string
	StatusCode    string
	EntityCode    string
	EffectiveDate string
	ChargeAmount  float64
	PaidAmount    float64
}

// ClaimStatusInquiry is the payload of a 276 transaction.
type ClaimStatusInquiry struct {
	Source     Entity
	Receiver   Entity
	Provider   Entity
	Subscriber SubscriberInfo
	Dependent  *SubscriberInfo
	Inquiries  []StatusInquiry
	Loops      []*LoopNode
}

func (*ClaimStatusInquiry) Kind() PayloadKind { return KindClaimStatusInquiry }

// ClaimStatusResponse is the payload of a 277 transaction.
type ClaimStatusResponse struct {
	Source     Entity
	Receiver   Entity
	Provider   Entity
	Subscriber SubscriberInfo
	Dependent  *SubscriberInfo
	Statuses   []StatusInfo
	Loops      []*LoopNode
}

func (*ClaimStatusResponse) Kind() PayloadKind { return KindClaimStatusResp }
