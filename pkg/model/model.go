package model

// Document is the root of a parsed transmission: an ordered sequence of
// interchanges. Every node below it is built once during a single forward
// pass over the wire segments and is read-only afterwards.
type Document struct {
	Interchanges []*Interchange
}

// Interchange is the outermost envelope (ISA/IEA pair).
type Interchange struct {
	SenderQualifier   string
	SenderID          string
	ReceiverQualifier string
	ReceiverID        string
	Date              string
	Time              string
	ControlNumber     string

	// TrailerControlNumber is IEA02; it must match ControlNumber.
	TrailerControlNumber string

	Groups []*FunctionalGroup
}

// FunctionalGroup groups related transactions under one sender/receiver and
// control number (GS/GE pair).
type FunctionalGroup struct {
	FunctionalCode string
	SenderCode     string
	ReceiverCode   string
	Date           string
	Time           string
	ControlNumber  string

	// TrailerControlNumber is GE02; it must match ControlNumber.
	TrailerControlNumber string

	Transactions []*Transaction
}

// Transaction is one complete business document bounded by ST/SE.
type Transaction struct {
	SetCode       string
	ControlNumber string

	// TrailerControlNumber is SE02; it must match ControlNumber.
	TrailerControlNumber string

	// DeclaredSegmentCount is SE01. ActualSegmentCount is the literal count
	// of segments from ST to SE inclusive. A mismatch is reported as a
	// finding, not treated as fatal.
	DeclaredSegmentCount int
	ActualSegmentCount   int

	Payload TransactionPayload
}

// PayloadKind tags the six transaction payload variants.
type PayloadKind string

const (
	KindRemittanceAdvice   PayloadKind = "remittance_advice"
	KindProfessionalClaim  PayloadKind = "professional_claim"
	KindEligibilityInquiry PayloadKind = "eligibility_inquiry"
	KindEligibilityResp    PayloadKind = "eligibility_response"
	KindClaimStatusInquiry PayloadKind = "claim_status_inquiry"
	KindClaimStatusResp    PayloadKind = "claim_status_response"
)

// TransactionPayload is the tagged union over the six transaction types.
// Render projects the payload into generic maps/arrays for emitters and for
// field-path rule addressing.
type TransactionPayload interface {
	Kind() PayloadKind
	Render() map[string]any
}

// Party identifies an organization named by an N1 loop (name, identifier
// qualifier, identifier).
type Party struct {
	Name        string
	IDQualifier string
	ID          string
}

// Entity identifies a person or organization named by an NM1 segment.
type Entity struct {
	LastName    string
	FirstName   string
	IDQualifier string
	ID          string
}

// Reference is a qualified reference number (REF).
type Reference struct {
	Qualifier string
	Value     string
}

// DateValue is a qualified date (DTM/DTP), normalized to YYYY-MM-DD.
type DateValue struct {
	Qualifier string
	Date      string
}

// CompositeCode is a composite procedure/service code
// (qualifier:code:modifiers).
type CompositeCode struct {
	Qualifier string
	Code      string
	Modifiers []string
}
