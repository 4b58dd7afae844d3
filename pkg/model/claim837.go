package model

// ProfessionalClaim is the payload of an 837P transaction.
type ProfessionalClaim struct {
	Submitter         Entity
	Receiver          Entity
	BillingProvider   Entity
	RenderingProvider Entity
	Payer             Entity
	Subscriber        Subscriber
	Patient           *Entity
	Claim             ClaimHeader
	Diagnoses         []string
	ServiceLines      []*ServiceLine
}

func (*ProfessionalClaim) Kind() PayloadKind { return KindProfessionalClaim }

// Subscriber combines the subscriber's identity with the coverage facts
// from the SBR segment.
type Subscriber struct {
	Entity
	PayerResponsibility string
	Relationship        string
	GroupNumber         string
	ClaimFilingCode     string
}

// ClaimHeader carries the claim-level facts of a CLM segment.
type ClaimHeader struct {
	ID             string
	ChargeAmount   float64
	PlaceOfService string
	Frequency      string
}

// ServiceLine is one professional service line (LX/SV1 loop).
type ServiceLine struct {
	Procedure         CompositeCode
	ChargeAmount      float64
	Unit              string
	Units             float64
	DiagnosisPointers []string
	Date              string
}
