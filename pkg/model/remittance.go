package model

// FinancialInfo carries the payment-level facts of an 835 (BPR).
type FinancialInfo struct {
	PaidAmount float64
	Method     string
	Date       string
}

// RemittanceAdvice is the payload of an 835 transaction.
type RemittanceAdvice struct {
	Financial           FinancialInfo
	Payer               Party
	Payee               Party
	References          []Reference
	Dates               []DateValue
	Claims              []*Claim
	ProviderAdjustments []ProviderAdjustment
}

func (*RemittanceAdvice) Kind() PayloadKind { return KindRemittanceAdvice }

// Claim is one billed claim inside a remittance (CLP loop).
type Claim struct {
	ID                    string
	StatusCode            string
	ChargeAmount          float64
	PaidAmount            float64
	PatientResponsibility float64
	PayerControlNumber    string
	Adjustments           []Adjustment
	Services              []*Service
}

// Adjustment is a reason-coded payment adjustment (CAS).
type Adjustment struct {
	GroupCode  string
	ReasonCode string
	Amount     float64
	Quantity   float64
}

// Service is one billed service line inside a claim (SVC loop).
type Service struct {
	Procedure    CompositeCode
	ChargeAmount float64
	PaidAmount   float64
	RevenueCode  string
	Date         string
	Adjustments  []Adjustment
}

// ProviderAdjustment is a provider-level adjustment (PLB). Amounts here
// participate in the payment balance alongside claim payments.
type ProviderAdjustment struct {
	ProviderID   string
	FiscalPeriod string
	Reason       string
	Reference    string
	Amount       float64
}
