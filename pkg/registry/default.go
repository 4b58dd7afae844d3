package registry

import "github.com/oarkflow/edi/pkg/parsers"

// builtinCapabilities lists the standard healthcare grammars. One parser per
// transaction type; the eligibility and claim-status capabilities each claim
// both sides of their exchange.
func builtinCapabilities() []Capability {
	return []Capability{
		parsers.NewRemittance835(),
		parsers.NewProfessional837(),
		parsers.NewEligibility270(),
		parsers.NewClaimStatus276(),
	}
}
