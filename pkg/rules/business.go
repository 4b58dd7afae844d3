package rules

import (
	"fmt"
	"math"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
)

// balanceTolerance is the fixed tolerance for financial reconciliation.
const balanceTolerance = 0.01

// BusinessRule is an arbitrary function over a transaction. The engine
// guards every rule, so a failure in one cannot suppress the rest.
type BusinessRule struct {
	Name string
	Fn   func(tx *model.Transaction, path string) []finding.Finding
}

// StandardBusinessRules returns the built-in cross-field rules.
func StandardBusinessRules() []BusinessRule {
	return []BusinessRule{
		{Name: "remittance-balance", Fn: remittanceBalance},
		{Name: "service-line-balance", Fn: serviceLineBalance},
		{Name: "payment-heuristics", Fn: paymentHeuristics},
		{Name: "provider-identifier-checksum", Fn: providerIdentifiers},
	}
}

// remittanceBalance reconciles the sum of claim payments plus
// provider-level adjustments against the header's total paid amount.
func remittanceBalance(tx *model.Transaction, path string) []finding.Finding {
	ra, ok := tx.Payload.(*model.RemittanceAdvice)
	if !ok {
		return nil
	}
	var claimsTotal, adjustmentsTotal float64
	for _, c := range ra.Claims {
		claimsTotal += c.PaidAmount
	}
	for _, p := range ra.ProviderAdjustments {
		adjustmentsTotal += p.Amount
	}
	diff := math.Abs(ra.Financial.PaidAmount - (claimsTotal + adjustmentsTotal))
	if diff <= balanceTolerance {
		return nil
	}
	return []finding.Finding{{
		Code:     "payment-balance-mismatch",
		Message:  fmt.Sprintf("claim payments %.2f plus provider adjustments %.2f do not reconcile with total paid %.2f", claimsTotal, adjustmentsTotal, ra.Financial.PaidAmount),
		Severity: finding.SeverityWarning,
		Category: finding.CategoryBusiness,
		Path:     path + ".financial.paid_amount",
		Context: map[string]any{
			"claims_total":         claimsTotal,
			"provider_adjustments": adjustmentsTotal,
			"header_paid_amount":   ra.Financial.PaidAmount,
			"difference":           diff,
			"tolerance":            balanceTolerance,
		},
	}}
}

// serviceLineBalance reconciles each claim's service-line payments against
// the claim-level paid amount.
func serviceLineBalance(tx *model.Transaction, path string) []finding.Finding {
	ra, ok := tx.Payload.(*model.RemittanceAdvice)
	if !ok {
		return nil
	}
	var out []finding.Finding
	for i, c := range ra.Claims {
		if len(c.Services) == 0 {
			continue
		}
		var paid float64
		for _, s := range c.Services {
			paid += s.PaidAmount
		}
		diff := math.Abs(c.PaidAmount - paid)
		if diff <= balanceTolerance {
			continue
		}
		out = append(out, finding.Finding{
			Code:     "service-line-balance-mismatch",
			Message:  fmt.Sprintf("claim %s service lines pay %.2f but the claim pays %.2f", c.ID, paid, c.PaidAmount),
			Severity: finding.SeverityWarning,
			Category: finding.CategoryBusiness,
			Path:     fmt.Sprintf("%s.claims[%d].paid_amount", path, i),
			Context: map[string]any{
				"claim_id":      c.ID,
				"services_paid": paid,
				"claim_paid":    c.PaidAmount,
				"difference":    diff,
				"tolerance":     balanceTolerance,
			},
		})
	}
	return out
}

// deniedStatusCode is the claim status meaning the payer denied the claim;
// a zero payment on a denied claim is expected and not flagged.
const deniedStatusCode = "4"

// paymentHeuristics flags overpaid and unexpectedly unpaid claims.
func paymentHeuristics(tx *model.Transaction, path string) []finding.Finding {
	ra, ok := tx.Payload.(*model.RemittanceAdvice)
	if !ok {
		return nil
	}
	var out []finding.Finding
	for i, c := range ra.Claims {
		claimPath := fmt.Sprintf("%s.claims[%d]", path, i)
		if c.PaidAmount > c.ChargeAmount+balanceTolerance {
			out = append(out, finding.Finding{
				Code:     "claim-overpayment",
				Message:  fmt.Sprintf("claim %s paid %.2f exceeds billed %.2f", c.ID, c.PaidAmount, c.ChargeAmount),
				Severity: finding.SeverityWarning,
				Category: finding.CategoryBusiness,
				Path:     claimPath + ".paid_amount",
				Context:  map[string]any{"claim_id": c.ID, "paid": c.PaidAmount, "charged": c.ChargeAmount},
			})
		}
		if c.PaidAmount == 0 && c.StatusCode != deniedStatusCode {
			out = append(out, finding.Finding{
				Code:     "claim-zero-payment",
				Message:  fmt.Sprintf("claim %s paid nothing but was not denied (status %s)", c.ID, c.StatusCode),
				Severity: finding.SeverityInfo,
				Category: finding.CategoryBusiness,
				Path:     claimPath + ".paid_amount",
				Context:  map[string]any{"claim_id": c.ID, "status_code": c.StatusCode},
			})
		}
	}
	return out
}

// npiQualifier marks an identifier as a national provider identifier.
const npiQualifier = "XX"

// providerIdentifiers checksums every 10-digit provider identifier carried
// with the NPI qualifier, dispatching exhaustively over the six payload
// variants.
func providerIdentifiers(tx *model.Transaction, path string) []finding.Finding {
	var out []finding.Finding
	check := func(qualifier, id, fieldPath string) {
		if qualifier != npiQualifier || id == "" {
			return
		}
		if ValidNPI(id) {
			return
		}
		out = append(out, finding.Finding{
			Code:     "invalid-provider-identifier",
			Message:  fmt.Sprintf("provider identifier %q fails the checksum", id),
			Severity: finding.SeverityError,
			Category: finding.CategoryCompliance,
			Path:     path + "." + fieldPath,
			Context:  map[string]any{"identifier": id},
		})
	}
	switch p := tx.Payload.(type) {
	case *model.RemittanceAdvice:
		check(p.Payee.IDQualifier, p.Payee.ID, "payee.id")
		for _, adj := range p.ProviderAdjustments {
			if adj.ProviderID != "" && !ValidNPI(adj.ProviderID) {
				out = append(out, finding.Finding{
					Code:     "invalid-provider-identifier",
					Message:  fmt.Sprintf("provider identifier %q fails the checksum", adj.ProviderID),
					Severity: finding.SeverityError,
					Category: finding.CategoryCompliance,
					Path:     path + ".provider_adjustments",
					Context:  map[string]any{"identifier": adj.ProviderID},
				})
				break
			}
		}
	case *model.ProfessionalClaim:
		check(p.BillingProvider.IDQualifier, p.BillingProvider.ID, "billing_provider.id")
		check(p.RenderingProvider.IDQualifier, p.RenderingProvider.ID, "rendering_provider.id")
	case *model.EligibilityInquiry:
		check(p.Receiver.IDQualifier, p.Receiver.ID, "receiver.id")
	case *model.EligibilityResponse:
		check(p.Receiver.IDQualifier, p.Receiver.ID, "receiver.id")
	case *model.ClaimStatusInquiry:
		check(p.Provider.IDQualifier, p.Provider.ID, "provider.id")
	case *model.ClaimStatusResponse:
		check(p.Provider.IDQualifier, p.Provider.ID, "provider.id")
	}
	return out
}
