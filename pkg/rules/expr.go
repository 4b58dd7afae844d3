package rules

import (
	"fmt"

	"github.com/oarkflow/expr"

	"github.com/oarkflow/edi/pkg/finding"
)

// ExprRule evaluates a boolean expression against the rendered transaction.
// The expression sees the same snake_case fields as path rules, e.g.
// `type != "remittance_advice" || financial.paid_amount >= 0`. A false
// result raises the configured finding; a parse or evaluation failure
// raises a rule-evaluation-failure finding instead of being swallowed.
type ExprRule struct {
	Name       string
	Expression string
	Message    string
	Severity   finding.Severity
	Category   finding.Category
}

func (r ExprRule) run(rendered map[string]any, txPath string) []finding.Finding {
	program, err := expr.Parse(r.Expression)
	if err != nil {
		return []finding.Finding{r.failure(txPath, fmt.Sprintf("parse error: %v", err))}
	}
	result, err := program.Eval(rendered)
	if err != nil {
		return []finding.Finding{r.failure(txPath, fmt.Sprintf("evaluation error: %v", err))}
	}
	ok, isBool := result.(bool)
	if !isBool {
		return []finding.Finding{r.failure(txPath, fmt.Sprintf("expression yielded %T, want bool", result))}
	}
	if ok {
		return nil
	}
	severity := r.Severity
	if severity == "" {
		severity = finding.SeverityError
	}
	category := r.Category
	if category == "" {
		category = finding.CategoryBusiness
	}
	message := r.Message
	if message == "" {
		message = fmt.Sprintf("expression %q is false", r.Expression)
	}
	return []finding.Finding{{
		Code:     "expression-rule-violation",
		Message:  message,
		Severity: severity,
		Category: category,
		Path:     txPath,
		Context:  map[string]any{"rule": r.Name, "expression": r.Expression},
	}}
}

func (r ExprRule) failure(txPath, detail string) finding.Finding {
	return finding.Finding{
		Code:     "rule-evaluation-failure",
		Message:  fmt.Sprintf("rule %s failed: %s", r.Name, detail),
		Severity: finding.SeverityError,
		Category: finding.CategoryBusiness,
		Path:     txPath,
		Context:  map[string]any{"rule": r.Name, "expression": r.Expression},
	}
}
