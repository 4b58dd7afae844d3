package rules

import (
	"strings"
	"testing"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
)

func testDoc() *model.Document {
	ra := &model.RemittanceAdvice{
		Financial: model.FinancialInfo{PaidAmount: 150, Method: "ACH", Date: "2024-01-15"},
		Payee:     model.Party{Name: "CLINIC", IDQualifier: "XX", ID: "1234567893"},
		Claims: []*model.Claim{
			{ID: "A1", StatusCode: "1", ChargeAmount: 200, PaidAmount: 150},
		},
	}
	return &model.Document{
		Interchanges: []*model.Interchange{{
			Groups: []*model.FunctionalGroup{{
				Transactions: []*model.Transaction{{SetCode: "835", Payload: ra}},
			}},
		}},
	}
}

func TestFieldRulePassAndFail(t *testing.T) {
	e := NewEngine()
	e.AddFieldRules(
		FieldRule{Path: "financial.paid_amount", Check: "currency"},
		FieldRule{Path: "financial.method", Check: "enum", Params: []any{"CHK", "BOP"}},
	)
	result := e.Run(testDoc())
	if len(result.Findings) != 1 {
		t.Fatalf("expected one finding, got %v", result.Findings)
	}
	f := result.Findings[0]
	if f.Code != "field-enum" {
		t.Fatalf("unexpected code: %q", f.Code)
	}
	if f.Path != "interchanges[0].groups[0].transactions[0].financial.method" {
		t.Fatalf("unexpected path: %q", f.Path)
	}
	if f.Severity != finding.SeverityError || result.Valid {
		t.Fatal("expected an error finding to invalidate the result")
	}
}

func TestFieldRuleIndexedPath(t *testing.T) {
	e := NewEngine()
	e.AddFieldRules(FieldRule{
		Path:     "claims[0].id",
		Check:    "regex",
		Params:   []any{`^\d+$`},
		Severity: finding.SeverityWarning,
	})
	result := e.Run(testDoc())
	if len(result.Findings) != 1 {
		t.Fatalf("expected one finding, got %v", result.Findings)
	}
	if !result.Valid {
		t.Fatal("a warning finding must not invalidate the result")
	}
}

func TestFieldRuleAbsentPathNotApplicable(t *testing.T) {
	e := NewEngine()
	e.AddFieldRules(FieldRule{Path: "no.such.section", Check: "currency"})
	if result := e.Run(testDoc()); len(result.Findings) != 0 {
		t.Fatalf("expected no findings for an absent path, got %v", result.Findings)
	}
}

func TestExprRule(t *testing.T) {
	e := NewEngine()
	e.AddExprRules(
		ExprRule{Name: "is-remit", Expression: `set_code == "835"`},
		ExprRule{Name: "is-claim", Expression: `set_code == "837"`, Message: "not a claim"},
	)
	result := e.Run(testDoc())
	if len(result.Findings) != 1 {
		t.Fatalf("expected one finding, got %v", result.Findings)
	}
	f := result.Findings[0]
	if f.Code != "expression-rule-violation" || f.Message != "not a claim" {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestExprRuleParseFailure(t *testing.T) {
	e := NewEngine()
	e.AddExprRules(ExprRule{Name: "broken", Expression: `((`})
	result := e.Run(testDoc())
	if len(result.Findings) != 1 || result.Findings[0].Code != "rule-evaluation-failure" {
		t.Fatalf("expected a rule-evaluation-failure, got %v", result.Findings)
	}
	if !strings.Contains(result.Findings[0].Message, "broken") {
		t.Fatalf("expected the rule name in the message, got %q", result.Findings[0].Message)
	}
}

func TestBusinessRuleIsolation(t *testing.T) {
	e := NewEngine()
	e.AddBusinessRules(
		BusinessRule{Name: "explodes", Fn: func(tx *model.Transaction, path string) []finding.Finding {
			panic("boom")
		}},
		BusinessRule{Name: "survives", Fn: func(tx *model.Transaction, path string) []finding.Finding {
			return []finding.Finding{{Code: "survivor", Severity: finding.SeverityInfo}}
		}},
	)
	result := e.Run(testDoc())
	codes := map[string]int{}
	for _, f := range result.Findings {
		codes[f.Code]++
	}
	if codes["rule-evaluation-failure"] != 1 {
		t.Fatalf("expected the panic converted to a finding, got %v", codes)
	}
	if codes["survivor"] != 1 {
		t.Fatal("expected the later rule to run despite the earlier panic")
	}
}

func TestDefaultEngineCleanDocument(t *testing.T) {
	result := DefaultEngine().Run(testDoc())
	if len(result.Findings) != 0 || !result.Valid {
		t.Fatalf("expected a clean run, got %v", result.Findings)
	}
}

func TestEngineSkipsTransactionsWithoutPayload(t *testing.T) {
	doc := &model.Document{
		Interchanges: []*model.Interchange{{
			Groups: []*model.FunctionalGroup{{
				Transactions: []*model.Transaction{{SetCode: "999"}},
			}},
		}},
	}
	e := NewEngine()
	e.AddFieldRules(FieldRule{Path: "set_code", Check: "enum", Params: []any{"835"}})
	if result := e.Run(doc); len(result.Findings) != 0 {
		t.Fatalf("expected payload-less transactions skipped, got %v", result.Findings)
	}
}
