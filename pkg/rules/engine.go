package rules

import (
	"fmt"
	"strings"

	"github.com/oarkflow/dipper"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
)

// FieldRule validates one field addressed by a path into the rendered
// transaction, e.g. "claims[0].services[0].charge_amount". An absent path
// means the rule is not applicable, never an error.
type FieldRule struct {
	Path     string
	Check    string
	Params   []any
	Severity finding.Severity
	Category finding.Category
	Message  string
}

// Engine runs field, expression, and business rules over a fully built
// document. It never mutates the document, and every applicable rule
// executes: an internal failure inside one rule becomes a synthetic
// error finding instead of stopping the run.
type Engine struct {
	fieldRules []FieldRule
	exprRules  []ExprRule
	business   []BusinessRule
}

// NewEngine returns an engine with no rules installed.
func NewEngine() *Engine {
	return &Engine{}
}

// DefaultEngine returns an engine with the standard business rules.
func DefaultEngine() *Engine {
	e := NewEngine()
	e.business = StandardBusinessRules()
	return e
}

// AddFieldRules appends field rules to the run.
func (e *Engine) AddFieldRules(rules ...FieldRule) {
	e.fieldRules = append(e.fieldRules, rules...)
}

// AddExprRules appends expression rules to the run.
func (e *Engine) AddExprRules(rules ...ExprRule) {
	e.exprRules = append(e.exprRules, rules...)
}

// AddBusinessRules appends custom cross-field rules to the run.
func (e *Engine) AddBusinessRules(rules ...BusinessRule) {
	e.business = append(e.business, rules...)
}

// Run evaluates every rule against every transaction and returns the
// ordered findings plus the derived validity flag.
func (e *Engine) Run(doc *model.Document) finding.Result {
	var findings []finding.Finding
	for ii, ic := range doc.Interchanges {
		for gi, g := range ic.Groups {
			for ti, tx := range g.Transactions {
				if tx.Payload == nil {
					continue
				}
				path := fmt.Sprintf("interchanges[%d].groups[%d].transactions[%d]", ii, gi, ti)
				findings = append(findings, e.runTransaction(tx, path)...)
			}
		}
	}
	return finding.NewResult(findings)
}

func (e *Engine) runTransaction(tx *model.Transaction, path string) []finding.Finding {
	rendered := tx.Render()
	var out []finding.Finding
	for _, rule := range e.fieldRules {
		out = append(out, guard("field:"+rule.Path, path, func() []finding.Finding {
			return e.runFieldRule(rule, rendered, path)
		})...)
	}
	for _, rule := range e.exprRules {
		out = append(out, guard("expr:"+rule.Name, path, func() []finding.Finding {
			return rule.run(rendered, path)
		})...)
	}
	for _, rule := range e.business {
		out = append(out, guard(rule.Name, path, func() []finding.Finding {
			return rule.Fn(tx, path)
		})...)
	}
	return out
}

func (e *Engine) runFieldRule(rule FieldRule, rendered map[string]any, txPath string) []finding.Finding {
	value, err := dipper.Get(rendered, normalizePath(rule.Path))
	if err != nil {
		// The addressed section is absent: the rule does not apply.
		return nil
	}
	check := GetCheck(rule.Check, rule.Params...)
	checkErr := check(value)
	if checkErr == nil {
		return nil
	}
	severity := rule.Severity
	if severity == "" {
		severity = finding.SeverityError
	}
	category := rule.Category
	if category == "" {
		category = finding.CategoryFormat
	}
	message := rule.Message
	if message == "" {
		message = checkErr.Error()
	}
	return []finding.Finding{{
		Code:     "field-" + rule.Check,
		Message:  message,
		Severity: severity,
		Category: category,
		Path:     txPath + "." + rule.Path,
		Context:  map[string]any{"value": value},
	}}
}

// guard converts a panic inside one rule into a synthetic error finding
// naming the failing rule, so a broken rule cannot suppress the rest.
func guard(name, path string, fn func() []finding.Finding) (out []finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			out = []finding.Finding{{
				Code:     "rule-evaluation-failure",
				Message:  fmt.Sprintf("rule %s failed: %v", name, r),
				Severity: finding.SeverityError,
				Category: finding.CategoryBusiness,
				Path:     path,
				Context:  map[string]any{"rule": name},
			}}
		}
	}()
	return fn()
}

// normalizePath rewrites bracket indexes to the dotted form the path
// resolver expects: claims[0].id -> claims.0.id.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "[", ".")
	return strings.ReplaceAll(p, "]", "")
}
