// Package edi parses and validates X12 healthcare interchanges: remittance
// advice (835), professional claims (837P), eligibility (270/271), and claim
// status (276/277). Parsing is maximally permissive: malformed structure
// produces findings, never a lost document.
package edi

import (
	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/registry"
	"github.com/oarkflow/edi/pkg/rules"
	"github.com/oarkflow/edi/pkg/x12"
)

// Parser ties together tokenization, envelope assembly, transaction-set
// dispatch, and the validation engine.
type Parser struct {
	delims   x12.Delimiters
	detect   bool
	registry *registry.Registry
	engine   *rules.Engine
}

// New builds a parser with the standard delimiters, the built-in
// transaction-set registry, and the standard business rules.
func New(opts ...Option) (*Parser, error) {
	p := &Parser{
		delims:   x12.DefaultDelimiters(),
		registry: registry.Default(),
		engine:   rules.DefaultEngine(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse tokenizes raw input and assembles the envelope tree, dispatching
// each transaction to its grammar. Empty input yields an empty document.
// The returned findings cover structure and payload parsing; run Validate
// for rule findings.
func (p *Parser) Parse(raw []byte) (*model.Document, []finding.Finding, error) {
	delims := p.delims
	if p.detect {
		if d, ok := x12.DetectDelimiters(raw); ok {
			delims = d
		}
	}
	segs := x12.Tokenize(raw, delims)
	doc, findings := x12.BuildEnvelope(segs, delims, p.registry)
	return doc, findings, nil
}

// Validate runs the rule engine over a parsed document.
func (p *Parser) Validate(doc *model.Document) finding.Result {
	return p.engine.Run(doc)
}

// ParseAndValidate parses raw input and folds the structural findings and
// rule findings into one result.
func (p *Parser) ParseAndValidate(raw []byte) (*model.Document, finding.Result, error) {
	doc, parseFindings, err := p.Parse(raw)
	if err != nil {
		return nil, finding.Result{}, err
	}
	result := p.engine.Run(doc)
	result = finding.NewResult(append(parseFindings, result.Findings...))
	return doc, result, nil
}
