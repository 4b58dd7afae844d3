package x12

import (
	"fmt"
	"strconv"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
)

// Dispatcher resolves a transaction-set code to a payload parser and runs it
// over the transaction's segments (ST through SE inclusive).
type Dispatcher interface {
	Dispatch(code string, segs []Segment, d Delimiters) (model.TransactionPayload, []finding.Finding, error)
}

// BuildEnvelope reconstructs the interchange/group/transaction skeleton from
// an ordered segment stream. It is maximally permissive: structural gaps and
// control-number or count mismatches become findings, and the best document
// that can be assembled is always returned. Empty input yields an empty
// document with zero interchanges.
func BuildEnvelope(segs []Segment, delims Delimiters, d Dispatcher) (*model.Document, []finding.Finding) {
	b := &envelopeBuilder{doc: &model.Document{}, delims: delims, dispatcher: d}
	for _, seg := range segs {
		b.consume(seg)
	}
	b.finish()
	return b.doc, b.findings
}

type envelopeBuilder struct {
	doc        *model.Document
	delims     Delimiters
	dispatcher Dispatcher
	findings   []finding.Finding

	interchange *model.Interchange
	group       *model.FunctionalGroup

	txSegments []Segment
	inTx       bool
}

func (b *envelopeBuilder) consume(seg Segment) {
	if b.inTx {
		switch seg.ID() {
		case isaSegmentID, ieaSegmentID, gsSegmentID, geSegmentID, stSegmentID:
			b.report(finding.Finding{
				Code:     "unterminated-transaction",
				Message:  "envelope segment encountered before the transaction trailer",
				Severity: finding.SeverityError,
				Category: finding.CategoryStructural,
				Path:     b.txPath(),
			})
			b.closeTransaction(Segment{})
		case seSegmentID:
			b.txSegments = append(b.txSegments, seg)
			b.closeTransaction(seg)
			return
		default:
			b.txSegments = append(b.txSegments, seg)
			return
		}
	}
	switch seg.ID() {
	case isaSegmentID:
		b.openInterchange(seg)
	case ieaSegmentID:
		b.closeInterchange(seg)
	case gsSegmentID:
		b.openGroup(seg)
	case geSegmentID:
		b.closeGroup(seg)
	case stSegmentID:
		b.inTx = true
		b.txSegments = []Segment{seg}
	case seSegmentID:
		b.report(finding.Finding{
			Code:     "orphan-transaction-trailer",
			Message:  "SE trailer without a matching ST header",
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
		})
	}
}

func (b *envelopeBuilder) finish() {
	if b.inTx {
		b.report(finding.Finding{
			Code:     "unterminated-transaction",
			Message:  "input ended before the transaction trailer",
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
			Path:     b.txPath(),
		})
		b.closeTransaction(Segment{})
	}
}

func (b *envelopeBuilder) openInterchange(seg Segment) {
	ic := &model.Interchange{
		SenderQualifier:   seg.Element(isaIndexSenderIDQualifier),
		SenderID:          trimPadding(seg.Element(isaIndexSenderID)),
		ReceiverQualifier: seg.Element(isaIndexReceiverQualifier),
		ReceiverID:        trimPadding(seg.Element(isaIndexReceiverID)),
		Date:              seg.Element(isaIndexDate),
		Time:              seg.Element(isaIndexTime),
		ControlNumber:     seg.Element(isaIndexControlNumber),
	}
	b.doc.Interchanges = append(b.doc.Interchanges, ic)
	b.interchange = ic
	b.group = nil
}

func (b *envelopeBuilder) closeInterchange(seg Segment) {
	ic := b.currentInterchange()
	ic.TrailerControlNumber = seg.Element(ieaIndexControlNumber)
	if ic.TrailerControlNumber != ic.ControlNumber {
		b.report(finding.Finding{
			Code:     "control-number-mismatch",
			Message:  fmt.Sprintf("interchange trailer control number %q does not match header %q", ic.TrailerControlNumber, ic.ControlNumber),
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
			Path:     b.interchangePath(),
		})
	}
	if declared, ok := parseCount(seg.Element(ieaIndexGroupCount)); ok && declared != len(ic.Groups) {
		b.report(finding.Finding{
			Code:     "group-count-mismatch",
			Message:  fmt.Sprintf("interchange declares %d functional groups, found %d", declared, len(ic.Groups)),
			Severity: finding.SeverityWarning,
			Category: finding.CategoryStructural,
			Path:     b.interchangePath(),
		})
	}
	b.interchange = nil
	b.group = nil
}

func (b *envelopeBuilder) openGroup(seg Segment) {
	g := &model.FunctionalGroup{
		FunctionalCode: seg.Element(gsIndexFunctionalCode),
		SenderCode:     seg.Element(gsIndexSenderCode),
		ReceiverCode:   seg.Element(gsIndexReceiverCode),
		Date:           seg.Element(gsIndexDate),
		Time:           seg.Element(gsIndexTime),
		ControlNumber:  seg.Element(gsIndexControlNumber),
	}
	ic := b.currentInterchange()
	ic.Groups = append(ic.Groups, g)
	b.group = g
}

func (b *envelopeBuilder) closeGroup(seg Segment) {
	g := b.currentGroup()
	g.TrailerControlNumber = seg.Element(geIndexControlNumber)
	if g.TrailerControlNumber != g.ControlNumber {
		b.report(finding.Finding{
			Code:     "control-number-mismatch",
			Message:  fmt.Sprintf("group trailer control number %q does not match header %q", g.TrailerControlNumber, g.ControlNumber),
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
			Path:     b.groupPath(),
		})
	}
	if declared, ok := parseCount(seg.Element(geIndexTransactionCount)); ok && declared != len(g.Transactions) {
		b.report(finding.Finding{
			Code:     "transaction-count-mismatch",
			Message:  fmt.Sprintf("group declares %d transactions, found %d", declared, len(g.Transactions)),
			Severity: finding.SeverityWarning,
			Category: finding.CategoryStructural,
			Path:     b.groupPath(),
		})
	}
	b.group = nil
}

func (b *envelopeBuilder) closeTransaction(trailer Segment) {
	segs := b.txSegments
	b.txSegments = nil
	b.inTx = false
	if len(segs) == 0 {
		return
	}
	header := segs[0]
	tx := &model.Transaction{
		SetCode:              header.Element(stIndexTransactionSetCode),
		ControlNumber:        header.Element(stIndexControlNumber),
		TrailerControlNumber: trailer.Element(seIndexControlNumber),
		ActualSegmentCount:   len(segs),
	}
	g := b.currentGroup()
	g.Transactions = append(g.Transactions, tx)
	path := b.txPathFor(len(g.Transactions) - 1)

	if len(trailer.Elements) > 0 {
		if tx.TrailerControlNumber != tx.ControlNumber {
			b.report(finding.Finding{
				Code:     "control-number-mismatch",
				Message:  fmt.Sprintf("transaction trailer control number %q does not match header %q", tx.TrailerControlNumber, tx.ControlNumber),
				Severity: finding.SeverityError,
				Category: finding.CategoryStructural,
				Path:     path,
			})
		}
		if declared, ok := parseCount(trailer.Element(seIndexSegmentCount)); ok {
			tx.DeclaredSegmentCount = declared
			if declared != tx.ActualSegmentCount {
				b.report(finding.Finding{
					Code:     "segment-count-mismatch",
					Message:  fmt.Sprintf("transaction declares %d segments, counted %d", declared, tx.ActualSegmentCount),
					Severity: finding.SeverityWarning,
					Category: finding.CategoryStructural,
					Path:     path,
					Context: map[string]any{
						"declared": declared,
						"actual":   tx.ActualSegmentCount,
					},
				})
			}
		}
	}

	if b.dispatcher == nil {
		return
	}
	payload, fds, err := b.dispatcher.Dispatch(tx.SetCode, segs, b.delims)
	if err != nil {
		b.report(finding.Finding{
			Code:     "payload-parse-failure",
			Message:  err.Error(),
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
			Path:     path,
		})
		return
	}
	tx.Payload = payload
	for _, f := range fds {
		if f.Path == "" {
			f.Path = path
		}
		b.report(f)
	}
}

// currentInterchange returns the open interchange, synthesizing one (with a
// structural finding) when a lower-level segment arrives before any ISA.
func (b *envelopeBuilder) currentInterchange() *model.Interchange {
	if b.interchange == nil {
		b.report(finding.Finding{
			Code:     "missing-interchange-header",
			Message:  "segment encountered outside an open interchange",
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
		})
		ic := &model.Interchange{}
		b.doc.Interchanges = append(b.doc.Interchanges, ic)
		b.interchange = ic
	}
	return b.interchange
}

func (b *envelopeBuilder) currentGroup() *model.FunctionalGroup {
	if b.group == nil {
		ic := b.currentInterchange()
		b.report(finding.Finding{
			Code:     "missing-group-header",
			Message:  "transaction encountered outside an open functional group",
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
			Path:     b.interchangePath(),
		})
		g := &model.FunctionalGroup{}
		ic.Groups = append(ic.Groups, g)
		b.group = g
	}
	return b.group
}

func (b *envelopeBuilder) report(f finding.Finding) {
	b.findings = append(b.findings, f)
}

func (b *envelopeBuilder) interchangePath() string {
	if len(b.doc.Interchanges) == 0 {
		return ""
	}
	return fmt.Sprintf("interchanges[%d]", len(b.doc.Interchanges)-1)
}

func (b *envelopeBuilder) groupPath() string {
	if b.interchange == nil || len(b.interchange.Groups) == 0 {
		return b.interchangePath()
	}
	return fmt.Sprintf("%s.groups[%d]", b.interchangePath(), len(b.interchange.Groups)-1)
}

func (b *envelopeBuilder) txPath() string {
	if b.group == nil {
		return b.groupPath()
	}
	return b.txPathFor(len(b.group.Transactions))
}

func (b *envelopeBuilder) txPathFor(i int) string {
	return fmt.Sprintf("%s.transactions[%d]", b.groupPath(), i)
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
