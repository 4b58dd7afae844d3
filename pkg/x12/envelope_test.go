package x12

import (
	"errors"
	"testing"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
)

type stubPayload struct{}

func (stubPayload) Kind() model.PayloadKind { return model.KindRemittanceAdvice }
func (stubPayload) Render() map[string]any { return map[string]any{} }

type stubDispatcher struct {
	payload  model.TransactionPayload
	findings []finding.Finding
	err      error
	codes    []string
}

func (s *stubDispatcher) Dispatch(code string, segs []Segment, d Delimiters) (model.TransactionPayload, []finding.Finding, error) {
	s.codes = append(s.codes, code)
	return s.payload, s.findings, s.err
}

func envelope(t *testing.T, raw string, d Dispatcher) (*model.Document, []finding.Finding) {
	t.Helper()
	delims := DefaultDelimiters()
	return BuildEnvelope(Tokenize([]byte(raw), delims), delims, d)
}

func findingCodes(fds []finding.Finding) map[string]int {
	out := make(map[string]int)
	for _, f := range fds {
		out[f.Code]++
	}
	return out
}

const wellFormed = sampleISA +
	"GS*HP*SENDER*RECEIVER*20240101*1253*1*X*005010X221A1~" +
	"ST*835*0001~" +
	"BPR*I*150*C*ACH~" +
	"SE*3*0001~" +
	"GE*1*1~" +
	"IEA*1*000000905~"

func TestBuildEnvelopeEmptyInput(t *testing.T) {
	doc, fds := envelope(t, "", nil)
	if len(doc.Interchanges) != 0 {
		t.Fatalf("expected empty document, got %d interchanges", len(doc.Interchanges))
	}
	if len(fds) != 0 {
		t.Fatalf("expected no findings, got %v", fds)
	}
}

func TestBuildEnvelopeWellFormed(t *testing.T) {
	dispatcher := &stubDispatcher{payload: stubPayload{}}
	doc, fds := envelope(t, wellFormed, dispatcher)
	if len(fds) != 0 {
		t.Fatalf("expected no findings, got %v", fds)
	}
	if len(doc.Interchanges) != 1 {
		t.Fatalf("expected 1 interchange, got %d", len(doc.Interchanges))
	}
	ic := doc.Interchanges[0]
	if ic.SenderID != "SENDER" || ic.ReceiverID != "RECEIVER" {
		t.Fatalf("expected padded ids trimmed, got %q and %q", ic.SenderID, ic.ReceiverID)
	}
	if ic.ControlNumber != "000000905" || ic.TrailerControlNumber != "000000905" {
		t.Fatalf("unexpected control numbers: %q / %q", ic.ControlNumber, ic.TrailerControlNumber)
	}
	if len(ic.Groups) != 1 || len(ic.Groups[0].Transactions) != 1 {
		t.Fatalf("unexpected envelope shape: %+v", ic)
	}
	tx := ic.Groups[0].Transactions[0]
	if tx.SetCode != "835" || tx.ControlNumber != "0001" {
		t.Fatalf("unexpected transaction header: %+v", tx)
	}
	if tx.DeclaredSegmentCount != 3 || tx.ActualSegmentCount != 3 {
		t.Fatalf("unexpected segment counts: %d / %d", tx.DeclaredSegmentCount, tx.ActualSegmentCount)
	}
	if tx.Payload == nil {
		t.Fatal("expected dispatched payload on the transaction")
	}
	if len(dispatcher.codes) != 1 || dispatcher.codes[0] != "835" {
		t.Fatalf("expected one dispatch for 835, got %v", dispatcher.codes)
	}
}

func TestBuildEnvelopeControlNumberMismatch(t *testing.T) {
	raw := sampleISA +
		"GS*HP*SENDER*RECEIVER*20240101*1253*1*X~" +
		"ST*835*0001~" +
		"SE*2*9999~" +
		"GE*1*7~" +
		"IEA*1*000000001~"
	_, fds := envelope(t, raw, nil)
	codes := findingCodes(fds)
	// transaction, group, and interchange each report their own mismatch
	if codes["control-number-mismatch"] != 3 {
		t.Fatalf("expected 3 control-number mismatches, got %v", codes)
	}
}

func TestBuildEnvelopeCountMismatches(t *testing.T) {
	raw := sampleISA +
		"GS*HP*SENDER*RECEIVER*20240101*1253*1*X~" +
		"ST*835*0001~" +
		"SE*5*0001~" +
		"GE*2*1~" +
		"IEA*3*000000905~"
	doc, fds := envelope(t, raw, nil)
	codes := findingCodes(fds)
	if codes["segment-count-mismatch"] != 1 {
		t.Fatalf("expected a segment-count mismatch, got %v", codes)
	}
	if codes["transaction-count-mismatch"] != 1 {
		t.Fatalf("expected a transaction-count mismatch, got %v", codes)
	}
	if codes["group-count-mismatch"] != 1 {
		t.Fatalf("expected a group-count mismatch, got %v", codes)
	}
	// counts are reported but the structure still parses fully
	tx := doc.Interchanges[0].Groups[0].Transactions[0]
	if tx.DeclaredSegmentCount != 5 || tx.ActualSegmentCount != 2 {
		t.Fatalf("unexpected counts on transaction: %+v", tx)
	}
	for _, f := range fds {
		if f.Code != "segment-count-mismatch" {
			continue
		}
		if f.Context["declared"] != 5 || f.Context["actual"] != 2 {
			t.Fatalf("unexpected finding context: %v", f.Context)
		}
	}
}

func TestBuildEnvelopeMissingHeaders(t *testing.T) {
	raw := "ST*835*0001~SE*2*0001~"
	doc, fds := envelope(t, raw, nil)
	codes := findingCodes(fds)
	if codes["missing-interchange-header"] != 1 || codes["missing-group-header"] != 1 {
		t.Fatalf("expected synthesized parent findings, got %v", codes)
	}
	if len(doc.Interchanges) != 1 || len(doc.Interchanges[0].Groups) != 1 {
		t.Fatal("expected synthesized interchange and group")
	}
	if len(doc.Interchanges[0].Groups[0].Transactions) != 1 {
		t.Fatal("expected the transaction attached under the synthesized parents")
	}
}

func TestBuildEnvelopeUnterminatedTransaction(t *testing.T) {
	raw := sampleISA +
		"GS*HP*SENDER*RECEIVER*20240101*1253*1*X~" +
		"ST*835*0001~" +
		"BPR*I*150*C*ACH~" +
		"GE*1*1~" +
		"IEA*1*000000905~"
	doc, fds := envelope(t, raw, nil)
	codes := findingCodes(fds)
	if codes["unterminated-transaction"] != 1 {
		t.Fatalf("expected an unterminated-transaction finding, got %v", codes)
	}
	// the partial transaction is force-closed and kept
	if len(doc.Interchanges[0].Groups[0].Transactions) != 1 {
		t.Fatal("expected the partial transaction to survive")
	}
}

func TestBuildEnvelopeOrphanTrailer(t *testing.T) {
	raw := sampleISA + "SE*2*0001~IEA*0*000000905~"
	_, fds := envelope(t, raw, nil)
	if findingCodes(fds)["orphan-transaction-trailer"] != 1 {
		t.Fatalf("expected an orphan-trailer finding, got %v", fds)
	}
}

func TestBuildEnvelopeDispatchError(t *testing.T) {
	dispatcher := &stubDispatcher{err: errors.New("boom")}
	doc, fds := envelope(t, wellFormed, dispatcher)
	if findingCodes(fds)["payload-parse-failure"] != 1 {
		t.Fatalf("expected a payload-parse-failure finding, got %v", fds)
	}
	if doc.Interchanges[0].Groups[0].Transactions[0].Payload != nil {
		t.Fatal("expected no payload after a dispatch error")
	}
}

func TestBuildEnvelopeDispatchFindingPathPrefixed(t *testing.T) {
	dispatcher := &stubDispatcher{
		payload:  stubPayload{},
		findings: []finding.Finding{{Code: "x", Severity: finding.SeverityWarning}},
	}
	_, fds := envelope(t, wellFormed, dispatcher)
	for _, f := range fds {
		if f.Code == "x" {
			if f.Path != "interchanges[0].groups[0].transactions[0]" {
				t.Fatalf("expected transaction path on payload finding, got %q", f.Path)
			}
			return
		}
	}
	t.Fatal("payload finding not propagated")
}
