package edi

import (
	"strings"
	"testing"

	"github.com/oarkflow/edi/pkg/model"
)

const isaHeader = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *240101*1253*^*00501*000000905*1*T*:~"

const cleanRemittance = isaHeader +
	"GS*HP*SENDER*RECEIVER*20240101*1253*1*X*005010X221A1~" +
	"ST*835*0001~" +
	"BPR*I*150*C*ACH*CCP*01*999999992*DA*123456*1512345678**01*999988880*DA*98765*20240115~" +
	"TRN*1*12345*1512345678~" +
	"DTM*405*20240110~" +
	"N1*PR*ACME INSURANCE*XV*66666~" +
	"N1*PE*GOOD HEALTH CLINIC*XX*1234567893~" +
	"CLP*PATACCT123*1*200*150*50*MC*ICN0001~" +
	"SVC*HC:99213*200*150~" +
	"DTM*472*20240105~" +
	"SE*10*0001~" +
	"GE*1*1~" +
	"IEA*1*000000905~"

func newParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("parser construction failed: %v", err)
	}
	return p
}

func TestParseAndValidateCleanRemittance(t *testing.T) {
	p := newParser(t)
	doc, result, err := p.ParseAndValidate([]byte(cleanRemittance))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected a valid document, findings: %v", result.Findings)
	}
	if len(result.Findings) != 0 {
		t.Fatalf("expected no findings, got %v", result.Findings)
	}
	if len(doc.Interchanges) != 1 {
		t.Fatalf("expected 1 interchange, got %d", len(doc.Interchanges))
	}
	tx := doc.Interchanges[0].Groups[0].Transactions[0]
	ra, ok := tx.Payload.(*model.RemittanceAdvice)
	if !ok {
		t.Fatalf("unexpected payload type %T", tx.Payload)
	}
	if len(ra.Claims) != 1 || ra.Claims[0].PaidAmount != 150 {
		t.Fatalf("unexpected claims: %+v", ra.Claims)
	}
	if ra.Claims[0].Services[0].Date != "2024-01-05" {
		t.Fatalf("unexpected service date: %q", ra.Claims[0].Services[0].Date)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := newParser(t)
	doc, findings, err := p.Parse(nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Interchanges) != 0 || len(findings) != 0 {
		t.Fatalf("expected an empty document with no findings, got %+v / %v", doc, findings)
	}
}

func TestUnknownCodeFallsBackToRemittance(t *testing.T) {
	raw := strings.Replace(cleanRemittance, "ST*835*0001~", "ST*999*0001~", 1)
	p := newParser(t)
	doc, _, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tx := doc.Interchanges[0].Groups[0].Transactions[0]
	if tx.SetCode != "999" {
		t.Fatalf("unexpected set code: %q", tx.SetCode)
	}
	if tx.Payload == nil || tx.Payload.Kind() != model.KindRemittanceAdvice {
		t.Fatalf("expected the remittance grammar as fallback, got %T", tx.Payload)
	}
}

func TestTwoTransactionsInOneGroup(t *testing.T) {
	raw := isaHeader +
		"GS*HP*SENDER*RECEIVER*20240101*1253*1*X~" +
		"ST*835*0001~" +
		"BPR*I*80*C*ACH~" +
		"CLP*A1*1*100*80*20~" +
		"SE*4*0001~" +
		"ST*835*0002~" +
		"BPR*I*60*C*CHK~" +
		"CLP*B1*1*90*60*30~" +
		"CLP*B2*4*50*0*50~" +
		"SE*5*0002~" +
		"GE*2*1~" +
		"IEA*1*000000905~"
	p := newParser(t)
	doc, findings, err := p.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %v", findings)
	}
	txs := doc.Interchanges[0].Groups[0].Transactions
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	first := txs[0].Payload.(*model.RemittanceAdvice)
	second := txs[1].Payload.(*model.RemittanceAdvice)
	if len(first.Claims) != 1 || len(second.Claims) != 2 {
		t.Fatalf("claim lists leaked across transactions: %d / %d", len(first.Claims), len(second.Claims))
	}
	if first.Claims[0].ID != "A1" || second.Claims[0].ID != "B1" {
		t.Fatalf("unexpected claim ids: %q / %q", first.Claims[0].ID, second.Claims[0].ID)
	}
}

func TestSegmentCountMismatchStillParses(t *testing.T) {
	raw := strings.Replace(cleanRemittance, "SE*10*0001~", "SE*12*0001~", 1)
	p := newParser(t)
	doc, result, err := p.ParseAndValidate([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var seen bool
	for _, f := range result.Findings {
		if f.Code == "segment-count-mismatch" {
			seen = true
		}
	}
	if !seen {
		t.Fatalf("expected a segment-count-mismatch finding, got %v", result.Findings)
	}
	if !result.Valid {
		t.Fatal("a count mismatch is a warning and must not invalidate the document")
	}
	if doc.Interchanges[0].Groups[0].Transactions[0].Payload == nil {
		t.Fatal("expected the payload parsed despite the count mismatch")
	}
}

func TestValidateReportsBalanceMismatch(t *testing.T) {
	raw := strings.Replace(cleanRemittance,
		"CLP*PATACCT123*1*200*150*50*MC*ICN0001~",
		"CLP*PATACCT123*1*200*100*50*MC*ICN0001~", 1)
	raw = strings.Replace(raw, "SVC*HC:99213*200*150~", "SVC*HC:99213*200*100~", 1)
	p := newParser(t)
	_, result, err := p.ParseAndValidate([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var seen bool
	for _, f := range result.Findings {
		if f.Code == "payment-balance-mismatch" {
			seen = true
		}
	}
	if !seen {
		t.Fatalf("expected a balance mismatch, got %v", result.Findings)
	}
	if !result.Valid {
		t.Fatal("balance mismatches are warnings and must not invalidate the document")
	}
}

func TestDetectDelimiters(t *testing.T) {
	raw := strings.ReplaceAll(cleanRemittance, "*", "|")
	raw = strings.ReplaceAll(raw, ":", ">")
	p := newParser(t, WithDetectDelimiters())
	doc, result, err := p.ParseAndValidate([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !result.Valid || len(result.Findings) != 0 {
		t.Fatalf("expected a clean parse with detected separators, got %v", result.Findings)
	}
	ra := doc.Interchanges[0].Groups[0].Transactions[0].Payload.(*model.RemittanceAdvice)
	proc := ra.Claims[0].Services[0].Procedure
	if proc.Qualifier != "HC" || proc.Code != "99213" {
		t.Fatalf("component separator not honored: %+v", proc)
	}
}
