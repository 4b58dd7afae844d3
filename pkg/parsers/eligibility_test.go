package parsers

import (
	"testing"

	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

const sample270 = "ST*270*0003~" +
	"BHT*0022*13*REF0003*20240101*1253~" +
	"HL*1**20*1~" +
	"NM1*PR*2*ACME INSURANCE*****PI*PAYER01~" +
	"HL*2*1*21*1~" +
	"NM1*1P*2*GOOD HEALTH CLINIC*****XX*1234567893~" +
	"HL*3*2*22*0~" +
	"NM1*IL*1*DOE*JANE****MI*MEM123~" +
	"DMG*D8*19800519*F~" +
	"DTP*291*D8*20240101~" +
	"EQ*30~" +
	"SE*12*0003~"

func parseEligibility(t *testing.T, raw string) model.TransactionPayload {
	t.Helper()
	d := x12.DefaultDelimiters()
	payload, _, err := NewEligibility270().Parse(x12.Tokenize([]byte(raw), d), d)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return payload
}

func TestEligibilityInquiry(t *testing.T) {
	payload := parseEligibility(t, sample270)
	ei, ok := payload.(*model.EligibilityInquiry)
	if !ok {
		t.Fatalf("unexpected payload type %T", payload)
	}
	if ei.Kind() != model.KindEligibilityInquiry {
		t.Fatalf("unexpected kind: %v", ei.Kind())
	}
	if ei.Source.LastName != "ACME INSURANCE" || ei.Source.ID != "PAYER01" {
		t.Fatalf("unexpected source: %+v", ei.Source)
	}
	if ei.Receiver.LastName != "GOOD HEALTH CLINIC" || ei.Receiver.ID != "1234567893" {
		t.Fatalf("unexpected receiver: %+v", ei.Receiver)
	}
	if ei.Subscriber.LastName != "DOE" || ei.Subscriber.FirstName != "JANE" {
		t.Fatalf("unexpected subscriber: %+v", ei.Subscriber)
	}
	if ei.Subscriber.BirthDate != "1980-05-19" || ei.Subscriber.Gender != "F" {
		t.Fatalf("unexpected demographics: %+v", ei.Subscriber)
	}
	if ei.Dependent != nil {
		t.Fatalf("expected no dependent, got %+v", ei.Dependent)
	}
	if len(ei.Dates) != 1 || ei.Dates[0].Qualifier != "291" || ei.Dates[0].Date != "2024-01-01" {
		t.Fatalf("unexpected dates: %v", ei.Dates)
	}
	if len(ei.Inquiries) != 1 || ei.Inquiries[0].ServiceType != "30" {
		t.Fatalf("unexpected inquiries: %v", ei.Inquiries)
	}
}

func TestEligibilityLoopShape(t *testing.T) {
	ei := parseEligibility(t, sample270).(*model.EligibilityInquiry)
	if len(ei.Loops) != 1 {
		t.Fatalf("expected 1 root loop, got %d", len(ei.Loops))
	}
	root := ei.Loops[0]
	if root.LevelCode != model.LevelInformationSource {
		t.Fatalf("unexpected root level: %q", root.LevelCode)
	}
	if len(root.Children) != 1 || len(root.Children[0].Children) != 1 {
		t.Fatal("expected source > receiver > subscriber chain")
	}
	leaf := root.Children[0].Children[0]
	if leaf.LevelCode != model.LevelSubscriber {
		t.Fatalf("unexpected leaf level: %q", leaf.LevelCode)
	}
}

func TestEligibilityResponse(t *testing.T) {
	raw := "ST*271*0004~" +
		"BHT*0022*11*REF0004*20240102*0900~" +
		"HL*1**20*1~" +
		"NM1*PR*2*ACME INSURANCE*****PI*PAYER01~" +
		"HL*2*1*21*1~" +
		"NM1*1P*2*GOOD HEALTH CLINIC*****XX*1234567893~" +
		"HL*3*2*22*1~" +
		"NM1*IL*1*DOE*JANE****MI*MEM123~" +
		"EB*1*IND*30**GOLD PLAN**500~" +
		"HL*4*3*23*0~" +
		"NM1*03*1*DOE*JIMMY~" +
		"DMG*D8*20150301*M~" +
		"SE*13*0004~"
	payload := parseEligibility(t, raw)
	er, ok := payload.(*model.EligibilityResponse)
	if !ok {
		t.Fatalf("unexpected payload type %T", payload)
	}
	if er.Kind() != model.KindEligibilityResp {
		t.Fatalf("unexpected kind: %v", er.Kind())
	}
	if len(er.Benefits) != 1 {
		t.Fatalf("expected 1 benefit, got %d", len(er.Benefits))
	}
	b := er.Benefits[0]
	if b.InfoCode != "1" || b.CoverageLevel != "IND" || b.ServiceType != "30" {
		t.Fatalf("unexpected benefit codes: %+v", b)
	}
	if b.PlanDescription != "GOLD PLAN" || b.Amount != 500 {
		t.Fatalf("unexpected benefit detail: %+v", b)
	}
	if er.Dependent == nil || er.Dependent.FirstName != "JIMMY" {
		t.Fatalf("unexpected dependent: %+v", er.Dependent)
	}
	if er.Dependent.BirthDate != "2015-03-01" || er.Dependent.Gender != "M" {
		t.Fatalf("unexpected dependent demographics: %+v", er.Dependent)
	}
}

func TestEligibilityProbe(t *testing.T) {
	d := x12.DefaultDelimiters()
	capElig := NewEligibility270()
	if !capElig.Probe(x12.Tokenize([]byte(sample270), d)) {
		t.Fatal("expected probe to match an eligibility inquiry")
	}
	// no HL loop, no match
	if capElig.Probe(x12.Tokenize([]byte("ST*270*0001~BHT*0022*13~SE*3*0001~"), d)) {
		t.Fatal("expected probe to reject input without loops")
	}
}
