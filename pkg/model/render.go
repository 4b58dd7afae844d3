package model

import "math"

// renderAmount normalizes whole-valued decimal fields to integers so that
// rendered output compares stably as text.
func renderAmount(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return f
}

// Render projects the document into generic maps and arrays.
func (d *Document) Render() map[string]any {
	interchanges := make([]any, 0, len(d.Interchanges))
	for _, ic := range d.Interchanges {
		interchanges = append(interchanges, ic.Render())
	}
	return map[string]any{"interchanges": interchanges}
}

// Render projects the interchange and everything beneath it.
func (ic *Interchange) Render() map[string]any {
	groups := make([]any, 0, len(ic.Groups))
	for _, g := range ic.Groups {
		groups = append(groups, g.Render())
	}
	return map[string]any{
		"sender_id":      ic.SenderID,
		"receiver_id":    ic.ReceiverID,
		"date":           ic.Date,
		"time":           ic.Time,
		"control_number": ic.ControlNumber,
		"groups":         groups,
	}
}

// Render projects the functional group and its transactions.
func (g *FunctionalGroup) Render() map[string]any {
	txs := make([]any, 0, len(g.Transactions))
	for _, tx := range g.Transactions {
		txs = append(txs, tx.Render())
	}
	return map[string]any{
		"functional_code": g.FunctionalCode,
		"sender_code":     g.SenderCode,
		"receiver_code":   g.ReceiverCode,
		"date":            g.Date,
		"time":            g.Time,
		"control_number":  g.ControlNumber,
		"transactions":    txs,
	}
}

// Render projects the transaction envelope plus its payload fields. Payload
// fields are merged at the transaction level so that rule paths address them
// directly.
func (tx *Transaction) Render() map[string]any {
	out := map[string]any{
		"set_code":       tx.SetCode,
		"control_number": tx.ControlNumber,
		"segment_count":  tx.DeclaredSegmentCount,
	}
	if tx.Payload != nil {
		out["type"] = string(tx.Payload.Kind())
		for k, v := range tx.Payload.Render() {
			out[k] = v
		}
	}
	return out
}

func (p Party) render() map[string]any {
	return map[string]any{
		"name":         p.Name,
		"id_qualifier": p.IDQualifier,
		"id":           p.ID,
	}
}

func (e Entity) render() map[string]any {
	return map[string]any{
		"last_name":    e.LastName,
		"first_name":   e.FirstName,
		"id_qualifier": e.IDQualifier,
		"id":           e.ID,
	}
}

func (c CompositeCode) render() map[string]any {
	mods := make([]any, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		mods = append(mods, m)
	}
	return map[string]any{
		"qualifier": c.Qualifier,
		"code":      c.Code,
		"modifiers": mods,
	}
}

func renderReferences(refs []Reference) []any {
	out := make([]any, 0, len(refs))
	for _, r := range refs {
		out = append(out, map[string]any{"qualifier": r.Qualifier, "value": r.Value})
	}
	return out
}

func renderDates(dates []DateValue) []any {
	out := make([]any, 0, len(dates))
	for _, d := range dates {
		out = append(out, map[string]any{"qualifier": d.Qualifier, "date": d.Date})
	}
	return out
}

func renderAdjustments(adjs []Adjustment) []any {
	out := make([]any, 0, len(adjs))
	for _, a := range adjs {
		out = append(out, map[string]any{
			"group_code":  a.GroupCode,
			"reason_code": a.ReasonCode,
			"amount":      renderAmount(a.Amount),
			"quantity":    renderAmount(a.Quantity),
		})
	}
	return out
}

// Render projects the remittance payload.
func (ra *RemittanceAdvice) Render() map[string]any {
	claims := make([]any, 0, len(ra.Claims))
	for _, c := range ra.Claims {
		claims = append(claims, c.render())
	}
	plbs := make([]any, 0, len(ra.ProviderAdjustments))
	for _, p := range ra.ProviderAdjustments {
		plbs = append(plbs, map[string]any{
			"provider_id":   p.ProviderID,
			"fiscal_period": p.FiscalPeriod,
			"reason":        p.Reason,
			"reference":     p.Reference,
			"amount":        renderAmount(p.Amount),
		})
	}
	return map[string]any{
		"financial": map[string]any{
			"paid_amount": renderAmount(ra.Financial.PaidAmount),
			"method":      ra.Financial.Method,
			"date":        ra.Financial.Date,
		},
		"payer":                ra.Payer.render(),
		"payee":                ra.Payee.render(),
		"references":           renderReferences(ra.References),
		"dates":                renderDates(ra.Dates),
		"claims":               claims,
		"provider_adjustments": plbs,
	}
}

func (c *Claim) render() map[string]any {
	services := make([]any, 0, len(c.Services))
	for _, s := range c.Services {
		services = append(services, map[string]any{
			"procedure":     s.Procedure.render(),
			"charge_amount": renderAmount(s.ChargeAmount),
			"paid_amount":   renderAmount(s.PaidAmount),
			"revenue_code":  s.RevenueCode,
			"date":          s.Date,
			"adjustments":   renderAdjustments(s.Adjustments),
		})
	}
	return map[string]any{
		"id":                     c.ID,
		"status_code":            c.StatusCode,
		"charge_amount":          renderAmount(c.ChargeAmount),
		"paid_amount":            renderAmount(c.PaidAmount),
		"patient_responsibility": renderAmount(c.PatientResponsibility),
		"payer_control_number":   c.PayerControlNumber,
		"adjustments":            renderAdjustments(c.Adjustments),
		"services":               services,
	}
}

// Render projects the professional claim payload.
func (pc *ProfessionalClaim) Render() map[string]any {
	diagnoses := make([]any, 0, len(pc.Diagnoses))
	for _, d := range pc.Diagnoses {
		diagnoses = append(diagnoses, d)
	}
	lines := make([]any, 0, len(pc.ServiceLines))
	for _, l := range pc.ServiceLines {
		pointers := make([]any, 0, len(l.DiagnosisPointers))
		for _, p := range l.DiagnosisPointers {
			pointers = append(pointers, p)
		}
		lines = append(lines, map[string]any{
			"procedure":          l.Procedure.render(),
			"charge_amount":      renderAmount(l.ChargeAmount),
			"unit":               l.Unit,
			"units":              renderAmount(l.Units),
			"diagnosis_pointers": pointers,
			"date":               l.Date,
		})
	}
	out := map[string]any{
		"submitter":          pc.Submitter.render(),
		"billing_provider":   pc.BillingProvider.render(),
		"rendering_provider": pc.RenderingProvider.render(),
		"payer":              pc.Payer.render(),
		"subscriber":         pc.Subscriber.render(),
		"claim": map[string]any{
			"id":               pc.Claim.ID,
			"charge_amount":    renderAmount(pc.Claim.ChargeAmount),
			"place_of_service": pc.Claim.PlaceOfService,
			"frequency":        pc.Claim.Frequency,
		},
		"diagnoses":     diagnoses,
		"service_lines": lines,
	}
	if pc.Patient != nil {
		out["patient"] = pc.Patient.render()
	}
	return out
}

func (s Subscriber) render() map[string]any {
	out := s.Entity.render()
	out["payer_responsibility"] = s.PayerResponsibility
	out["relationship"] = s.Relationship
	out["group_number"] = s.GroupNumber
	out["claim_filing_code"] = s.ClaimFilingCode
	return out
}

func (si SubscriberInfo) render() map[string]any {
	out := si.Entity.render()
	out["birth_date"] = si.BirthDate
	out["gender"] = si.Gender
	return out
}

func renderLoops(nodes []*LoopNode) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any{
			"id":         n.ID,
			"parent_id":  n.ParentID,
			"level_code": n.LevelCode,
			"children":   renderLoops(n.Children),
		})
	}
	return out
}

// Render projects the eligibility inquiry payload.
func (ei *EligibilityInquiry) Render() map[string]any {
	inquiries := make([]any, 0, len(ei.Inquiries))
	for _, q := range ei.Inquiries {
		inquiries = append(inquiries, map[string]any{
			"service_type":   q.ServiceType,
			"coverage_level": q.CoverageLevel,
		})
	}
	out := map[string]any{
		"source":     ei.Source.render(),
		"receiver":   ei.Receiver.render(),
		"subscriber": ei.Subscriber.render(),
		"dates":      renderDates(ei.Dates),
		"inquiries":  inquiries,
		"loops":      renderLoops(ei.Loops),
	}
	if ei.Dependent != nil {
		out["dependent"] = ei.Dependent.render()
	}
	return out
}

// Render projects the eligibility response payload.
func (er *EligibilityResponse) Render() map[string]any {
	benefits := make([]any, 0, len(er.Benefits))
	for _, b := range er.Benefits {
		benefits = append(benefits, map[string]any{
			"info_code":        b.InfoCode,
			"coverage_level":   b.CoverageLevel,
			"service_type":     b.ServiceType,
			"plan_description": b.PlanDescription,
			"amount":           renderAmount(b.Amount),
		})
	}
	out := map[string]any{
		"source":     er.Source.render(),
		"receiver":   er.Receiver.render(),
		"subscriber": er.Subscriber.render(),
		"dates":      renderDates(er.Dates),
		"benefits":   benefits,
		"loops":      renderLoops(er.Loops),
	}
	if er.Dependent != nil {
		out["dependent"] = er.Dependent.render()
	}
	return out
}

// Render projects the claim-status inquiry payload.
func (ci *ClaimStatusInquiry) Render() map[string]any {
	inquiries := make([]any, 0, len(ci.Inquiries))
	for _, q := range ci.Inquiries {
		inquiries = append(inquiries, map[string]any{
			"trace_id":     q.TraceID,
			"claim_id":     q.ClaimID,
			"amount":       renderAmount(q.Amount),
			"service_date": q.ServiceDate,
		})
	}
	out := map[string]any{
		"source":     ci.Source.render(),
		"receiver":   ci.Receiver.render(),
		"provider":   ci.Provider.render(),
		"subscriber": ci.Subscriber.render(),
		"inquiries":  inquiries,
		"loops":      renderLoops(ci.Loops),
	}
	if ci.Dependent != nil {
		out["dependent"] = ci.Dependent.render()
	}
	return out
}

// Render projects the claim-status response payload.
func (cr *ClaimStatusResponse) Render() map[string]any {
	statuses := make([]any, 0, len(cr.Statuses))
	for _, s := range cr.Statuses {
		statuses = append(statuses, map[string]any{
			"category_code":  s.CategoryCode,
			"status_code":    s.StatusCode,
			"entity_code":    s.EntityCode,
			"effective_date": s.EffectiveDate,
			"charge_amount":  renderAmount(s.ChargeAmount),
			"paid_amount":    renderAmount(s.PaidAmount),
		})
	}
	out := map[string]any{
		"source":     cr.Source.render(),
		"receiver":   cr.Receiver.render(),
		"provider":   cr.Provider.render(),
		"subscriber": cr.Subscriber.render(),
		"statuses":   statuses,
		"loops":      renderLoops(cr.Loops),
	}
	if cr.Dependent != nil {
		out["dependent"] = cr.Dependent.render()
	}
	return out
}
