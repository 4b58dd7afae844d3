package registry

import (
	"sort"
	"sync"

	"github.com/oarkflow/errors"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/model"
	"github.com/oarkflow/edi/pkg/x12"
)

// fallbackCode is the grammar used when no capability claims a transaction
// set. Falling back to the remittance grammar for unknown codes is legacy
// behavior kept on purpose; see DESIGN.md before changing it.
const fallbackCode = "835"

// Capability parses one or more transaction-set codes into a typed payload.
type Capability interface {
	// SupportedCodes lists the transaction-set codes this capability claims.
	SupportedCodes() []string
	// Probe is a cheap structural check (envelope, business header,
	// code-specific marker) used to disambiguate when several capabilities
	// claim the same code.
	Probe(segs []x12.Segment) bool
	// Parse consumes the transaction's segments (ST through SE inclusive),
	// splitting composite elements with the transmission's delimiters.
	Parse(segs []x12.Segment, d x12.Delimiters) (model.TransactionPayload, []finding.Finding, error)
}

// Registry maps transaction-set codes to parser capabilities. It is
// populated once at startup and read-only thereafter, so concurrent Resolve
// and Dispatch calls need no locking.
type Registry struct {
	capabilities map[string][]Capability
}

// New returns an empty registry. Tests construct fresh registries per case.
func New() *Registry {
	return &Registry{capabilities: make(map[string][]Capability)}
}

// Register adds a capability under every code it claims.
func (r *Registry) Register(c Capability) error {
	codes := c.SupportedCodes()
	if len(codes) == 0 {
		return errors.New("capability claims no transaction-set codes")
	}
	for _, code := range codes {
		r.capabilities[code] = append(r.capabilities[code], c)
	}
	return nil
}

// Resolve returns the capability registered for the code, or nil. When
// several capabilities claim the code, Probe picks among them.
func (r *Registry) Resolve(code string, segs []x12.Segment) Capability {
	candidates := r.capabilities[code]
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, c := range candidates {
		if c.Probe(segs) {
			return c
		}
	}
	return candidates[0]
}

// Codes returns the sorted set of registered transaction-set codes.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.capabilities))
	for code := range r.capabilities {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Dispatch resolves the transaction-set code and parses the segments. An
// unregistered code falls back to the remittance-advice grammar when one is
// registered; with no fallback available the transaction is left without a
// payload and a finding reports the gap.
func (r *Registry) Dispatch(code string, segs []x12.Segment, d x12.Delimiters) (model.TransactionPayload, []finding.Finding, error) {
	c := r.Resolve(code, segs)
	if c == nil {
		c = r.Resolve(fallbackCode, segs)
	}
	if c == nil {
		return nil, []finding.Finding{{
			Code:     "unsupported-transaction-set",
			Message:  "no parser registered for transaction set " + code,
			Severity: finding.SeverityError,
			Category: finding.CategoryStructural,
		}}, nil
	}
	return c.Parse(segs, d)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry with the standard healthcare
// grammars installed. Population happens exactly once under the sync.Once
// guard; the value is read-only afterwards, so it is safe to share across
// goroutines.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
		for _, c := range builtinCapabilities() {
			_ = defaultRegistry.Register(c)
		}
	})
	return defaultRegistry
}
