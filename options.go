package edi

import (
	"github.com/oarkflow/edi/pkg/config"
	"github.com/oarkflow/edi/pkg/registry"
	"github.com/oarkflow/edi/pkg/rules"
	"github.com/oarkflow/edi/pkg/x12"
)

type Option func(*Parser) error

// WithDelimiters fixes the separators used to tokenize raw input.
func WithDelimiters(d x12.Delimiters) Option {
	return func(p *Parser) error {
		p.delims = d
		return nil
	}
}

// WithDetectDelimiters reads the separators from the interchange header
// instead of using the configured set. Input too short to carry a full
// header falls back to the configured separators.
func WithDetectDelimiters() Option {
	return func(p *Parser) error {
		p.detect = true
		return nil
	}
}

// WithRegistry swaps the transaction-set registry.
func WithRegistry(r *registry.Registry) Option {
	return func(p *Parser) error {
		p.registry = r
		return nil
	}
}

// WithEngine swaps the validation engine.
func WithEngine(e *rules.Engine) Option {
	return func(p *Parser) error {
		p.engine = e
		return nil
	}
}

// WithConfig applies a loaded configuration: delimiters (including
// detection) and the configured rule set.
func WithConfig(cfg *config.Config) Option {
	return func(p *Parser) error {
		p.delims = cfg.ResolveDelimiters()
		p.detect = cfg.Delimiters.Detect
		p.engine = cfg.Engine()
		return nil
	}
}
