package config

import (
	"fmt"
	"os"

	"github.com/oarkflow/errors"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/edi/pkg/finding"
	"github.com/oarkflow/edi/pkg/rules"
	"github.com/oarkflow/edi/pkg/x12"
)

// DelimiterConfig selects the separators used to tokenize raw input.
// Empty fields fall back to the standard separators; Detect reads them
// from the interchange header instead.
type DelimiterConfig struct {
	Segment   string `yaml:"segment" json:"segment"`
	Element   string `yaml:"element" json:"element"`
	Component string `yaml:"component" json:"component"`
	Detect    bool   `yaml:"detect" json:"detect"`
}

// FieldRuleConfig declares one path-addressed check.
type FieldRuleConfig struct {
	Path     string `yaml:"path" json:"path"`
	Check    string `yaml:"check" json:"check"`
	Params   []any  `yaml:"params,omitempty" json:"params,omitempty"`
	Severity string `yaml:"severity,omitempty" json:"severity,omitempty"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
	Message  string `yaml:"message,omitempty" json:"message,omitempty"`
}

// ExprRuleConfig declares one expression rule.
type ExprRuleConfig struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"`
	Message    string `yaml:"message,omitempty" json:"message,omitempty"`
	Severity   string `yaml:"severity,omitempty" json:"severity,omitempty"`
	Category   string `yaml:"category,omitempty" json:"category,omitempty"`
}

type Config struct {
	Delimiters DelimiterConfig   `yaml:"delimiters" json:"delimiters"`
	FieldRules []FieldRuleConfig `yaml:"field_rules" json:"field_rules"`
	ExprRules  []ExprRuleConfig  `yaml:"expr_rules" json:"expr_rules"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(fmt.Sprintf("unable to read config file %s: %v", path, err))
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New(fmt.Sprintf("unable to parse config file %s: %v", path, err))
	}
	return &cfg, nil
}

// ResolveDelimiters materializes the configured separators, filling gaps
// from the standard set.
func (c *Config) ResolveDelimiters() x12.Delimiters {
	d := x12.DefaultDelimiters()
	if c.Delimiters.Segment != "" {
		d.Segment = c.Delimiters.Segment
	}
	if c.Delimiters.Element != "" {
		d.Element = c.Delimiters.Element
	}
	if c.Delimiters.Component != "" {
		d.Component = c.Delimiters.Component
	}
	return d
}

// Engine builds a rules engine carrying the standard business rules plus
// every configured field and expression rule.
func (c *Config) Engine() *rules.Engine {
	e := rules.DefaultEngine()
	for _, fr := range c.FieldRules {
		e.AddFieldRules(rules.FieldRule{
			Path:     fr.Path,
			Check:    fr.Check,
			Params:   fr.Params,
			Severity: finding.Severity(fr.Severity),
			Category: finding.Category(fr.Category),
			Message:  fr.Message,
		})
	}
	for _, er := range c.ExprRules {
		e.AddExprRules(rules.ExprRule{
			Name:       er.Name,
			Expression: er.Expression,
			Message:    er.Message,
			Severity:   finding.Severity(er.Severity),
			Category:   finding.Category(er.Category),
		})
	}
	return e
}
