package intent

import (
	"fmt"
	"regexp"

	_ "embed"

	"gopkg.in/yaml.v3"
)

type Intent string

const (
	IMEICheck      Intent = "imei_check"
	Pricing        Intent = "pricing"
	Diagnosis      Intent = "diagnosis"
	GenericSupport Intent = "generic_support"
)

//go:embed rules.yaml
var rulesYAML []byte

type ruleSpec struct {
	Groups []struct {
		Intent   string   `yaml:"intent"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"groups"`
}

type ruleGroup struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Classifier maps a free-text message to an Intent by evaluating the
// embedded rule groups in order, first match wins.
type Classifier struct {
	groups []ruleGroup
}

func Load() (*Classifier, error) {
	var spec ruleSpec
	if err := yaml.Unmarshal(rulesYAML, &spec); err != nil {
		return nil, fmt.Errorf("parse intent rules: %w", err)
	}
	c := &Classifier{groups: make([]ruleGroup, 0, len(spec.Groups))}
	for _, g := range spec.Groups {
		rg := ruleGroup{intent: Intent(g.Intent)}
		for _, p := range g.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("compile intent pattern %q: %w", p, err)
			}
			rg.patterns = append(rg.patterns, re)
		}
		c.groups = append(c.groups, rg)
	}
	return c, nil
}

// Classify is pure and deterministic: identical input always yields
// identical output, independent of history.
func (c *Classifier) Classify(message string) Intent {
	for _, g := range c.groups {
		for _, re := range g.patterns {
			if re.MatchString(message) {
				return g.intent
			}
		}
	}
	return GenericSupport
}
