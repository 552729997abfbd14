// =============================================================================
// Payslip Ledger - Line Rule Engine
// =============================================================================
//
// This module normalises the text lines of a document before the date and
// category patterns are matched against them. Rules come from the layout
// configuration and are applied in order to every line.
//
// TYPICAL USES:
//   - Collapsing the irregular spacing some PDF generators emit
//   - Replacing a non-breaking space or odd currency glyph
//   - Rewriting a label so an existing category pattern matches it
//
// =============================================================================

package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/payslip-ledger/internal/config"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Transformer applies a layout's line rules.
type Transformer struct {
	steps []step
}

type step struct {
	rule config.LineRule
	re   *regexp.Regexp
}

// NewTransformer compiles the rules. Unknown rule types and invalid regex
// patterns are errors so a broken layout fails before any document is read.
func NewTransformer(rules []config.LineRule) (*Transformer, error) {
	t := &Transformer{steps: make([]step, 0, len(rules))}
	for i, rule := range rules {
		s := step{rule: rule}
		switch rule.Type {
		case "trim", "trim_left", "trim_right", "collapse_spaces", "normalize_whitespace",
			"uppercase", "lowercase", "replace":
		case "regex_replace":
			if rule.Find == "" {
				return nil, fmt.Errorf("line rule %d: regex_replace needs a find pattern", i+1)
			}
			re, err := regexp.Compile(rule.Find)
			if err != nil {
				return nil, fmt.Errorf("line rule %d: invalid regex pattern: %w", i+1, err)
			}
			s.re = re
		default:
			return nil, fmt.Errorf("line rule %d: unknown type %q", i+1, rule.Type)
		}
		t.steps = append(t.steps, s)
	}
	return t, nil
}

// Apply transforms every line. The input slice is not modified.
func (t *Transformer) Apply(lines []string) []string {
	if len(t.steps) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = t.ApplyLine(line)
	}
	return out
}

// ApplyLine runs every rule over a single line.
func (t *Transformer) ApplyLine(line string) string {
	for _, s := range t.steps {
		line = applyStep(line, s)
	}
	return line
}

func applyStep(value string, s step) string {
	switch s.rule.Type {
	case "trim":
		return strings.TrimSpace(value)

	case "trim_left":
		if s.rule.Value != "" {
			return strings.TrimLeft(value, s.rule.Value)
		}
		return strings.TrimLeft(value, " \t\r")

	case "trim_right":
		if s.rule.Value != "" {
			return strings.TrimRight(value, s.rule.Value)
		}
		return strings.TrimRight(value, " \t\r")

	case "collapse_spaces", "normalize_whitespace":
		// "Salary   1,000.00" -> "Salary 1,000.00"
		return whitespaceRun.ReplaceAllString(value, " ")

	case "uppercase":
		return strings.ToUpper(value)

	case "lowercase":
		return strings.ToLower(value)

	case "replace":
		if s.rule.Find == "" {
			return value
		}
		return strings.ReplaceAll(value, s.rule.Find, s.rule.Value)

	case "regex_replace":
		return s.re.ReplaceAllString(value, s.rule.Value)
	}
	return value
}
