// Package categorize assigns user-defined categories to fingerprinted files.
package categorize

import (
	"sort"
	"strings"

	"dupescan/internal/config"
	"dupescan/internal/fingerprint"
)

// Rule matches files whose name or path contains Expression.
type Rule struct {
	Name       string
	Expression string
}

// Categorizer applies rules in order; the first match wins.
type Categorizer struct {
	rules []Rule
}

// New builds a Categorizer from rules, lowercasing expressions.
func New(rules []Rule) *Categorizer {
	c := &Categorizer{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		expr := strings.ToLower(strings.TrimSpace(r.Expression))
		if expr == "" {
			continue
		}
		c.rules = append(c.rules, Rule{Name: strings.TrimSpace(r.Name), Expression: expr})
	}
	return c
}

// FromConfig builds a Categorizer from the [categorization] rules.
func FromConfig(cfg config.Categorization) *Categorizer {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, Rule{Name: r.Name, Expression: r.Expression})
	}
	return New(rules)
}

// Match returns the name of the first rule matching record, or "".
func (c *Categorizer) Match(record *fingerprint.Record) string {
	name := strings.ToLower(record.Name)
	path := strings.ToLower(record.Path)
	for _, r := range c.rules {
		if strings.Contains(name, r.Expression) || strings.Contains(path, r.Expression) {
			return r.Name
		}
	}
	return ""
}

// Apply sets Category on every record and returns the category index.
func (c *Categorizer) Apply(records []*fingerprint.Record) Index {
	idx := make(Index)
	for _, record := range records {
		record.Category = c.Match(record)
		if record.Category != "" {
			idx[record.Category] = append(idx[record.Category], record.Path)
		}
	}
	return idx
}

// Index maps a category name to the paths assigned to it, in record order.
type Index map[string][]string

// Names returns the category names sorted.
func (idx Index) Names() []string {
	out := make([]string, 0, len(idx))
	for name := range idx {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// BuildIndex groups already categorized records.
func BuildIndex(records []*fingerprint.Record) Index {
	idx := make(Index)
	for _, record := range records {
		if record.Category != "" {
			idx[record.Category] = append(idx[record.Category], record.Path)
		}
	}
	return idx
}
