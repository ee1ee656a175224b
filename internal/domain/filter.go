package domain

import (
	"regexp"
	"strings"
)

const (
	PrefixFilter  = "prefix"
	SuffixFilter  = "suffix"
	PatternFilter = "pattern"
)

// BillingExportPattern matches the detailed billing report with resources and
// tags, capturing the billing period as YYYY-MM.
const BillingExportPattern = `.+-aws-billing-detailed-line-items-with-resources-and-tags-(\d{4}-(?:0[1-9]|1[0-2]))\.csv\.zip`

type FilterRule struct {
	Name    string
	Value   string
	pattern *regexp.Regexp
}

// PatternRule builds a rule that must match the whole key.
func PatternRule(expr string) FilterRule {
	return FilterRule{
		Name:    PatternFilter,
		Value:   expr,
		pattern: regexp.MustCompile("^(?:" + expr + ")$"),
	}
}

func (f FilterRule) FilterKey(key string) bool {
	switch f.Name {
	case PrefixFilter:
		return strings.HasPrefix(key, f.Value)
	case SuffixFilter:
		return strings.HasSuffix(key, f.Value)
	case PatternFilter:
		return f.pattern.MatchString(key)
	}

	panic("expected FilterRule Name to be prefix, suffix or pattern but was " + f.Name)
}

type Filter struct {
	Rules []FilterRule
}

// Matches reports whether key satisfies every rule. An empty filter matches everything.
func (f Filter) Matches(key string) bool {
	for _, rule := range f.Rules {
		if !rule.FilterKey(key) {
			return false
		}
	}

	return true
}

var billingExport = PatternRule(BillingExportPattern)

func BillingExportFilter() Filter {
	return Filter{Rules: []FilterRule{billingExport}}
}

// BillingPeriod returns the YYYY-MM period of a billing export key.
func BillingPeriod(key string) (string, bool) {
	m := billingExport.pattern.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}

	return m[1], true
}
