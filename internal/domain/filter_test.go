package domain_test

import (
	"testing"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/stretchr/testify/assert"
)

const billingKey = "foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-05.csv.zip"

func TestFilterNoRules(t *testing.T) {
	filter := domain.Filter{}

	assert.True(t, filter.Matches("test1.bin"))
	assert.True(t, filter.Matches("test1.txt"))
}

func TestFilterPrefixAndSuffix(t *testing.T) {
	filter := domain.Filter{
		Rules: []domain.FilterRule{
			{Name: domain.PrefixFilter, Value: "test1"},
			{Name: domain.SuffixFilter, Value: "bin"},
		},
	}

	assert.True(t, filter.Matches("test1.bin"))
	assert.False(t, filter.Matches("test1.txt"))
	assert.False(t, filter.Matches("test2.bin"))
}

func TestBillingExportFilter(t *testing.T) {
	filter := domain.BillingExportFilter()

	tests := []struct {
		key      string
		expected bool
	}{
		{billingKey, true},
		{"123456789012-aws-billing-detailed-line-items-with-resources-and-tags-2017-12.csv.zip", true},
		{"reports/123-aws-billing-detailed-line-items-with-resources-and-tags-2017-01.csv.zip", true},
		{"random-file.txt", false},
		{"-aws-billing-detailed-line-items-with-resources-and-tags-2023-05.csv.zip", false},
		{billingKey + ".bak", false},
		{"foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-5.csv.zip", false},
		{"foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-13.csv.zip", false},
		{"foo-aws-billing-detailed-line-items-with-resources-and-tags-2023-05xcsvxzip", false},
		{"foo-aws-billing-detailed-line-items-2023-05.csv.zip", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, filter.Matches(test.key), test.key)
	}
}

func TestBillingPeriod(t *testing.T) {
	period, ok := domain.BillingPeriod(billingKey)
	assert.True(t, ok)
	assert.Equal(t, "2023-05", period)

	_, ok = domain.BillingPeriod("random-file.txt")
	assert.False(t, ok)
}

func TestFilterRuleUnknownName(t *testing.T) {
	rule := domain.FilterRule{Name: "contains", Value: "x"}

	assert.Panics(t, func() { rule.FilterKey("x") })
}
