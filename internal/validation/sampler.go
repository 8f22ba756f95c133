package validation

import (
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// DefaultSampleSize is the number of rows kept per rule.
const DefaultSampleSize = 50

// Sampler collects example rows for each violated rule.
type Sampler struct {
	rules []Rule
	limit int
}

// NewSampler creates a Sampler keeping at most limit rows per rule.
// A non-positive limit falls back to DefaultSampleSize.
func NewSampler(rules []Rule, limit int) *Sampler {
	if limit <= 0 {
		limit = DefaultSampleSize
	}
	return &Sampler{rules: rules, limit: limit}
}

// Sample re-applies each rule and returns the first violating rows in table
// order, tagged with the rule's issue type and severity. Rules are visited in
// order; a row that breaks several rules appears once per rule.
func (s *Sampler) Sample(table *types.Table, master types.ProductMaster) []types.SampleRow {
	ctx := NewRuleContext(table, master)

	var samples []types.SampleRow
	for _, rule := range s.rules {
		taken := 0
		for i := range table.Records {
			if taken == s.limit {
				break
			}
			rec := &table.Records[i]
			if !rule.Violates(rec, ctx) {
				continue
			}
			samples = append(samples, types.SampleRow{
				Record:    *rec,
				IssueType: rule.IssueType,
				Severity:  rule.Severity,
			})
			taken++
		}
	}
	return samples
}
