// Package scoring turns an issue list into a 0-100 data quality score and a
// letter grade.
//
// The penalty of an issue is its weight times the share of rows it affects,
// in percent:
//
//	penalty = Σ weight(severity) × row_count / max(total_rows, 1) × 100
//	score   = max(0, round(100 - penalty, 1))
//
// A row that breaks several rules is penalized once per rule.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// Severity weights. Unknown severities weigh as LOW.
const (
	WeightHigh    = 8
	WeightMedium  = 4
	WeightLow     = 2
	WeightDefault = WeightLow
)

// gradeBands is evaluated top-down; the first floor the score reaches wins.
var gradeBands = []struct {
	floor float64
	grade string
}{
	{95, "A"},
	{90, "B"},
	{80, "C"},
	{70, "D"},
}

// Weight returns the penalty weight of a severity. Matching is
// case-insensitive.
func Weight(s types.Severity) float64 {
	switch types.Severity(strings.ToUpper(string(s))) {
	case types.SeverityHigh:
		return WeightHigh
	case types.SeverityMedium:
		return WeightMedium
	case types.SeverityLow:
		return WeightLow
	default:
		return WeightDefault
	}
}

// Penalty returns the unrounded total penalty of the issues.
func Penalty(issues []types.Issue, totalRows int) float64 {
	denom := float64(totalRows)
	if totalRows < 1 {
		denom = 1
	}

	penalty := 0.0
	for _, issue := range issues {
		penalty += Weight(issue.Severity) * (float64(issue.RowCount) / denom) * 100
	}
	return penalty
}

// Compute scores an issue list. It is a pure function of its arguments.
func Compute(issues []types.Issue, totalRows int) types.QualityScore {
	score := math.Max(0, Round1(100-Penalty(issues, totalRows)))

	return types.QualityScore{
		Score:      types.Score(score),
		Grade:      Grade(score),
		TotalRows:  totalRows,
		IssueCount: len(issues),
	}
}

// Grade maps a score to A-E.
func Grade(score float64) string {
	for _, band := range gradeBands {
		if score >= band.floor {
			return band.grade
		}
	}
	return "E"
}

// Round1 rounds to one decimal place. Rounding works on the exact binary
// value with ties to even, so 0.25 becomes 0.2.
func Round1(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	if err != nil {
		return x
	}
	return r
}
