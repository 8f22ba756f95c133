// =============================================================================
// Business Data Validation Toolkit - Rule Engine
// =============================================================================
//
// The rule engine applies a fixed list of row-level data quality rules to the
// coerced transactions table.
//
// RULE DEFINITION:
//   A rule is data, not code: an issue type, a severity, an owner, a
//   recommended fix and a row predicate. The engine evaluates every rule the
//   same way, so adding a rule means adding an entry to DefaultRules.
//
//   Predicates see one record at a time plus a RuleContext holding what needs
//   the whole table (duplicate keys) or the product master (membership and
//   reference prices). The context is built once per run and is read-only.
//
// NULL HANDLING:
//   Comparisons against a null value are false: a null Quantity is not
//   "<= 0" and a row without a reference price is never an outlier. A null
//   StockCode is treated as text that matches nothing: it fails the format
//   rule and is absent from the product master.
//
// =============================================================================

package validation

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
)

// Issue types produced by the toolkit.
const (
	IssueSchemaValidationFailed = "SCHEMA_VALIDATION_FAILED"
	IssueInvalidInvoiceDate     = "INVALID_INVOICE_DATE"
	IssueMissingCustomerID      = "MISSING_CUSTOMER_ID"
	IssueEmptyDescription       = "EMPTY_DESCRIPTION"
	IssueNonPositiveQuantity    = "NON_POSITIVE_QUANTITY"
	IssueNonPositiveUnitPrice   = "NON_POSITIVE_UNIT_PRICE"
	IssueInvalidStockCodeFormat = "INVALID_STOCKCODE_FORMAT"
	IssueDuplicateLines         = "DUPLICATE_LINES"
	IssueStockCodeNotInMaster   = "STOCKCODE_NOT_IN_PRODUCT_MASTER"
	IssueUnitPriceOutlier       = "UNITPRICE_OUTLIER_VS_REFERENCE"
)

// Bounds of the accepted UnitPrice / UnitPrice_Ref ratio.
const (
	MinPriceRatio = 0.3
	MaxPriceRatio = 3.0
)

// stockCodePattern is an anchored, case-sensitive full match.
var stockCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// =============================================================================
// RULE TABLE
// =============================================================================

// Predicate reports whether a record violates a rule.
type Predicate func(rec *types.Transaction, ctx *RuleContext) bool

// Rule is one data quality rule.
type Rule struct {
	IssueType      string
	Severity       types.Severity
	Owner          string
	RecommendedFix string
	Violates       Predicate
}

// SchemaRule describes the single issue emitted by the schema coercer. It has
// no predicate: its row count comes from the CoercionReport.
var SchemaRule = Rule{
	IssueType:      IssueSchemaValidationFailed,
	Severity:       types.SeverityHigh,
	Owner:          "Reporting Owner",
	RecommendedFix: "Align column names/types; enforce consistent export format (e.g., SAP -> CSV template).",
}

// DefaultRules is the rule set of the validate command, in evaluation order.
var DefaultRules = []Rule{
	{
		IssueType:      IssueInvalidInvoiceDate,
		Severity:       types.SeverityMedium,
		Owner:          "Data Owner",
		RecommendedFix: "Ensure InvoiceDate exports are consistent; fix locale/time format; re-export if needed.",
		Violates: func(rec *types.Transaction, _ *RuleContext) bool {
			return !rec.InvoiceDate.Valid
		},
	},
	{
		IssueType:      IssueMissingCustomerID,
		Severity:       types.SeverityLow,
		Owner:          "Data Owner",
		RecommendedFix: "If CustomerID is required for the report, make it mandatory upstream; otherwise exclude from customer-level KPIs.",
		Violates: func(rec *types.Transaction, _ *RuleContext) bool {
			return !rec.CustomerID.Valid
		},
	},
	{
		IssueType:      IssueEmptyDescription,
		Severity:       types.SeverityLow,
		Owner:          "Data Owner",
		RecommendedFix: "Fill from product master or enforce description capture upstream.",
		Violates: func(rec *types.Transaction, _ *RuleContext) bool {
			return strings.TrimSpace(rec.Description.String()) == ""
		},
	},
	{
		IssueType:      IssueNonPositiveQuantity,
		Severity:       types.SeverityMedium,
		Owner:          "Process Owner",
		RecommendedFix: "Separate returns vs sales; enforce Quantity>0 for sales extracts; tag returns with a flag.",
		Violates: func(rec *types.Transaction, _ *RuleContext) bool {
			return rec.Quantity.Valid && rec.Quantity.Value <= 0
		},
	},
	{
		IssueType:      IssueNonPositiveUnitPrice,
		Severity:       types.SeverityHigh,
		Owner:          "Master Data Owner",
		RecommendedFix: "Fix price master / ensure UnitPrice is extracted correctly; block reporting until corrected.",
		Violates: func(rec *types.Transaction, _ *RuleContext) bool {
			return rec.UnitPrice.Valid && rec.UnitPrice.Value <= 0
		},
	},
	{
		IssueType:      IssueInvalidStockCodeFormat,
		Severity:       types.SeverityMedium,
		Owner:          "Master Data Owner",
		RecommendedFix: "Standardize StockCode format; strip spaces; validate during data entry/export.",
		Violates: func(rec *types.Transaction, _ *RuleContext) bool {
			return !rec.StockCode.Valid || !stockCodePattern.MatchString(rec.StockCode.Value)
		},
	},
	{
		IssueType:      IssueDuplicateLines,
		Severity:       types.SeverityMedium,
		Owner:          "Reporting Owner",
		RecommendedFix: "Define a unique key; deduplicate by latest timestamp; investigate double-exports.",
		Violates: func(rec *types.Transaction, ctx *RuleContext) bool {
			return ctx.IsDuplicate(rec)
		},
	},
	{
		IssueType:      IssueStockCodeNotInMaster,
		Severity:       types.SeverityHigh,
		Owner:          "Master Data Owner",
		RecommendedFix: "Update product master mapping table or correct StockCodes in the source export.",
		Violates: func(rec *types.Transaction, ctx *RuleContext) bool {
			return !rec.StockCode.Valid || !ctx.Master.Contains(rec.StockCode.Value)
		},
	},
	{
		IssueType:      IssueUnitPriceOutlier,
		Severity:       types.SeverityLow,
		Owner:          "Finance/Reporting",
		RecommendedFix: "Review outliers; check currency/decimal issues; fix master price or export transformation.",
		Violates: func(rec *types.Transaction, ctx *RuleContext) bool {
			ratio, ok := ctx.PriceRatio(rec)
			return ok && (ratio < MinPriceRatio || ratio > MaxPriceRatio)
		},
	},
}

// =============================================================================
// RULE CONTEXT
// =============================================================================

// duplicateKey identifies a transaction line. Null parts compare equal to
// each other.
type duplicateKey struct {
	invoice   types.NullString
	stockCode types.NullString
	date      int64
	dateValid bool
}

func keyOf(rec *types.Transaction) duplicateKey {
	k := duplicateKey{
		invoice:   rec.InvoiceNo,
		stockCode: rec.StockCode,
		dateValid: rec.InvoiceDate.Valid,
	}
	if k.dateValid {
		k.date = rec.InvoiceDate.Value.UnixNano()
	}
	return k
}

// RuleContext holds the values predicates share.
type RuleContext struct {
	Master types.ProductMaster

	keyCounts map[duplicateKey]int
}

// NewRuleContext precomputes the shared values for a table.
func NewRuleContext(table *types.Table, master types.ProductMaster) *RuleContext {
	counts := make(map[duplicateKey]int, table.Len())
	for i := range table.Records {
		counts[keyOf(&table.Records[i])]++
	}
	return &RuleContext{
		Master:    master,
		keyCounts: counts,
	}
}

// IsDuplicate reports whether another record shares this record's
// (InvoiceNo, StockCode, InvoiceDate) key. Every member of a duplicate group
// is a duplicate.
func (c *RuleContext) IsDuplicate(rec *types.Transaction) bool {
	return c.keyCounts[keyOf(rec)] > 1
}

// PriceRatio returns UnitPrice / UnitPrice_Ref. ok is false when either price
// is unavailable or the ratio is undefined (0/0). A zero reference price with
// a non-zero UnitPrice yields an infinite ratio.
func (c *RuleContext) PriceRatio(rec *types.Transaction) (ratio float64, ok bool) {
	if !rec.UnitPrice.Valid || !rec.StockCode.Valid {
		return 0, false
	}
	ref, found := c.Master.RefPrice(rec.StockCode.Value)
	if !found {
		return 0, false
	}
	ratio = rec.UnitPrice.Value / ref
	if math.IsNaN(ratio) {
		return 0, false
	}
	return ratio, true
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine evaluates a rule set.
type Engine struct {
	rules  []Rule
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(rules []Rule, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rules: rules, logger: logger}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Run evaluates every rule against the table.
//
// PARAMETERS:
//   - table:  The coerced transactions table. LineRevenue is filled in.
//   - master: The product master lookup.
//
// RETURNS:
//   - One Issue per rule with at least one violating row, in rule order.
//     Rules without violations are omitted.
func (e *Engine) Run(table *types.Table, master types.ProductMaster) []types.Issue {
	ctx := NewRuleContext(table, master)

	var issues []types.Issue
	for _, rule := range e.rules {
		count := 0
		for i := range table.Records {
			if rule.Violates(&table.Records[i], ctx) {
				count++
			}
		}

		e.logger.Debug("rule evaluated",
			zap.String("issue_type", rule.IssueType),
			zap.Int("violations", count),
		)

		if count > 0 {
			issues = append(issues, rule.issue(count))
		}
	}

	AddLineRevenue(table)

	return issues
}

// issue builds the Issue reported by a rule.
func (r Rule) issue(count int) types.Issue {
	return types.Issue{
		IssueType:      r.IssueType,
		Severity:       r.Severity,
		RowCount:       count,
		Owner:          r.Owner,
		RecommendedFix: r.RecommendedFix,
	}
}

// SchemaIssue returns the SCHEMA_VALIDATION_FAILED issue for a coercion
// report, or false when every cell conformed.
func SchemaIssue(report CoercionReport) (types.Issue, bool) {
	if report.Failures == 0 {
		return types.Issue{}, false
	}
	return SchemaRule.issue(report.Failures), true
}

// AddLineRevenue sets LineRevenue = Quantity x UnitPrice on every record.
func AddLineRevenue(table *types.Table) {
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Quantity.Valid && rec.UnitPrice.Valid {
			rec.LineRevenue = types.NullFloat{Value: rec.Quantity.Value * rec.UnitPrice.Value, Valid: true}
		} else {
			rec.LineRevenue = types.NullFloat{}
		}
	}
}

// SortIssues orders issues by severity (HIGH, MEDIUM, LOW) and then by
// descending row count. Ties keep their input order.
func SortIssues(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		ri, rj := issues[i].Severity.Rank(), issues[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return issues[i].RowCount > issues[j].RowCount
	})
}
