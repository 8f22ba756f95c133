package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/reportwriter"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/validation"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/valuereport"
	"github.com/olzhaszz/business-data-validation-toolkit/pkg/utils"
)

// reportColumns are the columns the value report reads.
var reportColumns = []string{
	validation.ColInvoiceNo,
	validation.ColStockCode,
	validation.ColDescription,
	validation.ColQuantity,
	validation.ColInvoiceDate,
	validation.ColUnitPrice,
	validation.ColCustomerID,
}

// ReportOptions are the per-run inputs of a Reporter.
type ReportOptions struct {
	InputPath string
	OutputDir string

	// TopProducts overrides the configured ranking length when > 0.
	TopProducts int
}

// ReportResult represents the outcome of one value report run.
type ReportResult struct {
	Weeks          []valuereport.WeekRow
	Products       []valuereport.ProductRow
	OutputFiles    []string
	ProcessingTime time.Duration
}

// Reporter runs the value report command.
type Reporter struct {
	cfg    *config.Config
	logger *zap.Logger
	writer *reportwriter.Writer
}

// NewReporter creates a Reporter. A nil logger disables logging.
func NewReporter(cfg *config.Config, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		cfg:    cfg,
		logger: logger,
		writer: reportwriter.New(reportwriter.Options{BOMPrefix: cfg.Output.BOMPrefix}),
	}
}

// Run builds the weekly trend and the top products ranking. Values that do
// not parse are treated as missing; the report does not judge data quality.
func (r *Reporter) Run(opts ReportOptions) (*ReportResult, error) {
	startTime := time.Now()

	raw, err := LoadTable(opts.InputPath, r.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if err := validation.RequireColumns(raw, reportColumns...); err != nil {
		return nil, fmt.Errorf("transactions %s: %w", opts.InputPath, err)
	}

	table, _ := validation.NewCoercer(validation.TransactionSchema, r.cfg.Input.DateLayouts).Coerce(raw)
	validation.AddLineRevenue(table)

	top := opts.TopProducts
	if top <= 0 {
		top = r.cfg.Report.TopProducts
	}

	weeks := valuereport.Weekly(table)
	products := valuereport.TopProducts(table, top)

	r.logger.Debug("value report built",
		zap.Int("rows", table.Len()),
		zap.Int("weeks", len(weeks)),
		zap.Int("products", len(products)),
	)

	stage, err := utils.NewStage(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	defer stage.Discard()

	if err := r.writer.WriteWeekly(stage.Path(reportwriter.WeeklyReportFile), weeks); err != nil {
		return nil, err
	}
	if err := r.writer.WriteTopProducts(stage.Path(reportwriter.TopProductsFile), products); err != nil {
		return nil, err
	}

	files, err := stage.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit reports: %w", err)
	}

	r.logger.Info("value report written", zap.Strings("files", files))

	return &ReportResult{
		Weeks:          weeks,
		Products:       products,
		OutputFiles:    files,
		ProcessingTime: time.Since(startTime),
	}, nil
}
