// =============================================================================
// Business Data Validation Toolkit - Validation Pipeline
// =============================================================================
//
// This module orchestrates one validation run, from loading the inputs to
// committing the reports.
//
// VALIDATION PIPELINE:
//   1. Load the transactions and the product master
//   2. Coerce the transactions to the schema
//   3. Run the rule engine
//   4. Sample offending rows
//   5. Score the issue list
//   6. Aggregate the KPIs
//   7. Write the reports into a staging directory
//   8. Commit the staged reports into the output directory
//
// Any error before step 8 leaves the output directory without new files.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/kpi"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/reportwriter"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/scoring"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/types"
	"github.com/olzhaszz/business-data-validation-toolkit/internal/validation"
	"github.com/olzhaszz/business-data-validation-toolkit/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// ValidationResult represents the outcome of one validation run.
type ValidationResult struct {
	// RunID identifies the run in the logs and the workbook.
	RunID string

	// Issues is the sorted issue list (as written to exception_log.csv).
	Issues []types.Issue

	// Score is the quality score.
	Score types.QualityScore

	// KPIs are the summary KPIs.
	KPIs kpi.Summary

	// SampleRows is the number of rows in exception_samples.csv.
	SampleRows int

	// Coercion reports what the schema coercer changed.
	Coercion validation.CoercionReport

	// OutputFiles are the committed report paths.
	OutputFiles []string

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidateOptions are the per-run inputs of a Validator.
type ValidateOptions struct {
	InputPath         string
	ProductMasterPath string
	OutputDir         string
}

// Validator runs the validate command.
type Validator struct {
	cfg     *config.Config
	logger  *zap.Logger
	engine  *validation.Engine
	sampler *validation.Sampler
	writer  *reportwriter.Writer
}

// NewValidator creates a Validator using the default rule set.
//
// PARAMETERS:
//   - cfg:    The application configuration.
//   - logger: The logger. nil disables logging.
func NewValidator(cfg *config.Config, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		cfg:     cfg,
		logger:  logger,
		engine:  validation.NewEngine(validation.DefaultRules, logger),
		sampler: validation.NewSampler(validation.DefaultRules, cfg.Validation.SampleSize),
		writer:  reportwriter.New(reportwriter.Options{BOMPrefix: cfg.Output.BOMPrefix}),
	}
}

// Run executes the validation pipeline.
//
// RETURNS:
//   - The run result.
//   - An error if an input cannot be loaded, a required column is missing,
//     or the reports cannot be written. Data problems are never errors.
func (v *Validator) Run(opts ValidateOptions) (*ValidationResult, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	log := v.logger.With(zap.String("run_id", runID))

	log.Info("validation started",
		zap.String("input", opts.InputPath),
		zap.String("product_master", opts.ProductMasterPath),
		zap.String("output_dir", opts.OutputDir),
	)

	// =========================================================================
	// STEP 1: LOAD INPUTS
	// =========================================================================

	raw, err := LoadTable(opts.InputPath, v.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if err := validation.RequireColumns(raw, validation.ColumnNames(validation.TransactionSchema)...); err != nil {
		return nil, fmt.Errorf("transactions %s: %w", opts.InputPath, err)
	}
	log.Debug("loaded transactions", zap.Int("rows", raw.RowCount()), zap.Int("columns", len(raw.Headers)))

	rawMaster, err := LoadTable(opts.ProductMasterPath, v.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to load product master: %w", err)
	}
	master, err := validation.BuildProductMaster(rawMaster)
	if err != nil {
		return nil, fmt.Errorf("product master %s: %w", opts.ProductMasterPath, err)
	}
	log.Debug("loaded product master", zap.Int("stock_codes", master.Len()))

	// =========================================================================
	// STEP 2: COERCE TO SCHEMA
	// =========================================================================

	coercer := validation.NewCoercer(validation.TransactionSchema, v.cfg.Input.DateLayouts)
	table, report := coercer.Coerce(raw)
	if report.Failures > 0 {
		log.Warn("schema coercion failures",
			zap.Int("cells", report.Failures),
			zap.Any("by_column", report.ByColumn),
		)
	}

	var issues []types.Issue
	if issue, ok := validation.SchemaIssue(report); ok {
		issues = append(issues, issue)
	}

	// =========================================================================
	// STEP 3: RUN RULES
	// =========================================================================

	issues = append(issues, v.engine.Run(table, master)...)
	validation.SortIssues(issues)

	// =========================================================================
	// STEP 4: SAMPLE OFFENDING ROWS
	// =========================================================================

	samples := v.sampler.Sample(table, master)

	// =========================================================================
	// STEP 5-6: SCORE AND KPIS
	// =========================================================================

	score := scoring.Compute(issues, table.Len())
	kpis := kpi.Compute(table)

	log.Info("validation scored",
		zap.Int("rows", table.Len()),
		zap.Int("issues", len(issues)),
		zap.Stringer("score", score.Score),
		zap.String("grade", score.Grade),
	)

	// =========================================================================
	// STEP 7-8: WRITE AND COMMIT REPORTS
	// =========================================================================

	stage, err := utils.NewStage(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	defer stage.Discard()

	if err := v.writer.WriteExceptionLog(stage.Path(reportwriter.ExceptionLogFile), issues); err != nil {
		return nil, err
	}
	if err := v.writer.WriteSamples(stage.Path(reportwriter.ExceptionSamplesFile), table.Headers, samples); err != nil {
		return nil, err
	}
	if err := v.writer.WriteKPIs(stage.Path(reportwriter.SummaryKPIsFile), kpis); err != nil {
		return nil, err
	}
	if err := v.writer.WriteScore(stage.Path(reportwriter.QualityScoreFile), score); err != nil {
		return nil, err
	}
	if v.cfg.Output.XLSXReport {
		err := v.writer.WriteWorkbook(stage.Path(reportwriter.WorkbookFile), reportwriter.WorkbookData{
			RunID:         runID,
			GeneratedAt:   startTime,
			Score:         score,
			Issues:        issues,
			SampleHeaders: table.Headers,
			Samples:       samples,
			KPIs:          kpis,
		})
		if err != nil {
			return nil, err
		}
	}

	files, err := stage.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit reports: %w", err)
	}

	result := &ValidationResult{
		RunID:          runID,
		Issues:         issues,
		Score:          score,
		KPIs:           kpis,
		SampleRows:     len(samples),
		Coercion:       report,
		OutputFiles:    files,
		ProcessingTime: time.Since(startTime),
	}

	log.Info("validation finished",
		zap.Strings("files", files),
		zap.Duration("elapsed", result.ProcessingTime),
	)

	return result, nil
}
