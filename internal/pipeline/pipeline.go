// Package pipeline drives the conversion from a transaction export file to a
// TXF import file: parse, filter, preflight, validate, resolve, advise,
// generate, persist. Every run returns an Outcome; the pipeline never panics
// and never returns a bare error to the caller.
package pipeline

import (
	"strings"
	"time"

	"monarch-txf/internal/advisory"
	"monarch-txf/internal/converr"
	"monarch-txf/internal/fileutils"
	"monarch-txf/internal/logging"
	"monarch-txf/internal/models"
	"monarch-txf/internal/monarchparser"
	"monarch-txf/internal/preflight"
	"monarch-txf/internal/resolver"
	"monarch-txf/internal/rowvalidator"
	"monarch-txf/internal/txf"

	"github.com/shopspring/decimal"
)

// Options controls a single conversion run.
type Options struct {
	InputFile        string
	OutputFile       string
	Category         string // optional case-insensitive category filter
	TaxYear          int    // 0 disables the tax-year advisory
	ReceiptThreshold decimal.Decimal
	OrgNameLimit     int
	AppName          string
	DryRun           bool
	Now              func() time.Time // export date source; defaults to time.Now
}

// Pipeline sequences the conversion stages.
type Pipeline struct {
	logger logging.Logger
}

// New creates a Pipeline with the given logger.
func New(logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{logger: logger}
}

// Convert runs the full pipeline against the input file using the supplied
// organization mappings. Stages short-circuit on the first failure; advisory
// findings accumulate as warnings on a successful outcome.
func (p *Pipeline) Convert(opts Options, mappings []models.OrganizationMapping) models.Outcome {
	rows, err := monarchparser.ParseFile(opts.InputFile)
	if err != nil {
		return p.failure(classify(err), err)
	}

	rows = filterByCategory(rows, opts.Category)
	if len(rows) == 0 {
		p.logger.Info("No rows to convert")
		return models.Outcome{
			Succeeded:      true,
			Classification: models.ClassificationOK,
			TotalAmount:    decimal.Zero,
		}
	}

	ix := resolver.NewIndex(mappings)

	payees := preflight.DistinctPayees(rows)
	if gateErrs := preflight.Check(payees, ix); len(gateErrs) > 0 {
		p.logger.WithField(logging.FieldCount, len(gateErrs)).Error("Unmapped payees found")
		return p.failureAll(models.ClassificationUnmappedMerchant, gateErrs)
	}

	validated, rowErrs := p.validateRows(rows)
	if len(rowErrs) > 0 {
		return p.failureAll(models.ClassificationRowValidation, rowErrs)
	}

	resolved, warnings := p.resolveAndAdvise(validated, ix, opts)

	for _, group := range advisory.FindDuplicates(resolved) {
		warnings = append(warnings, advisory.FormatDuplicateWarning(group))
	}

	generator := txf.NewGenerator(opts.AppName, opts.OrgNameLimit)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	output := generator.Generate(resolved, now())

	if !txf.IsSevenBitClean(output) {
		warnings = append(warnings, "output contains non-ASCII characters; the TXF format expects 7-bit text")
	}

	outcome := models.Outcome{
		Succeeded:         true,
		Classification:    models.ClassificationOK,
		TransactionCount:  len(resolved),
		TotalAmount:       sumAmounts(resolved),
		OrganizationCount: countOrganizations(resolved),
		Warnings:          warnings,
	}

	if !opts.DryRun {
		if err := fileutils.WriteFileAtomic(opts.OutputFile, []byte(output)); err != nil {
			writeErr := &converr.OutputError{FilePath: opts.OutputFile, Err: err}
			p.logger.WithError(writeErr).Error("Failed to persist output")
			// Counts stay informative, but the run as a whole failed.
			outcome.Succeeded = false
			outcome.Classification = models.ClassificationIOError
			outcome.Errors = []string{writeErr.Error()}
			return outcome
		}
		p.logger.WithField(logging.FieldOutputFile, opts.OutputFile).Info("Wrote TXF output")
	}

	return outcome
}

// validateRows validates every row and collects every row's errors, so a user
// sees all problems in one pass rather than fixing one row at a time.
func (p *Pipeline) validateRows(rows []models.RawRow) ([]models.ValidatedTransaction, []error) {
	var validated []models.ValidatedTransaction
	var allErrs []error

	for _, row := range rows {
		tx, errs := rowvalidator.Validate(row)
		if len(errs) > 0 {
			allErrs = append(allErrs, errs...)
			continue
		}
		validated = append(validated, tx)
	}

	return validated, allErrs
}

// resolveAndAdvise joins each validated transaction with its organization
// mapping and applies the per-row advisories in row order. The preflight gate
// has already guaranteed resolution succeeds.
func (p *Pipeline) resolveAndAdvise(validated []models.ValidatedTransaction, ix *resolver.Index, opts Options) ([]models.ResolvedTransaction, []string) {
	resolved := make([]models.ResolvedTransaction, 0, len(validated))
	var warnings []string

	for _, tx := range validated {
		mapping, _ := ix.Resolve(tx.Payee)
		resolved = append(resolved, models.ResolvedTransaction{
			Date:         tx.Date,
			Organization: mapping.Organization,
			TaxID:        mapping.TaxID,
			Account:      tx.Account,
			Amount:       tx.Amount,
			LineNumber:   tx.LineNumber,
		})

		if msg, ok := advisory.CheckTaxYear(tx, opts.TaxYear); ok {
			warnings = append(warnings, msg)
		}
		if msg, ok := advisory.CheckReceiptThreshold(tx, opts.ReceiptThreshold); ok {
			warnings = append(warnings, msg)
		}
	}

	return resolved, warnings
}

// filterByCategory keeps only rows whose category equals the filter,
// case-insensitively. An empty filter keeps everything.
func filterByCategory(rows []models.RawRow, category string) []models.RawRow {
	if category == "" {
		return rows
	}

	filtered := rows[:0:0]
	for _, row := range rows {
		if strings.EqualFold(row.Category, category) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func sumAmounts(resolved []models.ResolvedTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range resolved {
		total = total.Add(tx.Amount)
	}
	return total
}

func countOrganizations(resolved []models.ResolvedTransaction) int {
	orgs := make(map[string]struct{}, len(resolved))
	for _, tx := range resolved {
		orgs[tx.Organization] = struct{}{}
	}
	return len(orgs)
}

// classify maps a stage error to its failure classification.
func classify(err error) models.Classification {
	switch err.(type) {
	case *converr.ConfigError:
		return models.ClassificationConfigError
	case *converr.InputError:
		return models.ClassificationIOError
	case *converr.StructureError:
		return models.ClassificationParseError
	case *converr.OutputError:
		return models.ClassificationIOError
	default:
		return models.ClassificationParseError
	}
}

func (p *Pipeline) failure(class models.Classification, err error) models.Outcome {
	return models.Outcome{
		Succeeded:      false,
		Classification: class,
		TotalAmount:    decimal.Zero,
		Errors:         []string{err.Error()},
	}
}

func (p *Pipeline) failureAll(class models.Classification, errs []error) models.Outcome {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return models.Outcome{
		Succeeded:      false,
		Classification: class,
		TotalAmount:    decimal.Zero,
		Errors:         messages,
	}
}
