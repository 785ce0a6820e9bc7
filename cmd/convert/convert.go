// Package convert handles the CSV to TXF conversion command
package convert

import (
	"fmt"
	"os"

	"monarch-txf/cmd/root"
	"monarch-txf/internal/config"
	"monarch-txf/internal/logging"
	"monarch-txf/internal/models"
	"monarch-txf/internal/pipeline"
	"monarch-txf/internal/store"

	"github.com/spf13/cobra"
)

// Exit codes by failure classification, for scripting around the tool.
const (
	ExitOK               = 0
	ExitConfigError      = 2
	ExitParseError       = 3
	ExitUnmappedMerchant = 4
	ExitRowValidation    = 5
	ExitIOError          = 6
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a transaction CSV export to a TXF import file",
	Long: `Convert reads the transaction export named by --input, resolves every payee
through the organization mappings, and writes a TXF V042 file to --output.`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().BoolVar(&root.DryRun, "dry-run", false, "Run the conversion without writing the output file")
	Cmd.Flags().IntVar(&root.TaxYear, "tax-year", 0, "Warn on transactions outside this tax year (overrides config)")
}

func convertFunc(cmd *cobra.Command, args []string) {
	os.Exit(run())
}

// run performs the conversion and returns the process exit code. Kept apart
// from the cobra handler so tests can call it without exiting.
func run() int {
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	cfg, err := config.InitializeConfig()
	if err != nil {
		logger.WithError(err).Error("Configuration is invalid")
		fmt.Fprintln(os.Stderr, err)
		return ExitConfigError
	}

	if root.SharedFlags.Input == "" {
		fmt.Fprintln(os.Stderr, "an input file is required (--input)")
		return ExitConfigError
	}
	if root.SharedFlags.Output == "" && !root.DryRun {
		fmt.Fprintln(os.Stderr, "an output file is required (--output)")
		return ExitConfigError
	}

	mappingsFile := root.SharedFlags.Mappings
	if mappingsFile == "" {
		mappingsFile = cfg.Mappings.File
	}
	mappings, err := store.NewMappingStore(mappingsFile).LoadMappings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitConfigError
	}

	taxYear := cfg.Tax.Year
	if root.TaxYear != 0 {
		taxYear = root.TaxYear
	}

	outcome := pipeline.New(logger).Convert(pipeline.Options{
		InputFile:        root.SharedFlags.Input,
		OutputFile:       root.SharedFlags.Output,
		Category:         root.SharedFlags.Category,
		TaxYear:          taxYear,
		ReceiptThreshold: cfg.ReceiptThreshold(),
		OrgNameLimit:     cfg.TXF.OrgNameLimit,
		AppName:          cfg.TXF.AppName,
		DryRun:           root.DryRun,
	}, mappings)

	report(outcome)
	return exitCode(outcome.Classification)
}

// report prints collected errors on failure and collected warnings on success.
func report(outcome models.Outcome) {
	if !outcome.Succeeded {
		for _, msg := range outcome.Errors {
			fmt.Fprintln(os.Stderr, "error:", msg)
		}
		return
	}

	if !root.SharedFlags.Quiet {
		for _, msg := range outcome.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", msg)
		}
	}

	fmt.Printf("Converted %d transactions (%d organizations, total $%s)\n",
		outcome.TransactionCount, outcome.OrganizationCount,
		outcome.TotalAmount.Abs().StringFixed(2))
}

func exitCode(class models.Classification) int {
	switch class {
	case models.ClassificationOK:
		return ExitOK
	case models.ClassificationConfigError:
		return ExitConfigError
	case models.ClassificationParseError:
		return ExitParseError
	case models.ClassificationUnmappedMerchant:
		return ExitUnmappedMerchant
	case models.ClassificationRowValidation:
		return ExitRowValidation
	case models.ClassificationIOError:
		return ExitIOError
	default:
		return 1
	}
}
