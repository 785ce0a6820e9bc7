// Package root contains the root command for the application
package root

import (
	"monarch-txf/internal/config"
	"monarch-txf/internal/logging"
	"monarch-txf/internal/monarchparser"
	"monarch-txf/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Mappings string
	Category string
	Quiet    bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "monarch-txf",
		Short: "A CLI tool to convert a transaction CSV export to a TXF tax-import file.",
		Long: `monarch-txf converts a Monarch-style transaction CSV export into a TXF V042
import file of charitable cash contributions, using a YAML mapping from raw
merchant names to official donee organizations.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to monarch-txf!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			adapter := logging.NewLogrusAdapterFromLogger(Log)
			monarchparser.SetLogger(adapter)
			store.SetLogger(adapter)
		},
	}

	// SharedFlags holds common flag values accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific convert command flags
	DryRun  bool
	TaxYear int
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Mappings, "mappings", "m", "", "Organization mappings YAML file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Category, "category", "c", "", "Only convert rows with this category (case-insensitive)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Quiet, "quiet", "q", false, "Suppress warnings on success")
}
