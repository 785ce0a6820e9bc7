// Package payees handles the distinct-payee extraction command
package payees

import (
	"fmt"
	"os"

	"monarch-txf/cmd/root"
	"monarch-txf/internal/models"
	"monarch-txf/internal/monarchparser"
	"monarch-txf/internal/preflight"
	"monarch-txf/internal/resolver"
	"monarch-txf/internal/store"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

// PayeeRecord is one row of the extraction report.
type PayeeRecord struct {
	Payee        string `csv:"payee"`
	Mapped       bool   `csv:"mapped"`
	Organization string `csv:"organization"`
}

// Cmd represents the payees command
var Cmd = &cobra.Command{
	Use:   "payees",
	Short: "List the distinct payees appearing in an input CSV",
	Long: `Payees extracts every distinct merchant name from the input export, marks
whether each one has an organization mapping, and writes the result as CSV.
Use it to bootstrap or audit the mappings file before converting.`,
	Run: payeesFunc,
}

func payeesFunc(cmd *cobra.Command, args []string) {
	if err := run(); err != nil {
		root.Log.Error(err)
		os.Exit(1)
	}
}

func run() error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input file is required (--input)")
	}

	rows, err := monarchparser.ParseFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	// The mappings file is optional here: without one, every payee simply
	// reports as unmapped.
	var mappings []models.OrganizationMapping
	if loaded, err := store.NewMappingStore(root.SharedFlags.Mappings).LoadMappings(); err == nil {
		mappings = loaded
	}
	ix := resolver.NewIndex(mappings)

	var records []PayeeRecord
	for _, name := range preflight.DistinctPayees(rows) {
		mapping, ok := ix.Resolve(name)
		records = append(records, PayeeRecord{
			Payee:        name,
			Mapped:       ok,
			Organization: mapping.Organization,
		})
	}

	out := os.Stdout
	if root.SharedFlags.Output != "" {
		f, err := os.Create(root.SharedFlags.Output)
		if err != nil {
			return fmt.Errorf("error creating report file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				root.Log.Warnf("Failed to close report file: %v", err)
			}
		}()
		out = f
	}

	if err := gocsv.Marshal(&records, out); err != nil {
		return fmt.Errorf("error writing payee report: %w", err)
	}

	root.Log.Infof("Listed %d distinct payees", len(records))
	return nil
}
