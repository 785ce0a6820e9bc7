package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"monarch-txf/internal/logging"
	"monarch-txf/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Date,Merchant,Category,Account,Original Statement,Notes,Amount,Tags,Owner"

var redCrossMapping = []models.OrganizationMapping{
	{Payee: "RED CROSS", Organization: "American National Red Cross"},
	{Payee: "GOODWILL", Organization: "Goodwill Industries", TaxID: "53-0196517"},
}

func fixedNow() time.Time {
	return time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// convertFixture writes the CSV content to a temp file and runs the pipeline
// against it with sensible test defaults, returning the outcome and the
// output path.
func convertFixture(t *testing.T, content string, mutate func(*Options)) (models.Outcome, string) {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "transactions.csv")
	output := filepath.Join(dir, "donations.txf")
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	opts := Options{
		InputFile:        input,
		OutputFile:       output,
		TaxYear:          2026,
		ReceiptThreshold: decimal.RequireFromString("250.00"),
		OrgNameLimit:     64,
		AppName:          "monarch-txf",
		Now:              fixedNow,
	}
	if mutate != nil {
		mutate(&opts)
	}

	p := New(&logging.MockLogger{})
	return p.Convert(opts, redCrossMapping), output
}

func TestConvertSingleRow(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,REDCROSS*DONATION,Annual donation,-100.00,tax,John\n"

	outcome, output := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationOK, outcome.Classification)
	assert.Equal(t, 1, outcome.TransactionCount)
	assert.Equal(t, 1, outcome.OrganizationCount)
	assert.True(t, outcome.TotalAmount.Equal(decimal.RequireFromString("-100.00")))
	assert.Empty(t, outcome.Errors)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "$-100.00\r\n")
	assert.Contains(t, text, "X01/15/2026 Chase Checking American National Red Cross\r\n")
}

func TestConvertNegatesPositiveAmounts(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,REDCROSS*DONATION,Annual donation,100.00,tax,John\n"

	outcome, output := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "$-100.00\r\n")
}

func TestConvertZeroAmountFailsValidation(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,,,0.00,,\n"

	outcome, output := convertFixture(t, content, nil)

	require.False(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationRowValidation, outcome.Classification)
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], "cannot be zero")
	assert.NoFileExists(t, output)
}

func TestConvertUnmappedPayeeFailsPreflight(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,UNKNOWN CHARITY,Donations,Chase Checking,,,-50.00,,\n" +
		"01/16/2026,BAD-DATE-ROW,Donations,Chase Checking,,,not-a-number,,\n"

	outcome, output := convertFixture(t, content, nil)

	require.False(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationUnmappedMerchant, outcome.Classification)
	// Both unmapped names are listed; row validation never ran, so the bad
	// amount on line 3 is not reported.
	require.Len(t, outcome.Errors, 2)
	assert.Contains(t, outcome.Errors[0], "BAD-DATE-ROW")
	assert.Contains(t, outcome.Errors[1], "UNKNOWN CHARITY")
	for _, msg := range outcome.Errors {
		assert.NotContains(t, msg, "not a number")
	}
	assert.NoFileExists(t, output)
}

func TestConvertCollectsAllRowErrors(t *testing.T) {
	content := header + "\n" +
		"02/30/2026,RED CROSS,Donations,Chase Checking,,,-10.00,,\n" +
		"01/15/2026,GOODWILL,Donations,Chase Checking,,,zero dollars,,\n" +
		",RED CROSS,Donations,Chase Checking,,,,,\n"

	outcome, _ := convertFixture(t, content, nil)

	require.False(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationRowValidation, outcome.Classification)
	// line 2 bad date, line 3 bad amount, line 4 missing date and amount
	require.Len(t, outcome.Errors, 4)
	assert.Contains(t, outcome.Errors[0], "line 2")
	assert.Contains(t, outcome.Errors[1], "line 3")
	assert.Contains(t, outcome.Errors[2], "line 4")
	assert.Contains(t, outcome.Errors[3], "line 4")
}

func TestConvertReceiptThresholdWarning(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,,,-250.00,,\n" +
		"01/16/2026,RED CROSS,Donations,Chase Checking,,,-249.99,,\n"

	outcome, _ := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded)
	receiptWarnings := 0
	for _, w := range outcome.Warnings {
		if strings.Contains(w, "receipt") {
			receiptWarnings++
			assert.Contains(t, w, "$250.00")
		}
	}
	assert.Equal(t, 1, receiptWarnings, "only the inclusive threshold row warns")
}

func TestConvertTaxYearWarningIsAdvisory(t *testing.T) {
	content := header + "\n" +
		"12/31/2025,RED CROSS,Donations,Chase Checking,,,-10.00,,\n"

	outcome, output := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded, "a tax-year mismatch never blocks conversion")
	assert.Equal(t, 1, outcome.TransactionCount)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "2026")
	assert.FileExists(t, output)
}

func TestConvertDuplicateWarning(t *testing.T) {
	row := "01/15/2026,RED CROSS,Donations,Chase Checking,,,-100.00,,\n"
	content := header + "\n" + row + row + row

	outcome, _ := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded, "duplicates are advisory")
	assert.Equal(t, 3, outcome.TransactionCount)
	var dupWarnings []string
	for _, w := range outcome.Warnings {
		if strings.Contains(w, "duplicate") {
			dupWarnings = append(dupWarnings, w)
		}
	}
	require.Len(t, dupWarnings, 1)
	assert.Contains(t, dupWarnings[0], "lines 2, 3, 4")
}

func TestConvertCategoryFilter(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,,,-100.00,,\n" +
		"01/16/2026,LANDLORD LLC,Rent,Chase Checking,,,-2000.00,,\n"

	outcome, _ := convertFixture(t, content, func(o *Options) {
		o.Category = "donations"
	})

	// The rent row is filtered out before preflight, so its unmapped payee
	// never matters.
	require.True(t, outcome.Succeeded)
	assert.Equal(t, 1, outcome.TransactionCount)
}

func TestConvertZeroRowsAfterFilterSucceedsTrivially(t *testing.T) {
	content := header + "\n" +
		"01/16/2026,LANDLORD LLC,Rent,Chase Checking,,,-2000.00,,\n"

	outcome, output := convertFixture(t, content, func(o *Options) {
		o.Category = "Donations"
	})

	require.True(t, outcome.Succeeded)
	assert.Equal(t, 0, outcome.TransactionCount)
	assert.True(t, outcome.TotalAmount.IsZero())
	assert.NoFileExists(t, output, "a trivially successful run writes nothing")
}

func TestConvertHeaderOnlySucceedsTrivially(t *testing.T) {
	outcome, output := convertFixture(t, header+"\n", nil)

	require.True(t, outcome.Succeeded)
	assert.Equal(t, 0, outcome.TransactionCount)
	assert.NoFileExists(t, output)
}

func TestConvertBadHeaderIsParseError(t *testing.T) {
	outcome, _ := convertFixture(t, "A,B,C\n1,2,3\n", nil)

	require.False(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationParseError, outcome.Classification)
	require.Len(t, outcome.Errors, 1)
}

func TestConvertMissingInputIsIOError(t *testing.T) {
	p := New(&logging.MockLogger{})
	outcome := p.Convert(Options{
		InputFile:        filepath.Join(t.TempDir(), "missing.csv"),
		OutputFile:       filepath.Join(t.TempDir(), "out.txf"),
		ReceiptThreshold: decimal.RequireFromString("250.00"),
		Now:              fixedNow,
	}, redCrossMapping)

	require.False(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationIOError, outcome.Classification)
}

func TestConvertDryRunWritesNothing(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,,,-100.00,,\n"

	outcome, output := convertFixture(t, content, func(o *Options) {
		o.DryRun = true
	})

	require.True(t, outcome.Succeeded)
	assert.Equal(t, 1, outcome.TransactionCount)
	assert.NoFileExists(t, output)
}

func TestConvertWriteFailureKeepsCounts(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,,,-100.00,,\n" +
		"01/16/2026,GOODWILL,Donations,Chase Checking,,,-50.00,,\n"

	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("file, not a directory"), 0644))

	outcome, _ := convertFixture(t, content, func(o *Options) {
		// The parent of the output path is a regular file, so the write fails.
		o.OutputFile = filepath.Join(blocked, "donations.txf")
	})

	require.False(t, outcome.Succeeded)
	assert.Equal(t, models.ClassificationIOError, outcome.Classification)
	require.Len(t, outcome.Errors, 1)
	// Counts computed before the write stay informative.
	assert.Equal(t, 2, outcome.TransactionCount)
	assert.Equal(t, 2, outcome.OrganizationCount)
	assert.True(t, outcome.TotalAmount.Equal(decimal.RequireFromString("-150.00")))
}

func TestConvertNonASCIIWarning(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Compte Chèques,,,-100.00,,\n"

	outcome, _ := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded)
	found := false
	for _, w := range outcome.Warnings {
		if strings.Contains(w, "non-ASCII") {
			found = true
		}
	}
	assert.True(t, found, "non-ASCII output should be flagged, not rejected")
}

func TestConvertRowCountMatchesInput(t *testing.T) {
	content := header + "\n" +
		"01/15/2026,RED CROSS,Donations,Chase Checking,,,-1.00,,\n" +
		"01/16/2026,GOODWILL,Donations,Chase Checking,,,-2.00,,\n" +
		"01/17/2026,red cross,Donations,Chase Checking,,,-3.00,,\n"

	outcome, _ := convertFixture(t, content, nil)

	require.True(t, outcome.Succeeded)
	assert.Equal(t, 3, outcome.TransactionCount)
	assert.Equal(t, 2, outcome.OrganizationCount)
}
