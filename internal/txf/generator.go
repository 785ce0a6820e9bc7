// Package txf renders resolved transactions as a TXF (Tax eXchange Format)
// V042 import file. Generation is pure formatting: inputs are expected to be
// validated upstream and Generate never fails.
package txf

import (
	"strings"
	"time"

	"monarch-txf/internal/models"
)

// Fixed tags of the V042 format. N280 is the record code for a cash
// charitable contribution; it is the only record type this tool emits.
const (
	versionTag      = "V042"
	recordTypeTag   = "TD"
	categoryCodeTag = "N280"
	copyTag         = "C1"
	lineTag         = "L1"
	blockTerminator = "^"
	dateLayout      = "01/02/2006"
	crlf            = "\r\n"
)

// DefaultOrgNameLimit is the longest organization name rendered into a detail
// line, a tax-form convention carried as a configurable constant.
const DefaultOrgNameLimit = 64

// Generator produces TXF output text.
type Generator struct {
	appName      string
	orgNameLimit int
}

// NewGenerator creates a Generator. appName becomes the application identity
// line of the header; orgNameLimit values < 1 fall back to the default.
func NewGenerator(appName string, orgNameLimit int) *Generator {
	if orgNameLimit < 1 {
		orgNameLimit = DefaultOrgNameLimit
	}
	return &Generator{appName: appName, orgNameLimit: orgNameLimit}
}

// Generate renders the complete output text for the given transactions, in
// input order, with exportDate stamped into the header. Every line ends with
// a CRLF pair.
func (g *Generator) Generate(transactions []models.ResolvedTransaction, exportDate time.Time) string {
	var b strings.Builder

	g.writeHeader(&b, exportDate)
	for _, tx := range transactions {
		g.writeDetail(&b, tx)
	}

	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, exportDate time.Time) {
	writeLine(b, versionTag)
	writeLine(b, "A"+g.appName)
	writeLine(b, "D"+exportDate.Format(dateLayout))
	writeLine(b, blockTerminator)
}

func (g *Generator) writeDetail(b *strings.Builder, tx models.ResolvedTransaction) {
	writeLine(b, recordTypeTag)
	writeLine(b, categoryCodeTag)
	writeLine(b, copyTag)
	writeLine(b, lineTag)
	writeLine(b, "$"+tx.Amount.StringFixed(2))
	writeLine(b, "X"+g.detailText(tx))
	writeLine(b, blockTerminator)
}

// detailText builds the free-text line: date, account verbatim (an empty
// account leaves a double space), the organization name truncated to the
// configured limit, and the tax ID when present.
func (g *Generator) detailText(tx models.ResolvedTransaction) string {
	parts := []string{
		tx.Date.Format(dateLayout),
		tx.Account,
		truncate(tx.Organization, g.orgNameLimit),
	}
	if tx.TaxID != "" {
		parts = append(parts, "EIN:", tx.TaxID)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString(crlf)
}

// IsSevenBitClean reports whether every byte of the generated text is
// representable in 7-bit ASCII. The generator passes names through verbatim;
// callers use this to flag output that is not.
func IsSevenBitClean(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > 0x7f {
			return false
		}
	}
	return true
}
