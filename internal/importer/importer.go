package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
	"github.com/MrJamesThe3rd/caixa/internal/encoding"
)

var ErrNoHeader = errors.New("no header row with type and amount columns")

// Column keys after normalization (lower case, no spaces, dashes or underscores).
const (
	colType          = "type"
	colAmount        = "amount"
	colReason        = "reason"
	colReferenceType = "referencetype"
	colReferenceID   = "referenceid"
)

// Batch is a parsed upload, ready to be recorded against a session.
type Batch struct {
	Rows      []cash.ImportRow
	Charset   encoding.Charset
	Delimiter rune
}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse decodes r to UTF-8, finds the header row and maps every following
// non-blank row to movement parameters. Rows are not validated here: a
// malformed amount becomes NaN so the ledger rejects it like any other
// invalid amount.
func (p *Parser) Parse(r io.Reader) (*Batch, error) {
	utf8Reader, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	content, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	delimiter := detectDelimiter(string(content))

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	batch := &Batch{Charset: charset, Delimiter: delimiter}

	var cols map[string]int

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		if blank(record) {
			continue
		}

		if cols == nil {
			cols = headerColumns(record)
			continue
		}

		line, _ := reader.FieldPos(0)

		batch.Rows = append(batch.Rows, cash.ImportRow{
			Line:   line,
			Params: toParams(record, cols),
		})
	}

	if cols == nil {
		return nil, ErrNoHeader
	}

	return batch, nil
}

// headerColumns returns the column index of every known key when record is
// a header row, or nil when it is not.
func headerColumns(record []string) map[string]int {
	cols := make(map[string]int, len(record))

	for i, name := range record {
		key := normalizeHeader(name)
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}

	_, hasType := cols[colType]
	_, hasAmount := cols[colAmount]

	if !hasType || !hasAmount {
		return nil
	}

	return cols
}

var headerReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

func normalizeHeader(s string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func toParams(record []string, cols map[string]int) cash.CreateParams {
	field := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	amount, err := ParseAmount(field(colAmount))
	if err != nil {
		amount = math.NaN()
	}

	return cash.CreateParams{
		Type:          cash.MovementType(strings.ToUpper(field(colType))),
		Amount:        amount,
		Reason:        field(colReason),
		ReferenceType: field(colReferenceType),
		ReferenceID:   field(colReferenceID),
	}
}

// detectDelimiter picks ';' or ',' from the first line holding either.
// Semicolon wins ties since comma also appears in decimal amounts.
func detectDelimiter(content string) rune {
	for line := range strings.Lines(content) {
		semicolons, commas := strings.Count(line, ";"), strings.Count(line, ",")
		if semicolons == 0 && commas == 0 {
			continue
		}

		if semicolons >= commas {
			return ';'
		}

		return ','
	}

	return ','
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
