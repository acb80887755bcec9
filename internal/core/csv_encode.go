package core

// csv_encode.go renders list rows as CSV text for download.
//
// Cells are quoted only when they contain a comma, a double quote or a line
// break; inner quotes are doubled. Rows are joined with CRLF and the header
// row comes first. Formatting of individual cells (money, dates, placeholders)
// belongs to the caller's extractor.

import (
	"strings"
	"time"
)

// CSVContentType is the MIME type of exported CSV files.
const CSVContentType = "text/csv;charset=utf-8"

// ExportTable is a rendered header and cell grid, shared by the CSV and XLSX encoders.
type ExportTable struct {
	Entity  string
	Headers []string
	Rows    [][]string
}

// BuildExportTable applies extract to every row.
func BuildExportTable[T any](entity string, headers []string, rows []T, extract func(T) []string) ExportTable {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, extract(row))
	}
	return ExportTable{Entity: entity, Headers: headers, Rows: cells}
}

// EncodeCSV renders rows under headers as CSV text.
func EncodeCSV[T any](headers []string, rows []T, extract func(T) []string) string {
	return BuildExportTable("", headers, rows, extract).CSV()
}

// CSV renders the table as CSV text.
func (t ExportTable) CSV() string {
	var b strings.Builder
	writeCSVRecord(&b, t.Headers)
	for _, row := range t.Rows {
		b.WriteString("\r\n")
		writeCSVRecord(&b, row)
	}
	return b.String()
}

func writeCSVRecord(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSVCell(cell))
	}
}

// EscapeCSVCell quotes a cell iff it contains a comma, a double quote, CR or LF.
func EscapeCSVCell(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFileName returns "<entity>-export-YYYY-MM-DD.csv" for the UTC date of now.
func ExportFileName(entity string, now time.Time) string {
	return exportFileName(entity, now, "csv")
}

// XLSXFileName returns "<entity>-export-YYYY-MM-DD.xlsx" for the UTC date of now.
func XLSXFileName(entity string, now time.Time) string {
	return exportFileName(entity, now, "xlsx")
}

func exportFileName(entity string, now time.Time, ext string) string {
	return entity + "-export-" + now.UTC().Format("2006-01-02") + "." + ext
}
