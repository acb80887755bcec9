package core

// csv_decode.go turns a user-supplied membership CSV into ImportRows.
//
// Decoding never fails on content. Headers are matched case-insensitively
// against a list of aliases per field; the first alias with a non-empty value
// wins. Numeric cells degrade to defaults, and a record with neither a name
// nor a phone is skipped. Quoted fields may contain commas, doubled quotes and
// line breaks, so a record can span several physical lines; a CRLF inside a
// quoted cell reads back as LF.

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Header aliases accepted on import, in lookup order.
var (
	colCustomer     = []string{"Customer", "customerName"}
	colPhone        = []string{"Phone", "customerPhone"}
	colEmail        = []string{"Email", "customerEmail"}
	colTotalCredits = []string{"Total credits", "totalCredits"}
	colSoldAt       = []string{"Sold at", "soldAtBranch", "Branch"}
	colPurchaseDate = []string{"Purchase date", "purchaseDate"}
	colExpiry       = []string{"Expiry", "expiryDate"}
	colPackagePrice = []string{"Package price", "packagePrice"}
	colDiscount     = []string{"Discount", "discountAmount"}
	colPackage      = []string{"Package", "customerPackage"}
)

// MembershipImportHeaders lists the canonical import header row.
var MembershipImportHeaders = []string{
	colCustomer[0], colPhone[0], colEmail[0], colTotalCredits[0], colSoldAt[0],
	colPurchaseDate[0], colExpiry[0], colPackagePrice[0], colDiscount[0], colPackage[0],
}

// csvRecord is one logical CSV record and the physical line it starts on.
type csvRecord struct {
	Line   int
	Fields []string
}

// DecodeMembershipReader reads all of r, repairs its encoding and decodes it.
func DecodeMembershipReader(r io.Reader) ([]ImportRow, error) {
	text, err := ReadText(r, 0)
	if err != nil {
		return nil, err
	}
	return DecodeMembershipCSV(text), nil
}

// DecodeMembershipCSV decodes membership import rows from CSV text.
// Returns an empty slice when there is no header or no data record.
func DecodeMembershipCSV(text string) []ImportRow {
	records := readRecords(text)
	if len(records) < 2 {
		return nil
	}

	headers := make([]string, len(records[0].Fields))
	for i, h := range records[0].Fields {
		headers[i] = CleanCell(h)
	}
	lookup := headerLookup(headers)

	out := make([]ImportRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		get := func(aliases []string) string {
			return lookup.value(rec.Fields, aliases)
		}

		name := get(colCustomer)
		phone := get(colPhone)
		if name == "" && phone == "" {
			continue
		}

		row := ImportRow{
			CustomerName:    name,
			CustomerPhone:   phone,
			CustomerEmail:   get(colEmail),
			TotalCredits:    ParseCredits(get(colTotalCredits)),
			SoldAtBranch:    get(colSoldAt),
			PurchaseDate:    get(colPurchaseDate),
			ExpiryDate:      get(colExpiry),
			CustomerPackage: get(colPackage),
			Line:            rec.Line,
		}
		if v, ok := ParseMoney(get(colPackagePrice)); ok {
			row.PackagePrice = &v
		}
		if v, ok := ParseMoney(get(colDiscount)); ok {
			row.DiscountAmount = &v
		}

		out = append(out, row)
	}
	return out
}

// headerIndex maps lower-cased header names to the first column carrying them.
type headerIndex map[string]int

func headerLookup(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for i, h := range headers {
		key := strings.ToLower(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// value returns the first non-empty cell among the aliases, trimmed.
// The export placeholder counts as empty.
func (h headerIndex) value(fields []string, aliases []string) string {
	for _, alias := range aliases {
		pos, ok := h[strings.ToLower(alias)]
		if !ok || pos >= len(fields) {
			continue
		}
		v := strings.TrimSpace(fields[pos])
		if IsPlaceholder(v) {
			continue
		}
		return v
	}
	return ""
}

// readRecords parses text with encoding/csv, keeping the line each record
// starts on. Ragged rows and stray quotes are accepted, and records whose
// cells are all blank are dropped.
func readRecords(text string) []csvRecord {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records []csvRecord
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			break
		}
		if blankRecord(fields) {
			continue
		}
		line, _ := r.FieldPos(0)
		records = append(records, csvRecord{Line: line, Fields: fields})
	}
	return records
}

func blankRecord(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
