package core

// convert.go provides conversions between backend wire values, CSV cells and Go types.
//
// These functions handle the messy reality of user-provided CSV data:
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Currency symbols and thousand separators in numbers
//   - Accounting format for negatives "(12.50)"
//   - Placeholder cells ("—") written by our own exports
//
// Parsers report failure through a bool so that callers can apply their own
// defaults; nothing here returns an error for bad cell content.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered for missing values in exports and read back as empty on import.
const Placeholder = "—"

// numericPrefixRegex matches the leading number of a cleaned cell, the same prefix
// a permissive float parser would accept: "1000.00 (250.00 off)" yields "1000.00".
var numericPrefixRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// integerPrefixRegex matches the leading integer of a cleaned cell.
var integerPrefixRegex = regexp.MustCompile(`^[+-]?\d+`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	timestampLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// IsPlaceholder reports whether a cell is empty or holds the export placeholder.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == Placeholder
}

// cleanNumber strips currency symbols, thousands separators and whitespace, and
// turns accounting parentheses into a leading minus sign.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "\u20ac", "") // Euro
	s = strings.ReplaceAll(s, "\u00a3", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}
	return s
}

// ParseMoneyDecimal parses a money cell such as "$1,250.00".
// Returns false for empty cells, "—", "-" and cells with no leading number.
func ParseMoneyDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == Placeholder || s == "-" {
		return decimal.Zero, false
	}

	match := numericPrefixRegex.FindString(cleanNumber(s))
	if match == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseMoney is ParseMoneyDecimal converted to the float the backend expects.
func ParseMoney(s string) (float64, bool) {
	d, ok := ParseMoneyDecimal(s)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseCredits parses a credit count. Unparseable or zero counts become 1.
func ParseCredits(s string) int {
	match := integerPrefixRegex.FindString(cleanNumber(s))
	if match == "" {
		return 1
	}
	n, err := strconv.Atoi(match)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

// FormatMoney renders an amount as US currency: 1250 becomes "$1,250.00".
func FormatMoney(amount float64) string {
	return FormatMoneyDecimal(decimal.NewFromFloat(amount))
}

// FormatMoneyDecimal renders a decimal amount as US currency.
func FormatMoneyDecimal(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("$")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPrice renders a package price, showing the discount when one applies:
// "$1,000.00 ($250.00 off)". A nil price renders as the placeholder.
func FormatPrice(price, discount *float64) string {
	if price == nil {
		return Placeholder
	}
	if discount != nil && *discount > 0 {
		net := decimal.NewFromFloat(*price).Sub(decimal.NewFromFloat(*discount))
		return FormatMoneyDecimal(net) + " (" + FormatMoney(*discount) + " off)"
	}
	return FormatMoney(*price)
}

// ParseDay parses a calendar date in loc, returning midnight of that day.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDay(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseTimestamp parses a backend date or date-time. Values with an explicit
// offset keep it; values without one are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return ParseDay(s, loc)
}

// ParseDateRange resolves the bounds of a date filter: from is the start of its
// day, to is 23:59:59 of its day. Empty bounds stay zero (open).
func ParseDateRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	var start, end time.Time

	if strings.TrimSpace(from) != "" {
		day, ok := ParseDay(from, loc)
		if !ok {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		start = day
	}
	if strings.TrimSpace(to) != "" {
		day, ok := ParseDay(to, loc)
		if !ok {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		end = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
	}

	return start, end, nil
}

// FormatDate renders a backend date as YYYY-MM-DD in loc.
// Empty values render as the placeholder; unparseable values are returned as-is.
func FormatDate(raw string, loc *time.Location) string {
	if strings.TrimSpace(raw) == "" {
		return Placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	t, ok := ParseTimestamp(raw, loc)
	if !ok {
		return raw
	}
	return t.In(loc).Format("2006-01-02")
}

// OrPlaceholder returns s, or the placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// CleanCell removes common CSV artifacts from a header cell:
// - Trims whitespace and a stray byte order mark
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
