package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// excelEpochOffset is the day-count serial for 1970-01-01 in the common
// spreadsheet date system.
const excelEpochOffset = 25569

// Bounds for serial text. The workbook reader renders date-formatted cells
// as text like "2024.01", which ParseFloat also accepts; a genuine serial is
// a whole number of days landing between 1954 and 2119.
const (
	minTextSerial = 20000
	maxTextSerial = 80000
)

// nonCurrency matches everything that is not a digit, comma or minus sign.
// Stripping it removes currency symbols and thousands-separator dots, e.g.
// "R$ 1.200,50" -> "1200,50".
var nonCurrency = regexp.MustCompile(`[^0-9,-]+`)

// Currency converts a raw spreadsheet cell into a currency amount. Numeric
// cells pass through. The workbook reader surfaces numeric cells as
// dot-decimal text ("1200.5"), so a string without a comma that parses as a
// number is a numeric passthrough too; everything else is parsed as a pt-BR
// formatted value with the comma as decimal separator. Anything unparseable
// yields zero so that one bad cell never aborts a row before the rest of
// its validation runs.
func Currency(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case string:
		s := strings.TrimSpace(val)
		if !strings.Contains(s, ",") {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return decimal.NewFromFloat(f)
			}
		}
		clean := nonCurrency.ReplaceAllString(s, "")
		clean = strings.Replace(clean, ",", ".", 1)
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return decimal.Zero
		}
		return decimal.NewFromFloat(f)
	default:
		return decimal.Zero
	}
}

// Date converts a raw spreadsheet cell into a UTC calendar date at midnight.
// Numeric cells are day-count serials (serial 25569 = 1970-01-01); strings
// are parsed positionally as D/M/Y, and whole-number strings inside the
// serial bounds fall back to the serial interpretation because the workbook
// reader surfaces every cell as text. The second return value reports whether
// the input could not be interpreted and today's date was substituted, so
// callers can decide to treat a defaulted date as missing data instead of
// silently accepting it.
func Date(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return truncate(val), false
	case float64:
		return serialDate(val), false
	case int:
		return serialDate(float64(val)), false
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			break
		}
		if parts := strings.Split(s, "/"); len(parts) == 3 {
			day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err1 == nil && err2 == nil && err3 == nil {
				return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), false
			}
			break
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil &&
			f == math.Trunc(f) && f >= minTextSerial && f <= maxTextSerial {
			return serialDate(f), false
		}
	}
	return truncate(time.Now().UTC()), true
}

func serialDate(serial float64) time.Time {
	secs := math.Round((serial - excelEpochOffset) * 86400)
	return truncate(time.Unix(int64(secs), 0).UTC())
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatBRL renders an amount in Brazilian real for the import log,
// e.g. "R$1.234,56".
func FormatBRL(d decimal.Decimal) string {
	cur := money.GetCurrency(money.BRL)
	return cur.Formatter().Format(d.Round(2).Shift(int32(cur.Fraction)).IntPart())
}
