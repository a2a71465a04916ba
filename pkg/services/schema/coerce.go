package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// metricNoise is the fixed character class removed from metric cells before parsing.
var metricNoise = regexp.MustCompile(`(?i)\b(?:rs\.?|inr)|[₹$€£¥,%\s\x{00A0}]`)

var serialPattern = regexp.MustCompile(`^\d{5}(?:\.\d+)?$`)

// Day-first layouts go before month-name forms; ISO layouts are unambiguous.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-1-2 15:04:05Z07:00",
	"2006-1-2 15:04:05.999999999",
	"2006/1/2",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2.1.2006",
	"2-1-06",
	"2/1/06",
	"2 Jan 2006",
	"2-Jan-2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 2 Jan 2006",
}

// FoldHeader reduces a column name to a comparable form: NFKC, case folded,
// punctuation turned into single spaces.
func FoldHeader(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))

	var b strings.Builder
	gap := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// ParseMetric coerces a cell to a decimal. Anything unparsable becomes zero.
func ParseMetric(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case int:
		return decimal.NewFromInt(int64(val))
	case int8:
		return decimal.NewFromInt(int64(val))
	case int16:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case uint:
		return decimal.NewFromInt(int64(val))
	case uint8:
		return decimal.NewFromInt(int64(val))
	case uint16:
		return decimal.NewFromInt(int64(val))
	case uint32:
		return decimal.NewFromInt(int64(val))
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(val), 0)
	case json.Number:
		return parseMetricString(val.String())
	case string:
		return parseMetricString(val)
	case []byte:
		return parseMetricString(string(val))
	case bool, time.Time:
		return decimal.Zero
	default:
		return parseMetricString(fmt.Sprint(val))
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseMetricString(s string) decimal.Decimal {
	cleaned := metricNoise.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDate coerces a cell to a calendar date using a day-first convention.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return domain.Day(val), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return domain.Day(*val), true
	case float64:
		return fromSerial(val)
	case float32:
		return fromSerial(float64(val))
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	case int32:
		return fromSerial(float64(val))
	case string:
		return parseDateString(val)
	case []byte:
		return parseDateString(string(val))
	default:
		return parseDateString(fmt.Sprint(val))
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serialPattern.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return fromSerial(f)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Day(t), true
		}
	}
	return time.Time{}, false
}

// fromSerial reads spreadsheet serial day numbers (1900 date system).
func fromSerial(f float64) (time.Time, bool) {
	if math.IsNaN(f) || f < 1 || f > 2958465 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return domain.Day(t), true
}

// cellString renders a dimension cell as trimmed text.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case time.Time:
		return val.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.String()
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
