package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonAmountChars = regexp.MustCompile(`[^0-9.\-]`)

// ParseAmount reads a loosely formatted price ("$1,234.50", "AUD 99") into a float.
// Anything unparseable counts as zero. Like a browser's parseFloat it keeps the
// longest numeric prefix, so "12.3.4" is 12.3.
func ParseAmount(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case []byte:
		return parseAmountString(string(n))
	case string:
		return parseAmountString(n)
	default:
		return parseAmountString(fmt.Sprint(n))
	}
}

func parseAmountString(s string) float64 {
	s = nonAmountChars.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return 0
	}
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func numericPrefix(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if frac := j - i - 1; frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	return i
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// RoundCents rounds to two decimals, half away from zero.
func RoundCents(f float64) float64 {
	return math.Round(f*100) / 100
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// PercentChange compares two period counts. A zero baseline yields 100 when
// anything happened in the current period.
func PercentChange(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return RoundCents(float64(current-previous) / float64(previous) * 100)
}
