// Package coerce converts loosely typed client values into numbers.
//
// Whiteboard clients send numbers as JSON numbers, numeric strings, or
// strings with trailing units ("12px"). The helpers here accept a leading
// numeric prefix the way lenient web clients produce it and report failure
// instead of guessing, so callers can substitute their own default.
package coerce

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseInt extracts an integer from v. Floats are truncated toward zero and
// strings contribute their leading integer prefix after optional whitespace
// and sign. Booleans, nil, NaN and strings without leading digits are not
// integers. Values outside the int64 range saturate.
func ParseInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint32:
		return int64(x), true
	case float32:
		return truncate(float64(x))
	case float64:
		return truncate(x)
	case json.Number:
		return parseIntPrefix(string(x))
	case string:
		return parseIntPrefix(x)
	default:
		return 0, false
	}
}

// ParseFloat extracts a float from v. Strings contribute their longest
// leading decimal prefix, including an optional fraction and exponent, or a
// signed "Infinity". NaN is never returned.
func ParseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case float32:
		return finiteOrInf(float64(x))
	case float64:
		return finiteOrInf(x)
	case json.Number:
		return parseFloatPrefix(string(x))
	case string:
		return parseFloatPrefix(x)
	default:
		return 0, false
	}
}

// Number converts v to a float only when the whole value is numeric: a
// number, or a string that is entirely a decimal literal once surrounding
// whitespace is removed.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		return Number(string(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeErr(err) {
			return 0, false
		}
		return finiteOrInf(f)
	default:
		return ParseFloat(v)
	}
}

// Clamp bounds f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	return math.Min(math.Max(f, lo), hi)
}

// RoundTenth rounds f to one decimal place, halves rounding up.
func RoundTenth(f float64) float64 {
	return math.Floor(f*10+0.5) / 10
}

func truncate(f float64) (int64, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt64:
		return math.MaxInt64, true
	case f <= math.MinInt64:
		return math.MinInt64, true
	}
	return int64(f), true
}

func finiteOrInf(f float64) (float64, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// signPrefix strips leading whitespace and an optional sign.
func signPrefix(s string) (rest string, neg bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	if s == "" {
		return s, false
	}
	switch s[0] {
	case '-':
		return s[1:], true
	case '+':
		return s[1:], false
	}
	return s, false
}

func digitRun(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func parseIntPrefix(s string) (int64, bool) {
	rest, neg := signPrefix(s)
	n := digitRun(rest)
	if n == 0 {
		return 0, false
	}
	digits := rest[:n]
	if neg {
		digits = "-" + digits
	}
	i, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		if neg {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	return i, true
}

func parseFloatPrefix(s string) (float64, bool) {
	rest, neg := signPrefix(s)
	if strings.HasPrefix(rest, "Infinity") {
		if neg {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	intLen := digitRun(rest)
	end := intLen
	fracLen := 0
	if end < len(rest) && rest[end] == '.' {
		fracLen = digitRun(rest[end+1:])
		if intLen > 0 || fracLen > 0 {
			end += 1 + fracLen
		}
	}
	if intLen == 0 && fracLen == 0 {
		return 0, false
	}
	if end < len(rest) && (rest[end] == 'e' || rest[end] == 'E') {
		exp := end + 1
		if exp < len(rest) && (rest[exp] == '+' || rest[exp] == '-') {
			exp++
		}
		if n := digitRun(rest[exp:]); n > 0 {
			end = exp + n
		}
	}

	lit := rest[:end]
	if neg {
		lit = "-" + lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !isRangeErr(err) {
		return 0, false
	}
	return f, true
}

func isRangeErr(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}
