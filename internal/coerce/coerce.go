package coerce

import (
	"math"
	"strconv"
	"strings"
)

// Delimiters separates array elements inside a single value.
const Delimiters = ": ,"

// boolNames maps the recognized boolean words to their integer value.
var boolNames = map[string]int{
	"TRUE":  1,
	"FALSE": 0,
	"ON":    1,
	"OFF":   0,
	"YES":   1,
	"NO":    0,
	"OK":    1,
	"NOT":   0,
}

// Int converts raw to an integer, returning def when raw holds neither a
// number nor a known boolean word.
func Int(raw string, def int) int {
	s := trimLeftSpace(raw)
	if s == "" {
		return def
	}
	if isDigit(s[0]) || s[0] == '-' || s[0] == '+' {
		return Atoi(s)
	}

	end := 0
	for end < len(s) && isAlpha(s[end]) {
		end++
	}
	if v, ok := boolNames[strings.ToUpper(s[:end])]; ok {
		return v
	}
	return def
}

// Bool converts raw to a boolean. Only values that coerce to exactly 1 are
// true.
func Bool(raw string, def bool) bool {
	d := 0
	if def {
		d = 1
	}
	return Int(raw, d) == 1
}

// Double converts raw to a float64 using the longest numeric prefix.
//
// A value that starts with no number at all returns def. Note that this
// heuristic cannot tell "0" apart from garbage by value alone, so it checks
// how much of the input was consumed; "0" and "0.0" yield 0, "abc" yields
// def.
func Double(raw string, def float64) float64 {
	s := trimLeftSpace(raw)
	n := floatPrefix(s)
	var v float64
	if n > 0 {
		v = parseFloat(s[:n])
	}
	if v == 0 && n == 0 {
		return def
	}
	return v
}

// Tokenize splits an array value on the delimiter set, dropping empty
// elements.
func Tokenize(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(Delimiters, r)
	})
}

// ArraySize returns the number of array elements in raw.
func ArraySize(raw string) int {
	return len(Tokenize(raw))
}

// IntElement returns the index-th (1-based) element of raw as an integer,
// or 0 when index is out of range.
func IntElement(raw string, index int) int {
	items := Tokenize(raw)
	if index < 1 || index > len(items) {
		return 0
	}
	return Int(items[index-1], 0)
}

// DoubleElement returns the index-th (1-based) element of raw as a float64,
// or 0 when index is out of range.
func DoubleElement(raw string, index int) float64 {
	items := Tokenize(raw)
	if index < 1 || index > len(items) {
		return 0
	}
	return Double(items[index-1], 0)
}

// Atoi parses leading whitespace, an optional sign and decimal digits, and
// ignores whatever follows. Out of range values saturate. Input without
// digits yields 0.
func Atoi(s string) int {
	s = trimLeftSpace(s)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	var n int64
	for ; i < len(s) && isDigit(s[i]); i++ {
		d := int64(s[i] - '0')
		if n > (math.MaxInt64-d)/10 {
			if neg {
				return math.MinInt
			}
			return math.MaxInt
		}
		n = n*10 + d
	}
	if neg {
		n = -n
	}
	return int(n)
}

// floatPrefix returns the length of the longest prefix of s that parses as
// a floating point number, or 0.
func floatPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	rest := strings.ToLower(s[i:])
	switch {
	case strings.HasPrefix(rest, "infinity"):
		return i + len("infinity")
	case strings.HasPrefix(rest, "inf"), strings.HasPrefix(rest, "nan"):
		return i + 3
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func parseFloat(s string) float64 {
	if strings.HasSuffix(strings.ToLower(s), "nan") {
		return math.NaN()
	}
	// Range errors still carry the saturated value (±Inf or 0).
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func trimLeftSpace(s string) string {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return s[i:]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
