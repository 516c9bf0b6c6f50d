// Package parser turns a single content line like "2.3000❤" into a yen
// amount. The dot is a field separator between a head count and a unit
// price, not a decimal point: "2.3000" means 2 people at 3000 yen.
package parser

import (
	"regexp"
	"strconv"

	"github.com/onasu66/totalcash/internal/bonus"
)

var clockPattern = regexp.MustCompile(`\d{1,2}:\d{2}`)

// amountPatterns are tried in order and the first match wins: the exact
// count.unit form, a form tolerating a trailing stray dot, and a permissive
// form that accepts an empty unit price.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*\.\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*\.\s*(\d*)\s*\.`),
	regexp.MustCompile(`(\d+)\s*\.\s*(\d*)`),
}

// StripClockTimes removes embedded H:MM / HH:MM substrings. Chat exports
// smear message times into lines ("1.300019:21❤️") and they are noise, not
// part of the monetary expression.
func StripClockTimes(s string) string {
	return clockPattern.ReplaceAllString(s, "")
}

// IsAmountLine reports whether s, after clock-time stripping, contains a
// count.unit expression.
func IsAmountLine(s string) bool {
	stripped := StripClockTimes(s)
	for _, p := range amountPatterns {
		if p.MatchString(stripped) {
			return true
		}
	}
	return false
}

// Amount computes the amount for one content line: count * unitPrice plus
// the per-unit bonus of the first marker from table found in the line.
// A line with no count.unit expression yields 0; absence is a valid outcome
// meaning "not a monetary line", not an error. Only the first expression in
// the line counts; multi-transaction lines must be split before calling.
func Amount(table bonus.Table, content string) int {
	stripped := StripClockTimes(content)

	var m []string
	for _, p := range amountPatterns {
		if m = p.FindStringSubmatch(stripped); m != nil {
			break
		}
	}
	if m == nil {
		return 0
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	unit := 0
	if m[2] != "" {
		unit, _ = strconv.Atoi(m[2])
	}

	// Markers are matched against the original line, not the time-stripped
	// one, so a marker butting up against a time survives.
	perUnit, _ := table.PerUnit(content)

	return count*unit + perUnit*count
}
