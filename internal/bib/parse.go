package bib

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isbnPattern      = regexp.MustCompile(`^(97[89])?\d{9}[\dXx]`)
	issnPattern      = regexp.MustCompile(`^\d{4}-\d{3}[\dXx]`)
	catalogIDPattern = regexp.MustCompile(`^\.b\d{8}.|^\.o\d{7}.`)
	timestampPattern = regexp.MustCompile(`^(\d{14})\.(\d{1,6})$`)
)

// TimestampLayout is the date-time portion of a 005 field; a fraction of
// one to six digits follows it after a dot.
const TimestampLayout = "20060102150405"

// ParseISBN returns the ISBN at the start of s once dashes are removed.
// Qualifiers after the number ("(pbk.)") are ignored.
func ParseISBN(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	m := isbnPattern.FindString(s)
	return m, m != ""
}

// ParseISSN returns the ISSN at the start of s with its dash removed.
func ParseISSN(s string) (string, bool) {
	m := issnPattern.FindString(strings.TrimSpace(s))
	if m == "" {
		return "", false
	}
	return strings.ReplaceAll(m, "-", ""), true
}

// FirstToken returns the first whitespace-delimited token of s.
func FirstToken(s string) (string, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// ParseCatalogID unwraps a record number from a command/linking field value:
// ".b" + 8 digits + check character for bibs, ".o" + 7 digits + check
// character for orders. The wrapper characters are dropped.
func ParseCatalogID(s string) (string, bool) {
	m := catalogIDPattern.FindString(strings.TrimSpace(s))
	if m == "" {
		return "", false
	}
	return m[2 : len(m)-1], true
}

// StripControlPrefix removes the OCLC prefixes "ocm", "ocn" and "on" from a
// control number. The second result reports whether anything was removed,
// which tells callers the source field needs rewriting.
func StripControlPrefix(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "ocm"), strings.HasPrefix(s, "ocn"):
		return s[3:], true
	case strings.HasPrefix(s, "on"):
		return s[2:], true
	}
	return s, false
}

// ParseTimestamp parses a 005 style timestamp, YYYYMMDDHHMMSS.f with up to
// six fraction digits, in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	m := timestampPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	micros, err := strconv.Atoi(m[2] + strings.Repeat("0", 6-len(m[2])))
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(time.Duration(micros) * time.Microsecond), true
}
