package bib

import (
	"slices"
	"strings"

	"github.com/boutros/marc"
)

// Record is a decoded MARC record.
type Record = marc.Record

// ControlField returns the value of the first control field with tag.
func ControlField(rec Record, tag string) (string, bool) {
	for _, f := range rec.CtrlFields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// DataFields returns every data field matching one of the tags, in record
// order.
func DataFields(rec Record, tags ...string) []marc.DField {
	var fields []marc.DField
	for _, f := range rec.DataFields {
		if slices.Contains(tags, f.Tag) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Values returns the values of every subfield with the given code.
func Values(f marc.DField, code string) []string {
	var values []string
	for _, sf := range f.SubFields {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}
	return values
}

// First returns the first value of the given subfield code, or "".
func First(f marc.DField, code string) string {
	for _, sf := range f.SubFields {
		if sf.Code == code {
			return sf.Value
		}
	}
	return ""
}

// Join concatenates the trimmed values of the listed subfield codes, in
// field order, separated by single spaces. With no codes every subfield is
// used.
func Join(f marc.DField, codes ...string) string {
	var parts []string
	for _, sf := range f.SubFields {
		if len(codes) > 0 && !slices.Contains(codes, sf.Code) {
			continue
		}
		if v := strings.TrimSpace(sf.Value); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
