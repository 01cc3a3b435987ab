package order

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

func charAt(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// WorldLanguagePrefix reports whether the location code marks a world
// language collection.
func WorldLanguagePrefix(locationCode string) bool {
	return charAt(locationCode, 4) == 'l'
}

// LocationAudience reads the audience character of a location code.
func LocationAudience(locationCode string) vocab.Audience {
	return locationAudiences[charAt(locationCode, 2)]
}

// FixedFieldAudience maps a vendor fixed-field audience code.
func FixedFieldAudience(system vocab.System, code string) (vocab.Audience, error) {
	codes, ok := fixedFieldAudiences[system]
	if !ok {
		return vocab.AudienceUnknown, fmt.Errorf("audience for %w: %q", vocab.ErrUnknownSystem, system)
	}
	return codes[strings.TrimSpace(code)], nil
}

// CombineAudience merges the location and fixed-field signals: a lone
// signal is used as is, two agreeing signals are used, two conflicting
// signals give an unknown audience.
func CombineAudience(location, fixedField vocab.Audience) vocab.Audience {
	switch {
	case location == vocab.AudienceUnknown:
		return fixedField
	case fixedField == vocab.AudienceUnknown:
		return location
	case location == fixedField:
		return location
	default:
		return vocab.AudienceUnknown
	}
}

// CallLabelFor derives the shelving label from a vendor note.
func CallLabelFor(system vocab.System, vendorNote string) (vocab.CallLabel, error) {
	var rules []labelRule
	switch system {
	case vocab.SystemNYP:
		rules = nypLabelRules
	case vocab.SystemBPL:
		rules = bplLabelRules
	default:
		return vocab.LabelNone, fmt.Errorf("call label for %w: %q", vocab.ErrUnknownSystem, system)
	}

	note := strings.ToLower(vendorNote)
	for _, r := range rules {
		if r.match(note) {
			return r.label, nil
		}
	}
	return vocab.LabelNone, nil
}

// CallTypeFor derives the call number type from the location code and
// vendor note. BPL needs the already derived label to promote a neutral
// type to fiction.
func CallTypeFor(system vocab.System, locationCode, vendorNote string, label vocab.CallLabel) (vocab.CallType, error) {
	loc := strings.ToLower(locationCode)
	note := strings.ToLower(vendorNote)

	switch system {
	case vocab.SystemNYP:
		return nypCallType(loc, note), nil
	case vocab.SystemBPL:
		return bplCallType(loc, note, label), nil
	}
	return "", fmt.Errorf("call type for %w: %q", vocab.ErrUnknownSystem, system)
}

func nypCallType(loc, note string) vocab.CallType {
	ct, ok := nypLocationTypes[charAt(loc, 4)]
	if !ok {
		return vocab.CallNeutral
	}

	switch ct {
	case vocab.CallFiction:
		for _, r := range nypGenreRules {
			if r.match(note) {
				return r.callType
			}
		}
	case vocab.CallDewey:
		if strings.Contains(note, "bio") {
			return vocab.CallBiography
		}
	}
	return ct
}

func bplCallType(loc, note string, label vocab.CallLabel) vocab.CallType {
	var code string
	if len(loc) >= 5 {
		code = loc[3:5]
	}

	ct, ok := bplLocationTypes[code]
	if !ok {
		if label == vocab.LabelLiteracyFiction {
			return vocab.CallFiction
		}
		return vocab.CallNeutral
	}
	if ct == vocab.CallDewey && strings.Contains(note, "bio") {
		return vocab.CallBiography
	}
	return ct
}

// OrderConflict reports whether the label cannot be used with the call type.
// Only BPL checks; NYP orders never conflict.
func OrderConflict(system vocab.System, ct vocab.CallType, label vocab.CallLabel) (bool, error) {
	switch system {
	case vocab.SystemNYP:
		return false, nil
	case vocab.SystemBPL:
		if label == vocab.LabelNone {
			return false, nil
		}
		for _, ok := range bplCompatibleLabels[ct] {
			if ok == label {
				return false, nil
			}
		}
		return true, nil
	}
	return false, fmt.Errorf("order conflict for %w: %q", vocab.ErrUnknownSystem, system)
}
