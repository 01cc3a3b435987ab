// Package order derives the acquisition attributes of an incoming vendor
// record: audience, world language prefix, call number type and label, and
// whether the order's label conflicts with its type.
package order

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/bibmatch/internal/bib"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Input holds the raw order attributes supplied with a vendor record.
type Input struct {
	DestinationLibrary vocab.Library

	VendorNote         string
	GeneralNote        string
	InternalNote       string
	LocationCode       string
	MaterialFormatCode string
	VendorName         string
	CountryCode        string
	LanguageCode       string
	// AudienceCode is the vendor's fixed-field audience code.
	AudienceCode string
}

// Metadata is an incoming vendor record with its derived order attributes.
// It is built once by New and never modified.
type Metadata struct {
	bib.Metadata

	DestinationLibrary vocab.Library

	VendorNote         string
	GeneralNote        string
	InternalNote       string
	LocationCode       string
	MaterialFormatCode string
	VendorName         string
	CountryCode        string
	LanguageCode       string
	AudienceCode       string

	WorldLanguagePrefix bool
	Audience            vocab.Audience
	CallType            vocab.CallType
	CallLabel           vocab.CallLabel
	HasOrderConflict    bool
}

// New derives order metadata for a vendor record. It fails only when the
// system or destination library is not one the system supports.
func New(b bib.Metadata, in Input) (Metadata, error) {
	m := Metadata{
		Metadata:           b,
		DestinationLibrary: in.DestinationLibrary,
		VendorNote:         normalize(in.VendorNote),
		GeneralNote:        normalize(in.GeneralNote),
		InternalNote:       normalize(in.InternalNote),
		LocationCode:       normalize(in.LocationCode),
		MaterialFormatCode: normalize(in.MaterialFormatCode),
		VendorName:         normalize(in.VendorName),
		CountryCode:        normalize(in.CountryCode),
		LanguageCode:       normalize(in.LanguageCode),
		AudienceCode:       normalize(in.AudienceCode),
	}

	if err := checkLibrary(b.System, in.DestinationLibrary); err != nil {
		return Metadata{}, err
	}

	m.WorldLanguagePrefix = WorldLanguagePrefix(m.LocationCode)

	fixed, err := FixedFieldAudience(b.System, m.AudienceCode)
	if err != nil {
		return Metadata{}, err
	}
	m.Audience = CombineAudience(LocationAudience(m.LocationCode), fixed)

	if m.CallLabel, err = CallLabelFor(b.System, m.VendorNote); err != nil {
		return Metadata{}, err
	}
	if m.CallType, err = CallTypeFor(b.System, m.LocationCode, m.VendorNote, m.CallLabel); err != nil {
		return Metadata{}, err
	}
	if m.HasOrderConflict, err = OrderConflict(b.System, m.CallType, m.CallLabel); err != nil {
		return Metadata{}, err
	}

	return m, nil
}

func checkLibrary(system vocab.System, lib vocab.Library) error {
	switch system {
	case vocab.SystemNYP:
		if lib == vocab.LibraryBranches || lib == vocab.LibraryResearch {
			return nil
		}
	case vocab.SystemBPL:
		if lib == vocab.LibraryBranches {
			return nil
		}
	default:
		return fmt.Errorf("%w: %q", vocab.ErrUnknownSystem, system)
	}
	return fmt.Errorf("%w %q for system %q", vocab.ErrUnknownLibrary, lib, system)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FromRecord extracts the bibliographic metadata of a vendor record and reads
// its order attributes from the 960 and 961 order fields and 008.
func FromRecord(rec bib.Record, system vocab.System, lib vocab.Library) (Metadata, error) {
	b, err := bib.Extract(rec, system)
	if err != nil {
		return Metadata{}, err
	}
	return New(b, InputFromRecord(rec, lib))
}

// InputFromRecord reads order attributes from a vendor record.
func InputFromRecord(rec bib.Record, lib vocab.Library) Input {
	in := Input{DestinationLibrary: lib}

	if f := bib.DataFields(rec, "960"); len(f) > 0 {
		in.LocationCode = bib.First(f[0], "t")
		in.MaterialFormatCode = bib.First(f[0], "m")
		in.AudienceCode = bib.First(f[0], "f")
		in.VendorName = bib.First(f[0], "v")
	}
	if f := bib.DataFields(rec, "961"); len(f) > 0 {
		in.VendorNote = bib.First(f[0], "h")
		in.GeneralNote = bib.First(f[0], "c")
		in.InternalNote = bib.First(f[0], "d")
	}
	if v, ok := bib.ControlField(rec, "008"); ok {
		in.CountryCode = strings.TrimSpace(slice(v, 15, 18))
		in.LanguageCode = strings.TrimSpace(slice(v, 35, 38))
	}

	return in
}

func slice(s string, from, to int) string {
	if len(s) < to {
		return ""
	}
	return s[from:to]
}
