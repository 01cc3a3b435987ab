// Package bib extracts the matching-relevant metadata of one bibliographic
// record: identifiers, call numbers, version timestamp, catalog record id,
// item locations and cataloging source.
//
// Extraction never fails on malformed field content. A value that does not
// parse is simply absent from the result.
package bib

import (
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Metadata is a read-only view of one record. Callers must not modify the
// slices it holds.
type Metadata struct {
	System vocab.System

	ControlNumber string
	// ControlPrefixStripped is set when an OCLC prefix was removed from 001
	// and the source field should be rewritten.
	ControlPrefixStripped bool
	// VersionTimestamp is the zero time when 005 is missing or malformed.
	VersionTimestamp time.Time

	ISBNs        []string
	ISSNs        []string
	OtherNumbers []string
	FineNumbers  []string

	CatalogID           string
	BranchCallNumber    string
	ResearchCallNumbers []string
	LocationCodes       []string

	CatalogingSource vocab.CatalogingSource
}

// HasTimestamp reports whether a version timestamp was parsed.
func (m Metadata) HasTimestamp() bool {
	return !m.VersionTimestamp.IsZero()
}

// NewerThan reports whether m was modified strictly after other. A record
// without a timestamp is never newer; any timestamp is newer than none.
func (m Metadata) NewerThan(other Metadata) bool {
	if !m.HasTimestamp() {
		return false
	}
	if !other.HasTimestamp() {
		return true
	}
	return m.VersionTimestamp.After(other.VersionTimestamp)
}

// Ownership classifies which library the record serves from its call
// numbers and item locations.
func (m Metadata) Ownership() vocab.Ownership {
	branches := m.BranchCallNumber != ""
	research := len(m.ResearchCallNumbers) > 0

	for _, loc := range m.LocationCodes {
		if m.System == vocab.SystemNYP && isResearchLocation(loc) {
			research = true
		} else {
			branches = true
		}
	}

	switch {
	case branches && research:
		return vocab.OwnershipMixed
	case branches:
		return vocab.OwnershipBranches
	case research:
		return vocab.OwnershipResearch
	default:
		return vocab.OwnershipUnknown
	}
}

var researchLocationPrefixes = []string{"ma", "pa", "sc", "sa", "rc"}

func isResearchLocation(loc string) bool {
	for _, p := range researchLocationPrefixes {
		if strings.HasPrefix(loc, p) {
			return true
		}
	}
	return false
}

// fieldMap lists where each system stores its local data.
type fieldMap struct {
	catalogIDTag     string
	branchCallTag    string
	researchCallTag  string
	inhouseTag       string
	inhouseSubfield  string
	locationTag      string
	locationSubfield string
}

var fieldMaps = map[vocab.System]fieldMap{
	vocab.SystemNYP: {
		catalogIDTag:     "945",
		branchCallTag:    "091",
		researchCallTag:  "852",
		inhouseTag:       "901",
		inhouseSubfield:  "b",
		locationTag:      "949",
		locationSubfield: "l",
	},
	vocab.SystemBPL: {
		catalogIDTag:     "907",
		branchCallTag:    "099",
		inhouseTag:       "947",
		inhouseSubfield:  "a",
		locationTag:      "949",
		locationSubfield: "l",
	},
}

// Extract builds Metadata from a record using the field layout of system.
// The only error is an unknown system.
func Extract(rec Record, system vocab.System) (Metadata, error) {
	fm, ok := fieldMaps[system]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %q", vocab.ErrUnknownSystem, system)
	}

	m := Metadata{
		System:           system,
		CatalogingSource: vocab.SourceVendor,
	}

	if v, ok := ControlField(rec, "001"); ok {
		m.ControlNumber, m.ControlPrefixStripped = StripControlPrefix(strings.TrimSpace(v))
	}
	if v, ok := ControlField(rec, "005"); ok {
		if ts, ok := ParseTimestamp(v); ok {
			m.VersionTimestamp = ts
		}
	}

	m.ISBNs = collect(rec, "020", "a", ParseISBN)
	m.ISSNs = collect(rec, "022", "a", ParseISSN)
	m.OtherNumbers = collect(rec, "024", "a", FirstToken)
	m.FineNumbers = collect(rec, "028", "a", FirstToken)

	for _, f := range DataFields(rec, fm.catalogIDTag) {
		if id, ok := ParseCatalogID(First(f, "a")); ok {
			m.CatalogID = id
			break
		}
	}

	if fields := DataFields(rec, fm.branchCallTag); len(fields) > 0 {
		m.BranchCallNumber = Join(fields[0])
	}

	if fm.researchCallTag != "" {
		seen := make(map[string]bool)
		for _, f := range DataFields(rec, fm.researchCallTag) {
			if f.Ind1 != "8" && f.Ind1 != "0" {
				continue
			}
			cn := Join(f, "h", "i")
			if cn != "" && !seen[cn] {
				seen[cn] = true
				m.ResearchCallNumbers = append(m.ResearchCallNumbers, cn)
			}
		}
	}

	seen := make(map[string]bool)
	for _, f := range DataFields(rec, fm.locationTag) {
		for _, loc := range Values(f, fm.locationSubfield) {
			loc = strings.ToLower(strings.TrimSpace(loc))
			if loc != "" && !seen[loc] {
				seen[loc] = true
				m.LocationCodes = append(m.LocationCodes, loc)
			}
		}
	}

	for _, f := range DataFields(rec, fm.inhouseTag) {
		if strings.TrimSpace(First(f, fm.inhouseSubfield)) != "" {
			m.CatalogingSource = vocab.SourceInhouse
			break
		}
	}

	return m, nil
}

func collect(rec Record, tag, code string, parse func(string) (string, bool)) []string {
	var values []string
	for _, f := range DataFields(rec, tag) {
		for _, raw := range Values(f, code) {
			if v, ok := parse(raw); ok {
				values = append(values, v)
			}
		}
	}
	return values
}
