// Package candidates normalizes the records a catalog lookup returns for one
// incoming record: it drops records without an id, collapses duplicates,
// orders the rest by record id and splits them by owning library.
package candidates

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/bibmatch/internal/bib"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Raw is one record as returned by a catalog lookup. ID is the catalog's
// record id; when empty the record's own catalog id is used.
type Raw struct {
	ID  string
	Bib bib.Metadata
}

// Candidate is a deduplicated catalog record.
type Candidate struct {
	bib.Metadata

	SourceID string
	// IsFullRecord is false for order-only or brief placeholder records
	// that carry no call number.
	IsFullRecord bool
	Ownership    vocab.Ownership
}

// HasResearchCallNumber reports whether the record has a research call number.
func (c Candidate) HasResearchCallNumber() bool {
	return len(c.ResearchCallNumbers) > 0
}

// Set is the normalized result of one lookup.
type Set struct {
	// Same holds the candidates that may be matched, in ascending id order.
	Same []Candidate
	// Mixed and Other hold ids of records that belong to the other library,
	// reported but never matched. Mixed records serve both libraries.
	Mixed []string
	Other []string
	// Rejected counts raw records dropped for having no id.
	Rejected int
}

// IsEmpty reports whether no candidate may be matched.
func (s Set) IsEmpty() bool {
	return len(s.Same) == 0
}

// IDs returns the ids of the matchable candidates in scan order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s.Same))
	for _, c := range s.Same {
		ids = append(ids, c.SourceID)
	}
	return ids
}

// New wraps bib metadata as a candidate.
func New(id string, m bib.Metadata) Candidate {
	if id == "" {
		id = m.CatalogID
	}
	return Candidate{
		Metadata:     m,
		SourceID:     strings.TrimSpace(id),
		IsFullRecord: m.BranchCallNumber != "" || len(m.ResearchCallNumbers) > 0,
		Ownership:    m.Ownership(),
	}
}

// Normalize builds the candidate set for an incoming record destined for lib
// under system's rules.
func Normalize(raw []Raw, system vocab.System, lib vocab.Library) (Set, error) {
	if system != vocab.SystemNYP && system != vocab.SystemBPL {
		return Set{}, fmt.Errorf("%w: %q", vocab.ErrUnknownSystem, system)
	}
	if lib != vocab.LibraryBranches && lib != vocab.LibraryResearch {
		return Set{}, fmt.Errorf("%w: %q", vocab.ErrUnknownLibrary, lib)
	}

	var set Set
	seen := make(map[string]bool, len(raw))
	unique := make([]Candidate, 0, len(raw))

	for i, r := range raw {
		c := New(r.ID, r.Bib)
		if c.SourceID == "" {
			set.Rejected++
			slog.Warn("Rejecting candidate without a record id",
				"position", i,
				"control_number", r.Bib.ControlNumber)
			continue
		}
		if seen[c.SourceID] {
			continue
		}
		seen[c.SourceID] = true
		unique = append(unique, c)
	}

	slices.SortStableFunc(unique, func(a, b Candidate) int {
		return CompareIDs(a.SourceID, b.SourceID)
	})

	for _, c := range unique {
		switch partition(c.Ownership, system, lib) {
		case partSame:
			set.Same = append(set.Same, c)
		case partMixed:
			set.Mixed = append(set.Mixed, c.SourceID)
		case partOther:
			set.Other = append(set.Other, c.SourceID)
		}
	}

	return set, nil
}

type part int

const (
	partSame part = iota
	partMixed
	partOther
)

func partition(own vocab.Ownership, system vocab.System, lib vocab.Library) part {
	// BPL has a single library
	if system == vocab.SystemBPL {
		return partSame
	}

	switch own {
	case vocab.OwnershipUnknown:
		return partSame
	case vocab.OwnershipMixed:
		return partMixed
	}
	if own.Owns(lib) {
		return partSame
	}
	return partOther
}

// CompareIDs orders record ids oldest first: all-digit ids compare
// numerically, anything else lexicographically.
func CompareIDs(a, b string) int {
	if isDigits(a) && isDigits(b) {
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return len(a) - len(b)
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
