// Package catalog looks up the catalog records that may describe an incoming
// vendor record.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/bibmatch/internal/bib"
	"github.com/lehigh-university-libraries/bibmatch/internal/candidates"
	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Keys are the identifiers a lookup matches on.
type Keys struct {
	CatalogID     string
	ControlNumber string
	ISBNs         []string
}

// KeysFor returns the lookup keys of a record.
func KeysFor(m bib.Metadata) Keys {
	return Keys{
		CatalogID:     m.CatalogID,
		ControlNumber: m.ControlNumber,
		ISBNs:         m.ISBNs,
	}
}

// IsEmpty reports whether there is nothing to look up.
func (k Keys) IsEmpty() bool {
	return k.CatalogID == "" && k.ControlNumber == "" && len(k.ISBNs) == 0
}

// Fetcher returns the raw candidates for a set of keys. Results may repeat a
// record and come in any order; candidates.Normalize sorts that out.
type Fetcher interface {
	Fetch(ctx context.Context, keys Keys) ([]candidates.Raw, error)
}

// Index is an in-memory Fetcher over a catalog snapshot.
type Index struct {
	system  vocab.System
	records []candidates.Raw

	byCatalogID map[string][]int
	byControl   map[string][]int
	byISBN      map[string][]int
}

// NewIndex creates an empty index for system's records.
func NewIndex(system vocab.System) *Index {
	return &Index{
		system:      system,
		byCatalogID: make(map[string][]int),
		byControl:   make(map[string][]int),
		byISBN:      make(map[string][]int),
	}
}

// LoadIndex builds an index from catalog dataset rows.
func LoadIndex(rows []dataset.Row, system vocab.System) (*Index, error) {
	idx := NewIndex(system)
	for i := range rows {
		rec, err := rows[i].Record()
		if err != nil {
			return nil, fmt.Errorf("failed to index catalog row %s: %w", rows[i].Label(i), err)
		}
		if err := idx.Add(rows[i].ID, rec); err != nil {
			return nil, err
		}
	}

	slog.Debug("Indexed catalog records",
		"system", system,
		"records", idx.Len(),
		"isbns", len(idx.byISBN))

	return idx, nil
}

// Add indexes one catalog record under id.
func (x *Index) Add(id string, rec bib.Record) error {
	m, err := bib.Extract(rec, x.system)
	if err != nil {
		return fmt.Errorf("failed to extract catalog record %q: %w", id, err)
	}

	pos := len(x.records)
	x.records = append(x.records, candidates.Raw{ID: id, Bib: m})

	if m.CatalogID != "" {
		x.byCatalogID[m.CatalogID] = append(x.byCatalogID[m.CatalogID], pos)
	}
	if m.ControlNumber != "" {
		x.byControl[m.ControlNumber] = append(x.byControl[m.ControlNumber], pos)
	}
	for _, isbn := range m.ISBNs {
		x.byISBN[isbn] = append(x.byISBN[isbn], pos)
	}
	return nil
}

// Len returns the number of indexed records.
func (x *Index) Len() int {
	return len(x.records)
}

// Fetch returns every record matching any key, once per matching key.
func (x *Index) Fetch(ctx context.Context, keys Keys) ([]candidates.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var hits []int
	if keys.CatalogID != "" {
		hits = append(hits, x.byCatalogID[keys.CatalogID]...)
	}
	if keys.ControlNumber != "" {
		hits = append(hits, x.byControl[keys.ControlNumber]...)
	}
	for _, isbn := range keys.ISBNs {
		hits = append(hits, x.byISBN[isbn]...)
	}

	out := make([]candidates.Raw, 0, len(hits))
	for _, pos := range hits {
		out = append(out, x.records[pos])
	}
	return out, nil
}
