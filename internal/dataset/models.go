package dataset

import (
	"fmt"

	"github.com/lehigh-university-libraries/bibmatch/internal/bib"
)

// Row is one record in a vendor or catalog dataset file.
type Row struct {
	// ID is the catalog record id. Vendor files may leave it empty.
	ID string `json:"id" parquet:"id"`

	// MARC holds the record as line MARC, MARCXML or ISO 2709.
	MARC string `json:"marc" parquet:"marc"`

	// Library optionally overrides the destination library for one vendor record.
	Library string `json:"library,omitempty" parquet:"library,optional"`
}

// Record decodes the row's MARC data.
func (r *Row) Record() (bib.Record, error) {
	rec, err := bib.Decode(r.MARC)
	if err != nil {
		return bib.Record{}, fmt.Errorf("failed to parse record %q: %w", r.ID, err)
	}
	return rec, nil
}

// Label identifies a row in logs: its id, or its position when it has none.
func (r *Row) Label(index int) string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("#%d", index+1)
}
