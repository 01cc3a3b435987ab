package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteDuplicatesCSV lists records that matched more than one catalog record
// or found records owned by the other library.
func (r *Report) WriteDuplicatesCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"Identifier", "Library", "Target", "Duplicates", "Mixed", "Other Library"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range r.Entries {
		if e.Decision == nil {
			continue
		}
		d := e.Decision
		if !d.HasDuplicates() && len(d.CrossLibrary.Mixed) == 0 && len(d.CrossLibrary.Other) == 0 {
			continue
		}
		row := []string{
			e.Identifier,
			string(e.Library),
			d.TargetID,
			strings.Join(d.DuplicateIDs, ";"),
			strings.Join(d.CrossLibrary.Mixed, ";"),
			strings.Join(d.CrossLibrary.Other, ";"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteConflictsCSV lists records whose call number differs from the target's
// or whose order label conflicts with its call number type.
func (r *Report) WriteConflictsCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"Identifier", "Target", "Action", "Incoming Call Number", "Target Call Number", "Call Type", "Call Label", "Order Conflict"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range r.Entries {
		if e.Decision == nil {
			continue
		}
		d := e.Decision
		if d.CallNumbersMatch && !e.OrderConflict {
			continue
		}
		row := []string{
			e.Identifier,
			d.TargetID,
			string(d.Action),
			e.CallNumber,
			d.TargetCallNumber,
			string(e.CallType),
			string(e.CallLabel),
			strconv.FormatBool(e.OrderConflict),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
