package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// PrintSummary writes a human readable summary of the run.
func (r *Report) PrintSummary(w io.Writer) {
	s := r.Summary

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Record Matching Summary")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Run:      %s\n", r.Run.ID)
	fmt.Fprintf(w, "System:   %s\n", systemName(r.Run.System))
	fmt.Fprintf(w, "Library:  %s\n", r.Run.Library)
	fmt.Fprintf(w, "Agent:    %s\n", r.Run.Agent)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Records:          %d\n", s.Total)
	fmt.Fprintf(w, "Inserted:               %d\n", s.Inserted)
	fmt.Fprintf(w, "Attached:               %d\n", s.Attached)
	fmt.Fprintf(w, "Overlaid:               %d\n", s.Overlaid)
	fmt.Fprintf(w, "Failed:                 %d\n", s.Failed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Duplicates:             %d\n", s.Duplicates)
	fmt.Fprintf(w, "Call Number Mismatches: %d\n", s.Mismatches)
	fmt.Fprintf(w, "Order Conflicts:        %d\n", s.OrderConflicts)
	fmt.Fprintf(w, "Other Library Matches:  %d\n", s.CrossLibrary)

	types := r.callTypeCounts()
	if len(types) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Call Number Types:")

		var names []string
		for name := range types {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %d\n", name, types[name])
		}
	}
	fmt.Fprintln(w, "========================================")
}

func (r *Report) callTypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Entries {
		if e.CallType == "" {
			continue
		}
		name, ok := vocab.CallTypeNames[e.CallType]
		if !ok {
			name = string(e.CallType)
		}
		counts[name]++
	}
	return counts
}

func systemName(s vocab.System) string {
	if name, ok := vocab.SystemNames[s]; ok {
		return name
	}
	return string(s)
}
