package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibmatch/internal/catalog"
	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/order"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

func newInspectCmd() *cobra.Command {
	var datasetPath string
	var system string
	var library string
	var limit int
	var interactive bool
	var showMARC bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the metadata extracted from dataset records",
		Long: `Inspect records from a parquet or jsonl dataset file.

For each record this prints the identifiers used for catalog lookups, the call numbers
and locations that decide ownership, and the order attributes derived for a vendor record.`,
		Example: `  # Inspect the first 5 vendor records interactively
  bibmatch inspect --dataset ./vendor.jsonl --system nyp --limit 5 --interactive

  # Include the MARC text
  bibmatch inspect --dataset ./catalog.parquet --system bpl --marc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, lib, err := parseScope(system, library)
			if err != nil {
				return err
			}
			return executeInspect(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), datasetPath, sys, lib, limit, interactive, showMARC)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().StringVar(&system, "system", os.Getenv("BIBMATCH_SYSTEM"), "Institution rule set (nyp or bpl)")
	cmd.Flags().StringVar(&library, "library", string(vocab.LibraryBranches), "Destination library used to derive order attributes")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each record (press Enter to continue)")
	cmd.Flags().BoolVar(&showMARC, "marc", false, "Show the MARC text")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, out io.Writer, in io.Reader, datasetPath string, system vocab.System, lib vocab.Library, limit int, interactive, showMARC bool) error {
	rows, err := dataset.NewLoader(datasetPath).LoadSample(limit)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Fprintf(out, "Loaded %d records from %s\n", len(rows), datasetPath)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintln(out)

	reader := bufio.NewReader(in)

	for i := range rows {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Fprintf(out, "RECORD %d/%d  %s\n", i+1, len(rows), rows[i].Label(i))
		fmt.Fprintln(out, strings.Repeat("-", 80))
		printRow(out, rows[i], system, lib)

		if showMARC {
			fmt.Fprintln(out, strings.Repeat("-", 80))
			fmt.Fprintln(out, strings.TrimRight(rows[i].MARC, "\n"))
		}
		fmt.Fprintln(out)

		if interactive {
			fmt.Fprint(out, "Press Enter to continue to next record (or Ctrl+C to quit)...")

			inputCh := make(chan struct{})
			go func() {
				_, _ = reader.ReadString('\n')
				close(inputCh)
			}()

			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "\nInspection interrupted.")
				return nil
			case <-inputCh:
				fmt.Fprintln(out)
			}
		}
	}

	return nil
}

func printRow(out io.Writer, row dataset.Row, system vocab.System, lib vocab.Library) {
	rec, err := row.Record()
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}
	if row.Library != "" {
		if l, err := vocab.ParseLibrary(row.Library); err == nil {
			lib = l
		}
	}

	m, err := order.FromRecord(rec, system, lib)
	if err != nil {
		fmt.Fprintf(out, "  Error: %v\n", err)
		return
	}

	fmt.Fprintf(out, "Control Number: %s\n", m.ControlNumber)
	if m.ControlPrefixStripped {
		fmt.Fprintln(out, "                (OCLC prefix stripped)")
	}
	if m.HasTimestamp() {
		fmt.Fprintf(out, "Version:        %s\n", m.VersionTimestamp.Format("2006-01-02 15:04:05.000000"))
	}
	fmt.Fprintf(out, "Catalog ID:     %s\n", m.CatalogID)
	printList(out, "ISBN(s):", m.ISBNs)
	printList(out, "ISSN(s):", m.ISSNs)
	printList(out, "Other Numbers:", m.OtherNumbers)
	printList(out, "Publisher No:", m.FineNumbers)
	fmt.Fprintf(out, "Branch Call:    %s\n", m.BranchCallNumber)
	printList(out, "Research Call:", m.ResearchCallNumbers)
	printList(out, "Locations:", m.LocationCodes)
	fmt.Fprintf(out, "Ownership:      %s\n", m.Ownership())
	fmt.Fprintf(out, "Source:         %s\n", m.CatalogingSource)
	fmt.Fprintf(out, "Lookup Keys:    %+v\n", catalog.KeysFor(m.Metadata))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Library:        %s\n", m.DestinationLibrary)
	fmt.Fprintf(out, "Location:       %s\n", m.LocationCode)
	fmt.Fprintf(out, "Vendor Note:    %s\n", m.VendorNote)
	fmt.Fprintf(out, "Audience:       %s\n", vocab.AudienceNames[m.Audience])
	fmt.Fprintf(out, "World Language: %t\n", m.WorldLanguagePrefix)
	fmt.Fprintf(out, "Call Type:      %s\n", vocab.CallTypeNames[m.CallType])
	if m.CallLabel != vocab.LabelNone {
		fmt.Fprintf(out, "Call Label:     %s\n", vocab.CallLabelNames[m.CallLabel])
	}
	if m.HasOrderConflict {
		fmt.Fprintln(out, "Order Conflict: label does not fit the call number type")
	}
}

func printList(out io.Writer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(out, "%-16s%s\n", label, strings.Join(values, ", "))
}

// parseScope validates the --system and --library flags.
func parseScope(system, library string) (vocab.System, vocab.Library, error) {
	sys, err := vocab.ParseSystem(system)
	if err != nil {
		return "", "", err
	}
	lib, err := vocab.ParseLibrary(library)
	if err != nil {
		return "", "", err
	}
	return sys, lib, nil
}
