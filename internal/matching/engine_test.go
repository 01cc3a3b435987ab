package matching

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/bibmatch/internal/bib"
	"github.com/lehigh-university-libraries/bibmatch/internal/candidates"
	"github.com/lehigh-university-libraries/bibmatch/internal/order"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func incoming(t *testing.T, lib vocab.Library, callNumber string, ts time.Time) order.Metadata {
	t.Helper()
	m, err := order.New(bib.Metadata{
		System:           vocab.SystemNYP,
		BranchCallNumber: callNumber,
		VersionTimestamp: ts,
	}, order.Input{DestinationLibrary: lib, LocationCode: "mya0f"})
	if err != nil {
		t.Fatalf("order.New: %v", err)
	}
	return m
}

func full(id, callNumber string) candidates.Candidate {
	return candidates.New(id, bib.Metadata{
		System:           vocab.SystemNYP,
		BranchCallNumber: callNumber,
		CatalogingSource: vocab.SourceVendor,
		VersionTimestamp: t0,
	})
}

func placeholder(id string) candidates.Candidate {
	return candidates.New(id, bib.Metadata{System: vocab.SystemNYP})
}

func research(id, callNumber string, source vocab.CatalogingSource) candidates.Candidate {
	return candidates.New(id, bib.Metadata{
		System:              vocab.SystemNYP,
		ResearchCallNumbers: []string{callNumber},
		CatalogingSource:    source,
	})
}

func newEngine(t *testing.T, agent vocab.Agent) *Engine {
	t.Helper()
	e, err := NewEngine(vocab.SystemNYP, agent)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngine_RejectsUnknownValues(t *testing.T) {
	if _, err := NewEngine("xyz", vocab.AgentCataloging); !errors.Is(err, vocab.ErrUnknownSystem) {
		t.Errorf("expected ErrUnknownSystem, got %v", err)
	}
	if _, err := NewEngine(vocab.SystemBPL, "ill"); !errors.Is(err, vocab.ErrUnknownAgent) {
		t.Errorf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestNewEngine_KeepsSystemAndAgent(t *testing.T) {
	e, err := NewEngine(vocab.SystemBPL, vocab.AgentSelection)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if e.System() != vocab.SystemBPL {
		t.Errorf("System() = %q, want bpl", e.System())
	}
	if e.Agent() != vocab.AgentSelection {
		t.Errorf("Agent() = %q, want sel", e.Agent())
	}
}

func TestDecide_SystemMismatch(t *testing.T) {
	e, err := NewEngine(vocab.SystemBPL, vocab.AgentCataloging)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, err := e.Decide(incoming(t, vocab.LibraryBranches, "FIC A", t0), candidates.Set{}); err == nil {
		t.Error("expected error deciding a NYP record with a BPL engine")
	}
}

func TestDecide_Cataloging(t *testing.T) {
	tests := []struct {
		name     string
		lib      vocab.Library
		call     string
		ts       time.Time
		same     []candidates.Candidate
		expected Decision
	}{
		{
			name:     "no candidates inserts",
			lib:      vocab.LibraryBranches,
			call:     "FIC A",
			expected: Decision{CallNumbersMatch: true, Action: vocab.ActionInsert},
		},
		{
			name: "first exact match wins",
			lib:  vocab.LibraryBranches,
			call: "MATCH",
			ts:   t0,
			same: []candidates.Candidate{full("1", "X"), full("2", "MATCH"), full("3", "MATCH")},
			expected: Decision{
				Matched:          true,
				TargetID:         "2",
				TargetCallNumber: "MATCH",
				CallNumbersMatch: true,
				DuplicateIDs:     []string{"1", "2", "3"},
				Action:           vocab.ActionAttach,
			},
		},
		{
			name: "last scanned is target without exact match",
			lib:  vocab.LibraryBranches,
			call: "MATCH",
			ts:   t0,
			same: []candidates.Candidate{full("1", "X"), full("2", "Y")},
			expected: Decision{
				Matched:          true,
				TargetID:         "2",
				TargetCallNumber: "Y",
				CallNumbersMatch: false,
				DuplicateIDs:     []string{"1", "2"},
				Action:           vocab.ActionAttach,
			},
		},
		{
			name: "single placeholder is overlaid",
			lib:  vocab.LibraryBranches,
			call: "FIC A",
			same: []candidates.Candidate{placeholder("7")},
			expected: Decision{
				Matched:          true,
				TargetID:         "7",
				CallNumbersMatch: true,
				Action:           vocab.ActionOverlay,
			},
		},
		{
			name: "trailing placeholder after mismatch is overlaid",
			lib:  vocab.LibraryBranches,
			call: "FIC A",
			ts:   t0,
			same: []candidates.Candidate{full("1", "FIC B"), placeholder("2")},
			expected: Decision{
				Matched:          true,
				TargetID:         "2",
				CallNumbersMatch: true,
				DuplicateIDs:     []string{"1", "2"},
				Action:           vocab.ActionOverlay,
			},
		},
		{
			name: "newer vendor record overlays",
			lib:  vocab.LibraryBranches,
			call: "FIC A",
			ts:   t0.Add(time.Second),
			same: []candidates.Candidate{full("1", "FIC A")},
			expected: Decision{
				Matched:          true,
				TargetID:         "1",
				TargetCallNumber: "FIC A",
				CallNumbersMatch: true,
				UpdatedByVendor:  true,
				Action:           vocab.ActionOverlay,
			},
		},
		{
			name: "older vendor record attaches",
			lib:  vocab.LibraryBranches,
			call: "FIC A",
			ts:   t0.Add(-time.Second),
			same: []candidates.Candidate{full("1", "FIC A")},
			expected: Decision{
				Matched:          true,
				TargetID:         "1",
				TargetCallNumber: "FIC A",
				CallNumbersMatch: true,
				Action:           vocab.ActionAttach,
			},
		},
		{
			name: "research takes first full record",
			lib:  vocab.LibraryResearch,
			ts:   t0,
			same: []candidates.Candidate{placeholder("1"), research("2", "JFE 24-100", vocab.SourceInhouse), research("3", "JFE 24-200", vocab.SourceVendor)},
			expected: Decision{
				Matched:          true,
				TargetID:         "2",
				TargetCallNumber: "JFE 24-100",
				CallNumbersMatch: true,
				DuplicateIDs:     []string{"1", "2", "3"},
				Action:           vocab.ActionAttach,
			},
		},
		{
			name: "research falls back to trailing placeholder",
			lib:  vocab.LibraryResearch,
			same: []candidates.Candidate{placeholder("4")},
			expected: Decision{
				Matched:          true,
				TargetID:         "4",
				CallNumbersMatch: true,
				Action:           vocab.ActionOverlay,
			},
		},
	}

	e := newEngine(t, vocab.AgentCataloging)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Decide(incoming(t, tt.lib, tt.call, tt.ts), candidates.Set{Same: tt.same})
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("decision mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecide_InhouseRecordIsNeverOverlaid(t *testing.T) {
	c := full("1", "FIC A")
	c.CatalogingSource = vocab.SourceInhouse

	got, err := newEngine(t, vocab.AgentCataloging).Decide(
		incoming(t, vocab.LibraryBranches, "FIC A", t0.Add(time.Hour)),
		candidates.Set{Same: []candidates.Candidate{c}})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if got.Action != vocab.ActionAttach || got.UpdatedByVendor {
		t.Errorf("expected attach without vendor update, got %+v", got)
	}
}

func TestDecide_Selection(t *testing.T) {
	for _, agent := range []vocab.Agent{vocab.AgentSelection, vocab.AgentAcquisitions} {
		t.Run(string(agent), func(t *testing.T) {
			e := newEngine(t, agent)

			got, err := e.Decide(incoming(t, vocab.LibraryBranches, "MATCH", t0.Add(time.Hour)),
				candidates.Set{Same: []candidates.Candidate{full("1", "X"), full("2", "Y")}})
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if got.TargetID != "2" || got.Action != vocab.ActionAttach || !got.CallNumbersMatch || got.UpdatedByVendor {
				t.Errorf("unexpected decision %+v", got)
			}

			got, err = e.Decide(incoming(t, vocab.LibraryBranches, "MATCH", t0), candidates.Set{})
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if got.Matched || got.Action != vocab.ActionInsert {
				t.Errorf("expected insert for empty set, got %+v", got)
			}
		})
	}
}

func TestDecide_CrossLibraryIsReportedOnly(t *testing.T) {
	set := candidates.Set{Mixed: []string{"10"}, Other: []string{"11", "12"}}

	got, err := newEngine(t, vocab.AgentCataloging).Decide(incoming(t, vocab.LibraryBranches, "FIC A", t0), set)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	want := Decision{
		CallNumbersMatch: true,
		Action:           vocab.ActionInsert,
		CrossLibrary:     CrossLibrary{Mixed: []string{"10"}, Other: []string{"11", "12"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decision mismatch (-want +got):\n%s", diff)
	}
}

func TestDecide_IsRepeatable(t *testing.T) {
	e := newEngine(t, vocab.AgentCataloging)
	in := incoming(t, vocab.LibraryBranches, "MATCH", t0.Add(time.Minute))
	set := candidates.Set{
		Same:  []candidates.Candidate{full("1", "X"), full("2", "MATCH"), placeholder("3")},
		Other: []string{"9"},
	}

	first, err := e.Decide(in, set)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	second, err := e.Decide(in, set)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated decision differs (-first +second):\n%s", diff)
	}
	if len(first.DuplicateIDs) != 3 {
		t.Errorf("DuplicateIDs = %v, want 3 ids", first.DuplicateIDs)
	}
}

func TestDecide_MysteryOrderEndToEnd(t *testing.T) {
	m, err := order.New(bib.Metadata{
		System:           vocab.SystemNYP,
		BranchCallNumber: "MYSTERY SMITH",
	}, order.Input{
		DestinationLibrary: vocab.LibraryBranches,
		LocationCode:       "mya0f",
		VendorNote:         "m",
	})
	if err != nil {
		t.Fatalf("order.New: %v", err)
	}
	if m.CallType != vocab.CallMystery {
		t.Fatalf("CallType = %q, want mystery", m.CallType)
	}

	set, err := candidates.Normalize([]candidates.Raw{{
		ID: "21000001",
		Bib: bib.Metadata{
			System:           vocab.SystemNYP,
			BranchCallNumber: "MYSTERY SMITH",
			CatalogingSource: vocab.SourceInhouse,
		},
	}}, vocab.SystemNYP, vocab.LibraryBranches)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	got, err := newEngine(t, vocab.AgentCataloging).Decide(m, set)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	want := Decision{
		Matched:          true,
		TargetID:         "21000001",
		TargetCallNumber: "MYSTERY SMITH",
		CallNumbersMatch: true,
		Action:           vocab.ActionAttach,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decision mismatch (-want +got):\n%s", diff)
	}
}
