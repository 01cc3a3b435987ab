// Package matching decides what to do with an incoming vendor record given
// the catalog records that may already describe it: insert it as new, attach
// it to an existing record, or overlay an existing record with it.
//
// Decisions are pure: the same order metadata and candidate set always
// produce the same Decision.
package matching

import (
	"fmt"
	"slices"

	"github.com/lehigh-university-libraries/bibmatch/internal/candidates"
	"github.com/lehigh-university-libraries/bibmatch/internal/order"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Decision is the outcome for one incoming record.
type Decision struct {
	Matched          bool         `json:"matched" yaml:"matched"`
	TargetID         string       `json:"target_id,omitempty" yaml:"target_id,omitempty"`
	TargetCallNumber string       `json:"target_call_number,omitempty" yaml:"target_call_number,omitempty"`
	CallNumbersMatch bool         `json:"call_numbers_match" yaml:"call_numbers_match"`
	UpdatedByVendor  bool         `json:"updated_by_vendor" yaml:"updated_by_vendor"`
	DuplicateIDs     []string     `json:"duplicate_ids,omitempty" yaml:"duplicate_ids,omitempty"`
	CrossLibrary     CrossLibrary `json:"cross_library" yaml:"cross_library"`
	Action           vocab.Action `json:"action" yaml:"action"`
}

// CrossLibrary lists candidates excluded because another library owns them.
type CrossLibrary struct {
	Mixed []string `json:"mixed,omitempty" yaml:"mixed,omitempty"`
	Other []string `json:"other,omitempty" yaml:"other,omitempty"`
}

// HasDuplicates reports whether more than one matchable candidate was found.
func (d Decision) HasDuplicates() bool {
	return len(d.DuplicateIDs) > 1
}

// Engine applies one system's rules for one workflow agent.
type Engine struct {
	system vocab.System
	agent  vocab.Agent
}

// NewEngine returns an engine for system and agent. Unknown values are an
// error: guessing a rule set could overlay the wrong catalog record.
func NewEngine(system vocab.System, agent vocab.Agent) (*Engine, error) {
	switch system {
	case vocab.SystemNYP, vocab.SystemBPL:
	default:
		return nil, fmt.Errorf("%w: %q", vocab.ErrUnknownSystem, system)
	}
	switch agent {
	case vocab.AgentCataloging, vocab.AgentSelection, vocab.AgentAcquisitions:
	default:
		return nil, fmt.Errorf("%w: %q", vocab.ErrUnknownAgent, agent)
	}
	return &Engine{system: system, agent: agent}, nil
}

// System returns the system whose rules the engine applies.
func (e *Engine) System() vocab.System { return e.system }

// Agent returns the workflow agent the engine decides for.
func (e *Engine) Agent() vocab.Agent { return e.agent }

// target is the candidate a scan settled on.
type target struct {
	candidate        candidates.Candidate
	callNumber       string
	callNumbersMatch bool
	placeholder      bool
}

// Decide computes the decision for an incoming record and its normalized
// candidate set.
func (e *Engine) Decide(in order.Metadata, set candidates.Set) (Decision, error) {
	if in.System != e.system {
		return Decision{}, fmt.Errorf("record from system %q given to %q engine: %w", in.System, e.system, vocab.ErrUnknownSystem)
	}
	if in.DestinationLibrary != vocab.LibraryBranches && in.DestinationLibrary != vocab.LibraryResearch {
		return Decision{}, fmt.Errorf("%w: %q", vocab.ErrUnknownLibrary, in.DestinationLibrary)
	}

	d := Decision{
		CallNumbersMatch: true,
		Action:           vocab.ActionInsert,
		CrossLibrary: CrossLibrary{
			Mixed: slices.Clone(set.Mixed),
			Other: slices.Clone(set.Other),
		},
	}
	if set.IsEmpty() {
		return d, nil
	}

	d.Matched = true
	if len(set.Same) > 1 {
		d.DuplicateIDs = set.IDs()
	}

	var t target
	if e.system == vocab.SystemNYP && in.DestinationLibrary == vocab.LibraryResearch {
		t = scanResearch(set.Same)
	} else {
		t = scanBranches(in.BranchCallNumber, set.Same)
	}

	d.TargetID = t.candidate.SourceID
	d.TargetCallNumber = t.callNumber

	switch e.agent {
	case vocab.AgentCataloging:
		d.CallNumbersMatch = t.callNumbersMatch
		switch {
		case t.placeholder:
			d.Action = vocab.ActionOverlay
		case t.candidate.CatalogingSource == vocab.SourceInhouse:
			d.Action = vocab.ActionAttach
		case in.NewerThan(t.candidate.Metadata):
			d.UpdatedByVendor = true
			d.Action = vocab.ActionOverlay
		default:
			d.Action = vocab.ActionAttach
		}
	case vocab.AgentSelection, vocab.AgentAcquisitions:
		// Orders are always attached; acquisitions has no rules of its own yet.
		d.CallNumbersMatch = true
		d.Action = vocab.ActionAttach
	default:
		return Decision{}, fmt.Errorf("%w: %q", vocab.ErrUnknownAgent, e.agent)
	}

	return d, nil
}

// scanBranches walks candidates oldest first. The first full record whose
// call number equals the incoming one ends the scan. Without such a record
// the last candidate scanned becomes the target, full record or not.
func scanBranches(callNumber string, cands []candidates.Candidate) target {
	var t target
	for i, c := range cands {
		last := i == len(cands)-1
		if c.IsFullRecord {
			if c.BranchCallNumber == callNumber {
				return target{candidate: c, callNumber: c.BranchCallNumber, callNumbersMatch: true}
			}
			if last {
				t = target{candidate: c, callNumber: c.BranchCallNumber, callNumbersMatch: false}
			}
			continue
		}
		if last {
			t = target{candidate: c, callNumbersMatch: true, placeholder: true}
		}
	}
	return t
}

// scanResearch accepts the first full research record without comparing
// call numbers, falling back to a trailing placeholder.
func scanResearch(cands []candidates.Candidate) target {
	var t target
	for i, c := range cands {
		if c.IsFullRecord && c.HasResearchCallNumber() {
			return target{candidate: c, callNumber: c.ResearchCallNumbers[0], callNumbersMatch: true}
		}
		if i == len(cands)-1 {
			t = target{candidate: c, callNumbersMatch: true, placeholder: !c.IsFullRecord}
		}
	}
	return t
}
