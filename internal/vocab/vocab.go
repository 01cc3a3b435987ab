// Package vocab holds the closed sets of codes shared by the matching core:
// institutions, libraries, workflow agents, audiences, call number types and
// labels, and decision actions.
//
// Every set is a string-backed type so values survive YAML/JSON round trips,
// and every set has a Parse function that rejects codes it does not know.
// An unknown code here is a configuration bug, never a reason to fall back
// to a default.
package vocab

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSystem    = errors.New("unknown system")
	ErrUnknownLibrary   = errors.New("unknown destination library")
	ErrUnknownAgent     = errors.New("unknown workflow agent")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownCallType  = errors.New("unknown call number type")
	ErrUnknownCallLabel = errors.New("unknown call number label")
)

// System identifies the institution whose rule set applies.
type System string

const (
	// SystemNYP has a branches/research ownership split and the larger
	// call number type rule set.
	SystemNYP System = "nyp"
	// SystemBPL has a single library and checks order conflicts.
	SystemBPL System = "bpl"
)

func ParseSystem(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case SystemNYP:
		return SystemNYP, nil
	case SystemBPL:
		return SystemBPL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
}

// Library is the library an incoming record is destined for.
type Library string

const (
	LibraryBranches Library = "branches"
	LibraryResearch Library = "research"
)

func ParseLibrary(s string) (Library, error) {
	switch Library(strings.ToLower(strings.TrimSpace(s))) {
	case LibraryBranches:
		return LibraryBranches, nil
	case LibraryResearch:
		return LibraryResearch, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLibrary, s)
}

// Opposite returns the other library of a two-library system.
func (l Library) Opposite() Library {
	if l == LibraryResearch {
		return LibraryBranches
	}
	return LibraryResearch
}

// Ownership classifies which library a catalog record serves.
type Ownership string

const (
	OwnershipBranches Ownership = "branches"
	OwnershipResearch Ownership = "research"
	OwnershipMixed    Ownership = "mixed"
	OwnershipUnknown  Ownership = "unknown"
)

// Owns reports whether the ownership class is exactly the given library.
func (o Ownership) Owns(l Library) bool {
	return string(o) == string(l)
}

// Agent is the workflow that requested a decision.
type Agent string

const (
	AgentCataloging   Agent = "cat"
	AgentSelection    Agent = "sel"
	AgentAcquisitions Agent = "acq"
)

func ParseAgent(s string) (Agent, error) {
	switch Agent(strings.ToLower(strings.TrimSpace(s))) {
	case AgentCataloging:
		return AgentCataloging, nil
	case AgentSelection:
		return AgentSelection, nil
	case AgentAcquisitions:
		return AgentAcquisitions, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAgent, s)
}

// Action is the disposition of an incoming record.
type Action string

const (
	ActionInsert  Action = "insert"
	ActionAttach  Action = "attach"
	ActionOverlay Action = "overlay"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionInsert:
		return ActionInsert, nil
	case ActionAttach:
		return ActionAttach, nil
	case ActionOverlay:
		return ActionOverlay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// CatalogingSource tells whether a record was cataloged in-house.
type CatalogingSource string

const (
	SourceVendor  CatalogingSource = "vendor"
	SourceInhouse CatalogingSource = "inhouse"
)

// Audience is the intended readership of a title.
type Audience string

const (
	AudienceUnknown    Audience = ""
	AudienceAdult      Audience = "adult"
	AudienceYoungAdult Audience = "young-adult"
	AudienceJuvenile   Audience = "juvenile"
)
