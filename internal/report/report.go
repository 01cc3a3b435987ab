// Package report writes the outcome of a matching run: a YAML decision file,
// CSV lists of duplicate and call number conflicts, and a text summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibmatch/internal/matching"
	"github.com/lehigh-university-libraries/bibmatch/internal/pipeline"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Run describes the configuration a report was produced with.
type Run struct {
	ID          string        `yaml:"id"`
	System      vocab.System  `yaml:"system"`
	Library     vocab.Library `yaml:"library"`
	Agent       vocab.Agent   `yaml:"agent"`
	VendorFile  string        `yaml:"vendorfile"`
	CatalogFile string        `yaml:"catalogfile"`
	Timestamp   string        `yaml:"timestamp"`
}

// NewRun stamps a run with a fresh id and the current time.
func NewRun(system vocab.System, lib vocab.Library, agent vocab.Agent, vendorFile, catalogFile string) Run {
	return Run{
		ID:          uuid.NewString(),
		System:      system,
		Library:     lib,
		Agent:       agent,
		VendorFile:  vendorFile,
		CatalogFile: catalogFile,
		Timestamp:   time.Now().Format("2006-01-02_15-04-05"),
	}
}

// Entry is the reported outcome for one incoming record.
type Entry struct {
	Identifier         string             `yaml:"identifier"`
	Library            vocab.Library      `yaml:"library"`
	ControlNumber      string             `yaml:"controlnumber,omitempty"`
	CallNumber         string             `yaml:"callnumber,omitempty"`
	CallType           vocab.CallType     `yaml:"calltype,omitempty"`
	CallLabel          vocab.CallLabel    `yaml:"calllabel,omitempty"`
	Audience           vocab.Audience     `yaml:"audience,omitempty"`
	OrderConflict      bool               `yaml:"orderconflict,omitempty"`
	Candidates         int                `yaml:"candidates"`
	RejectedCandidates int                `yaml:"rejectedcandidates,omitempty"`
	Decision           *matching.Decision `yaml:"decision,omitempty"`
	Error              string             `yaml:"error,omitempty"`
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total          int `yaml:"total"`
	Inserted       int `yaml:"inserted"`
	Attached       int `yaml:"attached"`
	Overlaid       int `yaml:"overlaid"`
	Failed         int `yaml:"failed"`
	Duplicates     int `yaml:"duplicates"`
	Mismatches     int `yaml:"callnumbermismatches"`
	OrderConflicts int `yaml:"orderconflicts"`
	CrossLibrary   int `yaml:"crosslibrary"`
}

// Report is the complete outcome of a run.
type Report struct {
	Run     Run     `yaml:"run"`
	Summary Summary `yaml:"summary"`
	Entries []Entry `yaml:"entries"`
}

// New builds a report from pipeline results.
func New(run Run, results []pipeline.Result) *Report {
	r := &Report{
		Run:     run,
		Entries: make([]Entry, 0, len(results)),
	}

	for _, res := range results {
		e := Entry{
			Identifier: res.RecordID,
			Library:    res.Library,
		}
		r.Summary.Total++

		if res.Failed() {
			e.Error = res.Err.Error()
			r.Summary.Failed++
			r.Entries = append(r.Entries, e)
			continue
		}

		d := res.Decision
		e.ControlNumber = res.Order.ControlNumber
		e.CallNumber = res.Order.BranchCallNumber
		e.CallType = res.Order.CallType
		e.CallLabel = res.Order.CallLabel
		e.Audience = res.Order.Audience
		e.OrderConflict = res.Order.HasOrderConflict
		e.Candidates = res.Candidates
		e.RejectedCandidates = res.Rejected
		e.Decision = &d

		switch d.Action {
		case vocab.ActionInsert:
			r.Summary.Inserted++
		case vocab.ActionAttach:
			r.Summary.Attached++
		case vocab.ActionOverlay:
			r.Summary.Overlaid++
		}
		if d.HasDuplicates() {
			r.Summary.Duplicates++
		}
		if !d.CallNumbersMatch {
			r.Summary.Mismatches++
		}
		if e.OrderConflict {
			r.Summary.OrderConflicts++
		}
		if len(d.CrossLibrary.Mixed)+len(d.CrossLibrary.Other) > 0 {
			r.Summary.CrossLibrary++
		}

		r.Entries = append(r.Entries, e)
	}

	return r
}

// Files are the paths written by Save.
type Files struct {
	Decisions  string
	Duplicates string
	Conflicts  string
}

// Save writes the YAML decision file and both CSV reports into dir.
func (r *Report) Save(dir string) (Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Files{}, fmt.Errorf("failed to create report directory: %w", err)
	}

	base := fmt.Sprintf("%s-%s-%s", r.Run.System, r.Run.Timestamp, shortID(r.Run.ID))
	files := Files{
		Decisions:  filepath.Join(dir, base+".yaml"),
		Duplicates: filepath.Join(dir, base+"-duplicates.csv"),
		Conflicts:  filepath.Join(dir, base+"-conflicts.csv"),
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return Files{}, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(files.Decisions, data, 0644); err != nil {
		return Files{}, fmt.Errorf("failed to write YAML file: %w", err)
	}

	if err := writeCSVFile(files.Duplicates, r.WriteDuplicatesCSV); err != nil {
		return Files{}, err
	}
	if err := writeCSVFile(files.Conflicts, r.WriteConflictsCSV); err != nil {
		return Files{}, err
	}

	return files, nil
}

// Load reads a YAML decision file written by Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
