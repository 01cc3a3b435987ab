package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lehigh-university-libraries/bibmatch/internal/candidates"
	"github.com/lehigh-university-libraries/bibmatch/internal/catalog"
	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/stats"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// catalogRows hold one branch record for ISBN 9780134685991 and one
// research record for 0306406152.
func catalogRows() []dataset.Row {
	return []dataset.Row{
		{ID: "21000001", MARC: "*00111111111\n*020  $a9780134685991\n*091  $aMYSTERY$aSMITH\n*901  $bCAT\n^\n"},
		{ID: "21000002", MARC: "*00122222222\n*020  $a0306406152\n*8528 $hJFE$i24-100\n^\n"},
	}
}

func vendorRow(id, isbn, callNumber string) dataset.Row {
	marc := "*001" + id + "\n*020  $a" + isbn + "\n"
	if callNumber != "" {
		marc += "*091  $a" + callNumber + "\n"
	}
	marc += "*960  $tmya0f\n*961  $hm\n^\n"
	return dataset.Row{MARC: marc}
}

func newPipeline(t *testing.T, f catalog.Fetcher, opts Options) *Pipeline {
	t.Helper()
	p, err := New(f, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func loadIndex(t *testing.T) *catalog.Index {
	t.Helper()
	idx, err := catalog.LoadIndex(catalogRows(), vocab.SystemNYP)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	return idx
}

func TestNew_Validates(t *testing.T) {
	idx := loadIndex(t)

	tests := []struct {
		name    string
		fetcher catalog.Fetcher
		opts    Options
		target  error
	}{
		{name: "missing fetcher", opts: Options{System: vocab.SystemNYP, Library: vocab.LibraryBranches, Agent: vocab.AgentCataloging}},
		{name: "bad system", fetcher: idx, opts: Options{System: "x", Library: vocab.LibraryBranches, Agent: vocab.AgentCataloging}, target: vocab.ErrUnknownSystem},
		{name: "bad agent", fetcher: idx, opts: Options{System: vocab.SystemNYP, Library: vocab.LibraryBranches, Agent: "x"}, target: vocab.ErrUnknownAgent},
		{name: "bad library", fetcher: idx, opts: Options{System: vocab.SystemNYP, Library: "x", Agent: vocab.AgentCataloging}, target: vocab.ErrUnknownLibrary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fetcher, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestRun_DecidesRecords(t *testing.T) {
	rec := stats.NewRecorder()
	p := newPipeline(t, loadIndex(t), Options{
		System:   vocab.SystemNYP,
		Library:  vocab.LibraryBranches,
		Agent:    vocab.AgentCataloging,
		Recorder: rec,
	})

	research := vendorRow("v3", "0306406152", "")
	research.Library = "research"

	rows := []dataset.Row{
		vendorRow("v1", "9780134685991", "MYSTERY SMITH"),
		vendorRow("v2", "9780000000002", "FIC JONES"),
		research,
		{ID: "broken", MARC: "nonsense"},
	}

	results, err := p.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(rows) {
		t.Fatalf("got %d results, want %d", len(results), len(rows))
	}

	first := results[0]
	if first.Failed() || first.Decision.TargetID != "21000001" || first.Decision.Action != vocab.ActionAttach {
		t.Errorf("record 1: unexpected result %+v", first)
	}
	if first.Order.CallType != vocab.CallMystery {
		t.Errorf("record 1: CallType = %q", first.Order.CallType)
	}

	if d := results[1].Decision; d.Matched || d.Action != vocab.ActionInsert {
		t.Errorf("record 2: expected insert, got %+v", d)
	}

	third := results[2]
	if third.Library != vocab.LibraryResearch || third.Decision.TargetID != "21000002" || third.Decision.TargetCallNumber != "JFE 24-100" {
		t.Errorf("record 3: unexpected result %+v", third)
	}

	if !results[3].Failed() || results[3].RecordID != "broken" {
		t.Errorf("record 4: expected failure, got %+v", results[3])
	}

	got, err := testutil.GatherAndCount(rec.Registry(), "bibmatch_decisions_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if got != 3 {
		t.Errorf("decision series = %d, want 3", got)
	}
}

func TestRun_ConcurrentKeepsInputOrder(t *testing.T) {
	var rows []dataset.Row
	for i := range 40 {
		isbn := "9780134685991"
		if i%3 == 0 {
			isbn = fmt.Sprintf("97800000%05d", i)
		}
		rows = append(rows, vendorRow(fmt.Sprintf("v%d", i), isbn, "MYSTERY SMITH"))
	}

	opts := Options{System: vocab.SystemNYP, Library: vocab.LibraryBranches, Agent: vocab.AgentCataloging}
	sequential, err := newPipeline(t, loadIndex(t), opts).Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("sequential Run: %v", err)
	}

	opts.Concurrency = 8
	concurrent, err := newPipeline(t, loadIndex(t), opts).Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("concurrent Run: %v", err)
	}

	if diff := cmp.Diff(sequential, concurrent); diff != "" {
		t.Errorf("concurrent results differ (-sequential +concurrent):\n%s", diff)
	}
	for i, r := range concurrent {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
	}
}

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context, catalog.Keys) ([]candidates.Raw, error) {
	return nil, errors.New("catalog unavailable")
}

func TestProcess_FetchError(t *testing.T) {
	p := newPipeline(t, failingFetcher{}, Options{System: vocab.SystemNYP, Library: vocab.LibraryBranches, Agent: vocab.AgentSelection})

	res := p.Process(context.Background(), 0, vendorRow("v1", "9780134685991", ""))
	if !res.Failed() {
		t.Fatal("expected failure")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(t, loadIndex(t), Options{System: vocab.SystemNYP, Library: vocab.LibraryBranches, Agent: vocab.AgentCataloging})
	if _, err := p.Run(ctx, []dataset.Row{vendorRow("v1", "9780134685991", "")}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
