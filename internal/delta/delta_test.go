package delta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xonecas/docsync/internal/store"
)

func newTracker(t *testing.T) (*Tracker, *store.Journal) {
	t.Helper()
	j, err := store.Open(filepath.Join(t.TempDir(), "journal.db"), 0)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return New(j.DB()), j
}

func TestRecordWithoutRunIsNoop(t *testing.T) {
	tr, j := newTracker(t)
	tr.RecordModify("/tmp/x.py", []byte("x"))

	runs, err := j.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %+v", runs)
	}
}

func TestUndoRestoresOriginal(t *testing.T) {
	tr, j := newTracker(t)
	path := filepath.Join(t.TempDir(), "mod.py")
	if err := os.WriteFile(path, []byte("original\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	runID, err := tr.BeginRun("add")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if tr.RunID() != runID {
		t.Errorf("RunID = %q, want %q", tr.RunID(), runID)
	}

	tr.RecordModify(path, []byte("original\n"))
	if err := os.WriteFile(path, []byte("first edit\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// A second snapshot in the same run must not replace the first.
	tr.RecordModify(path, []byte("first edit\n"))
	if err := os.WriteFile(path, []byte("second edit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	run, ok, err := j.LatestRun()
	if err != nil || !ok {
		t.Fatalf("LatestRun: ok=%v err=%v", ok, err)
	}
	if run.ID != runID || run.Operation != "add" || run.Files != 1 {
		t.Errorf("run = %+v", run)
	}

	restored, err := tr.Undo(runID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(restored) != 1 || restored[0] != path {
		t.Errorf("restored = %v", restored)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "original\n" {
		t.Errorf("content after undo = %q", got)
	}

	if _, err := tr.Undo(runID); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("second undo: expected ErrUnknownRun, got %v", err)
	}
}

func TestUndoUnknownRun(t *testing.T) {
	tr, _ := newTracker(t)
	if _, err := tr.Undo("missing"); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("expected ErrUnknownRun, got %v", err)
	}
}
