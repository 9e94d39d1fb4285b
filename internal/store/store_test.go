package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T, retention time.Duration) *Journal {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "journal.db")
	j, err := Open(dbPath, retention)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func insertRun(t *testing.T, j *Journal, id string, created time.Time, files int) {
	t.Helper()
	if _, err := j.db.Exec("INSERT INTO runs (id, operation, created) VALUES (?, 'add', ?)", id, created.Unix()); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	for i := 0; i < files; i++ {
		if _, err := j.db.Exec(
			"INSERT INTO file_deltas (run_id, file_path, old_content, created) VALUES (?, ?, ?, ?)",
			id, filepath.Join("/tmp", id, string(rune('a'+i))), []byte("x"), created.Unix(),
		); err != nil {
			t.Fatalf("insert delta: %v", err)
		}
	}
}

func TestRuns(t *testing.T) {
	j := openTestJournal(t, 0)
	now := time.Now()
	insertRun(t, j, "old", now.Add(-time.Hour), 2)
	insertRun(t, j, "new", now, 1)

	runs, err := j.Runs(0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[0].Files != 1 {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[1].ID != "old" || runs[1].Files != 2 {
		t.Errorf("second run = %+v", runs[1])
	}

	limited, err := j.Runs(1)
	if err != nil {
		t.Fatalf("Runs(1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}
}

func TestLatestRun_SkipsEmptyRuns(t *testing.T) {
	j := openTestJournal(t, 0)
	now := time.Now()

	if _, ok, err := j.LatestRun(); err != nil || ok {
		t.Fatalf("expected no run, got ok=%v err=%v", ok, err)
	}

	insertRun(t, j, "touched", now.Add(-time.Minute), 1)
	insertRun(t, j, "noop", now, 0)

	run, ok, err := j.LatestRun()
	if err != nil || !ok {
		t.Fatalf("LatestRun: ok=%v err=%v", ok, err)
	}
	if run.ID != "touched" {
		t.Errorf("latest run = %q, want touched", run.ID)
	}
}

func TestPurgeStale(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(dbPath, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	insertRun(t, j, "ancient", time.Now().Add(-48*time.Hour), 1)
	insertRun(t, j, "fresh", time.Now(), 1)
	j.Close()

	j, err = Open(dbPath, 24*time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()

	runs, err := j.Runs(0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "fresh" {
		t.Errorf("runs after purge = %+v", runs)
	}

	var deltas int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM file_deltas").Scan(&deltas); err != nil {
		t.Fatal(err)
	}
	if deltas != 1 {
		t.Errorf("expected purged run's deltas to cascade, %d left", deltas)
	}
}
