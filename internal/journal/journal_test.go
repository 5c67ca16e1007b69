package journal

import (
	"path/filepath"
	"testing"

	"kubeseed/internal/converge"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndHistory(t *testing.T) {
	j := openTestJournal(t)
	if err := j.Begin("node init"); err != nil {
		t.Fatal(err)
	}

	j.RecordCheckpoint("containerd ready", converge.Outcome{
		Kind:     converge.Converged,
		Attempts: 2,
		Last:     converge.Ready("active"),
	}, 1)
	j.RecordCheckpoint("api server healthy", converge.Outcome{
		Kind:     converge.Exhausted,
		Attempts: 30,
		Last:     converge.NotReady("connection refused"),
	}, 0)

	records, err := j.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("History returned %d records, want 2", len(records))
	}

	// Newest first.
	if records[0].Name != "api server healthy" || records[0].Outcome != "exhausted" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[0].Attempts != 30 || records[0].LastState != "connection refused" {
		t.Errorf("exhaustion diagnostics lost: %+v", records[0])
	}
	if records[1].Name != "containerd ready" || records[1].Remediations != 1 {
		t.Errorf("records[1] = %+v", records[1])
	}
	if records[1].RecordedAt.IsZero() {
		t.Error("RecordedAt not populated")
	}
}

func TestJournal_ReopenKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Begin("addon lb"); err != nil {
		t.Fatal(err)
	}
	j.RecordCheckpoint("controller available", converge.Outcome{Kind: converge.Converged, Attempts: 1, Last: converge.Ready("ok")}, 0)
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close()

	records, err := j2.History(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Name != "controller available" {
		t.Errorf("history after reopen = %+v", records)
	}
}
