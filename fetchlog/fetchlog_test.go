package fetchlog

import (
	"context"
	"testing"
	"time"
)

func TestInsertAndHistory(t *testing.T) {
	// WHAT: Inserted entries come back newest-first with IDs filled in.
	s := OpenMemory(t)
	ctx := context.Background()

	for i, status := range []string{StatusEmpty, StatusOK} {
		err := s.Insert(ctx, &Entry{
			RunID:     "run-1",
			ProductID: "cpu-1",
			Vendor:    "ldlc",
			Status:    status,
			Price:     float64(i) * 100,
			FetchedAt: int64(1000 + i),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	entries, err := s.History(ctx, "cpu-1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Status != StatusOK {
		t.Errorf("order: got %q first, want newest", entries[0].Status)
	}
	if entries[0].ID == "" {
		t.Error("ID should be auto-filled")
	}
}

func TestSummarize(t *testing.T) {
	// WHAT: Per-run counts group by status.
	s := OpenMemory(t)
	ctx := context.Background()

	rec := s.NewRecorder("run-9")
	rec.Record(ctx, "p1", "ldlc", StatusOK, 99.9, 120*time.Millisecond, "")
	rec.Record(ctx, "p1", "topachat", StatusEmpty, 0, 80*time.Millisecond, "")
	rec.Record(ctx, "p2", "cybertek", StatusError, 0, time.Second, "navigate timeout")
	rec.Record(ctx, "p2", "ldlc", StatusOK, 45, 90*time.Millisecond, "")

	sum, err := s.Summarize(ctx, "run-9")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.OK != 2 || sum.Empty != 1 || sum.Errors != 1 {
		t.Errorf("got %+v", sum)
	}
}
