package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rahul/sahayak/internal/task"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	h, err := NewHistoryStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHistoryStore_AddAndListRuns(t *testing.T) {
	h := newTestStore(t)

	ex := &task.Execution{
		ID:      "run-1",
		Channel: "api",
		Command: "find golang jobs",
		Plan: &task.Plan{
			Input: "find golang jobs",
			Steps: []task.Step{{ID: 1, Tool: "search", Args: task.Args{"query": "golang jobs"}}},
		},
		Success:    true,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
	ex.Append(1, "search", true, "found 5 results")

	if err := h.AddRun(ex); err != nil {
		t.Fatalf("AddRun failed: %v", err)
	}

	runs, err := h.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}

	r := runs[0]
	if r.ID != "run-1" || r.Channel != "api" || !r.Success {
		t.Errorf("Unexpected record: %+v", r)
	}
	if len(r.Plan) == 0 || len(r.Log) == 0 {
		t.Error("Expected plan and log JSON to round-trip")
	}
}

func TestHistoryStore_RecentRunsLimit(t *testing.T) {
	h := newTestStore(t)

	for i := 0; i < 5; i++ {
		ex := &task.Execution{
			ID:      "run-" + string(rune('a'+i)),
			Command: "cmd",
			Plan:    &task.Plan{Input: "cmd"},
		}
		if err := h.AddRun(ex); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := h.RecentRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("Expected 3 runs, got %d", len(runs))
	}

	// Non-positive limits use the default.
	runs, err = h.RecentRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 5 {
		t.Errorf("Expected all 5 runs under default limit, got %d", len(runs))
	}
}

func TestHistoryStore_TaskLifecycle(t *testing.T) {
	h := newTestStore(t)

	if err := h.AddTask("tg:42", "check prices", 3600); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	// A fresh task is seeded pending.
	pending, err := h.GetPendingTasks()
	if err != nil {
		t.Fatalf("GetPendingTasks failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending task, got %d", len(pending))
	}
	tsk := pending[0]
	if tsk.Channel != "tg:42" || tsk.Command != "check prices" || tsk.IntervalSeconds != 3600 {
		t.Errorf("Unexpected task: %+v", tsk)
	}

	// Marking it run pushes it out of the pending window.
	if err := h.UpdateTaskLastRun(tsk.ID); err != nil {
		t.Fatalf("UpdateTaskLastRun failed: %v", err)
	}
	pending, err = h.GetPendingTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending tasks after run, got %d", len(pending))
	}

	if err := h.DeleteTask("tg:42", tsk.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
}

func TestHistoryStore_ClearTasks(t *testing.T) {
	h := newTestStore(t)

	_ = h.AddTask("tg:1", "a", 60)
	_ = h.AddTask("tg:1", "b", 60)
	_ = h.AddTask("tg:2", "c", 60)

	if err := h.ClearTasks("tg:1"); err != nil {
		t.Fatalf("ClearTasks failed: %v", err)
	}

	pending, err := h.GetPendingTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Channel != "tg:2" {
		t.Errorf("Expected only tg:2 task to survive, got %+v", pending)
	}
}
