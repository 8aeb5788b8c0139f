package agent

import (
	"strings"
	"testing"

	"github.com/rahul/sahayak/internal/task"
)

func TestSummarize_PrefersSummary(t *testing.T) {
	ex := &task.Execution{
		Plan:    &task.Plan{Steps: []task.Step{{ID: 1, Tool: "summarize"}}},
		Success: true,
		Context: task.NewContext("x"),
	}
	_ = ex.Context.Set("step_1_output", map[string]any{"summary": "- point one\n- point two"})

	out := Summarize(ex)
	if !strings.Contains(out, "point one") {
		t.Errorf("Expected summary content, got %q", out)
	}
	if !strings.Contains(out, "Done: 1 steps completed.") {
		t.Errorf("Expected completion line, got %q", out)
	}
}

func TestSummarize_FallsBackToResults(t *testing.T) {
	ex := &task.Execution{
		Plan:    &task.Plan{Steps: []task.Step{{ID: 1, Tool: "search"}}},
		Success: true,
		Context: task.NewContext("x"),
	}
	_ = ex.Context.Set("step_1_output", map[string]any{
		"results": []task.SearchResult{
			{Title: "Go jobs", URL: "https://example.com/1"},
		},
	})

	out := Summarize(ex)
	if !strings.Contains(out, "1. Go jobs") || !strings.Contains(out, "https://example.com/1") {
		t.Errorf("Expected numbered results, got %q", out)
	}
}

func TestSummarize_ReportsFailures(t *testing.T) {
	ex := &task.Execution{
		Plan:    &task.Plan{Steps: []task.Step{{ID: 1, Tool: "scrape"}}},
		Success: false,
		Context: task.NewContext("x"),
	}
	ex.Append(1, "scrape", false, "all fetches failed")

	out := Summarize(ex)
	if !strings.Contains(out, "Completed with issues") {
		t.Errorf("Expected failure line, got %q", out)
	}
}
