package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/rahul/sahayak/internal/task"
	"github.com/rahul/sahayak/pkg/config"
)

func TestEmailTool_DryRunWithoutSMTP(t *testing.T) {
	e := NewEmailTool(config.SMTPConfig{})
	tc := task.NewContext("x")
	_ = tc.Set("step_1_output", map[string]any{"summary": "the summary"})

	res, err := e.Execute(context.Background(), task.Args{"to": "me@example.com", "subject": "hi"}, tc)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if sent := res.Output["email_sent"].(bool); sent {
		t.Error("Expected dry-run, not an actual send")
	}
	joined := strings.Join(res.Logs, "\n")
	if !strings.Contains(joined, "would send email to me@example.com") {
		t.Errorf("Expected dry-run notice in logs, got %q", joined)
	}
	if !strings.Contains(joined, "the summary") {
		t.Errorf("Expected body in logs, got %q", joined)
	}
}

func TestEmailTool_MissingRecipient(t *testing.T) {
	e := NewEmailTool(config.SMTPConfig{})
	tc := task.NewContext("x")

	if _, err := e.Execute(context.Background(), task.Args{}, tc); err == nil {
		t.Fatal("Expected an error for a missing recipient")
	}
}

func TestComposeBody_PrefersSummary(t *testing.T) {
	tc := task.NewContext("x")
	_ = tc.Set("step_1_output", map[string]any{
		"results": []task.SearchResult{{Title: "r", Snippet: "s", URL: "https://a"}},
	})
	_ = tc.Set("step_2_output", map[string]any{"summary": "tl;dr"})

	if got := composeBody(tc); got != "tl;dr" {
		t.Errorf("Expected summary to win, got %q", got)
	}
}

func TestComposeBody_SearchResults(t *testing.T) {
	tc := task.NewContext("x")
	_ = tc.Set("step_1_output", map[string]any{
		"results": []task.SearchResult{
			{Title: "Go jobs", Snippet: "remote roles", URL: "https://example.com/1"},
		},
	})

	body := composeBody(tc)
	if !strings.Contains(body, "Search Results:") {
		t.Errorf("Expected results header, got %q", body)
	}
	if !strings.Contains(body, "1. Go jobs") || !strings.Contains(body, "https://example.com/1") {
		t.Errorf("Expected numbered result with link, got %q", body)
	}
}

func TestComposeBody_Empty(t *testing.T) {
	tc := task.NewContext("x")
	if got := composeBody(tc); got != "" {
		t.Errorf("Expected empty body, got %q", got)
	}
}

func TestHTMLBody(t *testing.T) {
	out := htmlBody("See https://example.com/page & enjoy <tags>")

	if !strings.Contains(out, `<a href="https://example.com/page">`) {
		t.Errorf("Expected linkified URL, got %q", out)
	}
	if !strings.Contains(out, "&amp;") {
		t.Errorf("Expected ampersand escaped, got %q", out)
	}
	if strings.Contains(out, "<tags>") {
		t.Errorf("Expected raw tags escaped, got %q", out)
	}
}
