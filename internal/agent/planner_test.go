package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rahul/sahayak/internal/task"
)

func planTools(t *testing.T, plan *task.Plan) []string {
	t.Helper()
	tools := make([]string, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		tools = append(tools, s.Tool)
	}
	return tools
}

func TestRulePlanner_Intents(t *testing.T) {
	p := NewRulePlanner()

	cases := []struct {
		name    string
		command string
		email   string
		want    []string
	}{
		{
			name:    "search only",
			command: "find me remote golang jobs",
			want:    []string{"search", "log"},
		},
		{
			name:    "search scrape summarize",
			command: "find the top AI courses and summarize them",
			want:    []string{"search", "scrape", "summarize", "log"},
		},
		{
			name:    "email keyword adds email step",
			command: "search for sqlite news and email me",
			want:    []string{"search", "email", "log"},
		},
		{
			name:    "explicit email address",
			command: "find golang conferences",
			email:   "me@example.com",
			want:    []string{"search", "email", "log"},
		},
		{
			name:    "resume without job intent",
			command: "analyze my resume cv.pdf",
			want:    []string{"resume_parse", "resume_analyze", "log"},
		},
		{
			name:    "resume with job matching",
			command: "parse resume.docx and find matching jobs",
			want:    []string{"resume_parse", "resume_analyze", "job_match", "log"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := p.Plan(context.Background(), tc.command, tc.email)
			if err != nil {
				t.Fatalf("Plan failed: %v", err)
			}
			got := planTools(t, plan)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected tools %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("Step %d: expected %q, got %q", i+1, tc.want[i], got[i])
				}
			}
			// Step IDs must be sequential from 1.
			for i, s := range plan.Steps {
				if s.ID != i+1 {
					t.Errorf("Expected step ID %d, got %d", i+1, s.ID)
				}
			}
		})
	}
}

func TestRulePlanner_NoIntent(t *testing.T) {
	p := NewRulePlanner()

	_, err := p.Plan(context.Background(), "asdf qwerty", "")
	if err == nil {
		t.Fatal("Expected a planning error for an unmatchable command")
	}
	var pErr *task.PlanningError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected PlanningError, got %T", err)
	}
}

func TestRulePlanner_EmailArgs(t *testing.T) {
	p := NewRulePlanner()

	plan, err := p.Plan(context.Background(), "find golang jobs", "dev@example.com")
	if err != nil {
		t.Fatal(err)
	}

	var emailStep *task.Step
	for i := range plan.Steps {
		if plan.Steps[i].Tool == "email" {
			emailStep = &plan.Steps[i]
		}
	}
	if emailStep == nil {
		t.Fatal("Expected an email step")
	}
	if got := emailStep.Args.String("to"); got != "dev@example.com" {
		t.Errorf("Expected recipient to be set, got %q", got)
	}
	if emailStep.Args.String("subject") == "" {
		t.Error("Expected a subject to be set")
	}
}

func TestExtractQuery(t *testing.T) {
	cases := []struct {
		command string
		want    string
	}{
		{"find me remote golang jobs", "remote golang jobs"},
		{"search for sqlite news", "sqlite news"},
		{"look for ML internships in Pune", "ML internships in Pune"},
		{"find top 5 laptops", "top 5 laptops"},
		{"summarize this somehow", "summarize this somehow"},
	}
	for _, tc := range cases {
		if got := extractQuery(tc.command); got != tc.want {
			t.Errorf("extractQuery(%q) = %q, want %q", tc.command, got, tc.want)
		}
	}
}
