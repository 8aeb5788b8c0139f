package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rahul/sahayak/internal/task"
)

// Planner turns a natural-language command into an ordered execution plan.
type Planner interface {
	Plan(ctx context.Context, command, targetEmail string) (*task.Plan, error)
}

// RulePlanner maps commands to plans by keyword matching against a fixed
// set of intents. It is deterministic and works offline.
type RulePlanner struct{}

func NewRulePlanner() *RulePlanner {
	return &RulePlanner{}
}

var (
	searchIntent    = []string{"find", "search", "look for", "top", "list"}
	scrapeIntent    = []string{"scrape", "details", "summarize", "summary", "compare", "internship", "course"}
	summarizeIntent = []string{"summarize", "summary", "bullet", "compare", "comparison"}
	resumeIntent    = []string{"resume", "cv"}

	queryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)find me (.+)`),
		regexp.MustCompile(`(?i)search for (.+)`),
		regexp.MustCompile(`(?i)look for (.+)`),
		regexp.MustCompile(`(?i)find (.+)`),
	}

	// A path-ish token ending in a resume extension, e.g. "cv.pdf".
	resumeFilePattern = regexp.MustCompile(`(?i)(\S+\.(?:pdf|docx|doc|txt))`)
)

func (p *RulePlanner) Plan(ctx context.Context, command, targetEmail string) (*task.Plan, error) {
	cmd := strings.ToLower(command)
	var steps []task.Step
	sid := 1

	add := func(tool string, args task.Args) {
		steps = append(steps, task.Step{ID: sid, Tool: tool, Args: args})
		sid++
	}

	if file := resumeFilePattern.FindString(command); file != "" && matchesAny(cmd, resumeIntent) {
		add("resume_parse", task.Args{"file_path": file})
		add("resume_analyze", task.Args{})
		if matchesAny(cmd, []string{"job", "jobs", "match", "opening"}) {
			add("job_match", task.Args{"location": "remote", "limit": 10})
		}
	} else {
		if matchesAny(cmd, searchIntent) {
			add("search", task.Args{"query": extractQuery(command), "limit": 5})
		}
		if matchesAny(cmd, scrapeIntent) {
			add("scrape", task.Args{"top_k": 3})
		}
		if matchesAny(cmd, summarizeIntent) {
			add("summarize", task.Args{"mode": "bullet", "max_sentences": 8})
		}
	}

	if targetEmail != "" || strings.Contains(cmd, "email") || strings.Contains(cmd, "send") {
		add("email", task.Args{
			"to":      targetEmail,
			"subject": fmt.Sprintf("Automation result for: %s", command),
		})
	}

	if len(steps) == 0 {
		return nil, &task.PlanningError{Command: command, Reason: "no known intent matched"}
	}

	add("log", task.Args{"message": fmt.Sprintf("Completed task: %s", command)})

	return &task.Plan{Input: command, Steps: steps}, nil
}

func matchesAny(cmd string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(cmd, k) {
			return true
		}
	}
	return false
}

// extractQuery pulls the query phrase out of common command shapes,
// falling back to the whole command.
func extractQuery(command string) string {
	for _, p := range queryPatterns {
		if m := p.FindStringSubmatch(command); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return command
}
