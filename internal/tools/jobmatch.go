package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/rahul/sahayak/internal/task"
)

// JobMatcherTool builds a job-search query from a resume analysis and runs
// it through the search tool, marking results that look like postings.
type JobMatcherTool struct {
	Search Tool
}

func NewJobMatcherTool(search Tool) *JobMatcherTool {
	return &JobMatcherTool{Search: search}
}

func (j *JobMatcherTool) Name() string {
	return "job_match"
}

func (j *JobMatcherTool) Description() string {
	return "Search for job postings matching an analyzed resume. Args: location (string, default 'remote'), limit (int, default 10). Requires an earlier resume_analyze step."
}

func (j *JobMatcherTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "Preferred job location (default 'remote')",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of matches (default 10)",
			},
		},
	}
}

var jobKeywords = []string{"job", "career", "hiring", "position", "opening"}

func (j *JobMatcherTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	analysis := tc.Analysis()
	if analysis == nil {
		return nil, task.Toolf(j.Name(), "no resume analysis found in context")
	}

	location := args.String("location")
	if location == "" {
		location = "remote"
	}
	limit := args.Int("limit", 10)

	query := buildJobQuery(analysis, location)
	logs := []string{fmt.Sprintf("Searching for: %s", query)}

	searchRes, err := j.Search.Execute(ctx, task.Args{"query": query, "limit": limit}, tc)
	if err != nil {
		return nil, &task.ToolError{Tool: j.Name(), Err: err}
	}
	logs = append(logs, searchRes.Logs...)

	results, _ := searchRes.Output["results"].([]task.SearchResult)
	matches := make([]task.JobMatch, 0, len(results))
	for _, r := range results {
		haystack := strings.ToLower(r.Title + " " + r.Snippet)

		relevance := "medium"
		for _, kw := range jobKeywords {
			if strings.Contains(haystack, kw) {
				relevance = "high"
				break
			}
		}

		var matched []string
		for _, skill := range analysis.Skills {
			if strings.Contains(haystack, strings.ToLower(skill)) {
				matched = append(matched, skill)
			}
		}

		matches = append(matches, task.JobMatch{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Snippet,
			Relevance:     relevance,
			MatchedSkills: matched,
		})
	}

	logs = append(logs, fmt.Sprintf("Found %d potential job matches", len(matches)))

	topSkills := analysis.Skills
	if len(topSkills) > 5 {
		topSkills = topSkills[:5]
	}

	return &Result{
		Logs: logs,
		Output: map[string]any{
			"job_matches":    matches,
			"search_query":   query,
			"matched_field":  analysis.FieldOfStudy,
			"matched_skills": topSkills,
		},
	}, nil
}

// buildJobQuery combines the analysis field, top skills and keywords into a
// single search query.
func buildJobQuery(analysis *task.ResumeAnalysis, location string) string {
	var terms []string
	if analysis.FieldOfStudy != "" {
		terms = append(terms, analysis.FieldOfStudy)
	}
	for i, s := range analysis.Skills {
		if i >= 3 {
			break
		}
		terms = append(terms, s)
	}
	for i, k := range analysis.JobKeywords {
		if i >= 2 {
			break
		}
		terms = append(terms, k)
	}
	if len(terms) > 5 {
		terms = terms[:5]
	}
	return fmt.Sprintf("%s jobs %s", strings.Join(terms, " "), location)
}
