package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rahul/sahayak/internal/task"
	"github.com/tmc/langchaingo/llms"
)

// ResumeAnalyzerTool turns parsed resume text into a structured profile.
// With a model it asks for a JSON analysis; otherwise a keyword scan.
type ResumeAnalyzerTool struct {
	Model llms.Model
}

func NewResumeAnalyzerTool(model llms.Model) *ResumeAnalyzerTool {
	return &ResumeAnalyzerTool{Model: model}
}

func (a *ResumeAnalyzerTool) Name() string {
	return "resume_analyze"
}

func (a *ResumeAnalyzerTool) Description() string {
	return "Analyze parsed resume text and extract skills, experience, education and job-search keywords. Reads resume text from an earlier resume_parse step."
}

func (a *ResumeAnalyzerTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (a *ResumeAnalyzerTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	resumeText := tc.ResumeText()
	if resumeText == "" {
		return nil, task.Toolf(a.Name(), "no resume text found in context")
	}

	logs := []string{"Analyzing resume content..."}

	var analysis *task.ResumeAnalysis
	if a.Model != nil {
		llmAnalysis, err := a.analyzeLLM(ctx, resumeText)
		if err != nil {
			logs = append(logs, fmt.Sprintf("LLM analysis failed: %v, using keyword extraction", err))
			analysis = analyzeKeywords(resumeText)
		} else {
			logs = append(logs, "Used LLM analysis")
			analysis = llmAnalysis
		}
	} else {
		logs = append(logs, "Used keyword analysis (configure an LLM provider for richer analysis)")
		analysis = analyzeKeywords(resumeText)
	}

	logs = append(logs, fmt.Sprintf("Analysis complete - found %d skills", len(analysis.Skills)))
	return &Result{Logs: logs, Output: map[string]any{"analysis": analysis}}, nil
}

const analyzePromptFormat = `Analyze this resume and extract the following information in JSON format:
1. Name
2. Current role/title
3. Years of experience (estimate)
4. Top 10 skills (technical and soft skills)
5. Education (degrees, institutions)
6. Field of study/specialization
7. Career interests (what kind of roles they'd be interested in)
8. Industry preferences
9. Key achievements
10. Recommended job search keywords

Resume:
%s

Return ONLY valid JSON with these keys: name, current_role, years_experience, skills, education, field_of_study, career_interests, industries, achievements, job_keywords`

func (a *ResumeAnalyzerTool) analyzeLLM(ctx context.Context, resumeText string) (*task.ResumeAnalysis, error) {
	prompt := fmt.Sprintf(analyzePromptFormat, truncate(resumeText, 4000))

	out, err := llms.GenerateFromSinglePrompt(ctx, a.Model, prompt,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(1000),
	)
	if err != nil {
		return nil, err
	}

	var analysis task.ResumeAnalysis
	if err := json.Unmarshal([]byte(StripFences(out)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &analysis, nil
}

var knownSkills = []string{
	"python", "java", "javascript", "go", "react", "node", "sql", "aws",
	"docker", "kubernetes", "machine learning", "ai", "data science",
	"frontend", "backend", "fullstack", "devops", "cloud",
}

var educationKeywords = []string{
	"bachelor", "master", "phd", "mba", "degree", "university", "college",
}

func analyzeKeywords(resumeText string) *task.ResumeAnalysis {
	lower := strings.ToLower(resumeText)

	var skills []string
	for _, skill := range knownSkills {
		if strings.Contains(lower, skill) {
			skills = append(skills, skill)
		}
	}
	if len(skills) > 10 {
		skills = skills[:10]
	}
	if len(skills) == 0 {
		skills = []string{"Programming", "Problem Solving"}
	}

	hasEducation := false
	for _, kw := range educationKeywords {
		if strings.Contains(lower, kw) {
			hasEducation = true
			break
		}
	}
	education := []string{"Education details in resume"}
	if hasEducation {
		education = []string{"Bachelor's Degree"}
	}

	field := "Technology"
	switch {
	case containsAny(lower, "data", "analytics", "ml", "ai"):
		field = "Data Science / AI"
	case containsAny(lower, "web", "frontend", "backend", "fullstack"):
		field = "Web Development"
	case containsAny(lower, "devops", "cloud", "infrastructure"):
		field = "DevOps / Cloud"
	}

	keywords := append([]string{}, skills...)
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	keywords = append(keywords, strings.ToLower(field), "remote")

	return &task.ResumeAnalysis{
		Name:            "Candidate",
		CurrentRole:     "Software Professional",
		YearsExperience: "3-5",
		Skills:          skills,
		Education:       education,
		FieldOfStudy:    field,
		CareerInterests: []string{field + " roles", "Remote positions", "Growing companies"},
		Industries:      []string{"Technology", "Software", "Startups"},
		Achievements:    []string{"See resume for details"},
		JobKeywords:     keywords,
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// StripFences removes a surrounding markdown code fence, which LLMs tend to
// wrap JSON responses in despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
	} else {
		return s
	}
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
