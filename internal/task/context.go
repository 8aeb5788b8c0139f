package task

import "fmt"

// SearchResult is one hit produced by the search tool.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Page is the extracted text of one scraped URL.
type Page struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ResumeAnalysis is the structured output of the resume analyzer.
type ResumeAnalysis struct {
	Name            string   `json:"name"`
	CurrentRole     string   `json:"current_role"`
	YearsExperience string   `json:"years_experience"`
	Skills          []string `json:"skills"`
	Education       []string `json:"education"`
	FieldOfStudy    string   `json:"field_of_study"`
	CareerInterests []string `json:"career_interests"`
	Industries      []string `json:"industries"`
	Achievements    []string `json:"achievements"`
	JobKeywords     []string `json:"job_keywords"`
}

// JobMatch is one job posting candidate produced by the job matcher.
type JobMatch struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Snippet       string   `json:"snippet"`
	Relevance     string   `json:"relevance"`
	MatchedSkills []string `json:"matched_skills"`
}

// Context is the key-value state threaded through one plan execution.
// It is append-only: a key, once written, cannot be overwritten. The whole
// context is discarded when the run completes.
type Context struct {
	order  []string
	values map[string]any
}

// NewContext seeds a fresh context with the plan's original input under
// the "plan_input" key.
func NewContext(input string) *Context {
	c := &Context{values: make(map[string]any)}
	_ = c.Set("plan_input", input)
	return c
}

// Set stores value under key. Writing an existing key is an error.
func (c *Context) Set(key string, value any) error {
	if _, exists := c.values[key]; exists {
		return fmt.Errorf("context key %q already set", key)
	}
	c.values[key] = value
	c.order = append(c.order, key)
	return nil
}

// Get returns the raw value for key.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (c *Context) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// outputs iterates stored step outputs in insertion order.
func (c *Context) outputs() []map[string]any {
	var out []map[string]any
	for _, k := range c.order {
		if m, ok := c.values[k].(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// SearchResults returns the results of the earliest search step, if any.
func (c *Context) SearchResults() []SearchResult {
	for _, m := range c.outputs() {
		if rs, ok := m["results"].([]SearchResult); ok && len(rs) > 0 {
			return rs
		}
	}
	return nil
}

// Pages returns all scraped pages accumulated so far, in step order.
func (c *Context) Pages() []Page {
	var pages []Page
	for _, m := range c.outputs() {
		if ps, ok := m["pages"].([]Page); ok {
			pages = append(pages, ps...)
		}
	}
	return pages
}

// Summary returns the earliest summary produced during this run.
func (c *Context) Summary() string {
	for _, m := range c.outputs() {
		if s, ok := m["summary"].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// ResumeText returns the text extracted by the resume parser.
func (c *Context) ResumeText() string {
	for _, m := range c.outputs() {
		if s, ok := m["resume_text"].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Analysis returns the resume analysis, if one was produced.
func (c *Context) Analysis() *ResumeAnalysis {
	for _, m := range c.outputs() {
		if a, ok := m["analysis"].(*ResumeAnalysis); ok {
			return a
		}
	}
	return nil
}

// Channel returns the originating channel (chat id or "api"), when set.
func (c *Context) Channel() string {
	if v, ok := c.values["channel"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
