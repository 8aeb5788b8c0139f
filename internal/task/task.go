package task

import (
	"fmt"
	"strconv"
	"time"
)

// Args holds the parameters of a single step. Values come from JSON, so
// numbers may arrive as float64 and lists as []any.
type Args map[string]any

// String returns the string value for key, or "" when absent or not a string.
func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int returns the integer value for key, accepting JSON numbers and numeric
// strings. Falls back to def.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Step is one tool invocation within a plan.
type Step struct {
	ID   int    `json:"id"`
	Tool string `json:"tool"`
	Args Args   `json:"args"`
}

// Plan is an ordered sequence of steps derived from a natural-language
// command. Steps execute in list order; a step may only consume context
// keys produced by strictly earlier steps.
type Plan struct {
	Input string `json:"input"`
	Steps []Step `json:"steps"`
}

// LogEntry records the outcome of one step attempt. Entries are immutable
// once appended and owned by a single execution.
type LogEntry struct {
	StepID  int       `json:"step_id"`
	Tool    string    `json:"tool"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Execution is the result of running one plan: the ordered log, the final
// context, and the overall success flag.
type Execution struct {
	ID          string     `json:"id"`
	Channel     string     `json:"channel,omitempty"`
	Command     string     `json:"command"`
	Plan        *Plan      `json:"plan"`
	Log         []LogEntry `json:"logs"`
	Success     bool       `json:"success"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at"`
	FinalOutput map[string]any `json:"-"`
	Context     *Context       `json:"-"`
}

// Append adds a log entry stamped with the current time.
func (e *Execution) Append(stepID int, tool string, success bool, format string, args ...any) {
	e.Log = append(e.Log, LogEntry{
		StepID:  stepID,
		Tool:    tool,
		Success: success,
		Message: fmt.Sprintf(format, args...),
		Time:    time.Now(),
	})
}
