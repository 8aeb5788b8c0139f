package task

import "fmt"

// PlanningError means a command could not be mapped to any known tool
// combination.
type PlanningError struct {
	Command string
	Reason  string
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("cannot plan %q: %s", e.Command, e.Reason)
}

// ValidationError means a generated plan referenced a tool that does not
// exist in the registry.
type ValidationError struct {
	Tool string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("plan references unknown tool %q", e.Tool)
}

// ToolError wraps a failure inside a tool: network error, quota, bad input,
// parse failure.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Toolf builds a ToolError from a format string.
func Toolf(tool, format string, args ...any) *ToolError {
	return &ToolError{Tool: tool, Err: fmt.Errorf(format, args...)}
}
