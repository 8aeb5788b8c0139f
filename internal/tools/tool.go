package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rahul/sahayak/internal/task"
)

// Result is what a tool hands back to the controller: human-readable log
// lines plus a structured output stored into the execution context.
type Result struct {
	Logs   []string
	Output map[string]any
}

// Tool defines the interface for all agent capabilities. Tools are
// stateless request/response units; they validate their own inputs and
// return a task.ToolError on failure.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON Schema for the tool's inputs
	Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error)
}

// Registry manages the set of available tools.
type Registry struct {
	Tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		Tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	r.Tools[t.Name()] = t
}

func (r *Registry) Get(name string) Tool {
	return r.Tools[name]
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Tools[name]
	return ok
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Tools))
	for name := range r.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders a capability listing suitable for an LLM planner prompt.
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, name := range r.Names() {
		t := r.Tools[name]
		fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
	}
	return b.String()
}
