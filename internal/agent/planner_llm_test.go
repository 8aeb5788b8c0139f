package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rahul/sahayak/internal/task"
	"github.com/rahul/sahayak/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns a canned response or error for every generation call.
type fakeModel struct {
	response string
	err      error
	calls    int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// noopTool satisfies the tool interface for registry population in tests.
type noopTool struct{ name string }

func (n *noopTool) Name() string                { return n.name }
func (n *noopTool) Description() string         { return "noop" }
func (n *noopTool) Parameters() map[string]any  { return map[string]any{} }
func (n *noopTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*tools.Result, error) {
	return &tools.Result{}, nil
}

func testRegistry(names ...string) *tools.Registry {
	r := tools.NewRegistry()
	for _, n := range names {
		r.Register(&noopTool{name: n})
	}
	return r
}

func TestLLMPlanner_ValidPlan(t *testing.T) {
	model := &fakeModel{response: `{
		"input": "find golang jobs",
		"steps": [
			{"id": 1, "tool": "search", "args": {"query": "golang jobs", "limit": 5}},
			{"id": 2, "tool": "log", "args": {"message": "done"}}
		]
	}`}

	p := NewLLMPlanner(model, testRegistry("search", "log"))
	plan, err := p.Plan(context.Background(), "find golang jobs", "")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(plan.Steps))
	}
	if plan.Steps[0].Tool != "search" || plan.Steps[0].Args.String("query") != "golang jobs" {
		t.Errorf("Unexpected first step: %+v", plan.Steps[0])
	}
}

func TestLLMPlanner_StripsCodeFences(t *testing.T) {
	model := &fakeModel{response: "```json\n" + `{"input":"x","steps":[{"id":1,"tool":"log","args":{}}]}` + "\n```"}

	p := NewLLMPlanner(model, testRegistry("log"))
	plan, err := p.Plan(context.Background(), "x", "")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan.Steps) != 1 || plan.Steps[0].Tool != "log" {
		t.Errorf("Unexpected plan: %+v", plan)
	}
}

func TestLLMPlanner_UnknownToolIsHardError(t *testing.T) {
	model := &fakeModel{response: `{"input":"x","steps":[{"id":1,"tool":"teleport","args":{}}]}`}

	p := NewLLMPlanner(model, testRegistry("search", "log"))
	_, err := p.Plan(context.Background(), "x", "")
	if err == nil {
		t.Fatal("Expected an error for an unregistered tool")
	}
	var vErr *task.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}
	if vErr.Tool != "teleport" {
		t.Errorf("Expected offending tool 'teleport', got %q", vErr.Tool)
	}
}

func TestLLMPlanner_FallsBackOnModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("model unreachable")}

	p := NewLLMPlanner(model, testRegistry("search", "log"))
	plan, err := p.Plan(context.Background(), "find me golang jobs", "")
	if err != nil {
		t.Fatalf("Expected fallback to rule planner, got error: %v", err)
	}
	if len(plan.Steps) == 0 || plan.Steps[0].Tool != "search" {
		t.Errorf("Expected rule-planned search step, got %+v", plan.Steps)
	}
}

func TestLLMPlanner_FallsBackOnGarbage(t *testing.T) {
	model := &fakeModel{response: "I cannot help with that."}

	p := NewLLMPlanner(model, testRegistry("search", "log"))
	plan, err := p.Plan(context.Background(), "search for sqlite news", "")
	if err != nil {
		t.Fatalf("Expected fallback to rule planner, got error: %v", err)
	}
	if plan.Steps[0].Tool != "search" {
		t.Errorf("Expected rule-planned search step, got %+v", plan.Steps)
	}
}

func TestLLMPlanner_FillsEmailRecipient(t *testing.T) {
	model := &fakeModel{response: `{"input":"x","steps":[{"id":1,"tool":"email","args":{"subject":"hi"}}]}`}

	p := NewLLMPlanner(model, testRegistry("email"))
	plan, err := p.Plan(context.Background(), "x", "me@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got := plan.Steps[0].Args.String("to"); got != "me@example.com" {
		t.Errorf("Expected recipient filled in, got %q", got)
	}
}
