package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/rahul/sahayak/internal/task"
	"github.com/rahul/sahayak/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

const plannerPromptFormat = `You are a task planning agent. Given a user command, break it down into ordered steps using these tools:

Available tools:
%s
Return ONLY a valid JSON object with this structure:
{
  "input": "<original command>",
  "steps": [
    {"id": 1, "tool": "search", "args": {"query": "...", "limit": 5}},
    {"id": 2, "tool": "scrape", "args": {"top_k": 3}}
  ]
}

A step may only rely on the output of strictly earlier steps. Be specific
with queries and arguments. Do not include markdown formatting or explanations.`

// LLMPlanner delegates plan generation to a language model, validating the
// result against the tool registry. Model or parse failures fall back to
// the rule-based planner; an invalid tool reference is a hard error.
type LLMPlanner struct {
	Model    llms.Model
	Registry *tools.Registry
	Fallback *RulePlanner
}

func NewLLMPlanner(model llms.Model, registry *tools.Registry) *LLMPlanner {
	return &LLMPlanner{
		Model:    model,
		Registry: registry,
		Fallback: NewRulePlanner(),
	}
}

func (p *LLMPlanner) Plan(ctx context.Context, command, targetEmail string) (*task.Plan, error) {
	plan, err := p.planLLM(ctx, command, targetEmail)
	if err != nil {
		var vErr *task.ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		log.Printf("LLM planning failed: %v, falling back to rule-based planner", err)
		return p.Fallback.Plan(ctx, command, targetEmail)
	}
	return plan, nil
}

func (p *LLMPlanner) planLLM(ctx context.Context, command, targetEmail string) (*task.Plan, error) {
	system := fmt.Sprintf(plannerPromptFormat, p.Registry.Describe())

	user := "Command: " + command
	if targetEmail != "" {
		user += "\nTarget email: " + targetEmail
	}

	messages := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(system)}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(user)}},
	}

	resp, err := p.Model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(800),
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	var plan task.Plan
	if err := json.Unmarshal([]byte(tools.StripFences(resp.Choices[0].Content)), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("model returned an empty plan")
	}
	if plan.Input == "" {
		plan.Input = command
	}

	for i := range plan.Steps {
		step := &plan.Steps[i]
		if !p.Registry.Has(step.Tool) {
			return nil, &task.ValidationError{Tool: step.Tool}
		}
		if step.Args == nil {
			step.Args = task.Args{}
		}
		// Fill in the target address when the model left it blank.
		if step.Tool == "email" && targetEmail != "" && step.Args.String("to") == "" {
			step.Args["to"] = targetEmail
		}
	}

	return &plan, nil
}
