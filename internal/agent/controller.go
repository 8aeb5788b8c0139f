package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rahul/sahayak/internal/governance"
	"github.com/rahul/sahayak/internal/observability"
	"github.com/rahul/sahayak/internal/task"
	"github.com/rahul/sahayak/internal/tools"
)

// Controller executes a plan step by step against the tool registry,
// threading the execution context forward. Failures are logged and the run
// continues; a failing step is retried once before moving on.
type Controller struct {
	Registry *tools.Registry
	Policy   *governance.Engine
	Logger   *observability.Logger
}

func NewController(registry *tools.Registry, policy *governance.Engine, logger *observability.Logger) *Controller {
	return &Controller{Registry: registry, Policy: policy, Logger: logger}
}

// Execute runs every step of the plan in order and returns the execution
// record. It never returns an error: step failures are part of the log.
func (c *Controller) Execute(ctx context.Context, channel string, plan *task.Plan) *task.Execution {
	ex := &task.Execution{
		ID:        uuid.NewString(),
		Channel:   channel,
		Command:   plan.Input,
		Plan:      plan,
		Success:   true,
		StartedAt: time.Now(),
		Context:   task.NewContext(plan.Input),
	}
	if channel != "" {
		_ = ex.Context.Set("channel", channel)
	}

	c.Logger.LogPlan(channel, ex.ID, plan)

	for _, step := range plan.Steps {
		ex.Append(step.ID, step.Tool, true, "Starting step %d -> %s", step.ID, step.Tool)

		if c.Policy != nil {
			res := c.Policy.Evaluate(governance.Request{
				Tool:      step.Tool,
				Arguments: argsString(step.Args),
				Channel:   channel,
			})
			if res.Effect == governance.EffectDeny {
				ex.Append(step.ID, step.Tool, false, "Step %d denied by policy: %s", step.ID, res.Reason)
				ex.Success = false
				continue
			}
		}

		tool := c.Registry.Get(step.Tool)
		if tool == nil {
			ex.Append(step.ID, step.Tool, false, "Error in step %d: unknown tool %q", step.ID, step.Tool)
			ex.Success = false
			continue
		}

		c.Logger.LogToolCall(channel, ex.ID, step.Tool, argsString(step.Args))

		res, err := tool.Execute(ctx, step.Args, ex.Context)
		if err != nil {
			ex.Append(step.ID, step.Tool, false, "Error in step %d (%s): %v", step.ID, step.Tool, err)
			ex.Append(step.ID, step.Tool, true, "Retrying step %d -> %s", step.ID, step.Tool)

			res, err = tool.Execute(ctx, step.Args, ex.Context)
			if err != nil {
				ex.Append(step.ID, step.Tool, false, "Failed retry for step %d: %v", step.ID, err)
				ex.Success = false
				c.Logger.LogToolResult(channel, ex.ID, step.Tool, false, err.Error())
				continue
			}
			c.record(ex, step, res)
			ex.Append(step.ID, step.Tool, true, "Finished retry step %d -> %s", step.ID, step.Tool)
			c.Logger.LogToolResult(channel, ex.ID, step.Tool, true, "retry succeeded")
			continue
		}

		c.record(ex, step, res)
		ex.Append(step.ID, step.Tool, true, "Finished step %d -> %s", step.ID, step.Tool)
		c.Logger.LogToolResult(channel, ex.ID, step.Tool, true, "ok")
	}

	ex.FinishedAt = time.Now()
	return ex
}

// record stores a successful step's output into the context and copies the
// tool's own log lines into the execution log.
func (c *Controller) record(ex *task.Execution, step task.Step, res *tools.Result) {
	for _, line := range res.Logs {
		ex.Append(step.ID, step.Tool, true, "%s", line)
	}
	if res.Output != nil {
		key := stepOutputKey(step.ID)
		if err := ex.Context.Set(key, res.Output); err != nil {
			ex.Append(step.ID, step.Tool, false, "Could not store output: %v", err)
			ex.Success = false
		} else {
			ex.FinalOutput = res.Output
		}
	}
}

func stepOutputKey(id int) string {
	return fmt.Sprintf("step_%d_output", id)
}

func argsString(args task.Args) string {
	b, _ := json.Marshal(args)
	return string(b)
}
