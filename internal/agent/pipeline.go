package agent

import (
	"context"
	"log"

	"github.com/rahul/sahayak/internal/observability"
	"github.com/rahul/sahayak/internal/task"
)

// RunRecorder is the slice of the history store the pipeline writes to.
type RunRecorder interface {
	AddRun(ex *task.Execution) error
}

// Pipeline is the full command path: plan, execute, record. Every
// presentation surface (REST, GUI, gateways, scheduler, CLI) goes through
// it.
type Pipeline struct {
	Planner    Planner
	Controller *Controller
	Store      RunRecorder
	Logger     *observability.Logger
}

func NewPipeline(planner Planner, controller *Controller, store RunRecorder, logger *observability.Logger) *Pipeline {
	return &Pipeline{Planner: planner, Controller: controller, Store: store, Logger: logger}
}

// Run plans and executes a command. Planning failures are returned to the
// caller; step failures end up in the execution log instead.
func (p *Pipeline) Run(ctx context.Context, channel, command, email string) (*task.Execution, error) {
	observability.SetStatus(observability.RolePlanning, command)
	defer observability.SetStatus(observability.RoleIdle, "")

	plan, err := p.Planner.Plan(ctx, command, email)
	if err != nil {
		return nil, err
	}
	return p.RunPlan(ctx, channel, plan), nil
}

// RunPlan executes an already-built plan, used by the resume upload flow
// where the steps are fixed.
func (p *Pipeline) RunPlan(ctx context.Context, channel string, plan *task.Plan) *task.Execution {
	observability.SetStatus(observability.RoleExecuting, plan.Input)
	defer observability.SetStatus(observability.RoleIdle, "")

	ex := p.Controller.Execute(ctx, channel, plan)

	if p.Store != nil {
		if err := p.Store.AddRun(ex); err != nil {
			log.Printf("Warning: failed to record run %s: %v", ex.ID, err)
		}
	}
	return ex
}
