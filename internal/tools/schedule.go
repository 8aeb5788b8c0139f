package tools

import (
	"context"
	"fmt"

	"github.com/rahul/sahayak/internal/task"
)

// ScheduleStore is the slice of the history store the schedule tool needs.
type ScheduleStore interface {
	AddTask(channel, command string, intervalSeconds int) error
	ClearTasks(channel string) error
}

// ScheduleTool persists recurring commands which the background scheduler
// later re-runs through the pipeline.
type ScheduleTool struct {
	Store ScheduleStore
}

func NewScheduleTool(store ScheduleStore) *ScheduleTool {
	return &ScheduleTool{Store: store}
}

func (s *ScheduleTool) Name() string {
	return "schedule"
}

func (s *ScheduleTool) Description() string {
	return "Manage recurring commands: 'schedule' a command to run on an interval, or 'clear' all scheduled commands for this channel."
}

func (s *ScheduleTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"schedule", "clear"},
				"description": "The action to perform",
			},
			"command": map[string]any{
				"type":        "string",
				"description": "The command to run on each interval (for 'schedule')",
			},
			"interval_seconds": map[string]any{
				"type":        "integer",
				"description": "Interval in seconds, minimum 60 (for 'schedule'); 0 schedules a one-shot",
			},
		},
		"required": []string{"action"},
	}
}

func (s *ScheduleTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	channel := tc.Channel()
	if channel == "" {
		channel = "api"
	}

	switch args.String("action") {
	case "clear":
		if err := s.Store.ClearTasks(channel); err != nil {
			return nil, task.Toolf(s.Name(), "failed to clear tasks: %v", err)
		}
		return &Result{
			Logs:   []string{"Cleared all scheduled commands"},
			Output: map[string]any{"cleared": true},
		}, nil

	case "schedule":
		command := args.String("command")
		if command == "" {
			return nil, task.Toolf(s.Name(), "missing command")
		}
		interval := args.Int("interval_seconds", 0)
		if interval != 0 && interval < 60 {
			return nil, task.Toolf(s.Name(), "minimum interval is 60 seconds")
		}
		if err := s.Store.AddTask(channel, command, interval); err != nil {
			return nil, task.Toolf(s.Name(), "failed to schedule: %v", err)
		}
		return &Result{
			Logs:   []string{fmt.Sprintf("Scheduled %q every %d seconds", command, interval)},
			Output: map[string]any{"scheduled": command, "interval_seconds": interval},
		}, nil

	default:
		return nil, task.Toolf(s.Name(), "invalid action %q, use 'schedule' or 'clear'", args.String("action"))
	}
}
