package tools

import (
	"context"

	"github.com/rahul/sahayak/internal/task"
)

// LogTool records a completion message in the execution log. The planner
// appends it as the final step of every plan.
type LogTool struct{}

func NewLogTool() *LogTool {
	return &LogTool{}
}

func (l *LogTool) Name() string {
	return "log"
}

func (l *LogTool) Description() string {
	return "Record a completion message. Args: message (string)."
}

func (l *LogTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The message to record",
			},
		},
		"required": []string{"message"},
	}
}

func (l *LogTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	message := args.String("message")
	if message == "" {
		message = args.String("msg")
	}
	return &Result{
		Logs:   []string{"LOG: " + message},
		Output: map[string]any{"logged": message},
	}, nil
}
