package gateway

import (
	"context"

	"github.com/rahul/sahayak/internal/task"
)

// Runner is the slice of the pipeline a gateway drives.
type Runner interface {
	Run(ctx context.Context, channel, command, email string) (*task.Execution, error)
}

// Messenger defines the interface for communication gateways
// (Telegram, Discord, etc.)
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific channel
	Send(channel string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}
