package agent

import (
	"context"
	"log"
	"time"

	"github.com/rahul/sahayak/internal/store"
)

// Messenger notifies a channel about the result of a scheduled run.
type Messenger interface {
	Send(channel string, text string) error
}

// TaskStore is the slice of the history store the scheduler polls.
type TaskStore interface {
	GetPendingTasks() ([]store.ScheduledTask, error)
	UpdateTaskLastRun(id int64) error
	DeleteTask(channel string, id int64) error
}

// Scheduler periodically re-runs persisted commands through the pipeline
// and pushes the results back to the originating gateway.
type Scheduler struct {
	Pipeline *Pipeline
	Store    TaskStore
	Notify   Messenger
	Interval time.Duration
}

func NewScheduler(pipeline *Pipeline, store TaskStore, notify Messenger) *Scheduler {
	return &Scheduler{
		Pipeline: pipeline,
		Store:    store,
		Notify:   notify,
		Interval: 30 * time.Second,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	log.Println("Task scheduler started...")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollAndExecute(ctx)
		}
	}
}

func (s *Scheduler) pollAndExecute(ctx context.Context) {
	tasks, err := s.Store.GetPendingTasks()
	if err != nil {
		log.Printf("Error polling tasks: %v", err)
		return
	}

	for _, t := range tasks {
		log.Printf("Executing scheduled command %d for channel %s: %s", t.ID, t.Channel, t.Command)

		ex, err := s.Pipeline.Run(ctx, t.Channel, t.Command, "")
		if err != nil {
			log.Printf("Error executing scheduled command %d: %v", t.ID, err)
			continue
		}

		if err := s.Store.UpdateTaskLastRun(t.ID); err != nil {
			log.Printf("Error updating last run for task %d: %v", t.ID, err)
		}

		// One-shot tasks are removed after their first run.
		if t.IntervalSeconds == 0 {
			if err := s.Store.DeleteTask(t.Channel, t.ID); err != nil {
				log.Printf("Error deleting one-time task %d: %v", t.ID, err)
			}
		}

		if s.Notify != nil {
			if err := s.Notify.Send(t.Channel, "Scheduled task output:\n\n"+Summarize(ex)); err != nil {
				log.Printf("Error notifying channel %s: %v", t.Channel, err)
			}
		}
	}
}
