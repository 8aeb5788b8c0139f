package agent

import (
	"fmt"
	"strings"

	"github.com/rahul/sahayak/internal/task"
)

// Summarize renders an execution as a short human-readable reply, used by
// the chat gateways and the scheduler notifications.
func Summarize(ex *task.Execution) string {
	var b strings.Builder

	if summary := ex.Context.Summary(); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	} else if results := ex.Context.SearchResults(); len(results) > 0 {
		for i, r := range results {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		}
		b.WriteString("\n")
	}

	failed := 0
	for _, entry := range ex.Log {
		if !entry.Success {
			failed++
		}
	}

	if ex.Success {
		fmt.Fprintf(&b, "Done: %d steps completed.", len(ex.Plan.Steps))
	} else {
		fmt.Fprintf(&b, "Completed with issues: %d log entries reported failures.", failed)
	}
	return b.String()
}
