package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/rahul/sahayak/internal/task"
)

// HistoryStore persists executed runs and scheduled commands in SQLite.
type HistoryStore struct {
	DB *sql.DB
}

// RunRecord is one row of execution history.
type RunRecord struct {
	ID        string          `json:"id"`
	Channel   string          `json:"channel"`
	Command   string          `json:"command"`
	Success   bool            `json:"success"`
	Plan      json.RawMessage `json:"plan"`
	Log       json.RawMessage `json:"logs"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScheduledTask is one persisted recurring command.
type ScheduledTask struct {
	ID              int64
	Channel         string
	Command         string
	IntervalSeconds int
}

func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			channel TEXT,
			command TEXT,
			success INTEGER,
			plan_json TEXT,
			log_json TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			channel TEXT,
			command TEXT,
			interval_seconds INTEGER,
			last_run DATETIME,
			status TEXT DEFAULT 'active'
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &HistoryStore{DB: db}, nil
}

func (h *HistoryStore) Close() error {
	return h.DB.Close()
}

// AddRun appends one finished execution to the history.
func (h *HistoryStore) AddRun(ex *task.Execution) error {
	planJSON, err := json.Marshal(ex.Plan)
	if err != nil {
		return err
	}
	logJSON, err := json.Marshal(ex.Log)
	if err != nil {
		return err
	}

	_, err = h.DB.Exec(
		`INSERT INTO runs (id, channel, command, success, plan_json, log_json) VALUES (?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Channel, ex.Command, ex.Success, string(planJSON), string(logJSON),
	)
	return err
}

// RecentRuns returns the newest executions, most recent first.
func (h *HistoryStore) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.DB.Query(
		`SELECT id, channel, command, success, plan_json, log_json, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var planJSON, logJSON string
		if err := rows.Scan(&r.ID, &r.Channel, &r.Command, &r.Success, &planJSON, &logJSON, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Plan = json.RawMessage(planJSON)
		r.Log = json.RawMessage(logJSON)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddTask schedules a recurring command. The last_run seed makes the task
// due on the next scheduler poll.
func (h *HistoryStore) AddTask(channel, command string, intervalSeconds int) error {
	_, err := h.DB.Exec(
		`INSERT INTO tasks (channel, command, interval_seconds, last_run) VALUES (?, ?, ?, datetime('now', '-365 days'))`,
		channel, command, intervalSeconds,
	)
	return err
}

// GetPendingTasks returns active tasks whose interval has elapsed.
func (h *HistoryStore) GetPendingTasks() ([]ScheduledTask, error) {
	rows, err := h.DB.Query(
		`SELECT id, channel, command, interval_seconds
		 FROM tasks
		 WHERE status = 'active'
		 AND (last_run IS NULL OR (julianday('now') - julianday(last_run)) * 86400 >= interval_seconds)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []ScheduledTask
	for rows.Next() {
		var t ScheduledTask
		if err := rows.Scan(&t.ID, &t.Channel, &t.Command, &t.IntervalSeconds); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (h *HistoryStore) UpdateTaskLastRun(id int64) error {
	_, err := h.DB.Exec(`UPDATE tasks SET last_run = datetime('now') WHERE id = ?`, id)
	return err
}

func (h *HistoryStore) DeleteTask(channel string, id int64) error {
	_, err := h.DB.Exec(`DELETE FROM tasks WHERE channel = ? AND id = ?`, channel, id)
	return err
}

func (h *HistoryStore) ClearTasks(channel string) error {
	_, err := h.DB.Exec(`DELETE FROM tasks WHERE channel = ?`, channel)
	return err
}
