package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateOnly parses due_date from JSON as an ISO calendar date
// ("2006-01-02"). null or "" clears the value. The parsed date is
// midnight UTC; no time component crosses the boundary.
//
// Provided distinguishes "key absent" from "key present but null":
// a JSON null on a pointer field never reaches UnmarshalJSON, so the
// field must be the value type for partial updates to see the null.
type DateOnly struct {
	t        *time.Time
	provided bool
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	d.provided = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*raw))
	if err != nil {
		return fmt.Errorf("due_date: use calendar date (YYYY-MM-DD)")
	}
	parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	d.t = &parsed
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format("2006-01-02"))
}

// Ptr returns *time.Time for use in service/domain.
func (d DateOnly) Ptr() *time.Time { return d.t }

// Provided reports whether the JSON key was present at all.
func (d DateOnly) Provided() bool { return d.provided }

// FormatDate renders a due date back into its wire form.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

type CreateTodoRequest struct {
	Title   string   `json:"title" binding:"required,min=1,max=255"`
	DueDate DateOnly `json:"due_date"` // optional: "2026-02-19"
}

type UpdateTodoRequest struct {
	Title   *string  `json:"title" binding:"omitempty,min=1,max=255"`
	DueDate DateOnly `json:"due_date"` // absent = keep, date = set, null = clear
	// DoneFlag is accepted for schema compatibility with the UI form
	// payload but never forwarded; toggling goes through /toggle.
	DoneFlag *bool `json:"done_flag"`
}

type TodoResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	DueDate   *string   `json:"due_date"`
	DoneFlag  bool      `json:"done_flag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditLogResponse exposes one ledger entry. OldValues/NewValues pass
// through as raw JSON for the history view to decode per action.
type AuditLogResponse struct {
	ID        int64           `json:"id"`
	TodoID    int64           `json:"todo_id"`
	Action    string          `json:"action"`
	OldValues json.RawMessage `json:"old_values"`
	NewValues json.RawMessage `json:"new_values"`
	CreatedAt time.Time       `json:"created_at"`
}

type TodoWithAuditLogsResponse struct {
	TodoResponse
	AuditLogs []AuditLogResponse `json:"audit_logs"`
}

type ListTodosResponse struct {
	Items []TodoWithAuditLogsResponse `json:"items"`
}

type DeleteTodoResponse struct {
	Success bool `json:"success"`
}
