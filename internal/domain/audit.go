package domain

import (
	"encoding/json"
	"time"
)

// Audit actions form a closed set; one row is appended per successful
// todo mutation and rows are never updated or deleted afterwards.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionToggle = "TOGGLE"
	ActionDelete = "DELETE"
)

// AuditLog records one state transition of a todo. OldValues and
// NewValues are opaque serialized snapshots; which fields they carry
// depends on Action (see TodoSnapshot / ToggleSnapshot). Either side
// may be nil: CREATE has no old values, DELETE has no new values.
type AuditLog struct {
	ID        int64
	TodoID    int64
	Action    string
	OldValues []byte
	NewValues []byte
	CreatedAt time.Time
}

// TodoSnapshot is the full field snapshot stored for CREATE, UPDATE
// and DELETE entries. DueDate is the wire form (YYYY-MM-DD) or null.
type TodoSnapshot struct {
	Title    string  `json:"title"`
	DueDate  *string `json:"due_date"`
	DoneFlag bool    `json:"done_flag"`
}

// ToggleSnapshot is the narrow snapshot stored for TOGGLE entries.
type ToggleSnapshot struct {
	DoneFlag bool `json:"done_flag"`
}

// DateWire is the boundary format for calendar dates.
const DateWire = "2006-01-02"

// SnapshotTodo serializes the {title, due_date, done_flag} triple of t.
// Marshalling a flat struct of strings and bools cannot fail, so the
// error is swallowed here rather than threaded through every caller.
func SnapshotTodo(t Todo) []byte {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(DateWire)
		due = &s
	}
	b, _ := json.Marshal(TodoSnapshot{Title: t.Title, DueDate: due, DoneFlag: t.DoneFlag})
	return b
}

// SnapshotToggle serializes a {done_flag} snapshot.
func SnapshotToggle(done bool) []byte {
	b, _ := json.Marshal(ToggleSnapshot{DoneFlag: done})
	return b
}
