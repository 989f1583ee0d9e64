package domain

import "time"

// Todo is the mutable aggregate root. DueDate is a calendar date
// (midnight UTC, no time component). DeletedAt == nil means the row
// is live; once set the row is logically gone and only GetAll-with-
// deleted style tooling ever sees it again.
type Todo struct {
	ID       int64
	Title    string
	DueDate  *time.Time
	DoneFlag bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// TodoPatch carries the optional fields an update may change.
// Title == nil leaves the title alone. DueDate is applied only when
// DueDateSet is true, so "clear the date" (set to nil) and "do not
// touch the date" stay distinguishable.
type TodoPatch struct {
	Title      *string
	DueDate    *time.Time
	DueDateSet bool
}

// TodoWithAuditLogs is the read-only view assembled at query time:
// a live todo joined with its audit trail, newest entry first.
type TodoWithAuditLogs struct {
	Todo
	AuditLogs []AuditLog
}
