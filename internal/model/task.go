package model

import "time"

// Priority classifies the kind of training session a task represents.
type Priority string

const (
	PriorityPT       Priority = "pt"
	PriorityStrength Priority = "strength"
	PriorityCardio   Priority = "cardio"
	PriorityGroup    Priority = "group"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityPT, PriorityStrength, PriorityCardio, PriorityGroup:
		return true
	}
	return false
}

// Status tracks where a session stands. The four values form a flat
// enumeration: any owner may move a task between them in any order.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// Task represents a training session owned by a single user.
type Task struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	Status    Status    `json:"status"`
	DueDate   *string   `json:"dueDate"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest represents a task creation request. Optional fields use
// pointers so that supplied-but-zero values are distinguishable from absent.
type CreateTaskRequest struct {
	Title     string  `json:"title"`
	Completed *bool   `json:"completed"`
	Priority  string  `json:"priority"`
	Status    string  `json:"status"`
	DueDate   *string `json:"dueDate"`
}

// UpdateTaskRequest represents a partial task update; every field is optional
// and absent fields are left untouched.
type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
	Status    *string `json:"status"`
	DueDate   *string `json:"dueDate"`
}

// SuccessResponse acknowledges an update or delete.
type SuccessResponse struct {
	Success bool `json:"success"`
}
