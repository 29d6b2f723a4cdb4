package models

import "time"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Todo struct {
	ID          int64
	UserID      int64
	Text        string
	Completed   bool
	DueDate     *time.Time
	Category    *string
	Priority    string
	Description *string
	CreatedAt   time.Time
}
