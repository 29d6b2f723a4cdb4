package models

import "time"

const DefaultNoteColor = "yellow"

type Note struct {
	ID        int64
	UserID    int64
	Title     string
	Content   *string
	Category  *string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
