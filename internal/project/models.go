package project

import (
	"time"

	"github.com/google/uuid"
)

// Project is the persisted unit of editing: metadata plus one timeline.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewID() string {
	return uuid.NewString()
}
