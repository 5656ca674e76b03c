package model

import (
	"time"
)

// Project groups tasks. IsRunning is a cached summary of its tasks' timers.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	IsRunning   bool       `json:"is_running"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnerID returns the id of the user the project belongs to
func (p *Project) OwnerID() string {
	return p.UserID
}
