package domain

import "time"

// Built-in roles.
const (
	RoleStudent    = "Student"
	RoleInstructor = "Instructor"
)

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
