package domain

import (
	"strings"
	"time"
)

// User is an agent or manager. Agents take breaks; managers review them.
type User struct {
	ID        string
	Name      string
	Role      UserRole
	CreatedAt time.Time
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !ValidUserRoles[string(u.Role)] {
		return &ValidationError{Field: "role", Value: string(u.Role), Reason: "must be agent, manager or admin"}
	}
	return nil
}
