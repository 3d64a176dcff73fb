package domain

import (
	"strings"
	"time"
)

// BreakType is a named break category with an allotted duration.
type BreakType struct {
	ID          string
	Name        string
	DurationSec int64
	CreatedAt   time.Time
}

// Allotted returns the allotted duration as a time.Duration.
func (b *BreakType) Allotted() time.Duration {
	return time.Duration(b.DurationSec) * time.Second
}

// Validate checks the fields required before a break type can be stored.
func (b *BreakType) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if b.DurationSec <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be a positive number of seconds"}
	}
	return nil
}
