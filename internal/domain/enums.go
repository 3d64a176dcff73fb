package domain

import "strings"

type SessionStatus string

const (
	SessionOngoing SessionStatus = "ONGOING"
	SessionEnded   SessionStatus = "ENDED"
)

// ParseSessionStatus accepts the canonical upper-case values and their
// lower-case spellings. An empty string parses to "" (no restriction).
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch s {
	case "":
		return "", nil
	case "ONGOING", "ongoing":
		return SessionOngoing, nil
	case "ENDED", "ended":
		return SessionEnded, nil
	default:
		return "", &ValidationError{Field: "status", Value: s, Reason: "must be ONGOING or ENDED"}
	}
}

type UserRole string

const (
	RoleAgent   UserRole = "agent"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// ValidUserRoles is the canonical set of accepted role strings.
var ValidUserRoles = map[string]bool{
	"agent": true, "manager": true, "admin": true,
}

// UnknownName is displayed when a session's agent or break type
// reference cannot be resolved.
const UnknownName = "Unknown"

// NameOrUnknown returns name, or UnknownName when it is blank.
func NameOrUnknown(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnknownName
	}
	return name
}
