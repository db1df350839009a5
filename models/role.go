package models

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
	RoleGuest Role = "guest"
)

// AllRoles is ordered from most to least privileged.
var AllRoles = []Role{RoleAdmin, RoleAgent, RoleGuest}

// ParseRole accepts any casing; ok is false for unknown names.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, true
	case "agent":
		return RoleAgent, true
	case "guest":
		return RoleGuest, true
	default:
		return "", false
	}
}
