package workflow

import (
	"fmt"
	"strings"
)

// Role is a flat permission class. Roles do not inherit from each other; each
// one maps to an explicit allow-list of transitions in transitions.go.
type Role string

const (
	// RoleAuthor is the document author, "doer" on the wire.
	RoleAuthor   Role = "doer"
	RoleReviewer Role = "reviewer"
	RoleApprover Role = "approver"
	RoleAdmin    Role = "admin"
)

var roles = map[Role]struct{}{
	RoleAuthor:   {},
	RoleReviewer: {},
	RoleApprover: {},
	RoleAdmin:    {},
}

// ParseRole validates a role string. "author" is accepted as an alias for the
// doer role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == "author" {
		r = RoleAuthor
	}
	if _, ok := roles[r]; !ok {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// Actor is the identity performing an operation. It is passed explicitly into
// every engine call; the engine holds no ambient user state.
type Actor struct {
	User string
	Role Role
}
