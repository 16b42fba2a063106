package workflow

import (
	"fmt"
	"strings"

	"github.com/procdoc/sopgov/internal/document"
)

// ParseState validates a lifecycle state string.
func ParseState(s string) (document.State, error) {
	st := document.State(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case document.StateDraft, document.StateUnderReview, document.StateApproved:
		return st, nil
	}
	return "", fmt.Errorf("unknown lifecycle state: %q", s)
}

type transition struct {
	from document.State
	to   document.State
}

// transitionTable is the explicit allow-list of lifecycle transitions per
// role. Flat by design: a role has exactly the transitions listed here,
// nothing is inherited from "lower" roles.
var transitionTable = map[transition][]Role{
	{document.StateDraft, document.StateUnderReview}:    {RoleAuthor, RoleReviewer, RoleApprover, RoleAdmin},
	{document.StateUnderReview, document.StateApproved}: {RoleApprover, RoleAdmin},
	{document.StateApproved, document.StateDraft}:       {RoleAdmin},
}

// editRoles lists roles permitted to submit content mutations while the
// document is editable (draft or under review). Approved documents reject
// every content mutation regardless of role.
var editRoles = []Role{RoleAuthor, RoleReviewer, RoleApprover, RoleAdmin}

// CanTransition reports whether role may move a document from one state to
// another.
func CanTransition(role Role, from, to document.State) bool {
	allowed, ok := transitionTable[transition{from, to}]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CanEdit reports whether role may submit content mutations in the given
// state.
func CanEdit(role Role, state document.State) bool {
	if state == document.StateApproved {
		return false
	}
	for _, r := range editRoles {
		if r == role {
			return true
		}
	}
	return false
}
