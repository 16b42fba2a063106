package workflow

import (
	"errors"
	"fmt"

	"github.com/procdoc/sopgov/internal/document"
)

// ErrNotAuthorized is the sentinel wrapped by every authorization rejection.
var ErrNotAuthorized = errors.New("not authorized")

// AuthorizationError reports which actor, state and operation were rejected.
// Rejections commit nothing and are never retried automatically.
type AuthorizationError struct {
	Actor     Actor
	State     document.State
	Operation string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s (role %s) may not %s while document is %s", e.Actor.User, e.Actor.Role, e.Operation, e.State)
}

func (e *AuthorizationError) Unwrap() error {
	return ErrNotAuthorized
}
