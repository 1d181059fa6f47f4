package auth

import (
	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

// Status is the authentication lifecycle state of a session.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
)

// Session tracks one caller through the authentication lifecycle. Values
// are immutable; transitions return the next session.
type Session struct {
	Status        Status
	UserID        uuid.UUID
	Role          enums.Role
	FailureReason string
}

// NewSession starts in the unauthenticated state.
func NewSession() Session {
	return Session{Status: StatusUnauthenticated}
}

// Begin marks credential verification as in flight. A session that is
// already authenticated must be reset before re-authenticating.
func (s Session) Begin() (Session, error) {
	if s.Status == StatusAuthenticated {
		return s, pkgerrors.New(pkgerrors.CodeConflict, "session already authenticated")
	}
	return Session{Status: StatusAuthenticating, FailureReason: s.FailureReason}, nil
}

// Succeed completes verification with the caller's identity.
func (s Session) Succeed(userID uuid.UUID, role enums.Role) (Session, error) {
	if s.Status != StatusAuthenticating {
		return s, pkgerrors.New(pkgerrors.CodeConflict, "no authentication in flight")
	}
	if userID == uuid.Nil || !role.IsValid() {
		return s, pkgerrors.New(pkgerrors.CodeInternal, "incomplete identity")
	}
	return Session{Status: StatusAuthenticated, UserID: userID, Role: role}, nil
}

// Fail returns to unauthenticated, retaining the reason for display.
func (s Session) Fail(reason string) Session {
	return Session{Status: StatusUnauthenticated, FailureReason: reason}
}

// Reset drops everything, including any retained failure reason.
func (s Session) Reset() Session {
	return NewSession()
}

// IsAuthenticated reports whether the session carries a verified identity.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

// HasPermission applies the role hierarchy: a role may do everything a
// lower role may do. Admins pass every check.
func (s Session) HasPermission(required enums.Role) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return s.Role.Satisfies(required)
}

// CanMutateCart is stricter than HasPermission: carts belong to
// customers, so only the customer role itself qualifies.
func (s Session) CanMutateCart() bool {
	return s.IsAuthenticated() && s.Role == enums.RoleCustomer
}

// AuthenticatedSession builds a session directly from verified claims.
// Used at the HTTP boundary where the JWT already proves identity.
func AuthenticatedSession(userID uuid.UUID, role enums.Role) (Session, error) {
	session, err := NewSession().Begin()
	if err != nil {
		return Session{}, err
	}
	return session.Succeed(userID, role)
}
