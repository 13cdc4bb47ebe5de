package models

// Session identifies the acting user for a data-access call. It is built
// from JWT claims at the HTTP layer, or from the persisted session pointer
// for callers without a request context. A zero Session is anonymous.
type Session struct {
	UserID string
	Role   string
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Admin reports whether the session carries the admin role.
func (s Session) Admin() bool {
	return s.Role == RoleAdmin
}
