package auth

import "teamtrack/internal/models"

// Claims is the identity asserted by a session cookie. The values are fixed
// when the session is issued and are never refreshed from the store, so a
// role or tenant change only takes effect after a re-login.
type Claims struct {
	UserID    uint64
	Role      models.Role
	ProjectID uint64
}

// IsAdmin reports whether the session belongs to a project admin.
func (c Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
