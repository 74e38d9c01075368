package constants

// Session
const (
	SessionCookieName = "teamtrack_session"

	ContextKeyClaims = "claims"

	SessionKeyUserID    = "user_id"
	SessionKeyRole      = "role"
	SessionKeyProjectID = "project_id"
)

// Validation
const (
	MinPasswordLength = 8
	InviteCodeLength  = 6
)

// DefaultDueDays is applied when a task is created without a due date.
const DefaultDueDays = 7
