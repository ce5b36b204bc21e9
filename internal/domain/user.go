package domain

// Role determines what a user may do. Admins can mutate activities, viewers
// can only read.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// User is a row of the users table as exposed to callers. The stored
// password never leaves the auth layer.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session is the single authenticated session. Exactly one session exists at
// a time; a new login overwrites it.
type Session struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

// AuthResult is the outcome of a login attempt. Failed credentials produce
// Success == false with a human-readable Error, never a Go error.
type AuthResult struct {
	Success bool
	User    *User
	Token   string
	Error   string
}
