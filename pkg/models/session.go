package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the logged-in user's identity as consumed by the engine:
// an opaque credential plus the preference list the scorer ranks
// against. It is owned by the auth side and read-only here.
type Session struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Role        string   `json:"role"`
	Token       string   `json:"token,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// Authenticated reports whether the session carries a usable identity.
func (s *Session) Authenticated() bool {
	return s != nil && (s.Token != "" || s.ID != "")
}
