package entity

// User is the authenticated identity returned by the companion backend and
// persisted alongside the session token.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Preferences  []string `json:"preferences,omitempty"`
}
