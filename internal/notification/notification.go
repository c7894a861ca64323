package notification

// Notification types. Callers may also supply their own type strings.
const (
	TypeNew            = "new"
	TypeRecommendation = "recommendation"
	TypeUpcoming       = "upcoming"
)

// Notification is one entry of the feed.
type Notification struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Read    bool   `json:"read"`
	Link    string `json:"link,omitempty"`
}

// Update is a partial in-place edit. Nil fields are left untouched.
type Update struct {
	Title   *string
	Message *string
	Time    *string
	Read    *bool
	Link    *string
}
