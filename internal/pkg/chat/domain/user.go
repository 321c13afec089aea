package domain

// Course is the optional course affiliation shown next to a contact.
type Course struct {
	Name string `json:"nome"`
}

// User is a portal account as served by the data service. Immutable within
// the conversation core.
type User struct {
	ID     int64   `json:"id"`
	Name   string  `json:"nome"`
	Course *Course `json:"curso,omitempty"`
}

// CourseName returns the affiliation label or an empty string.
func (u User) CourseName() string {
	if u.Course == nil {
		return ""
	}
	return u.Course.Name
}
