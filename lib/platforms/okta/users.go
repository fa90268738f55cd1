package okta

import "time"

const (
	StatusActive        = "ACTIVE"
	StatusSuspended     = "SUSPENDED"
	StatusDeprovisioned = "DEPROVISIONED"
)

type UserProfile struct {
	Login     string `json:"login"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type User struct {
	Id      string      `json:"id"`
	Status  string      `json:"status"`
	Created time.Time   `json:"created"`
	Profile UserProfile `json:"profile"`
}

// Deactivated reports whether the user was deprovisioned, suspended users
// still count as members.
func (u User) Deactivated() bool {
	return u.Status == StatusDeprovisioned
}
