package models

// Stats is the platform-wide counters snapshot shown on the admin dashboard.
type Stats struct {
	Users      int `json:"users"`
	Providers  int `json:"providers"`
	Bookings   int `json:"bookings"`
	Categories int `json:"categories"`
}
