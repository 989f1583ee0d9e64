package domain

import "time"

// User is an administered account with its application entitlements
// and per-app roles. Apps and Roles are assembled at query time from
// the user_apps / user_roles tables; Roles use the "app-role" form
// the admin UI displays.
type User struct {
	ID        int64
	Name      string
	Email     string
	Apps      []string
	Roles     []AppRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppRole grants one role within one application.
type AppRole struct {
	AppName string
	Role    string
}
