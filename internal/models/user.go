package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	// RoleViewer is the default role for newly registered users.
	RoleViewer = "viewer"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
