package models

import "time"

// SidebarItem is one entry in the site's navigation sidebar. Items are
// manually ordered via sort_order and toggled with the active flag.
type SidebarItem struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Href      string    `json:"href"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
