package dtos

import "time"

// CommentView is the dashboard note
type CommentView struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardView is everything the main page renders
type DashboardView struct {
	Complexes     []CatalogEntry `json:"complexes"`
	PropertyTypes []CatalogEntry `json:"property_types"`
	PaymentTypes  []CatalogEntry `json:"payment_types"`
	LatestComment *CommentView   `json:"latest_comment,omitempty"`
	LastSync      *SyncRunView   `json:"last_sync,omitempty"`
}

// UserDetails is the caller identity as resolved from gateway headers
type UserDetails struct {
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}
