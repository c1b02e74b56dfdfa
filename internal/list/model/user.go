package model

// User is the authenticated account a shopping list belongs to.
type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}
