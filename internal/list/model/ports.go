package model

import "context"

// ItemStore is the remote backend holding per-user, per-category item
// collections plus the purchased-items bucket. Implementations wrap their
// transport failures in errx.AppError.
type ItemStore interface {
	// ListByCategory returns all items filed under one category.
	ListByCategory(ctx context.Context, userID string, category Category) ([]Item, error)

	// AddItem appends an item to a category list.
	AddItem(ctx context.Context, userID string, category Category, item Item) error

	// UpdateItem replaces the stored item with the same identifier.
	UpdateItem(ctx context.Context, userID string, category Category, item Item) error

	// DeleteItem removes one item from a category list by identifier.
	DeleteItem(ctx context.Context, userID string, category Category, itemID string) error

	// AddPurchased copies an item into the purchased bucket.
	AddPurchased(ctx context.Context, userID string, category Category, item Item) error

	// ListPurchased returns the purchased bucket for one category.
	ListPurchased(ctx context.Context, userID string, category Category) ([]Item, error)

	// ClearLists drops every category list for the user.
	ClearLists(ctx context.Context, userID string) error
}

// SessionResolver resolves the current authenticated user. A nil user with a
// nil error means no session exists; callers treat that as a silent no-op.
type SessionResolver interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// Editor is the add/edit sub-component the orchestrator delegates edits to.
// The editor owns the remote update call and signals ItemsChanged on the
// update bus when it finishes.
type Editor interface {
	StartEdit(item Item, category Category)
}
