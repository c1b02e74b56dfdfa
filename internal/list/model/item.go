package model

import "github.com/google/uuid"

// Item is a single grocery entry inside one category list.
//
// Price is kept as the locale-formatted string the add-item form produced;
// parsing happens at aggregation time and is lenient. Quantity is a pointer
// so an absent quantity (contributes ×1) can be told apart from an explicit
// zero (contributes nothing).
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity *int   `json:"quantity,omitempty"`
}

// NewItem builds an item with a fresh identifier.
func NewItem(name, price string, quantity *int) Item {
	return Item{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
}

// CategoryView is the in-memory projection of one category's items. Exactly
// four exist per orchestrator; their item slices are replaced wholesale on
// reload, the views themselves are never recreated.
type CategoryView struct {
	Category Category
	Items    []Item
}

// NewCategoryViews allocates the four fixed views, all empty.
func NewCategoryViews() []*CategoryView {
	cats := Categories()
	views := make([]*CategoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, &CategoryView{Category: c, Items: []Item{}})
	}
	return views
}
