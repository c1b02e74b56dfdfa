package model

import "fmt"

// Category is one of the four fixed grocery groupings. The set is closed:
// users cannot add categories and every consumer switches over these values.
type Category string

const (
	CategoryCold        Category = "cold"
	CategoryPerishables Category = "perishables"
	CategoryCleaning    Category = "cleaning"
	CategoryOthers      Category = "others"
)

// Categories returns the fixed set in display order.
func Categories() []Category {
	return []Category{CategoryCold, CategoryPerishables, CategoryCleaning, CategoryOthers}
}

// ParseCategory validates a raw category value.
func ParseCategory(v string) (Category, error) {
	switch Category(v) {
	case CategoryCold, CategoryPerishables, CategoryCleaning, CategoryOthers:
		return Category(v), nil
	default:
		return "", fmt.Errorf("unknown category %q", v)
	}
}

// String returns the raw category key.
func (c Category) String() string {
	return string(c)
}

// Label returns the pt-BR display label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryCold:
		return "frios"
	case CategoryPerishables:
		return "perecíveis"
	case CategoryCleaning:
		return "limpeza"
	case CategoryOthers:
		return "outros"
	default:
		return string(c)
	}
}

// LabelFor translates a raw category key; unknown keys pass through unchanged.
func LabelFor(v string) string {
	return Category(v).Label()
}
