package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_FixedSetInOrder(t *testing.T) {
	assert.Equal(t, []Category{CategoryCold, CategoryPerishables, CategoryCleaning, CategoryOthers}, Categories())
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCategory("frozen")
	assert.Error(t, err)
	_, err = ParseCategory("")
	assert.Error(t, err)
}

func TestCategoryLabels(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{key: "cold", expected: "frios"},
		{key: "perishables", expected: "perecíveis"},
		{key: "cleaning", expected: "limpeza"},
		{key: "others", expected: "outros"},
		{key: "xyz", expected: "xyz"},
		{key: "", expected: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LabelFor(tt.key))
	}
}

func TestNewCategoryViews(t *testing.T) {
	views := NewCategoryViews()
	require.Len(t, views, 4)
	for i, c := range Categories() {
		assert.Equal(t, c, views[i].Category)
		assert.Empty(t, views[i].Items)
		assert.NotNil(t, views[i].Items)
	}
}

func TestNewItem_AssignsIdentifier(t *testing.T) {
	qty := 2
	item := NewItem("queijo", "10.00", &qty)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "queijo", item.Name)
	assert.Equal(t, "10.00", item.Price)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2, *item.Quantity)

	other := NewItem("queijo", "10.00", &qty)
	assert.NotEqual(t, item.ID, other.ID)
}
