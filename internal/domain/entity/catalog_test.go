package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "luna_mini", Slugify("Luna Mini"))
	assert.Equal(t, "sofia_mini_2", Slugify("  Sofia-Mini (2) "))
	assert.Equal(t, "сумка_тоут", Slugify("Сумка Тоут"))
	assert.Equal(t, "item", Slugify("!!!"))
}

func TestCatalog_AddKeepsIDsUnique(t *testing.T) {
	c := NewCatalog()

	first := c.Add(CatalogItem{Name: "Luna Mini", Price: 32900})
	second := c.Add(CatalogItem{Name: "Luna Mini", Price: 34900})

	assert.Equal(t, "luna_mini", first.ID)
	assert.Equal(t, "luna_mini_2", second.ID)
	require.Len(t, c.Items, 2)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestCatalog_SetPhotoReplacesIndexEntry(t *testing.T) {
	c := NewCatalog()
	item := c.Add(CatalogItem{Name: "Luna Mini"})

	require.True(t, c.SetPhoto(item.ID, "photo-1"))
	require.True(t, c.SetPhoto(item.ID, "photo-2"))

	_, ok := c.FindByPhoto("photo-1")
	assert.False(t, ok)
	found, ok := c.FindByPhoto("photo-2")
	require.True(t, ok)
	assert.Equal(t, item.ID, found.ID)

	assert.False(t, c.SetPhoto("missing", "photo-3"))
}

func TestCatalog_ClearResetsPhotoIndex(t *testing.T) {
	c := NewCatalog()
	item := c.Add(CatalogItem{Name: "Luna Mini"})
	c.SetPhoto(item.ID, "photo-1")

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.PhotoIndex)
	_, ok := c.FindByPhoto("photo-1")
	assert.False(t, ok)
}

func TestCatalog_CloneIsIndependent(t *testing.T) {
	c := NewCatalog()
	c.Add(CatalogItem{Name: "Luna Mini", Colors: []string{"чёрный"}})

	cp := c.Clone()
	cp.Items[0].Colors[0] = "белый"
	cp.PhotoIndex["x"] = "luna_mini"

	assert.Equal(t, "чёрный", c.Items[0].Colors[0])
	assert.NotContains(t, c.PhotoIndex, "x")
}
