package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDraft_ResolvedImageURL(t *testing.T) {
	assert.Equal(t, "a.png", ProductDraft{Image: "a.png", ImageURL: "b.png"}.ResolvedImageURL())
	assert.Equal(t, "b.png", ProductDraft{ImageURL: "b.png"}.ResolvedImageURL())
	assert.Empty(t, ProductDraft{}.ResolvedImageURL())
}

func TestProduct_DisplayImage(t *testing.T) {
	assert.Equal(t, "new.png", Product{ImageURL: "new.png", Image: "old.png"}.DisplayImage())
	assert.Equal(t, "old.png", Product{Image: "old.png"}.DisplayImage())
}

func TestProduct_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Product{ID: "p1", Name: "Cake", Category: CategoryCakes, Price: 12.5, Image: "old.png"})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "p1", fields["_id"])
	assert.Equal(t, "old.png", fields["image"])
	assert.Equal(t, "old.png", fields["displayImage"])
	assert.NotContains(t, fields, "imageUrl")

	var back Product
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Product{ID: "p1", Name: "Cake", Category: CategoryCakes, Price: 12.5, Image: "old.png"}, back)
}
