package lookengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankerCatalog() []StoreItem {
	return []StoreItem{
		{ID: 1, Name: "Beach shirt", Category: CategoryTop, Formality: 1},
		{ID: 2, Name: "Oxford shirt", Category: CategoryTop, Formality: 4},
		{ID: 3, Name: "Suit trousers", Category: CategoryBottom, Formality: 4},
		{ID: 4, Name: "Loafers", Category: CategoryShoes, Formality: 3},
	}
}

func TestRankCatalogOrdersByFormalityDistance(t *testing.T) {
	ranked := RankCatalog(rankerCatalog(), 4, nil, 10)
	require.Len(t, ranked, 4)
	assert.Equal(t, uint(2), ranked[0].ID)
	assert.Equal(t, uint(3), ranked[1].ID)
	assert.Equal(t, uint(4), ranked[2].ID)
	assert.Equal(t, uint(1), ranked[3].ID)
}

func TestRankCatalogPreferredCategoryBoost(t *testing.T) {
	ranked := RankCatalog(rankerCatalog(), 3, []string{CategoryShoes}, 10)
	require.Len(t, ranked, 4)
	assert.Equal(t, uint(4), ranked[0].ID)
}

func TestRankCatalogStableOnTies(t *testing.T) {
	catalog := []StoreItem{
		{ID: 10, Category: CategoryTop, Formality: 3},
		{ID: 11, Category: CategoryTop, Formality: 3},
		{ID: 12, Category: CategoryTop, Formality: 3},
	}
	ranked := RankCatalog(catalog, 3, nil, 10)
	assert.Equal(t, uint(10), ranked[0].ID)
	assert.Equal(t, uint(11), ranked[1].ID)
	assert.Equal(t, uint(12), ranked[2].ID)
}

func TestRankCatalogTruncatesToK(t *testing.T) {
	ranked := RankCatalog(rankerCatalog(), 3, nil, 2)
	assert.Len(t, ranked, 2)
}

func TestRankCatalogDoesNotMutateInput(t *testing.T) {
	catalog := rankerCatalog()
	RankCatalog(catalog, 4, nil, 10)
	assert.Equal(t, uint(1), catalog[0].ID)
	assert.Equal(t, uint(4), catalog[3].ID)
}

func TestRankCatalogEmpty(t *testing.T) {
	ranked := RankCatalog(nil, 3, nil, 10)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestCatalogPoolConsumesItems(t *testing.T) {
	pool := NewCatalogPool(rankerCatalog())
	assert.Equal(t, 4, pool.Len())

	item, ok := pool.Take()
	require.True(t, ok)
	assert.Equal(t, uint(1), item.ID)
	assert.Equal(t, 3, pool.Len())

	shoes, ok := pool.TakeCategory(CategoryShoes)
	require.True(t, ok)
	assert.Equal(t, uint(4), shoes.ID)

	_, ok = pool.TakeCategory(CategoryShoes)
	assert.False(t, ok)

	pool.Take()
	pool.Take()
	_, ok = pool.Take()
	assert.False(t, ok)
	assert.True(t, pool.Empty())
}
