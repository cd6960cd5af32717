package lookengine

import "sort"

// DefaultShortlistSize caps the ranked pool handed to the composer.
const DefaultShortlistSize = 25

// RankCatalog scores every catalog item against the target formality and
// returns the top k as a new slice, best first. Pure: the input slice is
// never reordered. Ties keep catalog order so identical inputs always rank
// identically.
func RankCatalog(catalog []StoreItem, targetFormality int, preferredCategories []string, k int) []StoreItem {
	if k <= 0 {
		k = DefaultShortlistSize
	}
	if len(catalog) == 0 {
		return []StoreItem{}
	}

	preferred := map[string]bool{}
	for _, category := range preferredCategories {
		preferred[category] = true
	}

	ranked := make([]StoreItem, len(catalog))
	copy(ranked, catalog)
	scores := make(map[uint]float64, len(ranked))
	for _, item := range ranked {
		scores[item.ID] = scoreCatalogItem(item, targetFormality, preferred)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] > scores[ranked[j].ID]
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func scoreCatalogItem(item StoreItem, targetFormality int, preferred map[string]bool) float64 {
	distance := item.Formality - targetFormality
	if distance < 0 {
		distance = -distance
	}
	score := 100.0 - 20.0*float64(distance)
	if preferred[item.Category] {
		score += 10.0
	}
	return score
}

// CatalogPool is the shared consumable queue of ranked catalog items used
// across the three looks of one batch. Taking an item removes it, which is
// what keeps a catalog item from appearing in more than one look. A pool is
// local to a single generation call and must never be shared across requests.
type CatalogPool struct {
	items []StoreItem
}

func NewCatalogPool(items []StoreItem) *CatalogPool {
	pool := &CatalogPool{items: make([]StoreItem, len(items))}
	copy(pool.items, items)
	return pool
}

func (p *CatalogPool) Len() int {
	return len(p.items)
}

func (p *CatalogPool) Empty() bool {
	return len(p.items) == 0
}

// Take removes and returns the best remaining item.
func (p *CatalogPool) Take() (StoreItem, bool) {
	if len(p.items) == 0 {
		return StoreItem{}, false
	}
	item := p.items[0]
	p.items = p.items[1:]
	return item, true
}

// TakeCategory removes and returns the best remaining item of the given
// category, if any.
func (p *CatalogPool) TakeCategory(category string) (StoreItem, bool) {
	for i, item := range p.items {
		if item.Category == category {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return item, true
		}
	}
	return StoreItem{}, false
}
