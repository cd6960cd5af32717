package lookengine

import (
	"fmt"
	"strings"
)

var lookTitles = [LookCount]string{"Effortless base", "Balanced mix", "Polished finish"}

// genericSuggestions are the seller-mode fallback pieces per formality tier.
// They trace to no catalog entry and are never purchasable.
var genericSuggestions = map[int][3]struct {
	Name     string
	Category string
}{
	1: {{"Plain cotton tee", CategoryTop}, {"Relaxed jeans", CategoryBottom}, {"White sneakers", CategoryShoes}},
	2: {{"Casual knit top", CategoryTop}, {"Chino trousers", CategoryBottom}, {"Clean leather sneakers", CategoryShoes}},
	3: {{"Button-up shirt", CategoryTop}, {"Tailored trousers", CategoryBottom}, {"Loafers", CategoryShoes}},
	4: {{"Silk blouse or dress shirt", CategoryTop}, {"Pressed suit trousers", CategoryBottom}, {"Leather dress shoes", CategoryShoes}},
	5: {{"Structured blazer over a formal shirt", CategoryTop}, {"Formal suit trousers", CategoryBottom}, {"Polished oxford shoes", CategoryShoes}},
}

type coverage struct {
	needsTop    bool
	needsBottom bool
	needsShoes  bool
}

func wardrobeCoverage(wardrobe []WardrobeItem) coverage {
	gaps := coverage{needsTop: true, needsBottom: true, needsShoes: true}
	for _, item := range wardrobe {
		switch {
		case IsOnePiece(item.Category):
			gaps.needsTop = false
			gaps.needsBottom = false
		case item.Category == CategoryTop:
			gaps.needsTop = false
		case item.Category == CategoryBottom:
			gaps.needsBottom = false
		case item.Category == CategoryShoes:
			gaps.needsShoes = false
		}
	}
	return gaps
}

func (c coverage) gapCategories() []string {
	var categories []string
	if c.needsTop {
		categories = append(categories, CategoryTop)
	}
	if c.needsBottom {
		categories = append(categories, CategoryBottom)
	}
	if c.needsShoes {
		categories = append(categories, CategoryShoes)
	}
	return categories
}

// slotFill tracks which outfit slots a single look has covered so far.
type slotFill struct {
	top    bool
	bottom bool
	shoes  bool
}

func (s *slotFill) add(category string) {
	switch {
	case IsOnePiece(category):
		s.top = true
		s.bottom = true
	case category == CategoryTop:
		s.top = true
	case category == CategoryBottom:
		s.bottom = true
	case category == CategoryShoes:
		s.shoes = true
	}
}

// ComposeLooks deterministically assembles the three look variants for one
// generation request. No randomness anywhere: identical inputs produce
// byte-identical outputs.
func ComposeLooks(input GenerateInput) GenerateOutput {
	target := clampFormality(input.Occasion.ExpectedFormality)

	// seller mode sells stock, the customer's closet is never touched
	wardrobe := input.Wardrobe
	if input.Mode == ModeSeller {
		wardrobe = nil
	}

	if input.Mode != ModeSeller && len(wardrobe) == 0 && len(input.StoreCatalog) == 0 {
		return degenerateOutput(target)
	}
	if input.Mode == ModeSeller && len(input.StoreCatalog) == 0 {
		return sellerEmptyCatalogOutput(target)
	}

	gaps := wardrobeCoverage(wardrobe)
	pool := NewCatalogPool(RankCatalog(input.StoreCatalog, target, gaps.gapCategories(), DefaultShortlistSize))
	catalogPresent := len(input.StoreCatalog) > 0

	looks := make([]Look, 0, LookCount)
	for i := 0; i < LookCount; i++ {
		look := Look{
			ID:        fmt.Sprintf("look-%d", i+1),
			Title:     lookTitles[i],
			Formality: target,
			Warnings:  []string{},
		}
		var filled slotFill
		ownedCount := 0

		for _, seed := range seedWardrobeItems(wardrobe, i) {
			look.Items = append(look.Items, NewWardrobeItemRef(seed))
			filled.add(seed.Category)
			ownedCount++
		}

		storeCount := 0
		if catalogPresent {
			for len(look.Items) < 3 {
				item, ok := pullFromPool(pool, filled)
				if !ok {
					break
				}
				fillsGap := neededSlot(item.Category, filled, gaps)
				rec := RecommendSize(input.Profile.Measurements, item)
				look.Items = append(look.Items, NewStoreItemRef(item, rec, salesSupportFor(item, target, fillsGap)))
				filled.add(item.Category)
				storeCount++
			}
			if len(look.Items) < 3 {
				if input.Mode == ModeSeller {
					look.Warnings = append(look.Warnings,
						"Limited stock: not enough pieces left in the catalog to complete this look.")
				} else {
					look.Warnings = append(look.Warnings,
						"Limited catalog availability, this look has fewer pieces than usual.")
				}
			}
		} else {
			// no catalog at all: never fabricate purchasable or external
			// items, just tell the user what the look still misses
			for _, missing := range missingSlots(filled, gaps) {
				look.Warnings = append(look.Warnings,
					fmt.Sprintf("Add at least one %s to your wardrobe to complete this look.", slotLabel(missing)))
			}
		}

		look.Rationale = lookRationale(ownedCount, storeCount, target)
		looks = append(looks, look)
	}

	return GenerateOutput{
		Looks:        looks,
		VoiceText:    batchVoiceText(input.Mode, target),
		NextQuestion: "",
	}
}

// pullFromPool prefers an unfilled bottom slot, then an unfilled shoe slot,
// then whatever ranks best. Taken items leave the shared pool, so a catalog
// item appears in at most one look per batch.
func pullFromPool(pool *CatalogPool, filled slotFill) (StoreItem, bool) {
	if !filled.bottom {
		if item, ok := pool.TakeCategory(CategoryBottom); ok {
			return item, true
		}
	}
	if !filled.shoes {
		if item, ok := pool.TakeCategory(CategoryShoes); ok {
			return item, true
		}
	}
	return pool.Take()
}

// seedWardrobeItems picks up to two owned pieces per look, rotating the
// start index so the three looks differ when the closet is big enough. With
// a single owned piece every look gets exactly that piece.
func seedWardrobeItems(wardrobe []WardrobeItem, lookIndex int) []WardrobeItem {
	if len(wardrobe) == 0 {
		return nil
	}
	var seeds []WardrobeItem
	start := (lookIndex * 2) % len(wardrobe)
	for offset := 0; offset < len(wardrobe) && len(seeds) < 2; offset++ {
		seeds = append(seeds, wardrobe[(start+offset)%len(wardrobe)])
	}
	return seeds
}

func neededSlot(category string, filled slotFill, gaps coverage) bool {
	switch category {
	case CategoryTop:
		return !filled.top && gaps.needsTop
	case CategoryBottom:
		return !filled.bottom && gaps.needsBottom
	case CategoryShoes:
		return !filled.shoes && gaps.needsShoes
	}
	return false
}

func missingSlots(filled slotFill, gaps coverage) []string {
	var missing []string
	if gaps.needsTop && !filled.top {
		missing = append(missing, CategoryTop)
	}
	if gaps.needsBottom && !filled.bottom {
		missing = append(missing, CategoryBottom)
	}
	if gaps.needsShoes && !filled.shoes {
		missing = append(missing, CategoryShoes)
	}
	return missing
}

func slotLabel(category string) string {
	switch category {
	case CategoryTop:
		return "top"
	case CategoryBottom:
		return "bottom or one-piece"
	case CategoryShoes:
		return "pair of shoes"
	}
	return category
}

func salesSupportFor(item StoreItem, target int, fillsGap bool) SalesSupport {
	priority := PriorityOptional
	if fillsGap {
		priority = PriorityEssential
	}
	return SalesSupport{
		WhyItWorks: fmt.Sprintf("%s sits at formality %d, right where this occasion needs it.",
			item.Name, item.Formality),
		Versatility: fmt.Sprintf("A %s like this pairs with most of the other pieces in the look.",
			item.Category),
		Priority: priority,
	}
}

func lookRationale(ownedCount, storeCount, target int) string {
	var parts []string
	switch {
	case ownedCount > 0 && storeCount > 0:
		parts = append(parts, fmt.Sprintf("Built around %d piece(s) you already own, completed with %d store pick(s).",
			ownedCount, storeCount))
	case ownedCount > 0:
		parts = append(parts, fmt.Sprintf("Built entirely from %d piece(s) you already own.", ownedCount))
	case storeCount > 0:
		parts = append(parts, fmt.Sprintf("Assembled from %d piece(s) currently in the store.", storeCount))
	default:
		parts = append(parts, "We could not complete this look with the pieces available.")
	}
	parts = append(parts, fmt.Sprintf("Tuned to formality level %d.", target))
	return strings.Join(parts, " ")
}

func batchVoiceText(mode Mode, target int) string {
	if mode == ModeSeller {
		return fmt.Sprintf("Here are three looks for your customer, tuned to formality level %d.", target)
	}
	return fmt.Sprintf("Here are three looks for your occasion, tuned to formality level %d.", target)
}

func degenerateOutput(target int) GenerateOutput {
	looks := make([]Look, 0, LookCount)
	for i := 0; i < LookCount; i++ {
		looks = append(looks, Look{
			ID:        fmt.Sprintf("look-%d", i+1),
			Title:     lookTitles[i],
			Formality: target,
			Items:     []LookItem{},
			Rationale: "There is nothing to compose from yet.",
			Warnings: []string{
				"Register at least one top, one bottom or one-piece, and one pair of shoes to get real looks.",
			},
		})
	}
	return GenerateOutput{
		Looks:        looks,
		VoiceText:    "Your wardrobe is empty and there is no store catalog to pull from, so we can't build looks yet.",
		NextQuestion: "Which piece would you like to register first: a top, a bottom or a pair of shoes?",
	}
}

func sellerEmptyCatalogOutput(target int) GenerateOutput {
	suggestions, ok := genericSuggestions[target]
	if !ok {
		suggestions = genericSuggestions[3]
	}
	looks := make([]Look, 0, LookCount)
	for i := 0; i < LookCount; i++ {
		look := Look{
			ID:        fmt.Sprintf("look-%d", i+1),
			Title:     lookTitles[i],
			Formality: target,
			Rationale: fmt.Sprintf("Generic direction for formality level %d, nothing here is in stock.", target),
			Warnings: []string{
				"The store catalog is empty, these are generic suggestions with nothing to sell against.",
			},
		}
		for _, suggestion := range suggestions {
			look.Items = append(look.Items, NewExternalItemRef(suggestion.Name, suggestion.Category))
		}
		looks = append(looks, look)
	}
	return GenerateOutput{
		Looks:        looks,
		VoiceText:    "The catalog has no stock to sell right now, these looks only describe a general direction.",
		NextQuestion: "",
	}
}
