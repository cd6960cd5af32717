package lookengine

import (
	"fmt"
	"strings"
)

// ValidateResult checks a generated batch against the structural contract.
// It returns the full list of violations instead of stopping at the first
// one, so callers can log everything that went wrong at once. An empty
// slice means the batch is valid.
func ValidateResult(input GenerateInput, output GenerateOutput) []string {
	var violations []string

	if len(output.Looks) != LookCount {
		violations = append(violations,
			fmt.Sprintf("expected %d looks, got %d", LookCount, len(output.Looks)))
	}

	wardrobeIDs := make(map[uint]WardrobeItem, len(input.Wardrobe))
	for _, item := range input.Wardrobe {
		wardrobeIDs[item.ID] = item
	}
	catalogIDs := make(map[uint]StoreItem, len(input.StoreCatalog))
	for _, item := range input.StoreCatalog {
		catalogIDs[item.ID] = item
	}
	catalogPresent := len(input.StoreCatalog) > 0

	highlights := 0
	purchasable := 0
	offeredStoreItems := map[uint]string{}
	for _, look := range output.Looks {
		if look.Formality < 1 || look.Formality > 5 {
			violations = append(violations,
				fmt.Sprintf("%s: formality %d out of range", look.ID, look.Formality))
		}
		if look.Highlight != nil {
			highlights++
			switch *look.Highlight {
			case HighlightVersatile, HighlightCostEffective, HighlightIdealFormality:
			default:
				violations = append(violations,
					fmt.Sprintf("%s: unknown highlight %q", look.ID, *look.Highlight))
			}
		}
		for idx, item := range look.Items {
			where := fmt.Sprintf("%s item %d", look.ID, idx)
			violations = append(violations,
				validateItem(where, item, input.Mode, wardrobeIDs, catalogIDs, catalogPresent)...)
			if item.CanPurchase {
				purchasable++
			}
			if item.StoreItemID != nil {
				if firstSeen, ok := offeredStoreItems[*item.StoreItemID]; ok {
					violations = append(violations,
						fmt.Sprintf("%s: store item %d already offered in %s", look.ID, *item.StoreItemID, firstSeen))
				} else {
					offeredStoreItems[*item.StoreItemID] = look.ID
				}
			}
		}
		if catalogPresent && len(look.Items) < 3 && !hasLimitedWarning(look.Warnings) {
			violations = append(violations,
				fmt.Sprintf("%s: only %d items with no availability warning", look.ID, len(look.Items)))
		}
	}
	if highlights > 1 {
		violations = append(violations,
			fmt.Sprintf("batch carries %d highlights, at most one allowed", highlights))
	}
	if catalogPresent && purchasable == 0 {
		violations = append(violations,
			"catalog is present but no look contains a purchasable item")
	}

	violations = append(violations, validateSpecialShapes(input, output, catalogPresent)...)
	return violations
}

func validateItem(where string, item LookItem, mode Mode, wardrobe map[uint]WardrobeItem, catalog map[uint]StoreItem, catalogPresent bool) []string {
	var violations []string
	fail := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf("%s: %s", where, fmt.Sprintf(format, args...)))
	}

	switch {
	case item.Source == nil:
		if !item.IsExternal {
			fail("sourceless item must be external")
		}
		if item.CanPurchase {
			fail("sourceless item cannot be purchasable")
		}
		if item.WardrobeItemID != nil || item.StoreItemID != nil {
			fail("sourceless item must not trace to a wardrobe or store record")
		}
		if item.ProductURL != nil || item.Price != nil || item.Installments != nil {
			fail("sourceless item must not carry commerce fields")
		}
		if item.SizeRecommendation != nil || item.SalesSupport != nil {
			fail("sourceless item must not carry fit or sales metadata")
		}

	case *item.Source == SourceUser:
		if mode == ModeSeller {
			fail("wardrobe items are not allowed in seller mode")
		}
		if item.IsExternal || item.CanPurchase {
			fail("wardrobe item must be neither external nor purchasable")
		}
		if item.WardrobeItemID == nil {
			fail("wardrobe item missing its wardrobe record id")
		} else if _, ok := wardrobe[*item.WardrobeItemID]; !ok {
			fail("wardrobe item %d not found in the request wardrobe", *item.WardrobeItemID)
		}
		if item.BrandName == nil || *item.BrandName == "" {
			fail("wardrobe item missing brand")
		}
		if item.StoreItemID != nil || item.ProductURL != nil || item.Price != nil || item.Installments != nil {
			fail("wardrobe item must not carry store commerce fields")
		}
		if item.SizeRecommendation != nil || item.SalesSupport != nil {
			fail("wardrobe item must not carry fit or sales metadata")
		}

	case *item.Source == SourceStore:
		if !catalogPresent {
			fail("store item offered while the request catalog is empty")
		}
		if !item.IsExternal || !item.CanPurchase {
			fail("store item must be external and purchasable")
		}
		if item.StoreItemID == nil {
			fail("store item missing its catalog record id")
		} else if _, ok := catalog[*item.StoreItemID]; !ok {
			fail("store item %d not found in the request catalog", *item.StoreItemID)
		}
		if item.ProductURL == nil {
			fail("store item missing product url")
		}
		if item.BrandName == nil {
			fail("store item missing brand")
		}
		if item.Fabric == nil {
			fail("store item missing fabric")
		}
		if item.SizeRecommendation == nil {
			fail("store item missing size recommendation")
		}
		if item.SalesSupport == nil {
			fail("store item missing sales support")
		} else if item.SalesSupport.Priority != PriorityEssential && item.SalesSupport.Priority != PriorityOptional {
			fail("store item has unknown sales priority %q", item.SalesSupport.Priority)
		}
		if item.WardrobeItemID != nil {
			fail("store item must not trace to a wardrobe record")
		}

	default:
		fail("unknown item source %q", *item.Source)
	}
	return violations
}

// validateSpecialShapes covers the fixed-form batches the composer emits for
// edge inputs.
func validateSpecialShapes(input GenerateInput, output GenerateOutput, catalogPresent bool) []string {
	var violations []string

	// a consumer with exactly one owned piece and no catalog gets that
	// piece, and only that piece, in every look
	if input.Mode != ModeSeller && !catalogPresent && len(input.Wardrobe) == 1 {
		only := input.Wardrobe[0]
		for _, look := range output.Looks {
			if len(look.Items) != 1 || look.Items[0].WardrobeItemID == nil || *look.Items[0].WardrobeItemID != only.ID {
				violations = append(violations,
					fmt.Sprintf("%s: single-piece wardrobe must yield exactly that piece", look.ID))
			}
		}
	}

	// seller mode with nothing in stock yields generic suggestions only,
	// flagged as such
	if input.Mode == ModeSeller && !catalogPresent {
		for _, look := range output.Looks {
			for idx, item := range look.Items {
				if item.Source != nil || !item.IsExternal || item.CanPurchase {
					violations = append(violations,
						fmt.Sprintf("%s item %d: empty-catalog seller batches may only contain generic suggestions", look.ID, idx))
				}
			}
			if !hasEmptyCatalogWarning(look.Warnings) {
				violations = append(violations,
					fmt.Sprintf("%s: empty-catalog seller look missing its warning", look.ID))
			}
		}
	}
	return violations
}

func hasLimitedWarning(warnings []string) bool {
	for _, w := range warnings {
		if strings.Contains(strings.ToLower(w), "limited") {
			return true
		}
	}
	return false
}

func hasEmptyCatalogWarning(warnings []string) bool {
	for _, w := range warnings {
		lower := strings.ToLower(w)
		if strings.Contains(lower, "catalog") && strings.Contains(lower, "empty") {
			return true
		}
	}
	return false
}
