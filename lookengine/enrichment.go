package lookengine

import (
	"fmt"
	"strings"
)

// EnrichResult backfills presentation data a composed batch may be missing
// and appends the purchase advisory to the narration. The pass is
// idempotent: it only ever fills absent fields, so running it on an already
// enriched batch changes nothing. Cached batches go through it again on
// every hit.
func EnrichResult(input GenerateInput, output *GenerateOutput) {
	if output == nil {
		return
	}

	wardrobeByID := make(map[uint]WardrobeItem, len(input.Wardrobe))
	for _, item := range input.Wardrobe {
		wardrobeByID[item.ID] = item
	}
	catalogByID := make(map[uint]StoreItem, len(input.StoreCatalog))
	for _, item := range input.StoreCatalog {
		catalogByID[item.ID] = item
	}

	purchasable := 0
	for li := range output.Looks {
		look := &output.Looks[li]
		for ii := range look.Items {
			item := &look.Items[ii]
			backfillItem(item, input.Profile.Measurements, wardrobeByID, catalogByID)
			if item.CanPurchase {
				purchasable++
			}
		}
	}

	defaultHighlight(input, output)
	appendAdvisory(input.Mode, purchasable, output)
}

func backfillItem(item *LookItem, measurements *BodyMeasurements, wardrobe map[uint]WardrobeItem, catalog map[uint]StoreItem) {
	if item.WardrobeItemID != nil {
		if record, ok := wardrobe[*item.WardrobeItemID]; ok {
			if item.BrandName == nil && record.BrandName != "" {
				item.BrandName = strPointer(record.BrandName)
				item.BrandID = uintPointer(record.BrandID)
			}
			if item.Fabric == nil && record.Fabric != "" {
				item.Fabric = strPointer(record.Fabric)
			}
		}
	}
	if item.StoreItemID != nil {
		record, ok := catalog[*item.StoreItemID]
		if !ok {
			return
		}
		if item.BrandName == nil && record.BrandName != "" {
			item.BrandName = strPointer(record.BrandName)
			item.BrandID = uintPointer(record.BrandID)
		}
		if item.Fabric == nil && record.Fabric != "" {
			item.Fabric = strPointer(record.Fabric)
		}
		if item.FitModel == nil && record.FitModel != "" {
			item.FitModel = strPointer(record.FitModel)
		}
		if item.ProductURL == nil && record.ProductURL != "" {
			item.ProductURL = strPointer(record.ProductURL)
		}
		if item.Price == nil {
			item.Price = float64Pointer(record.Price)
		}
		if item.SizeRecommendation == nil {
			rec := RecommendSize(measurements, record)
			item.SizeRecommendation = &rec
		}
	}
}

// defaultHighlight marks the look closest to the requested formality as the
// ideal-formality pick, but only when no look was highlighted yet.
func defaultHighlight(input GenerateInput, output *GenerateOutput) {
	for _, look := range output.Looks {
		if look.Highlight != nil {
			return
		}
	}
	if len(output.Looks) == 0 {
		return
	}
	target := clampFormality(input.Occasion.ExpectedFormality)
	best := 0
	for i, look := range output.Looks {
		if distance(look.Formality, target) < distance(output.Looks[best].Formality, target) {
			best = i
		}
	}
	output.Looks[best].Highlight = strPointer(HighlightIdealFormality)
}

func appendAdvisory(mode Mode, purchasable int, output *GenerateOutput) {
	if purchasable == 0 {
		return
	}
	var advisory string
	if mode == ModeSeller {
		advisory = fmt.Sprintf("The looks include %d piece(s) straight from your stock.", purchasable)
	} else {
		advisory = fmt.Sprintf("%d of the suggested piece(s) are available to buy right now.", purchasable)
	}
	if strings.Contains(output.VoiceText, advisory) {
		return
	}
	if output.VoiceText != "" {
		output.VoiceText += " "
	}
	output.VoiceText += advisory
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
