package lookengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWardrobe() []WardrobeItem {
	return []WardrobeItem{
		{ID: 1, Name: "White shirt", Category: CategoryTop, BrandID: 1, BrandName: "Aura", Fabric: "100% algodão"},
		{ID: 2, Name: "Navy chinos", Category: CategoryBottom, BrandID: 2, BrandName: "Vela", Fabric: "98% algodão, 2% elastano"},
		{ID: 3, Name: "Leather belt", Category: CategoryAccessory, BrandID: 3, BrandName: "Coro"},
	}
}

func sampleCatalog() []StoreItem {
	sizes := []SizeSpec{
		{Label: "M", ChestMinCM: float64Pointer(96), ChestMaxCM: float64Pointer(104)},
		{Label: "L", ChestMinCM: float64Pointer(104), ChestMaxCM: float64Pointer(112)},
	}
	return []StoreItem{
		{ID: 10, Name: "Loafers", Category: CategoryShoes, BrandID: 4, BrandName: "Passo", Fabric: "Couro", Formality: 3, Price: 299.9, ProductURL: "https://store.example/loafers", Sizes: sizes},
		{ID: 11, Name: "Linen blazer", Category: CategoryTop, BrandID: 5, BrandName: "Aura", Fabric: "Linho", Formality: 4, Price: 549.0, ProductURL: "https://store.example/blazer", Sizes: sizes},
		{ID: 12, Name: "Suit trousers", Category: CategoryBottom, BrandID: 5, BrandName: "Aura", Fabric: "Lã fria", Formality: 4, Price: 389.0, ProductURL: "https://store.example/trousers", Sizes: sizes},
		{ID: 13, Name: "Oxford shirt", Category: CategoryTop, BrandID: 5, BrandName: "Aura", Fabric: "100% algodão", Formality: 4, Price: 219.0, ProductURL: "https://store.example/oxford", Sizes: sizes},
		{ID: 14, Name: "Derby shoes", Category: CategoryShoes, BrandID: 4, BrandName: "Passo", Fabric: "Couro", Formality: 4, Price: 449.0, ProductURL: "https://store.example/derby", Sizes: sizes},
		{ID: 15, Name: "Dark jeans", Category: CategoryBottom, BrandID: 2, BrandName: "Vela", Fabric: "98% algodão, 2% elastano", Formality: 2, Price: 259.0, ProductURL: "https://store.example/jeans", Sizes: sizes},
	}
}

func consumerInput() GenerateInput {
	return GenerateInput{
		Profile:      Profile{StylePreferences: []string{"minimal"}, BodyShape: "rectangle"},
		Wardrobe:     sampleWardrobe(),
		StoreCatalog: sampleCatalog(),
		Occasion:     Occasion{Description: "dinner with clients", ExpectedFormality: 4},
		Mode:         ModeConsumer,
	}
}

func TestComposeLooksBatchShape(t *testing.T) {
	output := ComposeLooks(consumerInput())
	require.Len(t, output.Looks, LookCount)
	for i, look := range output.Looks {
		assert.NotEmpty(t, look.ID)
		assert.NotEmpty(t, look.Title)
		assert.Equal(t, 4, look.Formality)
		assert.GreaterOrEqual(t, len(look.Items), 3, "look %d", i)
		assert.NotEmpty(t, look.Rationale)
	}
	assert.NotEmpty(t, output.VoiceText)
	assert.Empty(t, output.NextQuestion)
}

func TestComposeLooksDeterministic(t *testing.T) {
	first := ComposeLooks(consumerInput())
	second := ComposeLooks(consumerInput())
	assert.Equal(t, first, second)
}

func TestComposeLooksClampsFormality(t *testing.T) {
	input := consumerInput()
	input.Occasion.ExpectedFormality = 9
	output := ComposeLooks(input)
	for _, look := range output.Looks {
		assert.Equal(t, 5, look.Formality)
	}

	input.Occasion.ExpectedFormality = -2
	output = ComposeLooks(input)
	for _, look := range output.Looks {
		assert.Equal(t, 1, look.Formality)
	}
}

func TestComposeLooksNeverRepeatsCatalogItems(t *testing.T) {
	output := ComposeLooks(consumerInput())
	seen := map[uint]bool{}
	for _, look := range output.Looks {
		for _, item := range look.Items {
			if item.StoreItemID != nil {
				assert.False(t, seen[*item.StoreItemID], "store item %d offered twice", *item.StoreItemID)
				seen[*item.StoreItemID] = true
			}
		}
	}
}

func TestComposeLooksStoreItemsCarryFitAndPitch(t *testing.T) {
	output := ComposeLooks(consumerInput())
	storeItems := 0
	for _, look := range output.Looks {
		for _, item := range look.Items {
			if item.Source != nil && *item.Source == SourceStore {
				storeItems++
				assert.True(t, item.CanPurchase)
				assert.NotNil(t, item.ProductURL)
				require.NotNil(t, item.SizeRecommendation)
				require.NotNil(t, item.SalesSupport)
				assert.Contains(t, []string{PriorityEssential, PriorityOptional}, item.SalesSupport.Priority)
			}
		}
	}
	assert.Greater(t, storeItems, 0)
}

func TestComposeLooksSingleWardrobePieceNoCatalog(t *testing.T) {
	input := GenerateInput{
		Wardrobe: []WardrobeItem{{ID: 7, Name: "Black dress", Category: CategoryDress, BrandID: 1, BrandName: "Aura"}},
		Occasion: Occasion{ExpectedFormality: 3},
		Mode:     ModeConsumer,
	}
	output := ComposeLooks(input)
	require.Len(t, output.Looks, LookCount)
	for _, look := range output.Looks {
		require.Len(t, look.Items, 1)
		require.NotNil(t, look.Items[0].WardrobeItemID)
		assert.Equal(t, uint(7), *look.Items[0].WardrobeItemID)
		assert.False(t, look.Items[0].CanPurchase)
	}
}

func TestComposeLooksNothingToComposeFrom(t *testing.T) {
	input := GenerateInput{
		Occasion: Occasion{ExpectedFormality: 3},
		Mode:     ModeConsumer,
	}
	output := ComposeLooks(input)
	require.Len(t, output.Looks, LookCount)
	for _, look := range output.Looks {
		assert.Empty(t, look.Items)
		assert.NotEmpty(t, look.Warnings)
	}
	assert.NotEmpty(t, output.NextQuestion)
}

func TestComposeLooksSellerIgnoresWardrobe(t *testing.T) {
	input := consumerInput()
	input.Mode = ModeSeller
	output := ComposeLooks(input)
	for _, look := range output.Looks {
		for _, item := range look.Items {
			require.NotNil(t, item.Source)
			assert.Equal(t, SourceStore, *item.Source)
		}
	}
}

func TestComposeLooksSellerEmptyCatalog(t *testing.T) {
	input := GenerateInput{
		Wardrobe: sampleWardrobe(),
		Occasion: Occasion{ExpectedFormality: 2},
		Mode:     ModeSeller,
	}
	output := ComposeLooks(input)
	require.Len(t, output.Looks, LookCount)
	for _, look := range output.Looks {
		require.Len(t, look.Items, 3)
		for _, item := range look.Items {
			assert.Nil(t, item.Source)
			assert.True(t, item.IsExternal)
			assert.False(t, item.CanPurchase)
			assert.Nil(t, item.StoreItemID)
		}
		assert.True(t, hasEmptyCatalogWarning(look.Warnings))
	}
}

func TestComposeLooksWarnsOnThinCatalog(t *testing.T) {
	input := GenerateInput{
		StoreCatalog: sampleCatalog()[:2],
		Occasion:     Occasion{ExpectedFormality: 4},
		Mode:         ModeConsumer,
	}
	output := ComposeLooks(input)
	warned := false
	for _, look := range output.Looks {
		if len(look.Items) < 3 {
			assert.True(t, hasLimitedWarning(look.Warnings), "%s is short without a warning", look.ID)
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestComposeLooksSellerThinStockWarning(t *testing.T) {
	input := GenerateInput{
		StoreCatalog: sampleCatalog()[:2],
		Occasion:     Occasion{ExpectedFormality: 4},
		Mode:         ModeSeller,
	}
	output := ComposeLooks(input)
	found := false
	for _, look := range output.Looks {
		for _, warning := range look.Warnings {
			if hasLimitedWarning([]string{warning}) {
				assert.Contains(t, warning, "stock")
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestComposeLooksOutputPassesValidation(t *testing.T) {
	inputs := []GenerateInput{
		consumerInput(),
		{Wardrobe: sampleWardrobe(), Occasion: Occasion{ExpectedFormality: 3}, Mode: ModeConsumer},
		{StoreCatalog: sampleCatalog(), Occasion: Occasion{ExpectedFormality: 2}, Mode: ModeSeller},
		{Occasion: Occasion{ExpectedFormality: 3}, Mode: ModeSeller},
		{Occasion: Occasion{ExpectedFormality: 3}, Mode: ModeConsumer},
	}
	for i, input := range inputs {
		output := ComposeLooks(input)
		assert.Empty(t, ValidateResult(input, output), "input %d", i)
	}
}
