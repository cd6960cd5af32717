package lookengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBatch(t *testing.T) (GenerateInput, GenerateOutput) {
	t.Helper()
	input := consumerInput()
	output := ComposeLooks(input)
	require.Empty(t, ValidateResult(input, output))
	return input, output
}

func assertViolationContaining(t *testing.T, violations []string, fragment string) {
	t.Helper()
	for _, violation := range violations {
		if strings.Contains(violation, fragment) {
			return
		}
	}
	t.Fatalf("no violation containing %q in %v", fragment, violations)
}

func TestValidateResultWrongLookCount(t *testing.T) {
	input, output := validBatch(t)
	output.Looks = output.Looks[:2]
	assertViolationContaining(t, ValidateResult(input, output), "expected 3 looks")
}

func TestValidateResultFormalityOutOfRange(t *testing.T) {
	input, output := validBatch(t)
	output.Looks[0].Formality = 6
	assertViolationContaining(t, ValidateResult(input, output), "out of range")
}

func TestValidateResultPurchasableWardrobeItem(t *testing.T) {
	input, output := validBatch(t)
	for li := range output.Looks {
		for ii := range output.Looks[li].Items {
			item := &output.Looks[li].Items[ii]
			if item.Source != nil && *item.Source == SourceUser {
				item.CanPurchase = true
				assertViolationContaining(t, ValidateResult(input, output), "neither external nor purchasable")
				return
			}
		}
	}
	t.Fatal("no wardrobe item in batch")
}

func TestValidateResultWardrobeItemEmptyBrand(t *testing.T) {
	input, output := validBatch(t)
	for li := range output.Looks {
		for ii := range output.Looks[li].Items {
			item := &output.Looks[li].Items[ii]
			if item.Source != nil && *item.Source == SourceUser {
				item.BrandName = strPointer("")
				assertViolationContaining(t, ValidateResult(input, output), "missing brand")
				return
			}
		}
	}
	t.Fatal("no wardrobe item in batch")
}

func TestValidateResultStoreItemMissingPitch(t *testing.T) {
	input, output := validBatch(t)
	for li := range output.Looks {
		for ii := range output.Looks[li].Items {
			item := &output.Looks[li].Items[ii]
			if item.Source != nil && *item.Source == SourceStore {
				item.SalesSupport = nil
				assertViolationContaining(t, ValidateResult(input, output), "missing sales support")
				return
			}
		}
	}
	t.Fatal("no store item in batch")
}

func TestValidateResultStoreItemOutsideCatalog(t *testing.T) {
	input, output := validBatch(t)
	for li := range output.Looks {
		for ii := range output.Looks[li].Items {
			item := &output.Looks[li].Items[ii]
			if item.StoreItemID != nil {
				item.StoreItemID = uintPointer(9999)
				assertViolationContaining(t, ValidateResult(input, output), "not found in the request catalog")
				return
			}
		}
	}
	t.Fatal("no store item in batch")
}

func TestValidateResultDuplicateStoreItem(t *testing.T) {
	input, output := validBatch(t)
	var duplicate *LookItem
	for li := range output.Looks {
		for ii := range output.Looks[li].Items {
			item := &output.Looks[li].Items[ii]
			if item.StoreItemID == nil {
				continue
			}
			if duplicate == nil {
				duplicate = item
				continue
			}
			*item = *duplicate
			assertViolationContaining(t, ValidateResult(input, output), "already offered")
			return
		}
	}
	t.Fatal("fewer than two store items in batch")
}

func TestValidateResultUnknownSource(t *testing.T) {
	input, output := validBatch(t)
	output.Looks[0].Items[0].Source = strPointer("marketplace")
	assertViolationContaining(t, ValidateResult(input, output), "unknown item source")
}

func TestValidateResultTooManyHighlights(t *testing.T) {
	input, output := validBatch(t)
	output.Looks[0].Highlight = strPointer(HighlightVersatile)
	output.Looks[1].Highlight = strPointer(HighlightCostEffective)
	assertViolationContaining(t, ValidateResult(input, output), "at most one")
}

func TestValidateResultUnknownHighlight(t *testing.T) {
	input, output := validBatch(t)
	output.Looks[0].Highlight = strPointer("trendy")
	assertViolationContaining(t, ValidateResult(input, output), "unknown highlight")
}

func TestValidateResultWardrobeItemInSellerMode(t *testing.T) {
	input, output := validBatch(t)
	input.Mode = ModeSeller
	assertViolationContaining(t, ValidateResult(input, output), "not allowed in seller mode")
}

func TestValidateResultShortLookWithoutWarning(t *testing.T) {
	input, output := validBatch(t)
	output.Looks[0].Items = output.Looks[0].Items[:1]
	output.Looks[0].Warnings = nil
	violations := ValidateResult(input, output)
	assertViolationContaining(t, violations, "no availability warning")

	output.Looks[0].Warnings = []string{"Limited catalog availability, this look has fewer pieces than usual."}
	for _, violation := range ValidateResult(input, output) {
		assert.NotContains(t, violation, "no availability warning")
	}
}

func TestValidateResultNoPurchasableWithCatalog(t *testing.T) {
	input, output := validBatch(t)
	for li := range output.Looks {
		kept := output.Looks[li].Items[:0]
		for _, item := range output.Looks[li].Items {
			if !item.CanPurchase {
				kept = append(kept, item)
			}
		}
		output.Looks[li].Items = kept
		output.Looks[li].Warnings = append(output.Looks[li].Warnings, "Limited catalog availability.")
	}
	assertViolationContaining(t, ValidateResult(input, output), "no look contains a purchasable item")
}

func TestValidateResultSourcelessItemWithCommerceFields(t *testing.T) {
	input := GenerateInput{Occasion: Occasion{ExpectedFormality: 3}, Mode: ModeSeller}
	output := ComposeLooks(input)
	require.Empty(t, ValidateResult(input, output))
	output.Looks[0].Items[0].ProductURL = strPointer("https://store.example/x")
	assertViolationContaining(t, ValidateResult(input, output), "commerce fields")
}
