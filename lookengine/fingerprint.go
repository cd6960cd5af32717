package lookengine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Fingerprint derives the cache key for a generation request. Inputs that
// only differ in slice ordering hash to the same key, so reordering a
// wardrobe listing never busts the cache.
func Fingerprint(input GenerateInput) string {
	normalized := input

	normalized.Profile.StylePreferences = append([]string(nil), input.Profile.StylePreferences...)
	sort.Strings(normalized.Profile.StylePreferences)

	normalized.Wardrobe = append([]WardrobeItem(nil), input.Wardrobe...)
	sort.Slice(normalized.Wardrobe, func(i, j int) bool {
		return normalized.Wardrobe[i].ID < normalized.Wardrobe[j].ID
	})

	normalized.StoreCatalog = append([]StoreItem(nil), input.StoreCatalog...)
	sort.Slice(normalized.StoreCatalog, func(i, j int) bool {
		return normalized.StoreCatalog[i].ID < normalized.StoreCatalog[j].ID
	})

	payload, err := json.Marshal(normalized)
	if err != nil {
		// GenerateInput is plain data, Marshal cannot realistically fail;
		// fall back to an empty-payload hash rather than panic
		payload = nil
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
