package lookengine

import (
	"fmt"

	"looksapi/languageutil"
)

// stretchFitTolerance lets stretch fabrics match a spec whose upper bound is
// exceeded by up to 2%; the garment shapes instead of failing to close.
const stretchFitTolerance = 1.02

// rigidUpperBandShare marks the top 20% of a dimension's range; rigid
// fabrics have no give there, so we size up.
const rigidUpperBandShare = 0.8

// RecommendSize maps the person's measurements and a catalog item's ordered
// size table to a size label plus rationale. The first spec that fits wins;
// the scan is in the catalog's own size order and is intentionally not a
// best-fit search (changing the tie-break would change recommended sizes).
// Deterministic: identical inputs always produce the identical result.
func RecommendSize(measurements *BodyMeasurements, item StoreItem) SizeRecommendation {
	fabricClass := classifyFabric(item.Fabric)
	tolerance := 1.0
	if fabricClass == FabricStretch {
		tolerance = stretchFitTolerance
	}

	matchedIndex := -1
	for i, spec := range item.Sizes {
		if specFits(measurements, spec, tolerance) {
			matchedIndex = i
			break
		}
	}
	if matchedIndex < 0 {
		return SizeRecommendation{
			Label: "",
			Rationale: fmt.Sprintf(
				"We couldn't match your measurements to %s's size table, check the size guide on the product page.",
				item.BrandName),
		}
	}

	matched := item.Sizes[matchedIndex]
	var nextLarger *SizeSpec
	if matchedIndex+1 < len(item.Sizes) {
		nextLarger = &item.Sizes[matchedIndex+1]
	}

	// Brand/fit override: slim cuts at an exact upper bound go one size up,
	// ahead of any fabric rule.
	if languageutil.FoldContains(item.FitModel, "slim") && nextLarger != nil && anyDimensionAtUpperBound(measurements, matched) {
		return SizeRecommendation{
			Label: nextLarger.Label,
			Rationale: fmt.Sprintf(
				"%s runs slim and you sit right at the edge of %s, so we suggest %s for a more comfortable fit.",
				item.BrandName, matched.Label, nextLarger.Label),
		}
	}

	switch fabricClass {
	case FabricRigid:
		if anyDimensionInUpperBand(measurements, matched) {
			if nextLarger != nil {
				return SizeRecommendation{
					Label: nextLarger.Label,
					Rationale: fmt.Sprintf(
						"This is a rigid fabric with little give, so we sized up from %s to %s.",
						matched.Label, nextLarger.Label),
				}
			}
			return SizeRecommendation{
				Label: matched.Label,
				Rationale: fmt.Sprintf(
					"%s is the largest size available; expect a close cut, this rigid fabric has little give.",
					matched.Label),
			}
		}
	case FabricStretch:
		if anyDimensionOverUpperBound(measurements, matched) {
			return SizeRecommendation{
				Label: matched.Label,
				Rationale: fmt.Sprintf(
					"%s will give a snug, shaping fit thanks to the stretch in the fabric.", matched.Label),
			}
		}
		return SizeRecommendation{
			Label:     matched.Label,
			Rationale: fmt.Sprintf("%s in a flexible fabric, expect a fluid fit.", matched.Label),
		}
	}

	// structured tailoring fabrics and everything unclassified keep the match
	return SizeRecommendation{
		Label:     matched.Label,
		Rationale: fmt.Sprintf("%s matches your measurements.", matched.Label),
	}
}

type dimension struct {
	measurement *float64
	min         *float64
	max         *float64
}

func specDimensions(m *BodyMeasurements, spec SizeSpec) []dimension {
	if m == nil {
		return nil
	}
	return []dimension{
		{m.ChestCM, spec.ChestMinCM, spec.ChestMaxCM},
		{m.WaistCM, spec.WaistMinCM, spec.WaistMaxCM},
		{m.HipsCM, spec.HipsMinCM, spec.HipsMaxCM},
	}
}

// specFits checks every dimension defined on both sides; undefined
// dimensions are not checked, so a spec with no overlap fits vacuously.
func specFits(m *BodyMeasurements, spec SizeSpec, tolerance float64) bool {
	for _, d := range specDimensions(m, spec) {
		if d.measurement == nil {
			continue
		}
		if d.min != nil && *d.measurement < *d.min {
			return false
		}
		if d.max != nil && *d.measurement > *d.max*tolerance {
			return false
		}
	}
	return true
}

func anyDimensionAtUpperBound(m *BodyMeasurements, spec SizeSpec) bool {
	for _, d := range specDimensions(m, spec) {
		if d.measurement != nil && d.max != nil && *d.measurement == *d.max {
			return true
		}
	}
	return false
}

func anyDimensionInUpperBand(m *BodyMeasurements, spec SizeSpec) bool {
	for _, d := range specDimensions(m, spec) {
		if d.measurement == nil || d.max == nil {
			continue
		}
		lower := 0.0
		if d.min != nil {
			lower = *d.min
		}
		band := lower + rigidUpperBandShare*(*d.max-lower)
		if *d.measurement >= band && *d.measurement <= *d.max {
			return true
		}
	}
	return false
}

func anyDimensionOverUpperBound(m *BodyMeasurements, spec SizeSpec) bool {
	for _, d := range specDimensions(m, spec) {
		if d.measurement != nil && d.max != nil && *d.measurement > *d.max {
			return true
		}
	}
	return false
}
