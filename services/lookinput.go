package services

import (
	"strings"

	"looksapi/lookengine"
	"looksapi/models"

	"gorm.io/gorm"
)

// BuildGenerateInput assembles the engine input for one user and company:
// styling profile from the account, owned garments from the wardrobe, the
// active store catalog with its size tables.
func BuildGenerateInput(db *gorm.DB, user models.UserAccount, companyID uint, occasion lookengine.Occasion, mode lookengine.Mode, smartCopy bool) (lookengine.GenerateInput, error) {
	input := lookengine.GenerateInput{
		Profile:   profileFor(user),
		Occasion:  occasion,
		Mode:      mode,
		SmartCopy: smartCopy,
	}

	var wardrobe []models.WardrobeClothing
	if err := db.Preload("Brand").
		Where("owner_id = ? AND company_id = ? AND status = ?", user.ID, companyID, "in_closet").
		Order("id").Find(&wardrobe).Error; err != nil {
		return input, err
	}
	for _, clothing := range wardrobe {
		input.Wardrobe = append(input.Wardrobe, lookengine.WardrobeItem{
			ID:        clothing.ID,
			Name:      clothing.Name,
			Category:  clothing.Category,
			BrandID:   clothing.BrandID,
			BrandName: clothing.Brand.Name,
			Fabric:    clothing.Fabric,
		})
	}

	var products []models.StoreProduct
	if err := db.Preload("Brand").Preload("Sizes", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order, id")
	}).Where("company_id = ? AND active = true", companyID).
		Order("id").Find(&products).Error; err != nil {
		return input, err
	}
	for _, product := range products {
		item := lookengine.StoreItem{
			ID:           product.ID,
			Name:         product.Name,
			Category:     product.Category,
			BrandID:      product.BrandID,
			BrandName:    product.Brand.Name,
			Fabric:       product.Fabric,
			FitModel:     product.FitModel,
			Formality:    product.Formality,
			Price:        product.Price,
			Installments: product.Installments,
			ProductURL:   product.ProductURL,
		}
		for _, size := range product.Sizes {
			item.Sizes = append(item.Sizes, lookengine.SizeSpec{
				Label:      size.Label,
				ChestMinCM: size.ChestMinCM,
				ChestMaxCM: size.ChestMaxCM,
				WaistMinCM: size.WaistMinCM,
				WaistMaxCM: size.WaistMaxCM,
				HipsMinCM:  size.HipsMinCM,
				HipsMaxCM:  size.HipsMaxCM,
			})
		}
		input.StoreCatalog = append(input.StoreCatalog, item)
	}

	return input, nil
}

func profileFor(user models.UserAccount) lookengine.Profile {
	profile := lookengine.Profile{
		BodyShape: user.BodyShape,
	}
	for _, pref := range strings.Split(user.StylePreferences, ",") {
		pref = strings.TrimSpace(pref)
		if pref != "" {
			profile.StylePreferences = append(profile.StylePreferences, pref)
		}
	}
	if user.ChestCM != nil || user.WaistCM != nil || user.HipsCM != nil || user.HeightCM != nil {
		profile.Measurements = &lookengine.BodyMeasurements{
			ChestCM:  user.ChestCM,
			WaistCM:  user.WaistCM,
			HipsCM:   user.HipsCM,
			HeightCM: user.HeightCM,
		}
	}
	return profile
}
