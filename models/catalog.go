package models

// StoreProduct is one sellable catalog entry of a company's store.
type StoreProduct struct {
	JsonModel
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Fabric       string  `json:"fabric"`
	FitModel     string  `json:"fit_model"` // e.g. Slim, Regular, Oversized
	Formality    int     `json:"formality"` // declared 1-5
	Price        float64 `json:"price"`
	Installments *int    `json:"installments"`
	ProductURL   string  `json:"product_url"`
	ImageURL     *string `json:"image_url"`
	Active       bool    `gorm:"default:true" json:"active"`

	BrandID uint  `json:"brand_id"`
	Brand   Brand `json:"brand"`

	Sizes []ProductSize `gorm:"foreignKey:StoreProductID" json:"sizes"`

	CompanyID uint    `json:"-"`
	Company   Company `json:"company"`
}

// ProductSize is one row of a product's size table. Bounds in centimeters,
// nil means the dimension is not constrained for that size.
type ProductSize struct {
	JsonModel
	StoreProductID uint     `json:"-"`
	Label          string   `json:"label"` // P, M, G / S, M, L, 38...
	SortOrder      int      `json:"sort_order"`
	ChestMinCM     *float64 `json:"chest_min_cm"`
	ChestMaxCM     *float64 `json:"chest_max_cm"`
	WaistMinCM     *float64 `json:"waist_min_cm"`
	WaistMaxCM     *float64 `json:"waist_max_cm"`
	HipsMinCM      *float64 `json:"hips_min_cm"`
	HipsMaxCM      *float64 `json:"hips_max_cm"`
}
