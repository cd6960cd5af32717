package models

type Brand struct {
	JsonModel
	Name string `json:"name" gorm:"unique"`
}

type WardrobeClothing struct {
	JsonModel
	Name     string  `json:"name"`
	Category string  `json:"category"` // top, bottom, shoes, accessory, dress, jumpsuit
	Fabric   string  `json:"fabric"`   // composition label, e.g. "92% viscose, 8% elastano"
	BrandID  uint    `json:"brand_id"`
	Brand    Brand   `json:"brand"`
	ImageURL *string `json:"image_url"`
	Status   string  `json:"status"` // temporary, in_closet

	Owner     UserAccount `json:"-"`
	OwnerID   uint        `json:"-"`
	CompanyID uint        `json:"-"`
	Company   Company     `json:"company"`
}
