package lookengine

// Mode selects who the batch is generated for: a stylist-app user dressing
// from their own closet plus the store, or a salesperson selling stock.
type Mode string

const (
	ModeConsumer Mode = "consumer"
	ModeSeller   Mode = "seller"
)

const (
	CategoryTop       = "top"
	CategoryBottom    = "bottom"
	CategoryShoes     = "shoes"
	CategoryAccessory = "accessory"
	CategoryDress     = "dress"
	CategoryJumpsuit  = "jumpsuit"
)

// IsOnePiece reports whether the category covers top and bottom at once.
func IsOnePiece(category string) bool {
	return category == CategoryDress || category == CategoryJumpsuit
}

const (
	SourceUser  = "user"
	SourceStore = "store"
)

const (
	HighlightVersatile      = "versatile"
	HighlightCostEffective  = "cost-effective"
	HighlightIdealFormality = "ideal-formality"
)

const (
	PriorityEssential = "essential"
	PriorityOptional  = "optional"
)

// BodyMeasurements are optional centimeters. A nil dimension is simply not
// checked against the size tables.
type BodyMeasurements struct {
	ChestCM  *float64 `json:"chest_cm"`
	WaistCM  *float64 `json:"waist_cm"`
	HipsCM   *float64 `json:"hips_cm"`
	HeightCM *float64 `json:"height_cm"`
}

type Profile struct {
	StylePreferences []string          `json:"style_preferences"`
	BodyShape        string            `json:"body_shape"`
	Measurements     *BodyMeasurements `json:"body_measurements"`
}

// WardrobeItem is a garment the person already owns. Immutable during a
// generation run.
type WardrobeItem struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"` // top, bottom, shoes, accessory, dress, jumpsuit
	BrandID   uint   `json:"brand_id"`
	BrandName string `json:"brand_name"`
	Fabric    string `json:"fabric"`
}

// SizeSpec is one row of a catalog item's size table. Bounds are optional;
// a dimension with no bounds is not checked.
type SizeSpec struct {
	Label      string   `json:"label"`
	ChestMinCM *float64 `json:"chest_min_cm"`
	ChestMaxCM *float64 `json:"chest_max_cm"`
	WaistMinCM *float64 `json:"waist_min_cm"`
	WaistMaxCM *float64 `json:"waist_max_cm"`
	HipsMinCM  *float64 `json:"hips_min_cm"`
	HipsMaxCM  *float64 `json:"hips_max_cm"`
}

type StoreItem struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	BrandID      uint       `json:"brand_id"`
	BrandName    string     `json:"brand_name"`
	Fabric       string     `json:"fabric"`
	FitModel     string     `json:"fit_model"` // e.g. Slim, Regular, Oversized
	Formality    int        `json:"formality"` // declared 1-5
	Price        float64    `json:"price"`
	Installments *int       `json:"installments"`
	ProductURL   string     `json:"product_url"`
	Sizes        []SizeSpec `json:"size_specs"` // catalog's own ordering, smallest first
}

type Occasion struct {
	Description       string `json:"description"`
	ExpectedFormality int    `json:"expected_formality"` // 1-5
}

type GenerateInput struct {
	Profile      Profile        `json:"profile"`
	Wardrobe     []WardrobeItem `json:"wardrobe"`
	StoreCatalog []StoreItem    `json:"store_catalog"`
	Occasion     Occasion       `json:"occasion"`
	Mode         Mode           `json:"mode"`
	SmartCopy    bool           `json:"smart_copy"`
}

type SizeRecommendation struct {
	Label     string `json:"size_label"`
	Rationale string `json:"rationale"`
}

// SalesSupport is the seller-facing pitch block carried by purchasable items.
type SalesSupport struct {
	WhyItWorks  string `json:"why_it_works"`
	Versatility string `json:"versatility"`
	Priority    string `json:"priority"` // essential, optional
}

// LookItem is a garment reference inside a look. Which fields are set is
// fixed by provenance, so construct them only through NewWardrobeItemRef,
// NewStoreItemRef and NewExternalItemRef; ValidateResult enforces the same
// field matrix on anything that arrives from outside (smart copy, cache).
type LookItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`

	Source      *string `json:"source"` // "user", "store" or null
	IsExternal  bool    `json:"is_external"`
	CanPurchase bool    `json:"can_purchase"`

	WardrobeItemID *uint `json:"wardrobe_item_id"`
	StoreItemID    *uint `json:"store_item_id"`

	ProductURL   *string  `json:"product_url"`
	Price        *float64 `json:"price"`
	Installments *int     `json:"installments"`

	BrandID   *uint   `json:"brand_id"`
	BrandName *string `json:"brand_name"`
	Fabric    *string `json:"fabric"`
	FitModel  *string `json:"fit_model"`

	SizeRecommendation *SizeRecommendation `json:"size_recommendation"`
	SalesSupport       *SalesSupport       `json:"sales_support"`
}

// NewWardrobeItemRef builds the WardrobeOwned variant: owned, not external,
// never purchasable, no store-only fields.
func NewWardrobeItemRef(w WardrobeItem) LookItem {
	source := SourceUser
	item := LookItem{
		Name:           w.Name,
		Category:       w.Category,
		Source:         &source,
		IsExternal:     false,
		CanPurchase:    false,
		WardrobeItemID: uintPointer(w.ID),
		BrandID:        uintPointer(w.BrandID),
		BrandName:      strPointer(w.BrandName),
	}
	if w.Fabric != "" {
		item.Fabric = strPointer(w.Fabric)
	}
	return item
}

// NewStoreItemRef builds the StorePurchasable variant from a real catalog
// entry, its fit advice and its sales-support pitch.
func NewStoreItemRef(s StoreItem, rec SizeRecommendation, support SalesSupport) LookItem {
	source := SourceStore
	item := LookItem{
		Name:               s.Name,
		Category:           s.Category,
		Source:             &source,
		IsExternal:         true,
		CanPurchase:        true,
		StoreItemID:        uintPointer(s.ID),
		ProductURL:         strPointer(s.ProductURL),
		Price:              float64Pointer(s.Price),
		BrandID:            uintPointer(s.BrandID),
		BrandName:          strPointer(s.BrandName),
		Fabric:             strPointer(s.Fabric),
		SizeRecommendation: &rec,
		SalesSupport:       &support,
	}
	if s.FitModel != "" {
		item.FitModel = strPointer(s.FitModel)
	}
	if s.Installments != nil {
		installments := *s.Installments
		item.Installments = &installments
	}
	return item
}

// NewExternalItemRef builds the GenericExternal variant: a suggestion that
// traces to nothing, carries nothing and cannot be purchased.
func NewExternalItemRef(name string, category string) LookItem {
	return LookItem{
		Name:        name,
		Category:    category,
		Source:      nil,
		IsExternal:  true,
		CanPurchase: false,
	}
}

type Look struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Formality int        `json:"formalidade_calculada"` // 1-5
	Items     []LookItem `json:"items"`
	Rationale string     `json:"rationale"`
	Warnings  []string   `json:"warnings"`
	Highlight *string    `json:"highlight"` // versatile, cost-effective, ideal-formality
}

type GenerateOutput struct {
	Looks        []Look `json:"looks"`
	VoiceText    string `json:"voice_text"`
	NextQuestion string `json:"next_question"`
}

// LookCount is fixed: a generation batch always carries exactly three looks.
const LookCount = 3

func clampFormality(level int) int {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}

func uintPointer(u uint) *uint {
	return &u
}

func strPointer(s string) *string {
	return &s
}

func float64Pointer(f float64) *float64 {
	return &f
}

func intPointer(i int) *int {
	return &i
}
