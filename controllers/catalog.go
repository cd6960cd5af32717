package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"looksapi/models"
	"looksapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProductSizeIn struct {
	Label      string   `json:"label" validate:"required,max=10"`
	ChestMinCM *float64 `json:"chest_min_cm"`
	ChestMaxCM *float64 `json:"chest_max_cm"`
	WaistMinCM *float64 `json:"waist_min_cm"`
	WaistMaxCM *float64 `json:"waist_max_cm"`
	HipsMinCM  *float64 `json:"hips_min_cm"`
	HipsMaxCM  *float64 `json:"hips_max_cm"`
}

type CreateProductIn struct {
	Name         string          `json:"name" validate:"required,max=150"`
	Category     string          `json:"category" validate:"required,oneof=top bottom shoes accessory dress jumpsuit"`
	Fabric       string          `json:"fabric" validate:"omitempty,max=200"`
	FitModel     string          `json:"fit_model" validate:"omitempty,max=50"`
	Formality    int             `json:"formality" validate:"required,min=1,max=5"`
	Price        float64         `json:"price" validate:"required,min=0"`
	Installments *int            `json:"installments" validate:"omitempty,min=1,max=24"`
	ProductURL   string          `json:"product_url" validate:"required,url,max=500"`
	Brand        string          `json:"brand" validate:"omitempty,max=100"`
	FileName     *string         `json:"file_name" validate:"omitempty,max=200"`
	Sizes        []ProductSizeIn `json:"sizes" validate:"omitempty,max=15,dive"`
}

type ProductSizeResponse struct {
	ID         uint     `json:"id"`
	Label      string   `json:"label"`
	ChestMinCM *float64 `json:"chest_min_cm"`
	ChestMaxCM *float64 `json:"chest_max_cm"`
	WaistMinCM *float64 `json:"waist_min_cm"`
	WaistMaxCM *float64 `json:"waist_max_cm"`
	HipsMinCM  *float64 `json:"hips_min_cm"`
	HipsMaxCM  *float64 `json:"hips_max_cm"`
}

type ProductResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Category     string                `json:"category"`
	Fabric       string                `json:"fabric"`
	FitModel     string                `json:"fit_model"`
	Formality    int                   `json:"formality"`
	Price        float64               `json:"price"`
	Installments *int                  `json:"installments"`
	ProductURL   string                `json:"product_url"`
	Brand        string                `json:"brand"`
	Active       bool                  `json:"active"`
	Uri          *string               `json:"uri,omitempty"`
	Sizes        []ProductSizeResponse `json:"sizes"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

type ProductCreatedResponse struct {
	Product       ProductResponse `json:"product"`
	FileUploadUrl *string         `json:"file_upload_url,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

type CatalogController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *CatalogController) CatalogRoutes(g *echo.Group) {
	g.POST("/products", controller.CreateProduct)
	g.GET("/products", controller.ListProducts)
	g.POST("/products/:productId/deactivate", controller.DeactivateProduct)
}

func canManageCatalog(user models.UserAccount) bool {
	role := user.Memberships[0].Role
	return role == models.OWNER || role == models.ADMIN
}

func (controller *CatalogController) CreateProduct(c echo.Context) error {
	var req CreateProductIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	if !canManageCatalog(user) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Only owners and admins can manage the catalog"})
	}

	brand, err := getOrCreateBrand(db, req.Brand)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save the brand, please try again"})
	}

	product := models.StoreProduct{
		Name:         req.Name,
		Category:     req.Category,
		Fabric:       req.Fabric,
		FitModel:     req.FitModel,
		Formality:    req.Formality,
		Price:        req.Price,
		Installments: req.Installments,
		ProductURL:   req.ProductURL,
		Active:       true,
		BrandID:      brand.ID,
		CompanyID:    user.Memberships[0].CompanyID,
	}
	for i, size := range req.Sizes {
		product.Sizes = append(product.Sizes, models.ProductSize{
			Label:      size.Label,
			SortOrder:  i,
			ChestMinCM: size.ChestMinCM,
			ChestMaxCM: size.ChestMaxCM,
			WaistMinCM: size.WaistMinCM,
			WaistMaxCM: size.WaistMaxCM,
			HipsMinCM:  size.HipsMinCM,
			HipsMaxCM:  size.HipsMaxCM,
		})
	}

	var uploadUrl *string
	if req.FileName != nil && *req.FileName != "" {
		var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("catalog/%s", *req.FileName)
		url, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", product.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating product with attachment",
			})
		}
		product.ImageURL = &safeFileName
		uploadUrl = &url
	}

	if err := db.Create(&product).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	response := ProductCreatedResponse{
		Product:       productResponse(product, brand.Name, nil),
		FileUploadUrl: uploadUrl,
	}
	return c.JSON(http.StatusCreated, response)
}

func productResponse(product models.StoreProduct, brandName string, uri *string) ProductResponse {
	sizes := []ProductSizeResponse{}
	for _, size := range product.Sizes {
		sizes = append(sizes, ProductSizeResponse{
			ID:         size.ID,
			Label:      size.Label,
			ChestMinCM: size.ChestMinCM,
			ChestMaxCM: size.ChestMaxCM,
			WaistMinCM: size.WaistMinCM,
			WaistMaxCM: size.WaistMaxCM,
			HipsMinCM:  size.HipsMinCM,
			HipsMaxCM:  size.HipsMaxCM,
		})
	}
	return ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Category:     product.Category,
		Fabric:       product.Fabric,
		FitModel:     product.FitModel,
		Formality:    product.Formality,
		Price:        product.Price,
		Installments: product.Installments,
		ProductURL:   product.ProductURL,
		Brand:        brandName,
		Active:       product.Active,
		Uri:          uri,
		Sizes:        sizes,
		CreatedAt:    product.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    product.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (controller *CatalogController) ListProducts(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var products []models.StoreProduct
	query := db.Preload("Brand").Preload("Sizes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order, id")
	}).Where("company_id = ?", user.Memberships[0].CompanyID)
	if c.QueryParam("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("id").Find(&products).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch the catalog"})
	}

	processed := controller.populatePresignedProductImages(c.Request().Context(), products)
	return c.JSON(http.StatusOK, ProductListResponse{Products: processed})
}

func (controller *CatalogController) populatePresignedProductImages(ctx context.Context, products []models.StoreProduct) []ProductResponse {
	if len(products) == 0 {
		return []ProductResponse{}
	}

	var wg sync.WaitGroup
	processed := make([]ProductResponse, len(products))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, storeProduct := range products {
		wg.Add(1)
		go func(index int, product models.StoreProduct) {
			defer wg.Done()

			var imageUrl string
			if product.ImageURL != nil && *product.ImageURL != "" {
				objectKey := *product.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processed[index] = productResponse(product, product.Brand.Name, &imageUrl)
		}(i, storeProduct)
	}

	wg.Wait()
	return processed
}

func (controller *CatalogController) DeactivateProduct(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	if !canManageCatalog(user) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Only owners and admins can manage the catalog"})
	}

	var productId uint
	if err := echo.PathParamsBinder(c).Uint("productId", &productId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var product models.StoreProduct
	result := db.Where("id = ? AND company_id = ?", productId, user.Memberships[0].CompanyID).Take(&product)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	product.Active = false
	if err := db.Save(&product).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to deactivate the product, please try again"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "inactive"})
}
