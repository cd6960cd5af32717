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

type CreateWardrobeItemIn struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Category string  `json:"category" validate:"required,oneof=top bottom shoes accessory dress jumpsuit"`
	Fabric   string  `json:"fabric" validate:"omitempty,max=200"`
	Brand    string  `json:"brand" validate:"omitempty,max=100"`
	FileName *string `json:"file_name" validate:"omitempty,max=200"`
}

type WardrobeItemResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Fabric    string  `json:"fabric"`
	Brand     string  `json:"brand"`
	Status    string  `json:"status"`
	Uri       *string `json:"uri,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type WardrobeItemCreatedResponse struct {
	Item          WardrobeItemResponse `json:"item"`
	FileUploadUrl *string              `json:"file_upload_url,omitempty"`
}

type WardrobeListResponse struct {
	Tops        []WardrobeItemResponse `json:"tops"`
	Bottoms     []WardrobeItemResponse `json:"bottoms"`
	Shoes       []WardrobeItemResponse `json:"shoes"`
	Accessories []WardrobeItemResponse `json:"accessories"`
	OnePieces   []WardrobeItemResponse `json:"one_pieces"`
}

type WardrobeController struct {
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/create", controller.CreateWardrobeItem)
	g.GET("/list", controller.ListWardrobe)
	g.POST("/:itemId/closet", controller.MoveToCloset)
}

func getOrCreateBrand(db *gorm.DB, name string) (models.Brand, error) {
	var brand models.Brand
	if name == "" {
		name = "Unknown"
	}
	err := db.Where(models.Brand{Name: name}).FirstOrCreate(&brand).Error
	return brand, err
}

func (controller *WardrobeController) CreateWardrobeItem(c echo.Context) error {
	var req CreateWardrobeItemIn
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

	company := user.Memberships[0].Company
	if string(company.Subscription) == "free" {
		var totalItemCount int64
		if err := db.Model(&models.WardrobeClothing{}).Where("owner_id = ? AND company_id = ?", user.ID, company.ID).Count(&totalItemCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get wardrobe data"})
		}
		fmt.Printf("[User %v] Free plan, wardrobe count: %v", user.ID, totalItemCount)
		if totalItemCount >= 20 {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "You have reached the free limit of 20 wardrobe pieces, please subscribe"})
		}
	}

	brand, err := getOrCreateBrand(db, req.Brand)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save the brand, please try again"})
	}

	item := models.WardrobeClothing{
		Name:      req.Name,
		Category:  req.Category,
		Fabric:    req.Fabric,
		BrandID:   brand.ID,
		Status:    "in_closet",
		OwnerID:   user.ID,
		CompanyID: user.Memberships[0].CompanyID,
	}

	var uploadUrl *string
	if req.FileName != nil && *req.FileName != "" {
		var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("wardrobe/%s", *req.FileName)
		url, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating wardrobe piece with attachment",
			})
		}
		item.ImageURL = &safeFileName
		item.Status = "temporary"
		uploadUrl = &url
	}

	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	response := WardrobeItemCreatedResponse{
		Item: WardrobeItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Category:  item.Category,
			Fabric:    item.Fabric,
			Brand:     brand.Name,
			Status:    item.Status,
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z"),
			UpdatedAt: item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		},
		FileUploadUrl: uploadUrl,
	}

	return c.JSON(http.StatusCreated, response)
}

// MoveToCloset confirms the image upload finished and makes a temporary
// piece visible to composition.
func (controller *WardrobeController) MoveToCloset(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var item models.WardrobeClothing
	result := db.Where("id = ? AND owner_id = ? AND company_id = ?", itemId, user.ID, user.Memberships[0].CompanyID).Take(&item)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Wardrobe piece not found"})
	}

	item.Status = "in_closet"
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update the piece, please try again"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": item.Status})
}

// populatePresignedWardrobeImages enriches raw wardrobe models with presigned
// read urls concurrently, falling back to a direct R2 call when the cache
// layer itself fails.
func (controller *WardrobeController) populatePresignedWardrobeImages(ctx context.Context, items []models.WardrobeClothing) []WardrobeItemResponse {
	if len(items) == 0 {
		return []WardrobeItemResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]WardrobeItemResponse, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, wardrobeItem := range items {
		wg.Add(1)
		go func(index int, item models.WardrobeClothing) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

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
			processedResponses[index] = WardrobeItemResponse{
				ID:        item.ID,
				Name:      item.Name,
				Category:  item.Category,
				Fabric:    item.Fabric,
				Brand:     item.Brand.Name,
				Status:    item.Status,
				CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z"),
				UpdatedAt: item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
				Uri:       &imageUrl,
			}
		}(i, wardrobeItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *WardrobeController) ListWardrobe(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var items []models.WardrobeClothing
	if err := db.Preload("Brand").Where("owner_id = ? AND company_id = ?", user.ID, user.Memberships[0].CompanyID).Order("id").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}

	processedResponses := controller.populatePresignedWardrobeImages(c.Request().Context(), items)

	response := WardrobeListResponse{
		Tops:        []WardrobeItemResponse{},
		Bottoms:     []WardrobeItemResponse{},
		Shoes:       []WardrobeItemResponse{},
		Accessories: []WardrobeItemResponse{},
		OnePieces:   []WardrobeItemResponse{},
	}

	for _, resp := range processedResponses {
		switch resp.Category {
		case "top":
			response.Tops = append(response.Tops, resp)
		case "bottom":
			response.Bottoms = append(response.Bottoms, resp)
		case "shoes":
			response.Shoes = append(response.Shoes, resp)
		case "accessory":
			response.Accessories = append(response.Accessories, resp)
		case "dress", "jumpsuit":
			response.OnePieces = append(response.OnePieces, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}
