package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"looksapi/lookengine"
	"looksapi/models"
	"looksapi/services"
	"looksapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type GenerateLooksIn struct {
	OccasionDescription string `json:"occasion_description" validate:"required,max=500"`
	ExpectedFormality   int    `json:"expected_formality"`
	Mode                string `json:"mode" validate:"required,oneof=consumer seller"`
	SmartCopy           bool   `json:"smart_copy"`
}

type GenerationResponse struct {
	GenerationID uint                       `json:"generation_id"`
	Status       string                     `json:"status"`
	ErrorMessage *string                    `json:"error_message,omitempty"`
	Duration     *float64                   `json:"duration,omitempty"`
	Result       *lookengine.GenerateOutput `json:"result,omitempty"`
}

type GenerationSummary struct {
	GenerationID        uint   `json:"generation_id"`
	OccasionDescription string `json:"occasion_description"`
	Mode                string `json:"mode"`
	Status              string `json:"status"`
	CreatedAt           string `json:"created_at"`
}

type GenerationListResponse struct {
	Generations []GenerationSummary `json:"generations"`
}

type LooksController struct {
	FirebaseApp *firebase.App
	Refiner     lookengine.CopyRefiner
	ResultStore lookengine.ResultStore
}

func (controller *LooksController) LookRoutes(g *echo.Group) {
	g.POST("/generate", controller.GenerateLooks)
	g.GET("/list", controller.ListGenerations)
	g.GET("/:generationId", controller.GetGeneration)
}

func (controller *LooksController) GenerateLooks(c echo.Context) error {
	var req GenerateLooksIn
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
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	company := user.Memberships[0].Company
	if string(company.Subscription) == "free" {
		var totalGenerationCount int64
		if err := db.Model(&models.LookGeneration{}).Where("company_id = ?", company.ID).Count(&totalGenerationCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get generation data"})
		}
		fmt.Printf("[User %v] Free plan, generation count: %v", user.ID, totalGenerationCount)
		if totalGenerationCount >= 10 {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "You have reached the free limit of total 10 look generations, please subscribe"})
		}
	}

	if company.EnforcedDailyGenerationLimit != nil {
		var dailyGenerationCount int64
		today := time.Now().UTC().Format("2006-01-02")
		if err := db.Model(&models.LookGeneration{}).Where("company_id = ? AND DATE(created_at) = ?", company.ID, today).Count(&dailyGenerationCount).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get generation data"})
		}
		fmt.Printf("[User %v] Enforced daily limit, generation count: %v", user.ID, dailyGenerationCount)
		if dailyGenerationCount >= int64(*company.EnforcedDailyGenerationLimit) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": fmt.Sprintf("You have reached the limit of %v daily generations. Please wait for the next day.", *company.EnforcedDailyGenerationLimit)})
		}
	}

	occasion := lookengine.Occasion{
		Description:       req.OccasionDescription,
		ExpectedFormality: req.ExpectedFormality,
	}
	input, err := services.BuildGenerateInput(db, user, company.ID, occasion, lookengine.Mode(req.Mode), req.SmartCopy)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load your wardrobe and catalog, please try again"})
	}

	generation := models.LookGeneration{
		UserAccountID:       user.ID,
		CompanyID:           company.ID,
		Mode:                req.Mode,
		OccasionDescription: req.OccasionDescription,
		ExpectedFormality:   req.ExpectedFormality,
		SmartCopy:           req.SmartCopy,
		Fingerprint:         lookengine.Fingerprint(input),
		Status:              "pending",
	}
	if err := db.Create(&generation).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start generation, please try again"})
	}

	if req.SmartCopy {
		// copy refinement goes through the LLM, keep it off the request cycle
		task, err := tasks.NewLookGenerationTask(generation.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start generation, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not start generation, please try again"})
		}
		fmt.Println("[Queue] Look generation task submitted, Generation ID: ", generation.ID, " Task ID: ", info.ID)
		return c.JSON(http.StatusAccepted, GenerationResponse{
			GenerationID: generation.ID,
			Status:       generation.Status,
		})
	}

	pipeline := &lookengine.Pipeline{Store: controller.ResultStore}
	started := time.Now()
	output, err := pipeline.Generate(c.Request().Context(), input)
	if err != nil {
		sentry.CaptureException(err)
		generation.Status = "failed"
		generation.ErrorMessage = services.StrPointer("Could not compose your looks, please try again")
		db.Save(&generation)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not compose your looks, please try again"})
	}

	resultJSON, err := json.Marshal(output)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not store your looks, please try again"})
	}
	duration := time.Since(started).Seconds()
	generation.Status = "completed"
	generation.ResultJSON = services.StrPointer(string(resultJSON))
	generation.Duration = &duration
	if err := db.Save(&generation).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not store your looks, please try again"})
	}

	return c.JSON(http.StatusCreated, GenerationResponse{
		GenerationID: generation.ID,
		Status:       generation.Status,
		Duration:     generation.Duration,
		Result:       &output,
	})
}

func (controller *LooksController) GetGeneration(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	var generationId uint
	if err := echo.PathParamsBinder(c).Uint("generationId", &generationId).BindError(); err != nil {
		return echo.ErrBadRequest
	}

	var generation models.LookGeneration
	result := db.Where("id = ? AND user_account_id = ? AND company_id = ?", generationId, user.ID, user.Memberships[0].CompanyID).Take(&generation)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Generation not found"})
	}

	response := GenerationResponse{
		GenerationID: generation.ID,
		Status:       generation.Status,
		ErrorMessage: generation.ErrorMessage,
		Duration:     generation.Duration,
	}
	if generation.Status == "completed" && generation.ResultJSON != nil {
		var output lookengine.GenerateOutput
		if err := json.Unmarshal([]byte(*generation.ResultJSON), &output); err != nil {
			sentry.CaptureException(fmt.Errorf("[Generation: %v] Stored result does not parse: %w", generation.ID, err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Stored looks are unreadable, please generate again"})
		}
		response.Result = &output
	}
	return c.JSON(http.StatusOK, response)
}

func (controller *LooksController) ListGenerations(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var generations []models.LookGeneration
	if err := db.Where("user_account_id = ? AND company_id = ?", user.ID, user.Memberships[0].CompanyID).
		Order("id desc").Limit(20).Find(&generations).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch generations"})
	}

	response := GenerationListResponse{Generations: []GenerationSummary{}}
	for _, generation := range generations {
		response.Generations = append(response.Generations, GenerationSummary{
			GenerationID:        generation.ID,
			OccasionDescription: generation.OccasionDescription,
			Mode:                generation.Mode,
			Status:              generation.Status,
			CreatedAt:           generation.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return c.JSON(http.StatusOK, response)
}
