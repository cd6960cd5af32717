package controllers

import (
	"context"
	"log"
	"net/http"
	"os"

	"looksapi/lookengine"
	"looksapi/models"
	"looksapi/services"

	firebase "firebase.google.com/go/v4"
	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		// Optionally, you could return the error to give each route more control over the status code
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	db *gorm.DB,
	awsService services.AWSServiceProvider,
	firebaseApp *firebase.App,
	asynqClient *asynq.Client,
	asynqInspector *asynq.Inspector,
	urlCache services.URLCacheServiceProvider,
	refiner lookengine.CopyRefiner,
	resultStore lookengine.ResultStore,
) *echo.Echo {

	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize AWS provider: S3")
	}

	e := echo.New()
	v := validator.New()
	v.RegisterValidation("platform", models.ValidatePlatform)
	v.RegisterValidation("role", models.ValidateRole)
	e.Validator = &CustomValidator{validator: v}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			c.Set("__asynqclient", asynqClient)
			c.Set("__asynqinspector", asynqInspector)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	companyGroup := e.Group("/company/:companyId", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserCompanyMiddleware)

	wardrobeController := WardrobeController{AWSService: awsService, URLCache: urlCache}
	wardrobeGroup := companyGroup.Group("/wardrobe")
	wardrobeController.WardrobeRoutes(wardrobeGroup)

	catalogController := CatalogController{AWSService: awsService, URLCache: urlCache}
	catalogGroup := companyGroup.Group("/catalog")
	catalogController.CatalogRoutes(catalogGroup)

	looksController := LooksController{FirebaseApp: firebaseApp, Refiner: refiner, ResultStore: resultStore}
	looksGroup := companyGroup.Group("/looks")
	looksController.LookRoutes(looksGroup)

	return e
}
