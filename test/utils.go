package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"looksapi/lookengine"
	"looksapi/models"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	log.Println(JsonString(param))
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewJSONAuthRequestRaw(method string, target string, userPk string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func Float64Pointer(f float64) *float64 {
	return &f
}

func NewRefString(data string) *string {
	return &data
}

func FakeUser(db *gorm.DB, company *models.Company) *models.UserAccount {
	user := &models.UserAccount{
		Name:             "OurName",
		Email:            "email@example.com",
		Platform:         models.PlatformIOS,
		LastIp:           "123.122.122.122",
		Status:           "FINISHED_AUTH",
		AvatarURL:        "pictureurl",
		BodyShape:        "rectangle",
		StylePreferences: "minimal,classic",
		ChestCM:          Float64Pointer(98),
		WaistCM:          Float64Pointer(78),
		HipsCM:           Float64Pointer(102),
		HeightCM:         Float64Pointer(170),
	}
	db.Create(&user)

	if company == nil {

		company = &models.Company{
			Name:         "My Store",
			OwnerID:      user.ID,
			Subscription: "pro",
		}
		db.Create(&company)
	}
	var user_membership = &models.UserCompanyRole{
		CompanyID:        company.ID,
		UserAccountID:    user.ID,
		Active:           true,
		InviteAcceptedAt: Int64Pointer(time.Now().UnixMilli()),
		Role:             "OWNER",
	}
	db.Save(&user)
	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU-rqG1sxS8_WCF5cGZchf",
		Active:        true,
	}
	db.Save(&tokenDb)
	db.Save(&user_membership)
	db.Preload("Memberships.Company").First(&user, user.ID)

	return user
}

func FakeUserV2(db *gorm.DB, company *models.Company, userName string, email string, role models.Role) *models.UserAccount {

	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{
		Name:      userName,
		Email:     email,
		Platform:  models.PlatformIOS,
		LastIp:    "123.122.122.122",
		Status:    "FINISHED_AUTH",
		AvatarURL: "pictureurl",
	}
	db.Create(&user)
	if company == nil {

		company = &models.Company{
			Name:    "My Store",
			OwnerID: user.ID,
		}
		db.Create(&company)
	}
	var user_membership = &models.UserCompanyRole{
		CompanyID:     company.ID,
		UserAccountID: user.ID,
		Active:        true,
		Role:          role,
	}
	db.Save(&user)
	db.Save(&user_membership)
	db.Preload("Memberships.Company").First(&user, user.ID)
	return user
}

func FakeBrand(db *gorm.DB, name string) *models.Brand {
	brand := &models.Brand{}
	db.Where(models.Brand{Name: name}).FirstOrCreate(&brand)
	return brand
}

func FakeWardrobeItem(db *gorm.DB, user *models.UserAccount, name string, category string, fabric string) *models.WardrobeClothing {
	brand := FakeBrand(db, "Reserva")
	item := &models.WardrobeClothing{
		Name:      name,
		Category:  category,
		Fabric:    fabric,
		BrandID:   brand.ID,
		Status:    "in_closet",
		OwnerID:   user.ID,
		CompanyID: user.Memberships[0].CompanyID,
	}
	db.Create(&item)
	return item
}

func FakeProduct(db *gorm.DB, companyId uint, name string, category string, formality int) *models.StoreProduct {
	brand := FakeBrand(db, "Aura")
	product := &models.StoreProduct{
		Name:       name,
		Category:   category,
		Fabric:     "97% algodão, 3% elastano",
		FitModel:   "Regular",
		Formality:  formality,
		Price:      199.90,
		ProductURL: fmt.Sprintf("https://store.example.com/products/%s", strings.ReplaceAll(strings.ToLower(name), " ", "-")),
		Active:     true,
		BrandID:    brand.ID,
		CompanyID:  companyId,
		Sizes: []models.ProductSize{
			{Label: "M", SortOrder: 0, ChestMinCM: Float64Pointer(96), ChestMaxCM: Float64Pointer(104)},
			{Label: "L", SortOrder: 1, ChestMinCM: Float64Pointer(104), ChestMaxCM: Float64Pointer(112)},
		},
	}
	db.Create(&product)
	return product
}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {

	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

type URLCacheMock struct {
	MockUrl string
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return m.MockUrl, nil
}

// MockCopyRefiner rewrites look titles with a fixed prefix, close enough to
// what the LLM refinement does without the round trip.
type MockCopyRefiner struct {
	Calls int
}

func (m *MockCopyRefiner) RefineCopy(ctx context.Context, input lookengine.GenerateInput, output lookengine.GenerateOutput) (lookengine.GenerateOutput, error) {
	m.Calls++
	for i := range output.Looks {
		output.Looks[i].Title = "Refined: " + output.Looks[i].Title
	}
	return output, nil
}
