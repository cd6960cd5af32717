package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"looksapi/dbhelper"
	"looksapi/models"
	"looksapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLooksOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)
	companyID := user.Memberships[0].CompanyID

	test.FakeWardrobeItem(db, user, "Linen shirt", "top", "100% linho")
	test.FakeWardrobeItem(db, user, "Chino trousers", "bottom", "97% algodão, 3% elastano")
	test.FakeWardrobeItem(db, user, "White sneakers", "shoes", "Couro")
	test.FakeProduct(db, companyID, "Oxford shirt", "top", 4)
	test.FakeProduct(db, companyID, "Wool trousers", "bottom", 4)
	test.FakeProduct(db, companyID, "Leather loafers", "shoes", 4)

	reqBody := GenerateLooksIn{
		OccasionDescription: "Client dinner downtown",
		ExpectedFormality:   4,
		Mode:                "consumer",
	}

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/company/%v/looks/generate", companyID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "Expected status code 201 Created, got %d: %s", rec.Code, rec.Body.String())

	var response GenerationResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "completed", response.Status)
	require.NotNil(t, response.Result)
	require.Len(t, response.Result.Looks, 3)
	for _, look := range response.Result.Looks {
		require.Equal(t, 4, look.Formality)
		require.NotEmpty(t, look.Items)
	}

	var saved models.LookGeneration
	require.NoError(t, db.First(&saved, response.GenerationID).Error)
	require.Equal(t, "completed", saved.Status)
	require.NotEmpty(t, saved.Fingerprint)
	require.NotNil(t, saved.ResultJSON)
	require.NotNil(t, saved.Duration)
}

func TestGenerateLooksSellerMode(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)
	companyID := user.Memberships[0].CompanyID

	// wardrobe must not leak into seller batches
	test.FakeWardrobeItem(db, user, "Linen shirt", "top", "100% linho")
	test.FakeProduct(db, companyID, "Oxford shirt", "top", 4)
	test.FakeProduct(db, companyID, "Wool trousers", "bottom", 4)
	test.FakeProduct(db, companyID, "Leather loafers", "shoes", 4)

	reqBody := GenerateLooksIn{
		OccasionDescription: "In-store styling session",
		ExpectedFormality:   4,
		Mode:                "seller",
	}

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/company/%v/looks/generate", companyID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "got %d: %s", rec.Code, rec.Body.String())

	var response GenerationResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.NotNil(t, response.Result)
	for _, look := range response.Result.Looks {
		for _, item := range look.Items {
			require.Nil(t, item.WardrobeItemID)
		}
	}
}

func TestGenerateLooksInvalidMode(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)

	reqBody := GenerateLooksIn{
		OccasionDescription: "Client dinner downtown",
		ExpectedFormality:   4,
		Mode:                "stylist",
	}

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/company/%v/looks/generate", user.Memberships[0].CompanyID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "Mode")
}

func TestGenerateLooksFreeLimit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	owner := test.FakeUserV2(db, nil, "Free Owner", "free-owner@example.com", models.OWNER)
	company := &models.Company{Name: "Free Store", Subscription: "free", OwnerID: owner.ID}
	db.Create(&company)
	user := test.FakeUser(db, company)

	for i := 0; i < 10; i++ {
		db.Create(&models.LookGeneration{
			UserAccountID:       user.ID,
			CompanyID:           company.ID,
			Mode:                "consumer",
			OccasionDescription: "old request",
			Status:              "completed",
		})
	}

	reqBody := GenerateLooksIn{
		OccasionDescription: "Client dinner downtown",
		ExpectedFormality:   4,
		Mode:                "consumer",
	}

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/company/%v/looks/generate", company.ID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGenerateLooksWrongCompanyForbidden(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)

	reqBody := GenerateLooksIn{
		OccasionDescription: "Client dinner downtown",
		ExpectedFormality:   4,
		Mode:                "consumer",
	}

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/company/%v/looks/generate", user.Memberships[0].CompanyID+100), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetGenerationOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)
	companyID := user.Memberships[0].CompanyID

	test.FakeWardrobeItem(db, user, "Linen shirt", "top", "100% linho")
	test.FakeWardrobeItem(db, user, "Chino trousers", "bottom", "97% algodão, 3% elastano")

	reqBody := GenerateLooksIn{
		OccasionDescription: "Casual brunch",
		ExpectedFormality:   2,
		Mode:                "consumer",
	}
	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/company/%v/looks/generate", companyID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = test.NewJSONAuthRequest("GET", fmt.Sprintf("/company/%v/looks/%v", companyID, created.GenerationID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, created.GenerationID, fetched.GenerationID)
	require.Equal(t, "completed", fetched.Status)
	require.NotNil(t, fetched.Result)
	require.Len(t, fetched.Result.Looks, 3)
}

func TestGetGenerationOfOtherUserNotFound(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)
	other := test.FakeUserV2(db, nil, "Other Owner", "other@example.com", models.OWNER)

	generation := models.LookGeneration{
		UserAccountID:       other.ID,
		CompanyID:           other.Memberships[0].CompanyID,
		Mode:                "consumer",
		OccasionDescription: "someone else's dinner",
		Status:              "completed",
	}
	db.Create(&generation)

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/company/%v/looks/%v", user.Memberships[0].CompanyID, generation.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGenerations(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, &test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, nil, nil)
	user := test.FakeUser(db, nil)
	companyID := user.Memberships[0].CompanyID

	for i := 0; i < 3; i++ {
		db.Create(&models.LookGeneration{
			UserAccountID:       user.ID,
			CompanyID:           companyID,
			Mode:                "consumer",
			OccasionDescription: fmt.Sprintf("occasion %d", i),
			Status:              "completed",
		})
	}

	req := test.NewJSONAuthRequest("GET", fmt.Sprintf("/company/%v/looks/list", companyID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response GenerationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Generations, 3)
	// newest first
	require.Equal(t, "occasion 2", response.Generations[0].OccasionDescription)
}
