//go:build e2e

package e2e

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"meadowberries/internal/app/reviews/entity"
	"meadowberries/internal/app/reviews/handler"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const BaseURL = "http://localhost:8083"

// Тесты подписывают собственный токен покупателя; секрет должен совпадать
// с JWT_SECRET запущенного сервиса
func customerToken(t *testing.T) string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key-change-this-in-production"
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &handler.JWTClaims{
		CustomerID: 7,
		Email:      "e2e@example.com",
		IsCustomer: true,
		StoreID:    1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authHeaders(t *testing.T) http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+customerToken(t))
	return headers
}

func ratingToken(id int64) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d", id)))
}

// SKU должен существовать в запущенном Catalog Service
func testSku() string {
	if sku := os.Getenv("E2E_PRODUCT_SKU"); sku != "" {
		return sku
	}
	return "WS12-M-Blue"
}

func TestFullReviewFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	// Create
	createReq := entity.CreateReviewRequest{
		Sku:      testSku(),
		Nickname: "E2E",
		Title:    "E2E review",
		Details:  "Created by the end-to-end flow test.",
		Ratings:  []entity.RatingInput{{ID: ratingToken(1), ValueID: 4}},
	}
	body, _ := json.Marshal(createReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/reviews", bytes.NewBuffer(body))
	req.Header = authHeaders(t)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created entity.CreateReviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.True(t, created.Success)
	assert.NotZero(t, created.Item.ID)
	productID := created.Item.EntityPkValue

	// List
	listURL := fmt.Sprintf("%s/products/%d/reviews", BaseURL, productID)
	resp, err = client.Get(listURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listResp entity.ListReviewsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
	assert.NotEmpty(t, listResp.Items)
	assert.GreaterOrEqual(t, listResp.PageInfo.TotalPages, 1)
}

func TestCreateReview_Unauthorized(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	createReq := entity.CreateReviewRequest{Sku: testSku(), Title: "Guest attempt"}
	body, _ := json.Marshal(createReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateReview_ValidationErrors(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	testCases := []struct {
		name    string
		request map[string]interface{}
	}{
		{
			name: "Empty sku",
			request: map[string]interface{}{
				"title": "Review without sku",
			},
		},
		{
			name: "Empty title",
			request: map[string]interface{}{
				"sku": testSku(),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.request)

			req, _ := http.NewRequest(http.MethodPost, BaseURL+"/reviews", bytes.NewBuffer(body))
			req.Header = authHeaders(t)

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateReview_UnknownSku(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	createReq := entity.CreateReviewRequest{Sku: "E2E-NO-SUCH-SKU", Title: "Unknown product"}
	body, _ := json.Marshal(createReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/reviews", bytes.NewBuffer(body))
	req.Header = authHeaders(t)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListReviews_InvalidPagination(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + "/products/1/reviews?currentPage=0")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp entity.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "currentPage value must be greater than 1", errResp.Error)
}

func TestHealthCheck(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
