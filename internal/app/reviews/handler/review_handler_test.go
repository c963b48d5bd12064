package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meadowberries/internal/app/reviews/entity"
	"meadowberries/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, session *entity.Session, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) ListReviews(ctx context.Context, req *entity.ListReviewsRequest) (*entity.ListReviewsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ListReviewsResponse), args.Error(1)
}

func setupTestRouter(svc ReviewServiceInterface, session *entity.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewReviewHandler(svc)

	injectSession := func(c *gin.Context) {
		if session != nil {
			c.Set("session", session)
		}
		c.Next()
	}

	router.POST("/reviews", injectSession, handler.CreateReview)
	router.GET("/products/:product_id/reviews", injectSession, handler.ListReviews)

	return router
}

func testSession(customerID int64) *entity.Session {
	return &entity.Session{IsCustomer: true, CustomerID: &customerID, StoreID: 1}
}

// ===================== CreateReview =====================

func TestCreateReviewHandler_Success(t *testing.T) {
	customerID := int64(7)
	review := &entity.Review{
		ID:            100,
		EntityPkValue: 42,
		StatusID:      entity.StatusPending,
		Nickname:      "Anna",
		Title:         "Great shirt",
		CustomerID:    &customerID,
		StoreID:       1,
		CreatedAt:     time.Now(),
		Sku:           "WS12-M-Blue",
		RatingVotes:   []entity.RatingVoteInfo{},
	}

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.CreateReviewRequest")).Return(review, nil)

	router := setupTestRouter(mockService, testSession(customerID))

	body, _ := json.Marshal(entity.CreateReviewRequest{Sku: "WS12-M-Blue", Nickname: "Anna", Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.CreateReviewResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, int64(100), response.Item.ID)
	assert.Equal(t, "WS12-M-Blue", response.Item.Sku)
}

func TestCreateReviewHandler_StatusSerializedAsText(t *testing.T) {
	customerID := int64(7)
	review := &entity.Review{ID: 100, StatusID: entity.StatusPending, Title: "Great shirt", RatingVotes: []entity.RatingVoteInfo{}}

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, mock.Anything, mock.Anything).Return(review, nil)

	router := setupTestRouter(mockService, testSession(customerID))

	body, _ := json.Marshal(entity.CreateReviewRequest{Sku: "WS12-M-Blue", Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
}

func TestCreateReviewHandler_Unauthorized(t *testing.T) {
	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrNotAuthorized)

	router := setupTestRouter(mockService, &entity.Session{IsCustomer: false, StoreID: 1})

	body, _ := json.Marshal(entity.CreateReviewRequest{Sku: "WS12-M-Blue", Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "isn't authorized")
}

func TestCreateReviewHandler_ValidationError(t *testing.T) {
	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.NewInputError("sku", "sku must not be empty"))

	router := setupTestRouter(mockService, testSession(7))

	body, _ := json.Marshal(entity.CreateReviewRequest{Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response entity.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "sku must not be empty", response.Error)
	assert.Equal(t, "sku", response.Field)
}

func TestCreateReviewHandler_ProductNotFound(t *testing.T) {
	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.NotFoundError{Sku: "NO-SUCH-SKU"})

	router := setupTestRouter(mockService, testSession(7))

	body, _ := json.Marshal(entity.CreateReviewRequest{Sku: "NO-SUCH-SKU", Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO-SUCH-SKU")
}

func TestCreateReviewHandler_DecodeError(t *testing.T) {
	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.DecodeError{Token: "!!!"})

	router := setupTestRouter(mockService, testSession(7))

	body, _ := json.Marshal(entity.CreateReviewRequest{Sku: "WS12-M-Blue", Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response entity.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ratings", response.Field)
}

func TestCreateReviewHandler_InvalidBody(t *testing.T) {
	mockService := new(MockReviewService)

	router := setupTestRouter(mockService, testSession(7))

	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandler_MissingSession(t *testing.T) {
	mockService := new(MockReviewService)

	router := setupTestRouter(mockService, nil)

	body, _ := json.Marshal(entity.CreateReviewRequest{Sku: "WS12-M-Blue", Title: "Great shirt"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ===================== ListReviews =====================

func TestListReviewsHandler_Success(t *testing.T) {
	rating := 4
	response := &entity.ListReviewsResponse{
		Items: []entity.ReviewListRow{
			{ReviewID: 1, Nickname: "Anna", Title: "Great shirt", StatusID: entity.StatusPending, Rating: &rating},
		},
		PageInfo: entity.PageInfo{PageSize: 20, CurrentPage: 1, TotalPages: 1},
	}

	mockService := new(MockReviewService)
	mockService.On("ListReviews", mock.Anything, mock.MatchedBy(func(req *entity.ListReviewsRequest) bool {
		return req.ProductID == 42 && req.PageSize == 20 && req.CurrentPage == 1
	})).Return(response, nil)

	router := setupTestRouter(mockService, nil)

	req, _ := http.NewRequest(http.MethodGet, "/products/42/reviews", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result entity.ListReviewsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.PageInfo.TotalPages)
}

func TestListReviewsHandler_QueryParams(t *testing.T) {
	response := &entity.ListReviewsResponse{
		Items:    []entity.ReviewListRow{},
		PageInfo: entity.PageInfo{PageSize: 2, CurrentPage: 3, TotalPages: 3},
	}

	mockService := new(MockReviewService)
	mockService.On("ListReviews", mock.Anything, mock.MatchedBy(func(req *entity.ListReviewsRequest) bool {
		return req.ProductID == 42 && req.PageSize == 2 && req.CurrentPage == 3
	})).Return(response, nil)

	router := setupTestRouter(mockService, nil)

	req, _ := http.NewRequest(http.MethodGet, "/products/42/reviews?pageSize=2&currentPage=3", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestListReviewsHandler_ValidationError(t *testing.T) {
	mockService := new(MockReviewService)
	mockService.On("ListReviews", mock.Anything, mock.Anything).
		Return(nil, service.NewInputError("currentPage", "currentPage value must be greater than 1"))

	router := setupTestRouter(mockService, nil)

	req, _ := http.NewRequest(http.MethodGet, "/products/42/reviews?currentPage=0", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response entity.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "currentPage value must be greater than 1", response.Error)
	assert.Equal(t, "currentPage", response.Field)
}

func TestListReviewsHandler_NonNumericProductID(t *testing.T) {
	// Нечисловой product_id приводится к нулю и отклоняется use case
	mockService := new(MockReviewService)
	mockService.On("ListReviews", mock.Anything, mock.MatchedBy(func(req *entity.ListReviewsRequest) bool {
		return req.ProductID == 0
	})).Return(nil, service.NewInputError("productId", "customerId value must not be empty"))

	router := setupTestRouter(mockService, nil)

	req, _ := http.NewRequest(http.MethodGet, "/products/abc/reviews", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "customerId value must not be empty")
}

func TestListReviewsHandler_InternalError(t *testing.T) {
	mockService := new(MockReviewService)
	mockService.On("ListReviews", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	router := setupTestRouter(mockService, nil)

	req, _ := http.NewRequest(http.MethodGet, "/products/42/reviews", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
