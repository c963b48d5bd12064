package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"meadowberries/internal/app/reviews/entity"
	"meadowberries/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, session *entity.Session, req *entity.CreateReviewRequest) (*entity.Review, error)
	ListReviews(ctx context.Context, req *entity.ListReviewsRequest) (*entity.ListReviewsResponse, error)
}

type ReviewHandler struct {
	reviewService ReviewServiceInterface
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview обрабатывает POST /reviews
// Валидацию полей выполняет service layer: контракт API требует
// точных сообщений по каждому полю
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid session"})
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), session, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.CreateReviewResponse{
		Success: true,
		Item:    *review,
	})
}

// ListReviews обрабатывает GET /products/:product_id/reviews
// Нечисловые значения параметров не отклоняются транспортом:
// они приводятся к нулю и дают доменную ошибку валидации use case
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	productID, _ := strconv.ParseInt(c.Param("product_id"), 10, 64)
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	currentPage, _ := strconv.Atoi(c.DefaultQuery("currentPage", "1"))

	req := entity.ListReviewsRequest{
		ProductID:   productID,
		PageSize:    pageSize,
		CurrentPage: currentPage,
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondServiceError транслирует доменные ошибки в HTTP статусы
func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotAuthorized) {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "The current customer isn't authorized"})
		return
	}

	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: inputErr.Message, Field: inputErr.Field})
		return
	}

	var decodeErr *service.DecodeError
	if errors.As(err, &decodeErr) {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: decodeErr.Error(), Field: "ratings"})
		return
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: notFoundErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal server error"})
}

func sessionFromContext(c *gin.Context) *entity.Session {
	value, exists := c.Get("session")
	if !exists {
		return nil
	}

	session, ok := value.(*entity.Session)
	if !ok {
		return nil
	}

	return session
}
