package service

import (
	"context"
	"time"

	"meadowberries/internal/app/reviews/entity"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, session *entity.Session, req *entity.CreateReviewRequest) (*entity.Review, error)
	ListReviews(ctx context.Context, req *entity.ListReviewsRequest) (*entity.ListReviewsResponse, error)
	RecomputeAggregate(ctx context.Context, reviewID int64) error
	RecomputeRecentAggregates(ctx context.Context, window time.Duration) (int, error)
}

// ProductCache кеш резолва SKU -> ID товара (Redis)
// Промах кеша не является ошибкой
type ProductCache interface {
	GetProductID(ctx context.Context, sku string) (int64, bool, error)
	SetProductID(ctx context.Context, sku string, id int64, ttl time.Duration) error
}
