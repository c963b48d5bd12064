package repository

import (
	"context"
	"time"

	"meadowberries/internal/app/reviews/entity"
)

// ReviewRepository определяет методы для работы с отзывами в PostgreSQL
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id int64) (*entity.Review, error)
	ListByProduct(ctx context.Context, productID int64, pageSize, currentPage int) ([]entity.ReviewListRow, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	Aggregate(ctx context.Context, reviewID int64) error
	ReviewIDsWithVotesSince(ctx context.Context, since time.Time) ([]int64, error)
}

// RatingVoteRepository определяет методы для работы с голосами по шкалам оценок
type RatingVoteRepository interface {
	Record(ctx context.Context, vote *entity.RatingVote) error
	FetchByReview(ctx context.Context, reviewID, storeID int64) ([]entity.RatingVoteInfo, error)
}
