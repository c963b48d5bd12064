package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meadowberries/internal/app/reviews/entity"
	"meadowberries/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const serviceName = "reviews-service"

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound = errors.New("review not found")
)

type reviewRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create создает отзыв вместе с привязками к витринам (review_stores)
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	timer := metrics.NewDbTimer(serviceName, "insert", "reviews")
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "insert").Inc()
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID получает отзыв по ID
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).First(&review, "review_id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", result.Error)
	}

	return &review, nil
}

// ListByProduct получает страницу отзывов товара с LEFT JOIN по голосам
// Join построчный: отзыв с N голосами даёт N строк, каждая со своим rating;
// limit/offset применяются к развёрнутой выборке
func (r *reviewRepository) ListByProduct(ctx context.Context, productID int64, pageSize, currentPage int) ([]entity.ReviewListRow, error) {
	timer := metrics.NewDbTimer(serviceName, "select", "reviews")
	defer timer.ObserveDuration()

	offset := (currentPage - 1) * pageSize

	var rows []entity.ReviewListRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.review_id, reviews.nickname, reviews.title, reviews.detail, reviews.status_id, reviews.created_at, rating_option_votes.value AS rating").
		Joins("LEFT JOIN rating_option_votes ON rating_option_votes.review_id = reviews.review_id").
		Where("reviews.entity_pk_value = ?", productID).
		Order("reviews.review_id, rating_option_votes.id").
		Limit(pageSize).
		Offset(offset).
		Scan(&rows).Error

	if err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "select").Inc()
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return rows, nil
}

// CountByProduct возвращает количество отзывов товара (без учёта join-развёртки)
func (r *reviewRepository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("entity_pk_value = ?", productID).
		Count(&count).Error

	if err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "select").Inc()
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	return count, nil
}

// Aggregate пересчитывает сводный рейтинг отзыва по всем его голосам
// и сохраняет результат в review_aggregates (upsert по review_id)
func (r *reviewRepository) Aggregate(ctx context.Context, reviewID int64) error {
	timer := metrics.NewDbTimer(serviceName, "upsert", "review_aggregates")
	defer timer.ObserveDuration()

	review, err := r.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	var totals struct {
		VoteCount int64
		RatingSum int64
	}
	err = r.db.WithContext(ctx).
		Model(&entity.RatingVote{}).
		Select("COUNT(*) AS vote_count, COALESCE(SUM(value), 0) AS rating_sum").
		Where("review_id = ?", reviewID).
		Scan(&totals).Error
	if err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "select").Inc()
		return fmt.Errorf("failed to sum votes: %w", err)
	}

	// Процент от максимума: каждая шкала даёт до 5 баллов
	var percent float64
	if totals.VoteCount > 0 {
		percent = float64(totals.RatingSum) / float64(totals.VoteCount*5) * 100
	}

	aggregate := entity.ReviewAggregate{
		ReviewID:      reviewID,
		EntityPkValue: review.EntityPkValue,
		StoreID:       review.StoreID,
		VoteCount:     int(totals.VoteCount),
		RatingSum:     int(totals.RatingSum),
		Percent:       percent,
		UpdatedAt:     time.Now(),
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"entity_pk_value", "store_id", "vote_count", "rating_sum", "percent", "updated_at"}),
		}).
		Create(&aggregate).Error
	if err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "upsert").Inc()
		return fmt.Errorf("failed to store review aggregate: %w", err)
	}

	return nil
}

// ReviewIDsWithVotesSince возвращает отзывы, получившие голоса после заданного момента
// Используется фоновым пересчётом сводных рейтингов
func (r *reviewRepository) ReviewIDsWithVotesSince(ctx context.Context, since time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entity.RatingVote{}).
		Where("created_at >= ?", since).
		Distinct().
		Pluck("review_id", &ids).Error

	if err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "select").Inc()
		return nil, fmt.Errorf("failed to find reviews with recent votes: %w", err)
	}

	return ids, nil
}
