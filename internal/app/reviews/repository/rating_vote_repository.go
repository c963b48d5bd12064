package repository

import (
	"context"
	"errors"
	"fmt"

	"meadowberries/internal/app/reviews/entity"
	"meadowberries/pkg/metrics"

	"gorm.io/gorm"
)

type ratingVoteRepository struct {
	db *gorm.DB
}

// NewRatingVoteRepository создает новый репозиторий голосов по шкалам оценок
func NewRatingVoteRepository(db *gorm.DB) RatingVoteRepository {
	return &ratingVoteRepository{db: db}
}

// Record сохраняет голос покупателя по одной шкале
// Числовое значение голоса берётся из выбранного варианта шкалы;
// неизвестный option_id не считается ошибкой - голос записывается со значением 0
// (проверку принадлежности варианта шкале этот путь сознательно не выполняет)
func (r *ratingVoteRepository) Record(ctx context.Context, vote *entity.RatingVote) error {
	timer := metrics.NewDbTimer(serviceName, "insert", "rating_option_votes")
	defer timer.ObserveDuration()

	var option entity.RatingOption
	err := r.db.WithContext(ctx).First(&option, "id = ?", vote.OptionID).Error
	if err == nil {
		vote.Value = option.Value
		vote.Percent = option.Value * 100 / 5
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.DbErrors.WithLabelValues(serviceName, "select").Inc()
		return fmt.Errorf("failed to resolve rating option: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "insert").Inc()
		return fmt.Errorf("failed to record rating vote: %w", err)
	}

	return nil
}

// FetchByReview получает голоса отзыва с метаданными шкал,
// отфильтрованные по видимости отзыва на витрине storeID
func (r *ratingVoteRepository) FetchByReview(ctx context.Context, reviewID, storeID int64) ([]entity.RatingVoteInfo, error) {
	timer := metrics.NewDbTimer(serviceName, "select", "rating_option_votes")
	defer timer.ObserveDuration()

	var votes []entity.RatingVoteInfo
	err := r.db.WithContext(ctx).
		Table("rating_option_votes").
		Select("rating_option_votes.id AS vote_id, rating_option_votes.rating_id, ratings.rating_code, rating_option_votes.option_id, rating_option_votes.value").
		Joins("JOIN ratings ON ratings.id = rating_option_votes.rating_id").
		Joins("JOIN review_stores ON review_stores.review_id = rating_option_votes.review_id AND review_stores.store_id = ?", storeID).
		Where("rating_option_votes.review_id = ?", reviewID).
		Order("rating_option_votes.id").
		Scan(&votes).Error

	if err != nil {
		metrics.DbErrors.WithLabelValues(serviceName, "select").Inc()
		return nil, fmt.Errorf("failed to fetch rating votes: %w", err)
	}

	return votes, nil
}
