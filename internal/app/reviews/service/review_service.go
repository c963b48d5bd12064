package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"meadowberries/internal/app/reviews/entity"
	"meadowberries/internal/app/reviews/infrastructure"
	cataloghttp "meadowberries/internal/app/reviews/infrastructure/http"
	"meadowberries/internal/app/reviews/repository"
	"meadowberries/pkg/logger"
	"meadowberries/pkg/metrics"
)

// TTL кеша резолва SKU: товары каталога переименовываются, но не меняют ID
const productCacheTTL = 15 * time.Minute

// ReviewService обрабатывает бизнес-логику отзывов и оценок
// Координирует репозитории, Catalog Service, Redis-кеш и Kafka
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	voteRepo      repository.RatingVoteRepository
	catalogClient infrastructure.ProductProvider
	productCache  ProductCache
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	voteRepo repository.RatingVoteRepository,
	catalogClient infrastructure.ProductProvider,
	productCache ProductCache,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		voteRepo:      voteRepo,
		catalogClient: catalogClient,
		productCache:  productCache,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает отзыв о товаре вместе с голосами по шкалам оценок
// 1. Валидирует вход (авторизация, sku, title)
// 2. Резолвит SKU во внутренний ID товара (кеш -> Catalog Service)
// 3. Сохраняет отзыв со статусом PENDING
// 4. Записывает голоса в порядке их передачи, без дедупликации
// 5. Пересчитывает сводный рейтинг отзыва
// 6. Дочитывает голоса с метаданными шкал для ответа
// 7. Отправляет событие REVIEW_CREATED в Kafka
// Отката нет: если шаги после сохранения отзыва падают, отзыв остаётся в БД
func (s *ReviewService) CreateReview(ctx context.Context, session *entity.Session, req *entity.CreateReviewRequest) (*entity.Review, error) {
	if err := validateCreateInput(session, req); err != nil {
		return nil, err
	}

	// Токены шкал декодируем до любой записи в БД:
	// битый токен отклоняет весь запрос целиком
	ratingIDs := make([]int64, len(req.Ratings))
	for i, rating := range req.Ratings {
		ratingID, err := decodeRatingID(rating.ID)
		if err != nil {
			return nil, err
		}
		ratingIDs[i] = ratingID
	}

	productID, err := s.resolveProductID(ctx, req.Sku)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		EntityCode:    entity.EntityProductCode,
		EntityPkValue: productID,
		StatusID:      entity.StatusPending,
		Nickname:      req.Nickname,
		Title:         req.Title,
		Detail:        req.Details,
		CustomerID:    session.CustomerID,
		StoreID:       session.StoreID,
		IsFeatured:    false,
		Stores:        []entity.ReviewStore{{StoreID: session.StoreID}},
	}
	if req.Email != "" {
		email := req.Email
		review.Email = &email
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	for i, rating := range req.Ratings {
		vote := &entity.RatingVote{
			RatingID:      ratingIDs[i],
			ReviewID:      review.ID,
			CustomerID:    session.CustomerID,
			OptionID:      rating.ValueID,
			EntityPkValue: productID,
		}
		if err := s.voteRepo.Record(ctx, vote); err != nil {
			return nil, fmt.Errorf("failed to record rating vote: %w", err)
		}
		metrics.ReviewVotesRecorded.Inc()
	}

	if err := s.reviewRepo.Aggregate(ctx, review.ID); err != nil {
		return nil, fmt.Errorf("failed to aggregate review rating: %w", err)
	}
	metrics.ReviewAggregations.WithLabelValues("create").Inc()

	votes, err := s.voteRepo.FetchByReview(ctx, review.ID, session.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rating votes: %w", err)
	}
	if votes == nil {
		votes = []entity.RatingVoteInfo{}
	}
	review.RatingVotes = votes
	review.Sku = req.Sku

	for _, vote := range votes {
		metrics.ReviewsRating.Observe(float64(vote.Value))
	}
	metrics.ReviewsCreated.Inc()

	event := entity.ReviewEvent{
		EventType:  "REVIEW_CREATED",
		ReviewID:   review.ID,
		ProductID:  productID,
		CustomerID: session.CustomerID,
		StoreID:    session.StoreID,
		VoteCount:  len(votes),
		Timestamp:  time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		// Отзыв уже создан, проблемы с Kafka не критичны
		logger.Warn().Err(err).Int64("review_id", review.ID).Msg("Failed to publish review created event")
	}

	return review, nil
}

// ListReviews возвращает страницу отзывов товара с построчно присоединёнными
// значениями голосов и сведениями о пагинации
func (s *ReviewService) ListReviews(ctx context.Context, req *entity.ListReviewsRequest) (*entity.ListReviewsResponse, error) {
	if err := validateListInput(req); err != nil {
		return nil, err
	}

	total, err := s.reviewRepo.CountByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	items, err := s.reviewRepo.ListByProduct(ctx, req.ProductID, req.PageSize, req.CurrentPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if items == nil {
		items = []entity.ReviewListRow{}
	}

	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))

	return &entity.ListReviewsResponse{
		Items: items,
		PageInfo: entity.PageInfo{
			PageSize:    req.PageSize,
			CurrentPage: req.CurrentPage,
			TotalPages:  totalPages,
		},
	}, nil
}

// RecomputeAggregate пересчитывает сводный рейтинг одного отзыва
// Выделен в отдельную операцию, чтобы пересчёт можно было вызывать
// независимо от пути создания (фоновый процессор, ручная сверка)
func (s *ReviewService) RecomputeAggregate(ctx context.Context, reviewID int64) error {
	if err := s.reviewRepo.Aggregate(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to recompute review aggregate: %w", err)
	}
	return nil
}

// RecomputeRecentAggregates пересчитывает сводные рейтинги всех отзывов,
// получивших голоса за последнее окно; возвращает число обработанных отзывов
func (s *ReviewService) RecomputeRecentAggregates(ctx context.Context, window time.Duration) (int, error) {
	since := time.Now().Add(-window)

	ids, err := s.reviewRepo.ReviewIDsWithVotesSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("failed to find reviews for re-aggregation: %w", err)
	}

	processed := 0
	for _, id := range ids {
		if err := s.reviewRepo.Aggregate(ctx, id); err != nil {
			logger.Warn().Err(err).Int64("review_id", id).Msg("Failed to re-aggregate review")
			continue
		}
		metrics.ReviewAggregations.WithLabelValues("cron").Inc()
		processed++
	}

	return processed, nil
}

// resolveProductID резолвит SKU во внутренний ID товара
// Сначала Redis-кеш, затем Catalog Service; ошибки кеша не фатальны
func (s *ReviewService) resolveProductID(ctx context.Context, sku string) (int64, error) {
	if id, ok, err := s.productCache.GetProductID(ctx, sku); err != nil {
		logger.Warn().Err(err).Str("sku", sku).Msg("Product cache lookup failed")
	} else if ok {
		return id, nil
	}

	product, err := s.catalogClient.GetProductBySku(ctx, sku)
	if err != nil {
		if errors.Is(err, cataloghttp.ErrProductNotFound) {
			return 0, &NotFoundError{Sku: sku}
		}
		return 0, fmt.Errorf("failed to resolve sku: %w", err)
	}

	if err := s.productCache.SetProductID(ctx, sku, product.ID, productCacheTTL); err != nil {
		logger.Warn().Err(err).Str("sku", sku).Msg("Failed to cache product id")
	}

	return product.ID, nil
}

// validateCreateInput проверки выполняются строго по порядку: первая ошибка выигрывает
// Поля nickname/details/ratings на пустоту не проверяются (совместимость со старым API)
func validateCreateInput(session *entity.Session, req *entity.CreateReviewRequest) error {
	if !session.IsCustomer {
		return ErrNotAuthorized
	}
	if req.Sku == "" {
		return NewInputError("sku", "sku must not be empty")
	}
	if req.Title == "" {
		return NewInputError("title", "title must not be empty")
	}
	return nil
}

// validateListInput проверки независимы друг от друга
// Тексты сообщений сохранены дословно ради совместимости со старым API:
// обе числовые границы читаются как "greater than 1" при фактическом пороге >= 1,
// а сообщение для productId упоминает customerId
func validateListInput(req *entity.ListReviewsRequest) error {
	if req.CurrentPage < 1 {
		return NewInputError("currentPage", "currentPage value must be greater than 1")
	}
	if req.PageSize < 1 {
		return NewInputError("pageSize", "pageSize value must be greater than 1")
	}
	if req.ProductID == 0 {
		return NewInputError("productId", "customerId value must not be empty")
	}
	return nil
}

// decodeRatingID декодирует непрозрачный base64-токен шкалы во внутренний ID
func decodeRatingID(token string) (int64, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, &DecodeError{Token: token}
	}

	id, err := strconv.ParseInt(string(decoded), 10, 64)
	if err != nil {
		return 0, &DecodeError{Token: token}
	}

	return id, nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// Ключ = ReviewID для партиционирования
	key := strconv.FormatInt(event.ReviewID, 10)
	if err := s.kafkaProducer.PublishMessage(ctx, key, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
