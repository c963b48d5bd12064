package mocks

import (
	"context"
	"time"

	"meadowberries/internal/app/reviews/entity"

	"github.com/stretchr/testify/mock"
)

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProduct(ctx context.Context, productID int64, pageSize, currentPage int) ([]entity.ReviewListRow, error) {
	args := m.Called(ctx, productID, pageSize, currentPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReviewListRow), args.Error(1)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Aggregate(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

func (m *MockReviewRepository) ReviewIDsWithVotesSince(ctx context.Context, since time.Time) ([]int64, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockRatingVoteRepository мок для RatingVoteRepository
type MockRatingVoteRepository struct {
	mock.Mock
}

func (m *MockRatingVoteRepository) Record(ctx context.Context, vote *entity.RatingVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockRatingVoteRepository) FetchByReview(ctx context.Context, reviewID, storeID int64) ([]entity.RatingVoteInfo, error) {
	args := m.Called(ctx, reviewID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RatingVoteInfo), args.Error(1)
}

// MockProductProvider мок клиента Catalog Service
type MockProductProvider struct {
	mock.Mock
}

func (m *MockProductProvider) GetProductBySku(ctx context.Context, sku string) (*entity.CatalogProduct, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CatalogProduct), args.Error(1)
}

// MockProductCache мок кеша SKU -> ID товара
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) GetProductID(ctx context.Context, sku string) (int64, bool, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockProductCache) SetProductID(ctx context.Context, sku string, id int64, ttl time.Duration) error {
	args := m.Called(ctx, sku, id, ttl)
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
