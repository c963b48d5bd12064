package util

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"meadowberries/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName      = "reviews-service"
	productKeyPrefix = "product:sku"
)

// RedisClient кеш резолва SKU -> ID товара
// Снимает повторные запросы к Catalog Service при создании отзывов
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting оборачивает уже созданное соединение (для тестов с miniredis)
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// GetProductID возвращает закешированный ID товара по SKU
// Второй результат false при промахе кеша
func (r *RedisClient) GetProductID(ctx context.Context, sku string) (int64, bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	val, err := r.client.Get(ctx, productKey(sku)).Result()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, productKeyPrefix)
			return 0, false, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return 0, false, fmt.Errorf("failed to get product id from cache: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupted product id in cache: %w", err)
	}

	metrics.RecordCacheHit(serviceName, productKeyPrefix)
	return id, true, nil
}

// SetProductID кеширует ID товара по SKU с заданным TTL
func (r *RedisClient) SetProductID(ctx context.Context, sku string, id int64, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, productKey(sku), strconv.FormatInt(id, 10), ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set product id in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func productKey(sku string) string {
	return productKeyPrefix + ":" + sku
}
