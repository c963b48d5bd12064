package infrastructure

import (
	"context"

	"meadowberries/internal/app/reviews/entity"
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ProductProvider интерфейс внешнего каталога товаров
// Резолвит SKU во внутренний идентификатор товара
type ProductProvider interface {
	GetProductBySku(ctx context.Context, sku string) (*entity.CatalogProduct, error)
}
