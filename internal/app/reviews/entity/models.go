package entity

import (
	"time"
)

// Код типа сущности, к которой привязываются отзывы
// Сервис работает только с товарами каталога
const EntityProductCode = "product"

// ReviewStatus статус модерации отзыва
type ReviewStatus int

const (
	StatusApproved    ReviewStatus = 1
	StatusPending     ReviewStatus = 2
	StatusNotApproved ReviewStatus = 3
)

// MarshalText сериализует статус в строковое представление для API
func (s ReviewStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s ReviewStatus) String() string {
	switch s {
	case StatusApproved:
		return "APPROVED"
	case StatusNotApproved:
		return "NOT_APPROVED"
	default:
		return "PENDING"
	}
}

// Review отзыв покупателя о товаре
// Публичный путь создания всегда даёт статус PENDING (до модерации)
type Review struct {
	ID            int64        `json:"id" gorm:"column:review_id;primaryKey;autoIncrement"`
	EntityCode    string       `json:"-" gorm:"column:entity_code"`
	EntityPkValue int64        `json:"product_id" gorm:"column:entity_pk_value;index"` // ID товара из Catalog Service
	StatusID      ReviewStatus `json:"status" gorm:"column:status_id"`
	Nickname      string       `json:"nickname" gorm:"column:nickname"`
	Title         string       `json:"title" gorm:"column:title"`
	Detail        string       `json:"detail" gorm:"column:detail"`
	Email         *string      `json:"email,omitempty" gorm:"column:email"`
	CustomerID    *int64       `json:"customer_id,omitempty" gorm:"column:customer_id"` // NULL для гостевых отзывов
	StoreID       int64        `json:"store_id" gorm:"column:store_id"`
	IsFeatured    bool         `json:"-" gorm:"column:is_featured"`
	Stores        []ReviewStore `json:"-" gorm:"foreignKey:ReviewID"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"-"`

	// Поля, заполняемые при сборке ответа (в БД не хранятся)
	Sku         string           `json:"sku,omitempty" gorm:"-"`
	RatingVotes []RatingVoteInfo `json:"rating_votes" gorm:"-"`
}

func (Review) TableName() string { return "reviews" }

// ReviewStore привязка отзыва к витрине (в каких магазинах отзыв виден)
type ReviewStore struct {
	ReviewID int64 `json:"review_id" gorm:"column:review_id;primaryKey"`
	StoreID  int64 `json:"store_id" gorm:"column:store_id;primaryKey"`
}

func (ReviewStore) TableName() string { return "review_stores" }

// Rating именованная шкала оценки (например "Quality")
type Rating struct {
	ID         int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RatingCode string `json:"rating_code" gorm:"column:rating_code"`
	Position   int    `json:"position" gorm:"column:position"`
	IsActive   bool   `json:"is_active" gorm:"column:is_active"`
}

func (Rating) TableName() string { return "ratings" }

// RatingOption выбираемое значение шкалы (1..5)
type RatingOption struct {
	ID         int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RatingID   int64  `json:"rating_id" gorm:"column:rating_id;index"`
	OptionCode string `json:"option_code" gorm:"column:option_code"`
	Value      int    `json:"value" gorm:"column:value"`
	Position   int    `json:"position" gorm:"column:position"`
}

func (RatingOption) TableName() string { return "rating_options" }

// RatingVote голос покупателя по одной шкале в рамках одного отзыва
type RatingVote struct {
	ID            int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RatingID      int64     `json:"rating_id" gorm:"column:rating_id"`
	ReviewID      int64     `json:"review_id" gorm:"column:review_id;index"`
	CustomerID    *int64    `json:"customer_id,omitempty" gorm:"column:customer_id"`
	OptionID      int64     `json:"option_id" gorm:"column:option_id"`
	EntityPkValue int64     `json:"product_id" gorm:"column:entity_pk_value"`
	Value         int       `json:"value" gorm:"column:value"`
	Percent       int       `json:"percent" gorm:"column:percent"`
	CreatedAt     time.Time `json:"created_at"`
}

func (RatingVote) TableName() string { return "rating_option_votes" }

// ReviewAggregate сводный рейтинг отзыва, пересчитывается по его голосам
type ReviewAggregate struct {
	ReviewID      int64     `json:"review_id" gorm:"column:review_id;primaryKey"`
	EntityPkValue int64     `json:"product_id" gorm:"column:entity_pk_value;index"`
	StoreID       int64     `json:"store_id" gorm:"column:store_id"`
	VoteCount     int       `json:"vote_count" gorm:"column:vote_count"`
	RatingSum     int       `json:"rating_sum" gorm:"column:rating_sum"`
	Percent       float64   `json:"percent" gorm:"column:percent"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ReviewAggregate) TableName() string { return "review_aggregates" }

// RatingVoteInfo голос вместе с метаданными шкалы (результат join с ratings)
type RatingVoteInfo struct {
	VoteID     int64  `json:"vote_id"`
	RatingID   int64  `json:"rating_id"`
	RatingCode string `json:"rating_code"`
	OptionID   int64  `json:"option_id"`
	Value      int    `json:"value"`
}

// ReviewListRow строка выборки списка отзывов
// LEFT JOIN с голосами построчный: отзыв с несколькими голосами
// разворачивается в несколько строк, каждая со своим значением rating
type ReviewListRow struct {
	ReviewID  int64        `json:"review_id"`
	Nickname  string       `json:"nickname"`
	Title     string       `json:"title"`
	Detail    string       `json:"detail"`
	StatusID  ReviewStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Rating    *int         `json:"rating"` // NULL, если у отзыва нет голосов
}

// ReviewEvent событие для Kafka (топик review_events)
type ReviewEvent struct {
	EventType  string    `json:"event_type"` // REVIEW_CREATED
	ReviewID   int64     `json:"review_id"`
	ProductID  int64     `json:"product_id"`
	CustomerID *int64    `json:"customer_id,omitempty"`
	StoreID    int64     `json:"store_id"`
	VoteCount  int       `json:"vote_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// CatalogProduct товар из Catalog Service (используется при резолве SKU)
type CatalogProduct struct {
	ID   int64  `json:"id"`
	Sku  string `json:"sku"`
	Name string `json:"name"`
}

// Session контекст авторизации запроса
// Заполняется middleware из JWT; для гостя IsCustomer=false и CustomerID=nil
type Session struct {
	IsCustomer bool
	CustomerID *int64
	StoreID    int64
}
