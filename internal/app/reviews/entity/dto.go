package entity

// RatingInput один голос из запроса: id шкалы приходит как base64-токен,
// value_id - идентификатор выбранного значения шкалы
type RatingInput struct {
	ID      string `json:"id"`
	ValueID int64  `json:"value_id"`
}

// CreateReviewRequest - запрос на создание отзыва
// Поля nickname/details/ratings сервис сознательно не проверяет на пустоту
// (совместимость со старым API)
type CreateReviewRequest struct {
	Sku      string        `json:"sku"`
	Nickname string        `json:"nickname"`
	Title    string        `json:"title"`
	Details  string        `json:"details"`
	Email    string        `json:"email,omitempty"`
	Ratings  []RatingInput `json:"ratings"`
}

// CreateReviewResponse - ответ на создание отзыва
type CreateReviewResponse struct {
	Success bool   `json:"success"`
	Item    Review `json:"item"`
}

// ListReviewsRequest - запрос списка отзывов товара
// ProductID = 0 трактуется как отсутствующий
type ListReviewsRequest struct {
	ProductID   int64 `form:"productId" json:"product_id"`
	PageSize    int   `form:"pageSize" json:"page_size"`
	CurrentPage int   `form:"currentPage" json:"current_page"`
}

// PageInfo сведения о пагинации (страницы нумеруются с 1)
type PageInfo struct {
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// ListReviewsResponse - ответ со списком отзывов
type ListReviewsResponse struct {
	Items    []ReviewListRow `json:"items"`
	PageInfo PageInfo        `json:"page_info"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
