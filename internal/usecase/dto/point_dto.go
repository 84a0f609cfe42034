package dto

import "time"

// ImageUpload - загруженное изображение пункта.
// TooLarge и Unreadable выставляются при разборе формы; данные тогда пусты.
type ImageUpload struct {
	Filename   string
	Data       []byte
	TooLarge   bool
	Unreadable bool
}

// CreatePointRequest - данные регистрации пункта сбора
type CreatePointRequest struct {
	Name      string       `json:"name" form:"name"`
	Email     string       `json:"email" form:"email"`
	Whatsapp  string       `json:"whatsapp" form:"whatsapp"`
	Latitude  float64      `json:"latitude" form:"latitude"`
	Longitude float64      `json:"longitude" form:"longitude"`
	State     string       `json:"state" form:"state"`
	City      string       `json:"city" form:"city"`
	Items     []int64      `json:"items" form:"items"`
	Image     *ImageUpload `json:"-" form:"-"`

	// ItemsMalformed - items не удалось разобрать как список целых ID
	ItemsMalformed bool `json:"-" form:"-"`
}

// ListPointsRequest - фильтры списка пунктов
type ListPointsRequest struct {
	State       string  `query:"state"`
	City        string  `query:"city"`
	CategoryIDs []int64 `query:"category"`
}

// PointSummary - пункт с URL изображения, без категорий
type PointSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Whatsapp  string    `json:"whatsapp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	State     string    `json:"state"`
	City      string    `json:"city"`
	Image     string    `json:"image"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// PointDetail - пункт с URL изображения и категориями
type PointDetail struct {
	PointSummary
	Categories []CategoryResponse `json:"categories"`
}

// CategoryResponse - категория с URL иконки
type CategoryResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	ImageURL string `json:"image_url"`
}
