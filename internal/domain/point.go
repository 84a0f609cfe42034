package domain

import "time"

// Point - зарегистрированный пункт сбора отходов.
// После создания не изменяется: операций обновления и удаления нет.
type Point struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Whatsapp  string    `json:"whatsapp" db:"whatsapp"`
	ImageKey  string    `json:"image" db:"image_key"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	State     string    `json:"state" db:"state"`
	City      string    `json:"city" db:"city"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PointFilter - фильтры выборки пунктов; пустое поле означает "без ограничения".
// Разные поля объединяются по AND, CategoryIDs - по OR внутри списка.
type PointFilter struct {
	State       string
	City        string
	CategoryIDs []int64
}

// IsEmpty возвращает true, если ни один фильтр не задан
func (f PointFilter) IsEmpty() bool {
	return f.State == "" && f.City == "" && len(f.CategoryIDs) == 0
}
