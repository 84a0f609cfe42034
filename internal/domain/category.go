package domain

// Category - тип принимаемых отходов (справочник, не меняется во время работы)
type Category struct {
	ID      int64  `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	IconKey string `json:"image" db:"icon_key"`
}

// DefaultCategories - начальный набор категорий, засеиваемый при старте
var DefaultCategories = []Category{
	{ID: 1, Title: "Lâmpadas", IconKey: "lampadas.svg"},
	{ID: 2, Title: "Pilhas e Baterias", IconKey: "baterias.svg"},
	{ID: 3, Title: "Papéis e Papelão", IconKey: "papeis-papelao.svg"},
	{ID: 4, Title: "Resíduos Eletrônicos", IconKey: "eletronicos.svg"},
	{ID: 5, Title: "Resíduos Orgânicos", IconKey: "organicos.svg"},
	{ID: 6, Title: "Óleo de Cozinha", IconKey: "oleo.svg"},
}
