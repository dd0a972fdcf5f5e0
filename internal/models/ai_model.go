package models

// AIModel - запись каталога LLM моделей. Каталог read-mostly,
// список отдается через кэш.
type AIModel struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Provider    string `gorm:"type:varchar(100)" json:"provider"`
	Description string `gorm:"type:text" json:"description"`
	IsEnabled   bool   `json:"is_enabled"`
}
