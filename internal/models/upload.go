package models

type Upload struct {
	BaseModel
	UserID      string `gorm:"index;not null" json:"user_id"`
	FileName    string `gorm:"not null" json:"file_name"`
	StoragePath string `gorm:"not null" json:"storage_path"`
	ContentType string `gorm:"type:varchar(100)" json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}
