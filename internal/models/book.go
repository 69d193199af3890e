package models

import "time"

// Book 书目模型。按 (title, author[, isbn]) 去重后惰性创建，创建后不再修改。
type Book struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title     string  `gorm:"not null;index:idx_title_author" json:"title"`
	Author    string  `gorm:"not null;index:idx_title_author" json:"author"`
	ISBN      *string `json:"isbn"`
	CoverURL  string  `json:"cover_url"`
	Synopsis  string  `json:"synopsis"`
	PageCount *int    `json:"page_count"`

	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}
