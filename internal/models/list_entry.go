package models

import "time"

// Personal library list types.
const (
	ListReadingNow = "reading_now"
	ListRead       = "read"
	ListWantToRead = "want_to_read"
)

// ListEntry 个人书单条目，(user_id, book_id) 唯一。
// 在书单之间移动是对 list_type 的更新，不产生新行。
type ListEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_book_list" json:"user_id"`
	BookID   uint   `gorm:"not null;uniqueIndex:idx_user_book_list" json:"book_id"`
	ListType string `gorm:"not null" json:"list_type"` // reading_now, read, want_to_read

	Book *Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ListEntry) TableName() string {
	return "user_book_lists"
}
