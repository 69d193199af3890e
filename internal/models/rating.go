package models

import "time"

// BookRating 成员对某阅读周期书目的评分，(user_id, club_book_id) 唯一，upsert 更新。
// 取值 [0, 5]，步长 0.5。
type BookRating struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserID     uint    `gorm:"not null;uniqueIndex:idx_rating_user_club_book" json:"user_id"`
	ClubBookID uint    `gorm:"not null;uniqueIndex:idx_rating_user_club_book" json:"club_book_id"`
	Rating     float64 `gorm:"not null" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BookRating) TableName() string {
	return "user_book_ratings"
}
