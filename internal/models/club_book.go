package models

import "time"

// ClubBook shelving statuses.
const (
	ClubBookCurrent = "current"
	ClubBookPast    = "past"
)

// ClubBook 俱乐部阅读周期记录，(club_id, book_id) 唯一。
// notes_revealed 一旦置为 true，任何操作都不会再将同一行改回 false，
// 除了重新选择该书开启新周期（upsert 重置）。
type ClubBook struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	ClubID        uint     `gorm:"not null;uniqueIndex:idx_club_book" json:"club_id"`
	BookID        uint     `gorm:"not null;uniqueIndex:idx_club_book" json:"book_id"`
	Status        string   `gorm:"default:current" json:"status"` // current, past
	NotesRevealed bool     `gorm:"default:false" json:"notes_revealed"`
	AverageRating *float64 `json:"average_rating"`

	Club *Club `gorm:"foreignKey:ClubID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (ClubBook) TableName() string {
	return "club_books"
}
