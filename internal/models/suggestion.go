package models

import "time"

// Suggestion statuses.
const (
	SuggestionPending   = "pending"
	SuggestionSelected  = "selected"
	SuggestionDismissed = "dismissed"
)

// Suggestion 成员提议的候选书目，(club_id, book_id) 唯一。
// 管理员把提议的书设为当前书时状态变为 selected，驳回则为 dismissed。
type Suggestion struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClubID      uint   `gorm:"not null;uniqueIndex:idx_club_suggestion" json:"club_id"`
	BookID      uint   `gorm:"not null;uniqueIndex:idx_club_suggestion" json:"book_id"`
	SuggestedBy uint   `gorm:"not null" json:"suggested_by"`
	Status      string `gorm:"default:pending" json:"status"` // pending, selected, dismissed

	Book      *Book `gorm:"foreignKey:BookID" json:"-"`
	Suggester *User `gorm:"foreignKey:SuggestedBy" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Suggestion) TableName() string {
	return "book_suggestions"
}
