package models

import "time"

// BookNote 成员的私人读书笔记，追加式，按 (user_id, club_book_id) 归属。
// 仅在所属 ClubBook.notes_revealed 为 true 时对其他已批准成员可见。
type BookNote struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index:idx_note_user_club_book" json:"user_id"`
	ClubBookID uint   `gorm:"not null;index:idx_note_user_club_book" json:"club_book_id"`
	Text       string `gorm:"column:note_text;not null" json:"note_text"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	ClubBook *ClubBook `gorm:"foreignKey:ClubBookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (BookNote) TableName() string {
	return "user_book_notes"
}

// BookQuestion 成员的讨论问题，可见性规则与 BookNote 相同。
type BookQuestion struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index:idx_question_user_club_book" json:"user_id"`
	ClubBookID uint   `gorm:"not null;index:idx_question_user_club_book" json:"club_book_id"`
	Text       string `gorm:"column:question_text;not null" json:"question_text"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	ClubBook *ClubBook `gorm:"foreignKey:ClubBookID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (BookQuestion) TableName() string {
	return "user_book_questions"
}
