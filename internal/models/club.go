package models

import (
	"time"

	"gorm.io/gorm"
)

// Club privacy levels. 隐私级别决定加入语义与可发现性。
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
	PrivacySecret  = "secret"
)

// Club 读书俱乐部模型
type Club struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name          string `gorm:"not null" json:"name"`
	Description   string `json:"description"`
	Privacy       string `gorm:"default:public" json:"privacy"` // public, private, secret
	AdminUserID   uint   `gorm:"not null" json:"admin_user_id"`
	CurrentBookID *uint  `json:"current_book_id"`

	Admin       *User        `gorm:"foreignKey:AdminUserID" json:"-"`
	CurrentBook *Book        `gorm:"foreignKey:CurrentBookID" json:"-"`
	Members     []Membership `gorm:"foreignKey:ClubID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Club) TableName() string {
	return "book_clubs"
}
