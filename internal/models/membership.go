package models

import "time"

// Membership statuses. 公开俱乐部加入即 approved，其余从 pending 开始。
const (
	MemberPending  = "pending"
	MemberApproved = "approved"
	MemberDeclined = "declined"
)

// Membership 俱乐部成员模型，(club_id, user_id) 唯一
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClubID    uint      `gorm:"not null;uniqueIndex:idx_club_user" json:"club_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_club_user" json:"user_id"`
	Status    string    `gorm:"default:pending" json:"status"` // pending, approved, declined
	CreatedAt time.Time `json:"created_at"`

	Club *Club `gorm:"foreignKey:ClubID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Membership) TableName() string {
	return "club_members"
}
