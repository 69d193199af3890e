package models

import "time"

// RSVP statuses.
const (
	RSVPYes   = "yes"
	RSVPNo    = "no"
	RSVPMaybe = "maybe"
)

// Meeting 俱乐部会议，仅管理员可创建或编辑。
type Meeting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClubID      uint      `gorm:"not null;index" json:"club_id"`
	Title       string    `gorm:"not null" json:"title"`
	DateTime    time.Time `gorm:"not null;index" json:"date_time"`
	Location    *string   `json:"location"`
	VirtualLink *string   `json:"virtual_link"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`

	Club  *Club         `gorm:"foreignKey:ClubID" json:"-"`
	RSVPs []MeetingRSVP `gorm:"foreignKey:MeetingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Meeting) TableName() string {
	return "club_meetings"
}

// MeetingRSVP 成员对会议的出席回执，(meeting_id, user_id) 唯一。
type MeetingRSVP struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	MeetingID uint   `gorm:"not null;uniqueIndex:idx_meeting_user" json:"meeting_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_meeting_user" json:"user_id"`
	Status    string `gorm:"not null" json:"status"` // yes, no, maybe

	User *User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MeetingRSVP) TableName() string {
	return "meeting_rsvps"
}
