package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nextchapter/bookclub/internal/models"
)

// MeetingRepository 会议仓储
type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Create(meeting *models.Meeting) error {
	return r.db.Create(meeting).Error
}

func (r *MeetingRepository) Update(meeting *models.Meeting) error {
	return r.db.Save(meeting).Error
}

func (r *MeetingRepository) GetByID(id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	if err := r.db.First(&meeting, id).Error; err != nil {
		return nil, err
	}
	return &meeting, nil
}

// ListUpcoming 返回 date_time >= now 的会议，按时间升序。
func (r *MeetingRepository) ListUpcoming(clubID uint, now time.Time) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.Where("club_id = ? AND date_time >= ?", clubID, now).
		Preload("RSVPs").
		Order("date_time ASC").Find(&meetings).Error
	return meetings, err
}

// UpsertRSVP 在 (meeting_id, user_id) 唯一约束上 upsert 回执。
func (r *MeetingRepository) UpsertRSVP(rsvp *models.MeetingRSVP) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(rsvp).Error
}

func (r *MeetingRepository) ListRSVPs(meetingID uint) ([]models.MeetingRSVP, error) {
	var rsvps []models.MeetingRSVP
	err := r.db.Where("meeting_id = ?", meetingID).Preload("User").Find(&rsvps).Error
	return rsvps, err
}
