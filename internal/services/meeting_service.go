package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/pkg/mq"
)

// MeetingService 会议排期服务
type MeetingService struct {
	meetingRepo *repositories.MeetingRepository
	clubRepo    *repositories.ClubRepository
	memberRepo  *repositories.MembershipRepository
	events      *mq.ActivityProducer
	logger      *zap.Logger
}

func NewMeetingService(meetingRepo *repositories.MeetingRepository, clubRepo *repositories.ClubRepository, memberRepo *repositories.MembershipRepository, events *mq.ActivityProducer, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		clubRepo:    clubRepo,
		memberRepo:  memberRepo,
		events:      events,
		logger:      logger,
	}
}

// MeetingRequest 创建/编辑会议请求。ID 非零表示编辑已有会议。
type MeetingRequest struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	DateTime    time.Time `json:"date_time"`
	Location    *string   `json:"location"`
	VirtualLink *string   `json:"virtual_link"`
}

// MeetingDTO 会议数据传输对象
type MeetingDTO struct {
	ID          uint      `json:"id"`
	ClubID      uint      `json:"club_id"`
	Title       string    `json:"title"`
	DateTime    time.Time `json:"date_time"`
	Location    *string   `json:"location"`
	VirtualLink *string   `json:"virtual_link"`
	CreatedBy   uint      `json:"created_by"`
	RSVPs       []RSVPDTO `json:"rsvps,omitempty"`
}

// RSVPDTO 回执数据传输对象
type RSVPDTO struct {
	UserID uint   `json:"user_id"`
	Status string `json:"status"`
}

func meetingDTO(m *models.Meeting) *MeetingDTO {
	dto := &MeetingDTO{
		ID:          m.ID,
		ClubID:      m.ClubID,
		Title:       m.Title,
		DateTime:    m.DateTime,
		Location:    m.Location,
		VirtualLink: m.VirtualLink,
		CreatedBy:   m.CreatedBy,
	}
	for _, r := range m.RSVPs {
		dto.RSVPs = append(dto.RSVPs, RSVPDTO{UserID: r.UserID, Status: r.Status})
	}
	return dto
}

// CreateOrUpdateMeeting 管理员创建或编辑会议。标题与时间必填；
// 校验失败时不落任何行。
func (s *MeetingService) CreateOrUpdateMeeting(adminID, clubID uint, req *MeetingRequest) (*MeetingDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if err := requireAdmin(club, adminID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrMeetingTitle
	}
	if req.DateTime.IsZero() {
		return nil, ErrMeetingTime
	}

	if req.ID != 0 {
		meeting, err := s.meetingRepo.GetByID(req.ID)
		if err != nil || meeting.ClubID != clubID {
			return nil, ErrMeetingNotFound
		}
		meeting.Title = strings.TrimSpace(req.Title)
		meeting.DateTime = req.DateTime
		meeting.Location = req.Location
		meeting.VirtualLink = req.VirtualLink
		if err := s.meetingRepo.Update(meeting); err != nil {
			return nil, err
		}
		return meetingDTO(meeting), nil
	}

	meeting := &models.Meeting{
		ClubID:      clubID,
		Title:       strings.TrimSpace(req.Title),
		DateTime:    req.DateTime,
		Location:    req.Location,
		VirtualLink: req.VirtualLink,
		CreatedBy:   adminID,
	}
	if err := s.meetingRepo.Create(meeting); err != nil {
		return nil, err
	}

	s.emit(mq.Event{
		Type:    mq.EventMeetingScheduled,
		ClubID:  clubID,
		ActorID: adminID,
		Payload: map[string]any{"meeting_id": meeting.ID, "title": meeting.Title},
	})

	return meetingDTO(meeting), nil
}

// ListUpcomingMeetings 返回 date_time >= now 的会议，升序（成员可见）。
func (s *MeetingService) ListUpcomingMeetings(userID, clubID uint) ([]MeetingDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if club.AdminUserID != userID {
		if err := requireApprovedMember(s.memberRepo, clubID, userID); err != nil {
			return nil, err
		}
	}

	meetings, err := s.meetingRepo.ListUpcoming(clubID, time.Now())
	if err != nil {
		return nil, err
	}
	dtos := make([]MeetingDTO, 0, len(meetings))
	for i := range meetings {
		dtos = append(dtos, *meetingDTO(&meetings[i]))
	}
	return dtos, nil
}

// RSVP 成员对会议的出席回执，(meeting, user) 上 upsert。
func (s *MeetingService) RSVP(userID, meetingID uint, status string) error {
	switch status {
	case models.RSVPYes, models.RSVPNo, models.RSVPMaybe:
	default:
		return ErrInvalidRSVP
	}

	meeting, err := s.meetingRepo.GetByID(meetingID)
	if err != nil {
		return ErrMeetingNotFound
	}

	club, err := s.clubRepo.GetByID(meeting.ClubID)
	if err != nil {
		return ErrClubNotFound
	}
	if club.AdminUserID != userID {
		if err := requireApprovedMember(s.memberRepo, meeting.ClubID, userID); err != nil {
			return err
		}
	}

	return s.meetingRepo.UpsertRSVP(&models.MeetingRSVP{
		MeetingID: meetingID,
		UserID:    userID,
		Status:    status,
	})
}

func (s *MeetingService) emit(event mq.Event) {
	if err := s.events.Emit(event); err != nil {
		s.logger.Warn("failed to emit club event",
			zap.String("type", event.Type),
			zap.Uint("club_id", event.ClubID),
			zap.Error(err),
		)
	}
}
