package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/pkg/mq"
)

// ClubService 俱乐部与成员关系服务
type ClubService struct {
	clubRepo   *repositories.ClubRepository
	memberRepo *repositories.MembershipRepository
	events     *mq.ActivityProducer
	logger     *zap.Logger
}

func NewClubService(clubRepo *repositories.ClubRepository, memberRepo *repositories.MembershipRepository, events *mq.ActivityProducer, logger *zap.Logger) *ClubService {
	return &ClubService{
		clubRepo:   clubRepo,
		memberRepo: memberRepo,
		events:     events,
		logger:     logger,
	}
}

// CreateClubRequest 创建俱乐部请求
type CreateClubRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
}

// ClubDTO 俱乐部数据传输对象
type ClubDTO struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Privacy       string `json:"privacy"`
	AdminUserID   uint   `json:"admin_user_id"`
	CurrentBookID *uint  `json:"current_book_id"`
	MemberCount   int64  `json:"member_count"`
	UserStatus    string `json:"user_status"` // member, pending, none
	CreatedAt     string `json:"created_at"`
}

// MemberDTO 成员数据传输对象
type MemberDTO struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	JoinedAt    string `json:"joined_at"`
}

func clubDTO(club *models.Club) *ClubDTO {
	return &ClubDTO{
		ID:            club.ID,
		Name:          club.Name,
		Description:   club.Description,
		Privacy:       club.Privacy,
		AdminUserID:   club.AdminUserID,
		CurrentBookID: club.CurrentBookID,
		CreatedAt:     club.CreatedAt.Format(time.RFC3339),
	}
}

// CreateClub 创建俱乐部，调用者成为管理员并自动获得 approved 成员记录。
func (s *ClubService) CreateClub(userID uint, req *CreateClubRequest) (*ClubDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrClubNameRequired
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	switch privacy {
	case models.PrivacyPublic, models.PrivacyPrivate, models.PrivacySecret:
	default:
		return nil, ErrInvalidPrivacy
	}

	club := &models.Club{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Privacy:     privacy,
		AdminUserID: userID,
	}

	if err := s.clubRepo.CreateWithAdmin(club); err != nil {
		return nil, err
	}

	dto := clubDTO(club)
	dto.MemberCount = 1
	dto.UserStatus = "member"
	return dto, nil
}

// ListClubs 返回可发现的俱乐部（public 与 private），附带成员数
// 与调用者自己的状态。secret 俱乐部不出现在列表里。
func (s *ClubService) ListClubs(userID uint) ([]ClubDTO, error) {
	clubs, err := s.clubRepo.ListDiscoverable()
	if err != nil {
		return nil, err
	}
	if len(clubs) == 0 {
		return []ClubDTO{}, nil
	}

	clubIDs := make([]uint, len(clubs))
	for i, c := range clubs {
		clubIDs[i] = c.ID
	}

	counts, err := s.memberRepo.CountApprovedByClub(clubIDs)
	if err != nil {
		return nil, err
	}
	statuses, err := s.memberRepo.StatusesForUser(userID, clubIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]ClubDTO, 0, len(clubs))
	for i := range clubs {
		dto := clubDTO(&clubs[i])
		dto.MemberCount = counts[clubs[i].ID]
		dto.UserStatus = userStatus(statuses[clubs[i].ID])
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

func userStatus(memberStatus string) string {
	switch memberStatus {
	case models.MemberApproved:
		return "member"
	case models.MemberPending:
		return "pending"
	default:
		return "none"
	}
}

// GetClub 获取俱乐部详情
func (s *ClubService) GetClub(userID, clubID uint) (*ClubDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	dto := clubDTO(club)
	counts, err := s.memberRepo.CountApprovedByClub([]uint{clubID})
	if err != nil {
		return nil, err
	}
	dto.MemberCount = counts[clubID]

	member, err := s.memberRepo.GetByClubAndUser(clubID, userID)
	if err == nil {
		dto.UserStatus = userStatus(member.Status)
	} else {
		dto.UserStatus = "none"
	}
	return dto, nil
}

// JoinClub 申请加入俱乐部。public 立即 approved，private/secret 进入 pending
// 等待管理员审批。重复加入返回 DuplicateError。
func (s *ClubService) JoinClub(userID, clubID uint) (*MemberDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	if _, err := s.memberRepo.GetByClubAndUser(clubID, userID); err == nil {
		return nil, ErrAlreadyMember
	}

	status := models.MemberPending
	if club.Privacy == models.PrivacyPublic {
		status = models.MemberApproved
	}

	member := &models.Membership{
		ClubID: clubID,
		UserID: userID,
		Status: status,
	}
	if err := s.memberRepo.Create(member); err != nil {
		return nil, err
	}

	return &MemberDTO{
		ID:       member.ID,
		UserID:   member.UserID,
		Status:   member.Status,
		JoinedAt: member.CreatedAt.Format(time.RFC3339),
	}, nil
}

// LeaveClub 退出俱乐部（删除成员记录）。管理员不能退出自己的俱乐部，
// 否则 admin_user_id 会指向非成员。
func (s *ClubService) LeaveClub(userID, clubID uint) error {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return ErrClubNotFound
	}

	member, err := s.memberRepo.GetByClubAndUser(clubID, userID)
	if err != nil {
		return ErrMembershipNotFound
	}

	if club.AdminUserID == userID {
		return ErrAdminCannotLeave
	}

	return s.memberRepo.Delete(member.ID)
}

// UpdateMemberStatus 管理员审批成员：approved 或 declined。
// declined 的记录保留，不存在回到 pending 的转换。
func (s *ClubService) UpdateMemberStatus(adminID, membershipID uint, status string) (*MemberDTO, error) {
	if status != models.MemberApproved && status != models.MemberDeclined {
		return nil, ErrInvalidMemberStatus
	}

	member, err := s.memberRepo.GetByID(membershipID)
	if err != nil {
		return nil, ErrMembershipNotFound
	}

	if err := requireAdmin(member.Club, adminID); err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateStatus(member.ID, status); err != nil {
		return nil, err
	}

	if status == models.MemberApproved {
		s.emit(mq.Event{
			Type:    mq.EventMemberApproved,
			ClubID:  member.ClubID,
			ActorID: adminID,
			Payload: map[string]any{"user_id": member.UserID},
		})
	}

	dto := &MemberDTO{
		ID:       member.ID,
		UserID:   member.UserID,
		Status:   status,
		JoinedAt: member.CreatedAt.Format(time.RFC3339),
	}
	if member.User != nil {
		dto.Username = member.User.UserName
		dto.DisplayName = member.User.DisplayName
	}
	return dto, nil
}

// RemoveMember 管理员移除成员（硬删除）。管理员自己的成员记录不可经由
// 此路径删除。
func (s *ClubService) RemoveMember(adminID, membershipID uint) error {
	member, err := s.memberRepo.GetByID(membershipID)
	if err != nil {
		return ErrMembershipNotFound
	}

	if err := requireAdmin(member.Club, adminID); err != nil {
		return err
	}

	if member.UserID == member.Club.AdminUserID {
		return ErrCannotRemoveAdmin
	}

	return s.memberRepo.Delete(member.ID)
}

// ListMembers 列出俱乐部成员。管理员看到全部状态，普通成员只看到 approved。
func (s *ClubService) ListMembers(userID, clubID uint) ([]MemberDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	var members []models.Membership
	if club.AdminUserID == userID {
		members, err = s.memberRepo.ListByClub(clubID)
	} else {
		if err := requireApprovedMember(s.memberRepo, clubID, userID); err != nil {
			return nil, err
		}
		members, err = s.memberRepo.ListByClub(clubID, models.MemberApproved)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		dto := MemberDTO{
			ID:       m.ID,
			UserID:   m.UserID,
			Status:   m.Status,
			JoinedAt: m.CreatedAt.Format(time.RFC3339),
		}
		if m.User != nil {
			dto.Username = m.User.UserName
			dto.DisplayName = m.User.DisplayName
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// MyClubs 返回调用者已加入的俱乐部。
func (s *ClubService) MyClubs(userID uint) ([]ClubDTO, error) {
	clubs, err := s.memberRepo.ListClubsForUser(userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ClubDTO, 0, len(clubs))
	for i := range clubs {
		dto := clubDTO(&clubs[i])
		dto.UserStatus = "member"
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// emit 发布活动事件；失败仅记录日志，不影响请求结果。
func (s *ClubService) emit(event mq.Event) {
	if err := s.events.Emit(event); err != nil {
		s.logger.Warn("failed to emit club event",
			zap.String("type", event.Type),
			zap.Uint("club_id", event.ClubID),
			zap.Error(err),
		)
	}
}
