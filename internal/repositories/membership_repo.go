package repositories

import (
	"gorm.io/gorm"

	"github.com/nextchapter/bookclub/internal/models"
)

// MembershipRepository 成员关系仓储
type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(member *models.Membership) error {
	return r.db.Create(member).Error
}

func (r *MembershipRepository) GetByID(id uint) (*models.Membership, error) {
	var member models.Membership
	if err := r.db.Preload("Club").Preload("User").First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MembershipRepository) GetByClubAndUser(clubID, userID uint) (*models.Membership, error) {
	var member models.Membership
	err := r.db.Where("club_id = ? AND user_id = ?", clubID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// IsApprovedMember 判断用户是否为俱乐部的已批准成员。
func (r *MembershipRepository) IsApprovedMember(clubID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, models.MemberApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *MembershipRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Membership{}).Where("id = ?", id).Update("status", status).Error
}

func (r *MembershipRepository) Delete(id uint) error {
	return r.db.Delete(&models.Membership{}, id).Error
}

// ListByClub 返回俱乐部成员；statuses 为空时返回全部。
func (r *MembershipRepository) ListByClub(clubID uint, statuses ...string) ([]models.Membership, error) {
	var members []models.Membership
	query := r.db.Where("club_id = ?", clubID).Preload("User")
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Order("created_at ASC").Find(&members).Error
	return members, err
}

// CountApprovedByClub 按俱乐部统计已批准成员数。
func (r *MembershipRepository) CountApprovedByClub(clubIDs []uint) (map[uint]int64, error) {
	type row struct {
		ClubID uint
		N      int64
	}
	var rows []row
	err := r.db.Model(&models.Membership{}).
		Select("club_id, COUNT(*) AS n").
		Where("club_id IN ? AND status = ?", clubIDs, models.MemberApproved).
		Group("club_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ClubID] = r.N
	}
	return counts, nil
}

// StatusesForUser 返回用户在给定俱乐部中的成员状态。
func (r *MembershipRepository) StatusesForUser(userID uint, clubIDs []uint) (map[uint]string, error) {
	var members []models.Membership
	err := r.db.Where("user_id = ? AND club_id IN ?", userID, clubIDs).Find(&members).Error
	if err != nil {
		return nil, err
	}
	statuses := make(map[uint]string, len(members))
	for _, m := range members {
		statuses[m.ClubID] = m.Status
	}
	return statuses, nil
}

// ListClubsForUser 返回用户已批准加入的俱乐部。
func (r *MembershipRepository) ListClubsForUser(userID uint) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.Model(&models.Club{}).
		Joins("JOIN club_members ON club_members.club_id = book_clubs.id").
		Where("club_members.user_id = ? AND club_members.status = ?", userID, models.MemberApproved).
		Find(&clubs).Error
	return clubs, err
}
