package repositories

import (
	"gorm.io/gorm"

	"github.com/nextchapter/bookclub/internal/models"
)

// ClubRepository 俱乐部仓储
type ClubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ClubRepository) WithTx(tx *gorm.DB) *ClubRepository {
	return &ClubRepository{db: tx}
}

// CreateWithAdmin 在同一事务中创建俱乐部及创建者的 approved 成员记录，
// 保证 admin_user_id 始终指向一个已批准成员。
func (r *ClubRepository) CreateWithAdmin(club *models.Club) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}
		member := &models.Membership{
			ClubID: club.ID,
			UserID: club.AdminUserID,
			Status: models.MemberApproved,
		}
		return tx.Create(member).Error
	})
}

func (r *ClubRepository) GetByID(id uint) (*models.Club, error) {
	var club models.Club
	if err := r.db.Preload("CurrentBook").First(&club, id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// ListDiscoverable 返回可被发现的俱乐部（public 与 private；secret 不参与发现）。
func (r *ClubRepository) ListDiscoverable() ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.
		Where("privacy IN ?", []string{models.PrivacyPublic, models.PrivacyPrivate}).
		Order("created_at DESC").
		Find(&clubs).Error
	return clubs, err
}

// UpdateCurrentBook 更新俱乐部当前书目指针。
func (r *ClubRepository) UpdateCurrentBook(clubID, bookID uint) error {
	return r.db.Model(&models.Club{}).Where("id = ?", clubID).Update("current_book_id", bookID).Error
}
