package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nextchapter/bookclub/internal/models"
)

// ClubBookRepository 阅读周期仓储
type ClubBookRepository struct {
	db *gorm.DB
}

func NewClubBookRepository(db *gorm.DB) *ClubBookRepository {
	return &ClubBookRepository{db: db}
}

func (r *ClubBookRepository) WithTx(tx *gorm.DB) *ClubBookRepository {
	return &ClubBookRepository{db: tx}
}

func (r *ClubBookRepository) GetByID(id uint) (*models.ClubBook, error) {
	var cb models.ClubBook
	if err := r.db.Preload("Book").First(&cb, id).Error; err != nil {
		return nil, err
	}
	return &cb, nil
}

func (r *ClubBookRepository) GetByClubAndBook(clubID, bookID uint) (*models.ClubBook, error) {
	var cb models.ClubBook
	err := r.db.Where("club_id = ? AND book_id = ?", clubID, bookID).First(&cb).Error
	if err != nil {
		return nil, err
	}
	return &cb, nil
}

// ListByClub 返回俱乐部的全部阅读周期记录，当前的排在最前。
func (r *ClubBookRepository) ListByClub(clubID uint) ([]models.ClubBook, error) {
	var cbs []models.ClubBook
	err := r.db.Where("club_id = ?", clubID).Preload("Book").
		Order("created_at DESC").Find(&cbs).Error
	return cbs, err
}

// DemoteCurrent 将俱乐部现有的 current 记录降为 past。
func (r *ClubBookRepository) DemoteCurrent(clubID uint) error {
	return r.db.Model(&models.ClubBook{}).
		Where("club_id = ? AND status = ?", clubID, models.ClubBookCurrent).
		Update("status", models.ClubBookPast).Error
}

// UpsertCurrent 在 (club_id, book_id) 唯一约束上 upsert 当前周期记录。
// 冲突时重置 status=current 且 notes_revealed=false：重新选择旧书会
// 重新锁定已公开的笔记，开启新一轮私密周期。
func (r *ClubBookRepository) UpsertCurrent(clubID, bookID uint) (*models.ClubBook, error) {
	cb := &models.ClubBook{
		ClubID:        clubID,
		BookID:        bookID,
		Status:        models.ClubBookCurrent,
		NotesRevealed: false,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "club_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"status":         models.ClubBookCurrent,
			"notes_revealed": false,
		}),
	}).Create(cb).Error
	if err != nil {
		return nil, err
	}
	// upsert 命中已有行时 gorm 不回填主键，重新读取
	return r.GetByClubAndBook(clubID, bookID)
}

// Reveal 将 notes_revealed 置为 true。没有任何反向操作。
func (r *ClubBookRepository) Reveal(clubID, bookID uint) error {
	return r.db.Model(&models.ClubBook{}).
		Where("club_id = ? AND book_id = ?", clubID, bookID).
		Update("notes_revealed", true).Error
}

// UpdateAverageRating 把派生的平均分写回周期记录。
func (r *ClubBookRepository) UpdateAverageRating(clubBookID uint, avg *float64) error {
	return r.db.Model(&models.ClubBook{}).
		Where("id = ?", clubBookID).
		Update("average_rating", avg).Error
}
