package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nextchapter/bookclub/internal/models"
)

// LibraryRepository 个人书单仓储
type LibraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// GetEntry 读取书单条目，不存在返回 (nil, nil)。
func (r *LibraryRepository) GetEntry(userID, bookID uint) (*models.ListEntry, error) {
	var entry models.ListEntry
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert 在 (user_id, book_id) 唯一约束上 upsert，冲突时覆盖 list_type。
// 换书单是更新同一行，不会产生重复条目。
func (r *LibraryRepository) Upsert(entry *models.ListEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"list_type", "updated_at"}),
	}).Create(entry).Error
}

func (r *LibraryRepository) Delete(userID, bookID uint) error {
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&models.ListEntry{}).Error
}

// ListByUser 返回用户书单；listType 为空时返回全部。
func (r *LibraryRepository) ListByUser(userID uint, listType string) ([]models.ListEntry, error) {
	var entries []models.ListEntry
	query := r.db.Where("user_id = ?", userID).Preload("Book")
	if listType != "" {
		query = query.Where("list_type = ?", listType)
	}
	err := query.Order("updated_at DESC").Find(&entries).Error
	return entries, err
}
