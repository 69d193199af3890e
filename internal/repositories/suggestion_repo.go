package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nextchapter/bookclub/internal/models"
)

// SuggestionRepository 书目提议仓储
type SuggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) WithTx(tx *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{db: tx}
}

func (r *SuggestionRepository) Create(suggestion *models.Suggestion) error {
	return r.db.Create(suggestion).Error
}

func (r *SuggestionRepository) GetByID(id uint) (*models.Suggestion, error) {
	var s models.Suggestion
	if err := r.db.Preload("Book").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByClubAndBook 查找俱乐部内对某书的提议，不存在返回 (nil, nil)。
func (r *SuggestionRepository) GetByClubAndBook(clubID, bookID uint) (*models.Suggestion, error) {
	var s models.Suggestion
	err := r.db.Where("club_id = ? AND book_id = ?", clubID, bookID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SuggestionRepository) ListByClub(clubID uint) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	err := r.db.Where("club_id = ?", clubID).
		Preload("Book").Preload("Suggester").
		Order("created_at DESC").Find(&suggestions).Error
	return suggestions, err
}

func (r *SuggestionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Suggestion{}).Where("id = ?", id).Update("status", status).Error
}

// MarkSelected 把俱乐部内该书的 pending 提议标记为 selected。
func (r *SuggestionRepository) MarkSelected(clubID, bookID uint) error {
	return r.db.Model(&models.Suggestion{}).
		Where("club_id = ? AND book_id = ? AND status = ?", clubID, bookID, models.SuggestionPending).
		Update("status", models.SuggestionSelected).Error
}
