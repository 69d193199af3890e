package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nextchapter/bookclub/internal/models"
)

// NoteRepository 笔记/问题/评分仓储
type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) CreateNote(note *models.BookNote) error {
	return r.db.Create(note).Error
}

func (r *NoteRepository) CreateQuestion(question *models.BookQuestion) error {
	return r.db.Create(question).Error
}

// ListNotesByUser 返回某成员在该阅读周期内写下的全部笔记，按时间升序。
func (r *NoteRepository) ListNotesByUser(userID, clubBookID uint) ([]models.BookNote, error) {
	var notes []models.BookNote
	err := r.db.Where("user_id = ? AND club_book_id = ?", userID, clubBookID).
		Order("created_at ASC").Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) ListQuestionsByUser(userID, clubBookID uint) ([]models.BookQuestion, error) {
	var questions []models.BookQuestion
	err := r.db.Where("user_id = ? AND club_book_id = ?", userID, clubBookID).
		Order("created_at ASC").Find(&questions).Error
	return questions, err
}

// ListRevealedNotes 返回阅读周期内所有成员的笔记，但仅当该周期
// notes_revealed=true。可见性过滤放在 SQL 里，调用方不得绕过。
func (r *NoteRepository) ListRevealedNotes(clubBookID uint) ([]models.BookNote, error) {
	var notes []models.BookNote
	err := r.db.
		Joins("JOIN club_books ON club_books.id = user_book_notes.club_book_id").
		Where("user_book_notes.club_book_id = ? AND club_books.notes_revealed = ?", clubBookID, true).
		Preload("User").
		Order("user_book_notes.user_id, user_book_notes.created_at ASC").
		Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) ListRevealedQuestions(clubBookID uint) ([]models.BookQuestion, error) {
	var questions []models.BookQuestion
	err := r.db.
		Joins("JOIN club_books ON club_books.id = user_book_questions.club_book_id").
		Where("user_book_questions.club_book_id = ? AND club_books.notes_revealed = ?", clubBookID, true).
		Preload("User").
		Order("user_book_questions.user_id, user_book_questions.created_at ASC").
		Find(&questions).Error
	return questions, err
}

// GetRating 读取成员评分，未评分返回 (nil, nil)。
func (r *NoteRepository) GetRating(userID, clubBookID uint) (*models.BookRating, error) {
	var rating models.BookRating
	err := r.db.Where("user_id = ? AND club_book_id = ?", userID, clubBookID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// UpsertRating 在 (user_id, club_book_id) 唯一约束上 upsert 评分。
func (r *NoteRepository) UpsertRating(rating *models.BookRating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
}

// AverageRating 计算阅读周期的平均评分，无人评分返回 nil。
func (r *NoteRepository) AverageRating(clubBookID uint) (*float64, error) {
	var result struct {
		Avg *float64
	}
	err := r.db.Model(&models.BookRating{}).
		Select("AVG(rating) AS avg").
		Where("club_book_id = ?", clubBookID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.Avg, nil
}
