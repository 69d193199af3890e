package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nextchapter/bookclub/internal/models"
)

// BookRepository 书目仓储
type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) WithTx(tx *gorm.DB) *BookRepository {
	return &BookRepository{db: tx}
}

func (r *BookRepository) GetByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Find 按 (title, author[, isbn]) 查找书目。未命中返回 (nil, nil)。
func (r *BookRepository) Find(title, author string, isbn *string) (*models.Book, error) {
	query := r.db.Where("title = ? AND author = ?", title, author)
	if isbn != nil && *isbn != "" {
		query = query.Where("isbn = ?", *isbn)
	}

	var book models.Book
	err := query.First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *BookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}
