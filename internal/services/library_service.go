package services

import (
	"time"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
)

// LibraryService 个人书单服务，与任何俱乐部无关。
type LibraryService struct {
	libraryRepo *repositories.LibraryRepository
	bookRepo    *repositories.BookRepository
}

func NewLibraryService(libraryRepo *repositories.LibraryRepository, bookRepo *repositories.BookRepository) *LibraryService {
	return &LibraryService{
		libraryRepo: libraryRepo,
		bookRepo:    bookRepo,
	}
}

// ListEntryDTO 书单条目数据传输对象
type ListEntryDTO struct {
	ID       uint     `json:"id"`
	ListType string   `json:"list_type"`
	Book     *BookDTO `json:"book"`
	AddedAt  string   `json:"added_at"`
}

// AddResult 加入书单的结果。AlreadyInList 表示重复加入同一书单，
// 作为信息性 no-op 而非错误返回。
type AddResult struct {
	Entry         *ListEntryDTO `json:"entry"`
	AlreadyInList bool          `json:"already_in_list"`
}

func validListType(listType string) bool {
	switch listType {
	case models.ListReadingNow, models.ListRead, models.ListWantToRead:
		return true
	}
	return false
}

// AddBookToList 解析/建档书目后 upsert 书单条目。条目已存在且书单
// 不同则覆盖 list_type（隐式移动）；已在目标书单则原样返回。
func (s *LibraryService) AddBookToList(userID uint, draft *BookDraft, listType string) (*AddResult, error) {
	if !validListType(listType) {
		return nil, ErrInvalidListType
	}

	book, err := resolveBook(s.bookRepo, draft)
	if err != nil {
		return nil, err
	}

	existing, err := s.libraryRepo.GetEntry(userID, book.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ListType == listType {
		return &AddResult{
			Entry:         entryDTO(existing, book),
			AlreadyInList: true,
		}, nil
	}

	entry := &models.ListEntry{
		UserID:   userID,
		BookID:   book.ID,
		ListType: listType,
	}
	if err := s.libraryRepo.Upsert(entry); err != nil {
		return nil, err
	}

	// upsert 命中已有行时重新读取当前状态
	entry, err = s.libraryRepo.GetEntry(userID, book.ID)
	if err != nil {
		return nil, err
	}
	return &AddResult{Entry: entryDTO(entry, book)}, nil
}

// MoveBook 把已有条目移到另一个书单（更新 list_type，不是删除重建）。
func (s *LibraryService) MoveBook(userID, bookID uint, toListType string) (*ListEntryDTO, error) {
	if !validListType(toListType) {
		return nil, ErrInvalidListType
	}

	entry, err := s.libraryRepo.GetEntry(userID, bookID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrBookNotInList
	}

	entry.ListType = toListType
	if err := s.libraryRepo.Upsert(entry); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, ErrBookNotFound
	}
	return entryDTO(entry, book), nil
}

// RemoveBook 从书单中移除书目。
func (s *LibraryService) RemoveBook(userID, bookID uint) error {
	entry, err := s.libraryRepo.GetEntry(userID, bookID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrBookNotInList
	}
	return s.libraryRepo.Delete(userID, bookID)
}

// ListBooks 返回用户书单；listType 为空时返回全部书单。
func (s *LibraryService) ListBooks(userID uint, listType string) ([]ListEntryDTO, error) {
	if listType != "" && !validListType(listType) {
		return nil, ErrInvalidListType
	}

	entries, err := s.libraryRepo.ListByUser(userID, listType)
	if err != nil {
		return nil, err
	}
	dtos := make([]ListEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, *entryDTO(&entries[i], entries[i].Book))
	}
	return dtos, nil
}

func entryDTO(entry *models.ListEntry, book *models.Book) *ListEntryDTO {
	dto := &ListEntryDTO{
		ID:       entry.ID,
		ListType: entry.ListType,
		AddedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
	if book != nil {
		dto.Book = bookDTO(book)
	}
	return dto
}
