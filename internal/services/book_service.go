package services

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/pkg/mq"
)

// BookDraft 外部书目目录返回的候选元数据，用于去重后惰性建档。
type BookDraft struct {
	Title     string  `json:"title" binding:"required"`
	Author    string  `json:"author" binding:"required"`
	ISBN      *string `json:"isbn"`
	CoverURL  string  `json:"cover_url"`
	Synopsis  string  `json:"synopsis"`
	PageCount *int    `json:"page_count"`
}

// BookDTO 书目数据传输对象
type BookDTO struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	ISBN      *string `json:"isbn"`
	CoverURL  string  `json:"cover_url"`
	Synopsis  string  `json:"synopsis"`
	PageCount *int    `json:"page_count"`
}

// ClubBookDTO 阅读周期数据传输对象
type ClubBookDTO struct {
	ID            uint     `json:"id"`
	ClubID        uint     `json:"club_id"`
	BookID        uint     `json:"book_id"`
	Status        string   `json:"status"`
	NotesRevealed bool     `json:"notes_revealed"`
	AverageRating *float64 `json:"average_rating"`
	Book          *BookDTO `json:"book,omitempty"`
}

func bookDTO(book *models.Book) *BookDTO {
	return &BookDTO{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		CoverURL:  book.CoverURL,
		Synopsis:  book.Synopsis,
		PageCount: book.PageCount,
	}
}

func clubBookDTO(cb *models.ClubBook) *ClubBookDTO {
	dto := &ClubBookDTO{
		ID:            cb.ID,
		ClubID:        cb.ClubID,
		BookID:        cb.BookID,
		Status:        cb.Status,
		NotesRevealed: cb.NotesRevealed,
		AverageRating: cb.AverageRating,
	}
	if cb.Book != nil {
		dto.Book = bookDTO(cb.Book)
	}
	return dto
}

// BookService 当前书目指派与笔记公开门。
type BookService struct {
	db           *gorm.DB
	clubRepo     *repositories.ClubRepository
	bookRepo     *repositories.BookRepository
	clubBookRepo *repositories.ClubBookRepository
	suggestRepo  *repositories.SuggestionRepository
	memberRepo   *repositories.MembershipRepository
	events       *mq.ActivityProducer
	logger       *zap.Logger
}

func NewBookService(
	db *gorm.DB,
	clubRepo *repositories.ClubRepository,
	bookRepo *repositories.BookRepository,
	clubBookRepo *repositories.ClubBookRepository,
	suggestRepo *repositories.SuggestionRepository,
	memberRepo *repositories.MembershipRepository,
	events *mq.ActivityProducer,
	logger *zap.Logger,
) *BookService {
	return &BookService{
		db:           db,
		clubRepo:     clubRepo,
		bookRepo:     bookRepo,
		clubBookRepo: clubBookRepo,
		suggestRepo:  suggestRepo,
		memberRepo:   memberRepo,
		events:       events,
		logger:       logger,
	}
}

// resolveBook 按 (title, author[, isbn]) 查找，未命中则插入。
// 同一份元数据重复解析永远不会产生第二行。
func resolveBook(repo *repositories.BookRepository, draft *BookDraft) (*models.Book, error) {
	title := strings.TrimSpace(draft.Title)
	author := strings.TrimSpace(draft.Author)
	if title == "" || author == "" {
		return nil, ErrBookDraft
	}

	book, err := repo.Find(title, author, draft.ISBN)
	if err != nil {
		return nil, err
	}
	if book != nil {
		return book, nil
	}

	book = &models.Book{
		Title:     title,
		Author:    author,
		ISBN:      draft.ISBN,
		CoverURL:  draft.CoverURL,
		Synopsis:  draft.Synopsis,
		PageCount: draft.PageCount,
	}
	if err := repo.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

// SetCurrentBook 管理员指派俱乐部当前书目。解析书目、降级旧周期、
// upsert 新周期并更新俱乐部指针，全部在一个事务里完成，不留下
// 部分写入的中间态。重新选择旧书会把该周期的 notes_revealed 重置
// 为 false（重新锁定笔记）。
func (s *BookService) SetCurrentBook(adminID, clubID uint, draft *BookDraft) (*ClubBookDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if err := requireAdmin(club, adminID); err != nil {
		return nil, err
	}

	var clubBook *models.ClubBook
	var book *models.Book
	err = s.db.Transaction(func(tx *gorm.DB) error {
		book, err = resolveBook(s.bookRepo.WithTx(tx), draft)
		if err != nil {
			return err
		}

		if err := s.clubBookRepo.WithTx(tx).DemoteCurrent(clubID); err != nil {
			return err
		}

		clubBook, err = s.clubBookRepo.WithTx(tx).UpsertCurrent(clubID, book.ID)
		if err != nil {
			return err
		}

		if err := s.clubRepo.WithTx(tx).UpdateCurrentBook(clubID, book.ID); err != nil {
			return err
		}

		// 提议的书被选中时更新提议状态
		return s.suggestRepo.WithTx(tx).MarkSelected(clubID, book.ID)
	})
	if err != nil {
		return nil, err
	}

	s.emit(mq.Event{
		Type:    mq.EventCurrentBookSet,
		ClubID:  clubID,
		ActorID: adminID,
		Payload: map[string]any{"book_id": book.ID, "title": book.Title},
	})

	clubBook.Book = book
	return clubBookDTO(clubBook), nil
}

// RevealNotes 管理员公开当前书目下所有成员的笔记与问题。单向转换：
// 该周期记录一旦公开，任何在册操作都不会再改回私密。
func (s *BookService) RevealNotes(adminID, clubID, bookID uint) (*ClubBookDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if err := requireAdmin(club, adminID); err != nil {
		return nil, err
	}

	clubBook, err := s.clubBookRepo.GetByClubAndBook(clubID, bookID)
	if err != nil {
		return nil, ErrClubBookNotFound
	}

	if !clubBook.NotesRevealed {
		if err := s.clubBookRepo.Reveal(clubID, bookID); err != nil {
			return nil, err
		}
		clubBook.NotesRevealed = true

		s.emit(mq.Event{
			Type:    mq.EventNotesRevealed,
			ClubID:  clubID,
			ActorID: adminID,
			Payload: map[string]any{"book_id": bookID},
		})
	}

	return clubBookDTO(clubBook), nil
}

// GetClubBooks 返回俱乐部的阅读周期列表（成员可见）。
func (s *BookService) GetClubBooks(userID, clubID uint) ([]ClubBookDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if club.AdminUserID != userID {
		if err := requireApprovedMember(s.memberRepo, clubID, userID); err != nil {
			return nil, err
		}
	}

	cbs, err := s.clubBookRepo.ListByClub(clubID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ClubBookDTO, 0, len(cbs))
	for i := range cbs {
		dtos = append(dtos, *clubBookDTO(&cbs[i]))
	}
	return dtos, nil
}

func (s *BookService) emit(event mq.Event) {
	if err := s.events.Emit(event); err != nil {
		s.logger.Warn("failed to emit club event",
			zap.String("type", event.Type),
			zap.Uint("club_id", event.ClubID),
			zap.Error(err),
		)
	}
}
