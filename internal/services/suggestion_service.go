package services

import (
	"time"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
)

// SuggestionService 成员书目提议服务
type SuggestionService struct {
	suggestRepo *repositories.SuggestionRepository
	bookRepo    *repositories.BookRepository
	clubRepo    *repositories.ClubRepository
	memberRepo  *repositories.MembershipRepository
}

func NewSuggestionService(suggestRepo *repositories.SuggestionRepository, bookRepo *repositories.BookRepository, clubRepo *repositories.ClubRepository, memberRepo *repositories.MembershipRepository) *SuggestionService {
	return &SuggestionService{
		suggestRepo: suggestRepo,
		bookRepo:    bookRepo,
		clubRepo:    clubRepo,
		memberRepo:  memberRepo,
	}
}

// SuggestionDTO 提议数据传输对象
type SuggestionDTO struct {
	ID          uint     `json:"id"`
	ClubID      uint     `json:"club_id"`
	SuggestedBy uint     `json:"suggested_by"`
	Status      string   `json:"status"`
	Book        *BookDTO `json:"book"`
	CreatedAt   string   `json:"created_at"`
}

func suggestionDTO(s *models.Suggestion) *SuggestionDTO {
	dto := &SuggestionDTO{
		ID:          s.ID,
		ClubID:      s.ClubID,
		SuggestedBy: s.SuggestedBy,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
	if s.Book != nil {
		dto.Book = bookDTO(s.Book)
	}
	return dto
}

// SuggestBook 已批准成员为俱乐部提议一本书。同一俱乐部对同一本书
// 只能有一条提议。
func (s *SuggestionService) SuggestBook(userID, clubID uint, draft *BookDraft) (*SuggestionDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if club.AdminUserID != userID {
		if err := requireApprovedMember(s.memberRepo, clubID, userID); err != nil {
			return nil, err
		}
	}

	book, err := resolveBook(s.bookRepo, draft)
	if err != nil {
		return nil, err
	}

	existing, err := s.suggestRepo.GetByClubAndBook(clubID, book.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySuggested
	}

	suggestion := &models.Suggestion{
		ClubID:      clubID,
		BookID:      book.ID,
		SuggestedBy: userID,
		Status:      models.SuggestionPending,
	}
	if err := s.suggestRepo.Create(suggestion); err != nil {
		return nil, err
	}
	suggestion.Book = book
	return suggestionDTO(suggestion), nil
}

// ListSuggestions 列出俱乐部的提议（成员可见）。
func (s *SuggestionService) ListSuggestions(userID, clubID uint) ([]SuggestionDTO, error) {
	club, err := s.clubRepo.GetByID(clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}
	if club.AdminUserID != userID {
		if err := requireApprovedMember(s.memberRepo, clubID, userID); err != nil {
			return nil, err
		}
	}

	suggestions, err := s.suggestRepo.ListByClub(clubID)
	if err != nil {
		return nil, err
	}
	dtos := make([]SuggestionDTO, 0, len(suggestions))
	for i := range suggestions {
		dtos = append(dtos, *suggestionDTO(&suggestions[i]))
	}
	return dtos, nil
}

// DismissSuggestion 管理员驳回提议。
func (s *SuggestionService) DismissSuggestion(adminID, suggestionID uint) error {
	suggestion, err := s.suggestRepo.GetByID(suggestionID)
	if err != nil {
		return ErrSuggestionNotFound
	}

	club, err := s.clubRepo.GetByID(suggestion.ClubID)
	if err != nil {
		return ErrClubNotFound
	}
	if err := requireAdmin(club, adminID); err != nil {
		return err
	}

	return s.suggestRepo.UpdateStatus(suggestionID, models.SuggestionDismissed)
}
