package services

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
)

// NotesService 私人笔记金库：成员在阅读周期内写下的笔记、问题和评分。
// 写入只属于作者本人；其他人只有在 notes_revealed 之后才能读到。
type NotesService struct {
	noteRepo     *repositories.NoteRepository
	clubBookRepo *repositories.ClubBookRepository
	memberRepo   *repositories.MembershipRepository
}

func NewNotesService(noteRepo *repositories.NoteRepository, clubBookRepo *repositories.ClubBookRepository, memberRepo *repositories.MembershipRepository) *NotesService {
	return &NotesService{
		noteRepo:     noteRepo,
		clubBookRepo: clubBookRepo,
		memberRepo:   memberRepo,
	}
}

// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// MemberNotesDTO 公开后按成员分组的笔记与问题
type MemberNotesDTO struct {
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Notes       []NoteDTO `json:"notes"`
	Questions   []NoteDTO `json:"questions"`
}

// BookDataDTO 成员自己的三类私有数据
type BookDataDTO struct {
	Notes     []NoteDTO `json:"notes"`
	Questions []NoteDTO `json:"questions"`
	Rating    *float64  `json:"rating"`
}

// requireCycleMember 校验阅读周期存在且用户是所属俱乐部的已批准成员。
func (s *NotesService) requireCycleMember(userID, clubBookID uint) (*models.ClubBook, error) {
	clubBook, err := s.clubBookRepo.GetByID(clubBookID)
	if err != nil {
		return nil, ErrClubBookNotFound
	}
	member, err := s.memberRepo.GetByClubAndUser(clubBook.ClubID, userID)
	if err != nil || member.Status != models.MemberApproved {
		return nil, ErrNotMember
	}
	return clubBook, nil
}

// AddNote 追加一条私人笔记。历史是只增的：没有编辑或覆盖旧笔记的路径。
func (s *NotesService) AddNote(userID, clubBookID uint, text string) (*NoteDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if _, err := s.requireCycleMember(userID, clubBookID); err != nil {
		return nil, err
	}

	note := &models.BookNote{
		UserID:     userID,
		ClubBookID: clubBookID,
		Text:       text,
	}
	if err := s.noteRepo.CreateNote(note); err != nil {
		return nil, err
	}
	return &NoteDTO{ID: note.ID, Text: note.Text, CreatedAt: note.CreatedAt.Format(time.RFC3339)}, nil
}

// AddQuestion 追加一条讨论问题。
func (s *NotesService) AddQuestion(userID, clubBookID uint, text string) (*NoteDTO, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if _, err := s.requireCycleMember(userID, clubBookID); err != nil {
		return nil, err
	}

	question := &models.BookQuestion{
		UserID:     userID,
		ClubBookID: clubBookID,
		Text:       text,
	}
	if err := s.noteRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return &NoteDTO{ID: question.ID, Text: question.Text, CreatedAt: question.CreatedAt.Format(time.RFC3339)}, nil
}

// UpsertRating 写入或更新成员评分。取值 [0,5]，步长 0.5。
// 同时把派生的平均分写回周期记录。
func (s *NotesService) UpsertRating(userID, clubBookID uint, rating float64) error {
	if rating < 0 || rating > 5 || math.Mod(rating*2, 1) != 0 {
		return ErrInvalidRating
	}
	if _, err := s.requireCycleMember(userID, clubBookID); err != nil {
		return err
	}

	if err := s.noteRepo.UpsertRating(&models.BookRating{
		UserID:     userID,
		ClubBookID: clubBookID,
		Rating:     rating,
	}); err != nil {
		return err
	}

	avg, err := s.noteRepo.AverageRating(clubBookID)
	if err != nil {
		return err
	}
	return s.clubBookRepo.UpdateAverageRating(clubBookID, avg)
}

// GetMyBookData 并发取回调用者自己的笔记、问题与评分（三路 fan-out）。
func (s *NotesService) GetMyBookData(userID, clubBookID uint) (*BookDataDTO, error) {
	if _, err := s.requireCycleMember(userID, clubBookID); err != nil {
		return nil, err
	}

	var (
		wg        sync.WaitGroup
		notes     []models.BookNote
		questions []models.BookQuestion
		rating    *models.BookRating
		errs      [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		notes, errs[0] = s.noteRepo.ListNotesByUser(userID, clubBookID)
	}()
	go func() {
		defer wg.Done()
		questions, errs[1] = s.noteRepo.ListQuestionsByUser(userID, clubBookID)
	}()
	go func() {
		defer wg.Done()
		rating, errs[2] = s.noteRepo.GetRating(userID, clubBookID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	data := &BookDataDTO{
		Notes:     make([]NoteDTO, 0, len(notes)),
		Questions: make([]NoteDTO, 0, len(questions)),
	}
	for _, n := range notes {
		data.Notes = append(data.Notes, NoteDTO{ID: n.ID, Text: n.Text, CreatedAt: n.CreatedAt.Format(time.RFC3339)})
	}
	for _, q := range questions {
		data.Questions = append(data.Questions, NoteDTO{ID: q.ID, Text: q.Text, CreatedAt: q.CreatedAt.Format(time.RFC3339)})
	}
	if rating != nil {
		data.Rating = &rating.Rating
	}
	return data, nil
}

// ListRevealedNotes 返回周期内全部成员的笔记与问题，按成员分组。
// 这是整个系统的核心可见性规则：读取者必须是该俱乐部的已批准成员，
// 且该周期的 notes_revealed 已为 true；两个条件任一不满足都拒绝。
func (s *NotesService) ListRevealedNotes(readerID, clubBookID uint) ([]MemberNotesDTO, error) {
	clubBook, err := s.requireCycleMember(readerID, clubBookID)
	if err != nil {
		return nil, err
	}
	if !clubBook.NotesRevealed {
		return nil, ErrNotesNotRevealed
	}

	notes, err := s.noteRepo.ListRevealedNotes(clubBookID)
	if err != nil {
		return nil, err
	}
	questions, err := s.noteRepo.ListRevealedQuestions(clubBookID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uint]*MemberNotesDTO)
	order := make([]uint, 0)

	ensure := func(userID uint, displayName string) *MemberNotesDTO {
		if m, ok := grouped[userID]; ok {
			return m
		}
		m := &MemberNotesDTO{
			UserID:      userID,
			DisplayName: displayName,
			Notes:       []NoteDTO{},
			Questions:   []NoteDTO{},
		}
		grouped[userID] = m
		order = append(order, userID)
		return m
	}

	for _, n := range notes {
		name := ""
		if n.User != nil {
			name = n.User.DisplayName
		}
		m := ensure(n.UserID, name)
		m.Notes = append(m.Notes, NoteDTO{ID: n.ID, Text: n.Text, CreatedAt: n.CreatedAt.Format(time.RFC3339)})
	}
	for _, q := range questions {
		name := ""
		if q.User != nil {
			name = q.User.DisplayName
		}
		m := ensure(q.UserID, name)
		m.Questions = append(m.Questions, NoteDTO{ID: q.ID, Text: q.Text, CreatedAt: q.CreatedAt.Format(time.RFC3339)})
	}

	result := make([]MemberNotesDTO, 0, len(order))
	for _, id := range order {
		result = append(result, *grouped[id])
	}
	return result, nil
}
