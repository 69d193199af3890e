package services

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextchapter/bookclub/internal/models"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/internal/storage"
)

var testDBSeq atomic.Int64

// newTestDB creates an isolated in-memory sqlite database migrated with the
// full schema. A single connection keeps the shared-cache database alive for
// the duration of the test; the sequence number isolates repeated setups
// within one test (property-based runs).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, storage.Migrate(db))
	return db
}

// testEnv bundles every service over one database so tests can drive
// complete flows without going through HTTP.
type testEnv struct {
	db *gorm.DB

	auth        *AuthService
	clubs       *ClubService
	books       *BookService
	notes       *NotesService
	meetings    *MeetingService
	library     *LibraryService
	suggestions *SuggestionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	userRepo := repositories.NewUserRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	memberRepo := repositories.NewMembershipRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	clubBookRepo := repositories.NewClubBookRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	meetingRepo := repositories.NewMeetingRepository(db)
	libraryRepo := repositories.NewLibraryRepository(db)
	suggestRepo := repositories.NewSuggestionRepository(db)

	nop := zap.NewNop()

	return &testEnv{
		db:          db,
		auth:        NewAuthService(userRepo),
		clubs:       NewClubService(clubRepo, memberRepo, nil, nop),
		books:       NewBookService(db, clubRepo, bookRepo, clubBookRepo, suggestRepo, memberRepo, nil, nop),
		notes:       NewNotesService(noteRepo, clubBookRepo, memberRepo),
		meetings:    NewMeetingService(meetingRepo, clubRepo, memberRepo, nil, nop),
		library:     NewLibraryService(libraryRepo, bookRepo),
		suggestions: NewSuggestionService(suggestRepo, bookRepo, clubRepo, memberRepo),
	}
}

// createUser inserts a user directly and returns its ID.
func (e *testEnv) createUser(t *testing.T, username string) uint {
	t.Helper()
	user := &models.User{
		UserName:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
		DisplayName:  username,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user.ID
}

// createClub creates a club through the service so the admin membership
// row is written as well.
func (e *testEnv) createClub(t *testing.T, adminID uint, name, privacy string) uint {
	t.Helper()
	club, err := e.clubs.CreateClub(adminID, &CreateClubRequest{Name: name, Privacy: privacy})
	require.NoError(t, err)
	return club.ID
}

// approvedMember joins userID to clubID and approves if needed.
func (e *testEnv) approvedMember(t *testing.T, adminID, userID, clubID uint) {
	t.Helper()
	member, err := e.clubs.JoinClub(userID, clubID)
	require.NoError(t, err)
	if member.Status != models.MemberApproved {
		_, err = e.clubs.UpdateMemberStatus(adminID, member.ID, models.MemberApproved)
		require.NoError(t, err)
	}
}

func draft(title, author string) *BookDraft {
	return &BookDraft{Title: title, Author: author}
}
