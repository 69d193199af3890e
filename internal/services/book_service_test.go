package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nextchapter/bookclub/internal/models"
)

func TestSetCurrentBook_AdminOnly(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)
	e.approvedMember(t, admin, bob, club)

	_, err := e.books.SetCurrentBook(bob, club, draft("Dune", "Frank Herbert"))
	assert.ErrorIs(t, err, ErrNotClubAdmin)

	cb, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)
	assert.Equal(t, models.ClubBookCurrent, cb.Status)
	assert.False(t, cb.NotesRevealed)

	got, err := e.clubs.GetClub(admin, club)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentBookID)
	assert.Equal(t, cb.BookID, *got.CurrentBookID)
}

// TestSetCurrentBook_DemotesPrevious: picking a new book moves the old
// cycle to past and repoints the club in the same transaction.
func TestSetCurrentBook_DemotesPrevious(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)

	first, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)
	second, err := e.books.SetCurrentBook(admin, club, draft("Emma", "Jane Austen"))
	require.NoError(t, err)
	require.NotEqual(t, first.BookID, second.BookID)

	cycles, err := e.books.GetClubBooks(admin, club)
	require.NoError(t, err)
	require.Len(t, cycles, 2)

	byBook := map[uint]ClubBookDTO{}
	for _, c := range cycles {
		byBook[c.BookID] = c
	}
	assert.Equal(t, models.ClubBookPast, byBook[first.BookID].Status)
	assert.Equal(t, models.ClubBookCurrent, byBook[second.BookID].Status)
}

// TestSetCurrentBook_BookResolution: the same metadata never produces a
// second books row, across clubs and personal lists alike.
func TestSetCurrentBook_BookResolution(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	clubA := e.createClub(t, admin, "Club A", models.PrivacyPublic)
	clubB := e.createClub(t, admin, "Club B", models.PrivacyPublic)

	a, err := e.books.SetCurrentBook(admin, clubA, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)
	b, err := e.books.SetCurrentBook(admin, clubB, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)
	assert.Equal(t, a.BookID, b.BookID)

	var count int64
	require.NoError(t, e.db.Model(&models.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetCurrentBook_DraftValidation(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)

	_, err := e.books.SetCurrentBook(admin, club, draft("  ", "Frank Herbert"))
	assert.ErrorIs(t, err, ErrBookDraft)

	// Failed validation leaves no partial state behind.
	var books, cycles int64
	require.NoError(t, e.db.Model(&models.Book{}).Count(&books).Error)
	require.NoError(t, e.db.Model(&models.ClubBook{}).Count(&cycles).Error)
	assert.Zero(t, books)
	assert.Zero(t, cycles)
}

func TestRevealNotes_OneWayAndIdempotent(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)
	e.approvedMember(t, admin, bob, club)

	cb, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)

	_, err = e.books.RevealNotes(bob, club, cb.BookID)
	assert.ErrorIs(t, err, ErrNotClubAdmin)

	revealed, err := e.books.RevealNotes(admin, club, cb.BookID)
	require.NoError(t, err)
	assert.True(t, revealed.NotesRevealed)

	// Revealing again is a no-op, not an error.
	again, err := e.books.RevealNotes(admin, club, cb.BookID)
	require.NoError(t, err)
	assert.True(t, again.NotesRevealed)
}

// TestReselectingBookRelocksNotes: choosing a previously read book again
// starts a fresh cycle with notes private.
func TestReselectingBookRelocksNotes(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)

	first, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)
	_, err = e.books.RevealNotes(admin, club, first.BookID)
	require.NoError(t, err)

	_, err = e.books.SetCurrentBook(admin, club, draft("Emma", "Jane Austen"))
	require.NoError(t, err)

	reselected, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, reselected.ID, "same (club, book) row is reused")
	assert.Equal(t, models.ClubBookCurrent, reselected.Status)
	assert.False(t, reselected.NotesRevealed, "re-selecting must re-lock notes")
}

func TestGetClubBooks_MembersOnly(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "alice")
	outsider := e.createUser(t, "oscar")
	club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)

	_, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
	require.NoError(t, err)

	_, err = e.books.GetClubBooks(outsider, club)
	assert.ErrorIs(t, err, ErrNotMember)
}

// TestRevealMonotonic_Property drives a random operation sequence against a
// cycle and checks notes_revealed never transitions true -> false except
// through re-selection.
func TestRevealMonotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEnv(t)
		admin := e.createUser(t, "alice")
		club := e.createClub(t, admin, "Open Shelf", models.PrivacyPublic)

		cb, err := e.books.SetCurrentBook(admin, club, draft("Dune", "Frank Herbert"))
		require.NoError(rt, err)

		revealed := false
		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for range steps {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				got, err := e.books.RevealNotes(admin, club, cb.BookID)
				require.NoError(rt, err)
				revealed = true
				require.True(rt, got.NotesRevealed)
			case 1:
				_, err := e.notes.AddNote(admin, cb.ID, "a thought")
				require.NoError(rt, err)
			case 2:
				require.NoError(rt, e.notes.UpsertRating(admin, cb.ID, 4))
			}

			var row models.ClubBook
			require.NoError(rt, e.db.First(&row, cb.ID).Error)
			if revealed {
				require.True(rt, row.NotesRevealed, "reveal must be one-way")
			}
		}
	})
}
