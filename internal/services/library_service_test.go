package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextchapter/bookclub/internal/models"
)

func TestAddBookToList(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "alice")

	res, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListWantToRead)
	require.NoError(t, err)
	assert.False(t, res.AlreadyInList)
	assert.Equal(t, models.ListWantToRead, res.Entry.ListType)
	require.NotNil(t, res.Entry.Book)
	assert.Equal(t, "Dune", res.Entry.Book.Title)

	_, err = e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), "favorites")
	assert.ErrorIs(t, err, ErrInvalidListType)
}

// TestAddBookToList_SameListIsNoOp: re-adding to the same list reports
// already_in_list instead of erroring or duplicating.
func TestAddBookToList_SameListIsNoOp(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "alice")

	first, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListRead)
	require.NoError(t, err)

	again, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListRead)
	require.NoError(t, err)
	assert.True(t, again.AlreadyInList)
	assert.Equal(t, first.Entry.ID, again.Entry.ID)

	var count int64
	require.NoError(t, e.db.Model(&models.ListEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestAddBookToList_DifferentListMoves: a book lives in exactly one list
// per user; adding to another list overwrites the placement.
func TestAddBookToList_DifferentListMoves(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "alice")

	_, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListWantToRead)
	require.NoError(t, err)

	moved, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListReadingNow)
	require.NoError(t, err)
	assert.False(t, moved.AlreadyInList)
	assert.Equal(t, models.ListReadingNow, moved.Entry.ListType)

	var count int64
	require.NoError(t, e.db.Model(&models.ListEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMoveBook(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "alice")

	res, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListReadingNow)
	require.NoError(t, err)
	bookID := res.Entry.Book.ID

	entry, err := e.library.MoveBook(user, bookID, models.ListRead)
	require.NoError(t, err)
	assert.Equal(t, models.ListRead, entry.ListType)

	_, err = e.library.MoveBook(user, bookID+99, models.ListRead)
	assert.ErrorIs(t, err, ErrBookNotInList)
	_, err = e.library.MoveBook(user, bookID, "shelf")
	assert.ErrorIs(t, err, ErrInvalidListType)
}

func TestRemoveBook(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "alice")

	res, err := e.library.AddBookToList(user, draft("Dune", "Frank Herbert"), models.ListRead)
	require.NoError(t, err)
	bookID := res.Entry.Book.ID

	require.NoError(t, e.library.RemoveBook(user, bookID))
	assert.ErrorIs(t, e.library.RemoveBook(user, bookID), ErrBookNotInList)

	// Removing the list entry must not delete the shared book record.
	var books int64
	require.NoError(t, e.db.Model(&models.Book{}).Count(&books).Error)
	assert.Equal(t, int64(1), books)
}

// TestListBooks: lists are per user, filterable by type.
func TestListBooks(t *testing.T) {
	e := newTestEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	_, err := e.library.AddBookToList(alice, draft("Dune", "Frank Herbert"), models.ListRead)
	require.NoError(t, err)
	_, err = e.library.AddBookToList(alice, draft("Emma", "Jane Austen"), models.ListWantToRead)
	require.NoError(t, err)
	_, err = e.library.AddBookToList(bob, draft("Dune", "Frank Herbert"), models.ListReadingNow)
	require.NoError(t, err)

	all, err := e.library.ListBooks(alice, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	read, err := e.library.ListBooks(alice, models.ListRead)
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, "Dune", read[0].Book.Title)

	_, err = e.library.ListBooks(alice, "shelf")
	assert.ErrorIs(t, err, ErrInvalidListType)
}
