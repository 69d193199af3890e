package services

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is;
// anything that matches none of them is treated as a backend failure.
var (
	ErrValidation = errors.New("invalid input")
	ErrDuplicate  = errors.New("duplicate")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrClubNameRequired    = kind(ErrValidation, "club name is required")
	ErrInvalidPrivacy      = kind(ErrValidation, "invalid privacy level")
	ErrEmptyText           = kind(ErrValidation, "text must not be empty")
	ErrInvalidRating       = kind(ErrValidation, "rating must be between 0 and 5 in half-point steps")
	ErrInvalidListType     = kind(ErrValidation, "invalid list type")
	ErrInvalidRSVP         = kind(ErrValidation, "invalid rsvp status")
	ErrInvalidMemberStatus = kind(ErrValidation, "status must be approved or declined")
	ErrMeetingTitle        = kind(ErrValidation, "meeting title is required")
	ErrMeetingTime         = kind(ErrValidation, "meeting time is required")
	ErrBookDraft           = kind(ErrValidation, "book title and author are required")

	ErrAlreadyMember    = kind(ErrDuplicate, "membership already exists for this club")
	ErrAlreadySuggested = kind(ErrDuplicate, "book already suggested for this club")

	ErrClubNotFound       = kind(ErrNotFound, "club not found")
	ErrBookNotFound       = kind(ErrNotFound, "book not found")
	ErrMembershipNotFound = kind(ErrNotFound, "membership not found")
	ErrClubBookNotFound   = kind(ErrNotFound, "no reading cycle for this club and book")
	ErrMeetingNotFound    = kind(ErrNotFound, "meeting not found")
	ErrSuggestionNotFound = kind(ErrNotFound, "suggestion not found")
	ErrBookNotInList      = kind(ErrNotFound, "book is not in any list")

	ErrNotClubAdmin      = kind(ErrForbidden, "only the club admin may do this")
	ErrNotMember         = kind(ErrForbidden, "not an approved member of this club")
	ErrAdminCannotLeave  = kind(ErrForbidden, "the club admin cannot leave the club")
	ErrCannotRemoveAdmin = kind(ErrForbidden, "the club admin cannot be removed")
	ErrNotesNotRevealed  = kind(ErrForbidden, "notes have not been revealed for this book")
)

type kindError struct {
	base error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.base }

func kind(base error, msg string) error {
	return &kindError{base: base, msg: msg}
}
