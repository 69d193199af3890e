package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/internal/services"
)

// NotesHandler 私人笔记、问题与评分处理器
type NotesHandler struct {
	NotesService *services.NotesService
}

func NewNotesHandler(notesService *services.NotesService) *NotesHandler {
	return &NotesHandler{NotesService: notesService}
}

// AddNote 追加一条私人笔记
func (h *NotesHandler) AddNote(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubBookID, ok := parseIDParam(c, "club_book_id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.NotesService.AddNote(userID, clubBookID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// AddQuestion 追加一条讨论问题
func (h *NotesHandler) AddQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubBookID, ok := parseIDParam(c, "club_book_id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.NotesService.AddQuestion(userID, clubBookID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpsertRating 写入或更新评分
func (h *NotesHandler) UpsertRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubBookID, ok := parseIDParam(c, "club_book_id")
	if !ok {
		return
	}

	var req struct {
		Rating float64 `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.NotesService.UpsertRating(userID, clubBookID, req.Rating); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating saved"})
}

// GetMyBookData 当前用户在某本书下的笔记、问题与评分
func (h *NotesHandler) GetMyBookData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubBookID, ok := parseIDParam(c, "club_book_id")
	if !ok {
		return
	}

	resp, err := h.NotesService.GetMyBookData(userID, clubBookID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListRevealedNotes 公开后按成员分组的笔记与问题
func (h *NotesHandler) ListRevealedNotes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubBookID, ok := parseIDParam(c, "club_book_id")
	if !ok {
		return
	}

	resp, err := h.NotesService.ListRevealedNotes(userID, clubBookID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
