package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/internal/services"
)

// LibraryHandler 个人书单处理器
type LibraryHandler struct {
	LibraryService *services.LibraryService
}

func NewLibraryHandler(libraryService *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{LibraryService: libraryService}
}

// AddBook 把书加入某个书单
func (h *LibraryHandler) AddBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Book     services.BookDraft `json:"book"`
		ListType string             `json:"list_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.LibraryService.AddBookToList(userID, &req.Book, req.ListType)
	if err != nil {
		writeError(c, err)
		return
	}

	if resp.AlreadyInList {
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MoveBook 在书单之间移动
func (h *LibraryHandler) MoveBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	var req struct {
		ListType string `json:"list_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.LibraryService.MoveBook(userID, bookID, req.ListType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveBook 从书单移除
func (h *LibraryHandler) RemoveBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	if err := h.LibraryService.RemoveBook(userID, bookID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book removed"})
}

// ListBooks 按书单类型列出图书，list_type 为空时返回全部
func (h *LibraryHandler) ListBooks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.LibraryService.ListBooks(userID, c.Query("list_type"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
