package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/internal/openlibrary"
	"github.com/nextchapter/bookclub/internal/services"
)

// BookHandler 图书检索、本期书目与推荐处理器
type BookHandler struct {
	BookService       *services.BookService
	SuggestionService *services.SuggestionService
	OpenLibrary       *openlibrary.Client
}

func NewBookHandler(bookService *services.BookService, suggestionService *services.SuggestionService, ol *openlibrary.Client) *BookHandler {
	return &BookHandler{
		BookService:       bookService,
		SuggestionService: suggestionService,
		OpenLibrary:       ol,
	}
}

// SearchBooks 通过 Open Library 搜索图书
func (h *BookHandler) SearchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.OpenLibrary.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "book search is unavailable"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// LookupISBN 按 ISBN 精确查询图书
func (h *BookHandler) LookupISBN(c *gin.Context) {
	isbn := strings.TrimSpace(c.Param("isbn"))
	if isbn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isbn is required"})
		return
	}

	result, err := h.OpenLibrary.ByISBN(c.Request.Context(), isbn)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "book search is unavailable"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no book found for this isbn"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SetCurrentBook 管理员指定本期书目
func (h *BookHandler) SetCurrentBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	var draft services.BookDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.BookService.SetCurrentBook(userID, clubID, &draft)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RevealNotes 管理员公开某本书的笔记与问题
func (h *BookHandler) RevealNotes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	resp, err := h.BookService.RevealNotes(userID, clubID, bookID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetClubBooks 俱乐部历史书目（含当前）
func (h *BookHandler) GetClubBooks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	resp, err := h.BookService.GetClubBooks(userID, clubID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SuggestBook 成员推荐下一本书
func (h *BookHandler) SuggestBook(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	var draft services.BookDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.SuggestionService.SuggestBook(userID, clubID, &draft)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListSuggestions 查看推荐列表
func (h *BookHandler) ListSuggestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	resp, err := h.SuggestionService.ListSuggestions(userID, clubID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DismissSuggestion 管理员驳回推荐
func (h *BookHandler) DismissSuggestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	suggestionID, ok := parseIDParam(c, "suggestion_id")
	if !ok {
		return
	}

	if err := h.SuggestionService.DismissSuggestion(userID, suggestionID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "suggestion dismissed"})
}
