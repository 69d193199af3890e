package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/internal/services"
)

// ClubHandler 俱乐部与成员关系处理器
type ClubHandler struct {
	ClubService *services.ClubService
}

func NewClubHandler(clubService *services.ClubService) *ClubHandler {
	return &ClubHandler{ClubService: clubService}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// CreateClub 创建俱乐部，调用者成为管理员
func (h *ClubHandler) CreateClub(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.ClubService.CreateClub(userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListClubs 列出可发现的俱乐部
func (h *ClubHandler) ListClubs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.ClubService.ListClubs(userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetClub 俱乐部详情
func (h *ClubHandler) GetClub(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	resp, err := h.ClubService.GetClub(userID, clubID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MyClubs 当前用户加入的俱乐部
func (h *ClubHandler) MyClubs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.ClubService.MyClubs(userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// JoinClub 申请加入俱乐部
func (h *ClubHandler) JoinClub(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	resp, err := h.ClubService.JoinClub(userID, clubID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// LeaveClub 退出俱乐部
func (h *ClubHandler) LeaveClub(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	if err := h.ClubService.LeaveClub(userID, clubID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left club"})
}

// ListMembers 列出成员
func (h *ClubHandler) ListMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	resp, err := h.ClubService.ListMembers(userID, clubID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateMemberStatus 管理员审批成员
func (h *ClubHandler) UpdateMemberStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	membershipID, ok := parseIDParam(c, "membership_id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.ClubService.UpdateMemberStatus(userID, membershipID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveMember 管理员移除成员
func (h *ClubHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	membershipID, ok := parseIDParam(c, "membership_id")
	if !ok {
		return
	}

	if err := h.ClubService.RemoveMember(userID, membershipID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}
