package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/internal/services"
)

// MeetingHandler 聚会与出席回执处理器
type MeetingHandler struct {
	MeetingService *services.MeetingService
}

func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{MeetingService: meetingService}
}

// SaveMeeting 管理员创建或编辑聚会
func (h *MeetingHandler) SaveMeeting(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	var req services.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.MeetingService.CreateOrUpdateMeeting(userID, clubID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListUpcoming 俱乐部未来的聚会
func (h *MeetingHandler) ListUpcoming(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clubID, ok := parseIDParam(c, "club_id")
	if !ok {
		return
	}

	resp, err := h.MeetingService.ListUpcomingMeetings(userID, clubID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RSVP 成员答复是否出席
func (h *MeetingHandler) RSVP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	meetingID, ok := parseIDParam(c, "meeting_id")
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

	if err := h.MeetingService.RSVP(userID, meetingID, req.Status); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rsvp saved"})
}
