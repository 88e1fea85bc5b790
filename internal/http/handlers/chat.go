package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type PostMessageRequest struct {
	Message string `json:"message" binding:"required"`
	Channel string `json:"channel"`
}

func (h *Handler) PostMessage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PostMessageRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	msg, err := h.ChatService.PostMessage(c.Request.Context(), userID, req.Channel, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) RecentMessages(c *gin.Context) {
	channel := c.DefaultQuery("channel", "main")
	msgs, err := h.ChatService.GetRecentMessages(c.Request.Context(), channel, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// DeleteMessage removes a chat message, for moderation. Admin only.
func (h *Handler) DeleteMessage(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	deleted, err := h.ChatService.DeleteMessage(c.Request.Context(), messageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
