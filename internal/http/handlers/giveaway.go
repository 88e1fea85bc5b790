package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crash_webapp/internal/logger"
	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type AwardGiveawayRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	Amount int64 `json:"amount" binding:"required"`
}

// AwardGiveaway credits a promotional amount to a user. Admin only.
func (h *Handler) AwardGiveaway(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req AwardGiveawayRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	giveaway, err := h.GiveawayService.AwardGiveaway(c.Request.Context(), req.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("award giveaway", "user_id", req.UserID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"giveaway": giveaway})
}

func (h *Handler) MyGiveaways(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	giveaways, err := h.GiveawayService.GetGiveawaysByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	total, err := h.GiveawayService.GetTotalAmountByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"giveaways": giveaways, "total": total})
}

// UserGiveaways lists another user's giveaways. Admin only.
func (h *Handler) UserGiveaways(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	giveaways, err := h.GiveawayService.GetGiveawaysByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": giveaways})
}
