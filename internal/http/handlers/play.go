package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crash_webapp/internal/logger"
	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaceBetRequest struct {
	GameID      int64 `json:"game_id" binding:"required"`
	Bet         int64 `json:"bet" binding:"required"`
	AutoCashOut int64 `json:"auto_cash_out"`
}

func (h *Handler) PlaceBet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PlaceBetRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	play, err := h.RoundService.PlaceBet(c.Request.Context(), userID, req.GameID, req.Bet, req.AutoCashOut)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBetTooLow),
			errors.Is(err, service.ErrBetTooHigh),
			errors.Is(err, service.ErrInvalidAutoCashOut):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGameEnded),
			errors.Is(err, service.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			logger.Error("place bet", "user_id", userID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"play": play})
}

type CashOutRequest struct {
	PlayID     int64 `json:"play_id" binding:"required"`
	Multiplier int64 `json:"multiplier" binding:"required"`
}

func (h *Handler) CashOut(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CashOutRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	play, err := h.PlayService.GetPlayByID(ctx, req.PlayID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if play == nil || play.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "play not found"})
		return
	}

	settled, err := h.RoundService.CashOut(ctx, req.PlayID, req.Multiplier)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPlayNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGameEnded),
			errors.Is(err, service.ErrAlreadyCashedOut),
			errors.Is(err, service.ErrCashOutTooHigh):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("cash out", "play_id", req.PlayID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"play": settled})
}

func (h *Handler) GamePlays(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	plays, err := h.PlayService.GetRecentPlaysForGame(c.Request.Context(), gameID, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plays": plays})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	entries, err := h.PlayService.GetLeaderboard(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *Handler) MyRank(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rank, profit, err := h.PlayService.GetUserRank(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rank": rank, "net_profit": profit})
}

func (h *Handler) TopPlayers(c *gin.Context) {
	players, err := h.PlayService.GetTopPlayersByTotalBetAmount(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

func (h *Handler) TopWins(c *gin.Context) {
	plays, err := h.PlayService.GetTopWinningPlays(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plays": plays})
}

func (h *Handler) BiggestBets(c *gin.Context) {
	plays, err := h.PlayService.GetBiggestBets(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plays": plays})
}

func (h *Handler) HighestCashouts(c *gin.Context) {
	plays, err := h.PlayService.GetHighestCashouts(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plays": plays})
}
