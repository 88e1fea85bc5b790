package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"crash_webapp/internal/logger"
	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CurrentGame(c *gin.Context) {
	game, err := h.GameService.GetCurrentGame(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if game == nil {
		c.JSON(http.StatusOK, gin.H{"game": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": game})
}

// Game returns one round. The crash point and commitment hash are only shown
// after the round has ended.
func (h *Handler) Game(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	ctx := c.Request.Context()
	game, err := h.GameService.GetGameByID(ctx, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	if !game.Ended {
		c.JSON(http.StatusOK, gin.H{"game": gin.H{
			"id":         game.ID,
			"ended":      false,
			"created_at": game.CreatedAt,
		}})
		return
	}

	hash, err := h.GameService.GetGameHash(ctx, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := gin.H{"game": game}
	if hash != nil {
		resp["hash"] = hash.Hash
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) RecentGames(c *gin.Context) {
	games, err := h.GameService.GetRecentGamesWithCrashPoints(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// GameStats aggregates the site-wide round statistics. The optional
// ?crash_point= parameter drives the above/below counts and streaks.
func (h *Handler) GameStats(c *gin.Context) {
	ctx := c.Request.Context()

	avg, err := h.GameService.GetAverageCrashPoint(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	highest, err := h.GameService.GetHighestCrashPoint(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	lowest, err := h.GameService.GetLowestCrashPoint(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	totalGames, err := h.GameService.GetTotalGamesPlayed(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	totalBet, err := h.GameService.GetTotalAmountBet(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	totalWon, err := h.GameService.GetTotalAmountWon(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	totalWagered, err := h.GameService.GetTotalAmountWagered(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := gin.H{
		"average_crash_point": avg,
		"highest_crash_point": highest,
		"lowest_crash_point":  lowest,
		"total_games":         totalGames,
		"total_bet":           totalBet,
		"total_won":           totalWon,
		"total_wagered":       totalWagered,
	}

	if v := c.Query("crash_point"); v != "" {
		point, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid crash_point"})
			return
		}
		above, err := h.GameService.GetNumberOfGamesAboveCrashPoint(ctx, point)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		below, err := h.GameService.GetNumberOfGamesBelowCrashPoint(ctx, point)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		streakAbove, err := h.GameService.GetLongestStreakAboveCrashPoint(ctx, point)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		streakBelow, err := h.GameService.GetLongestStreakBelowCrashPoint(ctx, point)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		resp["games_above"] = above
		resp["games_below"] = below
		resp["longest_streak_above"] = streakAbove
		resp["longest_streak_below"] = streakBelow
	}

	c.JSON(http.StatusOK, resp)
}

// GameHistory filters past rounds by crash-point range or date range.
func (h *Handler) GameHistory(c *gin.Context) {
	ctx := c.Request.Context()

	if from := c.Query("from"); from != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		toTime := time.Now()
		if to := c.Query("to"); to != "" {
			toTime, err = time.Parse(time.RFC3339, to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
				return
			}
		}
		games, err := h.GameService.GetGamesWithinDateRange(ctx, fromTime, toTime)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"games": games})
		return
	}

	if minStr := c.Query("min_crash"); minStr != "" {
		minCrash, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_crash"})
			return
		}
		maxCrash, err := strconv.ParseFloat(c.DefaultQuery("max_crash", "1000"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_crash"})
			return
		}
		games, err := h.GameService.GetGamesByCrashPointRange(ctx, minCrash, maxCrash, queryLimit(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"games": games})
		return
	}

	games, err := h.GameService.GetMostRecentGames(ctx, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) HighestGames(c *gin.Context) {
	games, err := h.GameService.GetHighestCrashPoints(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) LowestGames(c *gin.Context) {
	games, err := h.GameService.GetLowestCrashPoints(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) BusiestGames(c *gin.Context) {
	games, err := h.GameService.GetGamesWithMostPlayers(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// VerifyGame recomputes a finished round's crash point from the disclosed
// server seed so players can check the result independently.
func (h *Handler) VerifyGame(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	game, err := h.GameService.GetGameByID(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if game == nil || !game.Ended {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found or still running"})
		return
	}

	point, hash := service.VerifyCrashPoint(h.Fairness.ServerSeed(), gameID)
	c.JSON(http.StatusOK, gin.H{
		"game_id":     gameID,
		"crash_point": point,
		"hash":        hash,
		"matches":     point == game.GameCrash,
	})
}

// StartRound begins a new round. Admin only.
func (h *Handler) StartRound(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	game, err := h.RoundService.StartRound(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrGameInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("start round", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"game": gin.H{
		"id":         game.ID,
		"created_at": game.CreatedAt,
	}})
}

// EndRound settles a round. Admin only. Ending an already ended round
// reports zero affected rows.
func (h *Handler) EndRound(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	affected, err := h.RoundService.EndRound(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("end round", "game_id", gameID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"affected": affected})
}
