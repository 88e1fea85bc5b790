package handlers

import (
	"net/http"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"
	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	MinBet int64
	MaxBet int64
}

type Handler struct {
	DB              *pgxpool.Pool
	RecoveryRepo    *repository.RecoveryRepository
	UserService     *service.UserService
	RoundService    *service.RoundService
	GameService     *service.GameService
	PlayService     *service.PlayService
	FundingService  *service.FundingService
	GiveawayService *service.GiveawayService
	ChatService     *service.ChatService
	Fairness        *service.Fairness
}

func NewHandler(db *pgxpool.Pool, fairness *service.Fairness, cfg HandlerConfig) *Handler {
	return &Handler{
		DB:           db,
		RecoveryRepo: repository.NewRecoveryRepository(db),
		UserService:  service.NewUserService(db),
		RoundService: service.NewRoundService(db, fairness, service.BetLimits{
			MinBet: cfg.MinBet,
			MaxBet: cfg.MaxBet,
		}),
		GameService:     service.NewGameService(db),
		PlayService:     service.NewPlayService(db),
		FundingService:  service.NewFundingService(db),
		GiveawayService: service.NewGiveawayService(db),
		ChatService:     service.NewChatService(db),
		Fairness:        fairness,
	}
}

// getUserID reads the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// requireAdmin loads the caller and aborts with 403 unless they are an admin.
// Returns the caller's id and true when the request may proceed.
func (h *Handler) requireAdmin(c *gin.Context) (int64, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	user, err := h.UserService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return 0, false
	}
	if user == nil || user.Userclass != domain.UserclassAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return 0, false
	}
	return userID, true
}
