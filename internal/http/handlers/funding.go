package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/logger"
	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type DepositRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Txid   string `json:"txid"`
}

// Deposit records a pending deposit. The balance is credited when an admin
// confirms the transaction.
func (h *Handler) Deposit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req DepositRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	funding, err := h.FundingService.CreateFunding(c.Request.Context(), userID, req.Amount, req.Txid)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("deposit", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"funding": funding})
}

type WithdrawRequest struct {
	Amount  int64  `json:"amount" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// Withdraw debits the balance immediately and records a pending withdrawal.
func (h *Handler) Withdraw(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WithdrawRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	funding, err := h.FundingService.RequestWithdrawal(c.Request.Context(), userID, req.Amount, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			logger.Error("withdraw", "user_id", userID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"funding": funding})
}

func (h *Handler) MyFundings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	fundings, err := h.FundingService.GetRecentFundingsByUser(ctx, userID, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	total, err := h.FundingService.GetTotalAmountByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fundings": fundings, "total": total})
}

// PendingFundings lists fundings awaiting confirmation. Admin only.
func (h *Handler) PendingFundings(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	fundings, err := h.FundingService.GetFundingsByStatus(c.Request.Context(), domain.FundingPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fundings": fundings})
}

type CompleteFundingRequest struct {
	Txid string `json:"txid"`
}

// CompleteFunding confirms a pending funding. Admin only. Deposits credit the
// balance here; withdrawals had their debit taken at request time.
func (h *Handler) CompleteFunding(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	fundingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid funding id"})
		return
	}

	// an empty body is fine, txid is optional
	var req CompleteFundingRequest
	_ = c.ShouldBindJSON(&req)

	funding, err := h.FundingService.CompleteFunding(c.Request.Context(), fundingID, req.Txid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFundingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrFundingNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("complete funding", "funding_id", fundingID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"funding": funding})
}

// RejectFunding rejects a pending funding. Admin only. A rejected withdrawal
// refunds the debit taken at request time.
func (h *Handler) RejectFunding(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	fundingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid funding id"})
		return
	}

	funding, err := h.FundingService.RejectFunding(c.Request.Context(), fundingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFundingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrFundingNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("reject funding", "funding_id", fundingID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"funding": funding})
}
