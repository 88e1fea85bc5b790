package service

import (
	"context"
	"errors"
	"time"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/logger"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrFundingNotFound   = errors.New("funding not found")
	ErrFundingNotPending = errors.New("funding is not pending")
)

// FundingService manages the deposit/withdrawal ledger. Reads delegate to the
// repository; status transitions that move a balance run in one transaction
// so the ledger and the user row can never disagree.
type FundingService struct {
	db       *pgxpool.Pool
	fundings *repository.FundingRepository
}

func NewFundingService(db *pgxpool.Pool) *FundingService {
	return &FundingService{
		db:       db,
		fundings: repository.NewFundingRepository(db),
	}
}

// CreateFunding records a pending ledger entry. The balance is untouched
// until the entry completes.
func (s *FundingService) CreateFunding(ctx context.Context, userID, amount int64, txid string) (*domain.Funding, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	return s.fundings.CreateFunding(ctx, userID, amount, txid)
}

// UpdateFundingStatus changes only the status field; other fields are
// untouched. Returns nil for an unknown id.
func (s *FundingService) UpdateFundingStatus(ctx context.Context, fundingID int64, status domain.FundingStatus) (*domain.Funding, error) {
	return s.fundings.UpdateFundingStatus(ctx, fundingID, status)
}

// RequestWithdrawal debits the balance up front and records a pending
// negative ledger entry, so a user cannot wager funds queued for withdrawal.
func (s *FundingService) RequestWithdrawal(ctx context.Context, userID, amount int64, address string) (*domain.Funding, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance_satoshis = balance_satoshis - $1, updated_at = now()
		WHERE id = $2 AND balance_satoshis >= $1
		RETURNING balance_satoshis
	`, amount, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	var f domain.Funding
	err = tx.QueryRow(ctx, `
		INSERT INTO fundings (user_id, amount, bitcoin_withdrawal_address)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, amount, status, created_at, updated_at
	`, userID, -amount, address).
		Scan(&f.ID, &f.UserID, &f.Amount, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.BitcoinWithdrawalAddress = address

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info("withdrawal requested", "user_id", userID, "amount", amount, "funding_id", f.ID)
	return &f, nil
}

// CompleteFunding marks a pending entry completed and, for deposits, credits
// the user's balance in the same transaction.
func (s *FundingService) CompleteFunding(ctx context.Context, fundingID int64, txid string) (*domain.Funding, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	f, err := s.lockPending(ctx, tx, fundingID)
	if err != nil {
		return nil, err
	}

	if f.Amount > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE users SET balance_satoshis = balance_satoshis + $1, updated_at = now()
			WHERE id = $2
		`, f.Amount, f.UserID); err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE fundings SET status = $2, updated_at = now() WHERE id = $1
		`, fundingID, domain.FundingCompleted)
	} else {
		// Withdrawal: balance was already debited at request time; just
		// record the broadcast txid.
		_, err = tx.Exec(ctx, `
			UPDATE fundings
			SET status = $2, bitcoin_withdrawal_txid = NULLIF($3, ''), updated_at = now()
			WHERE id = $1
		`, fundingID, domain.FundingCompleted, txid)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info("funding completed", "funding_id", fundingID, "user_id", f.UserID, "amount", f.Amount)
	return s.fundings.GetByID(ctx, fundingID)
}

// RejectFunding marks a pending entry rejected; a rejected withdrawal refunds
// the debited amount.
func (s *FundingService) RejectFunding(ctx context.Context, fundingID int64) (*domain.Funding, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	f, err := s.lockPending(ctx, tx, fundingID)
	if err != nil {
		return nil, err
	}

	if f.Amount < 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE users SET balance_satoshis = balance_satoshis + $1, updated_at = now()
			WHERE id = $2
		`, -f.Amount, f.UserID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE fundings SET status = $2, updated_at = now() WHERE id = $1
	`, fundingID, domain.FundingRejected); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.fundings.GetByID(ctx, fundingID)
}

func (s *FundingService) lockPending(ctx context.Context, tx pgx.Tx, fundingID int64) (*domain.Funding, error) {
	var f domain.Funding
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, amount, status FROM fundings WHERE id = $1 FOR UPDATE
	`, fundingID).Scan(&f.ID, &f.UserID, &f.Amount, &f.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFundingNotFound
		}
		return nil, err
	}
	if f.Status != domain.FundingPending {
		return nil, ErrFundingNotPending
	}
	return &f, nil
}

func (s *FundingService) GetFundingByID(ctx context.Context, fundingID int64) (*domain.Funding, error) {
	return s.fundings.GetByID(ctx, fundingID)
}

func (s *FundingService) GetFundingsByUser(ctx context.Context, userID int64) ([]domain.Funding, error) {
	return s.fundings.FundingsByUser(ctx, userID)
}

func (s *FundingService) GetRecentFundingsByUser(ctx context.Context, userID int64, limit int) ([]domain.Funding, error) {
	return s.fundings.RecentFundingsByUser(ctx, userID, limit)
}

func (s *FundingService) GetFundingsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Funding, error) {
	return s.fundings.FundingsByDateRange(ctx, from, to)
}

func (s *FundingService) GetFundingsByStatus(ctx context.Context, status domain.FundingStatus) ([]domain.Funding, error) {
	return s.fundings.FundingsByStatus(ctx, status)
}

func (s *FundingService) GetTotalAmountForAllUsers(ctx context.Context) (int64, error) {
	return s.fundings.TotalAmountForAllUsers(ctx)
}

func (s *FundingService) GetTotalAmountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.fundings.TotalAmountByUser(ctx, userID)
}

func (s *FundingService) GetTotalFundingsCountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.fundings.TotalFundingsCountByUser(ctx, userID)
}
