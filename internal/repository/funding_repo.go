package repository

import (
	"context"
	"time"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fundingColumns = `id, user_id, amount, status, description,
	bitcoin_deposit_txid, bitcoin_withdrawal_txid, bitcoin_withdrawal_address,
	withdrawal_id, created_at, updated_at`

// FundingRepository is the deposit/withdrawal ledger. Entries are append-only;
// the only mutation ever applied is a status change.
type FundingRepository struct {
	db *pgxpool.Pool
}

func NewFundingRepository(db *pgxpool.Pool) *FundingRepository {
	return &FundingRepository{db: db}
}

// CreateFunding inserts a pending ledger entry. txid may be empty for
// withdrawals that have not been broadcast yet.
func (r *FundingRepository) CreateFunding(ctx context.Context, userID, amount int64, txid string) (*domain.Funding, error) {
	var depositTxid *string
	if txid != "" {
		depositTxid = &txid
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO fundings (user_id, amount, bitcoin_deposit_txid)
		VALUES ($1, $2, $3)
		RETURNING `+fundingColumns,
		userID, amount, depositTxid,
	)
	return scanFunding(row)
}

// UpdateFundingStatus changes the status of a ledger entry and returns the
// updated row, or nil when the id is unknown.
func (r *FundingRepository) UpdateFundingStatus(ctx context.Context, fundingID int64, status domain.FundingStatus) (*domain.Funding, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE fundings SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+fundingColumns,
		fundingID, status,
	)
	return scanFunding(row)
}

// UpdateFundingStatusWithTx is UpdateFundingStatus inside an existing
// transaction, used when completing a funding also moves the balance.
func (r *FundingRepository) UpdateFundingStatusWithTx(ctx context.Context, tx pgx.Tx, fundingID int64, status domain.FundingStatus) (*domain.Funding, error) {
	row := tx.QueryRow(ctx, `
		UPDATE fundings SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+fundingColumns,
		fundingID, status,
	)
	return scanFunding(row)
}

func (r *FundingRepository) GetByID(ctx context.Context, fundingID int64) (*domain.Funding, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+fundingColumns+` FROM fundings WHERE id = $1
	`, fundingID)
	return scanFunding(row)
}

func (r *FundingRepository) FundingsByUser(ctx context.Context, userID int64) ([]domain.Funding, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fundingColumns+` FROM fundings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFundings(rows)
}

func (r *FundingRepository) RecentFundingsByUser(ctx context.Context, userID int64, limit int) ([]domain.Funding, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+fundingColumns+` FROM fundings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFundings(rows)
}

func (r *FundingRepository) FundingsByDateRange(ctx context.Context, from, to time.Time) ([]domain.Funding, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fundingColumns+` FROM fundings
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at DESC, id DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFundings(rows)
}

func (r *FundingRepository) FundingsByStatus(ctx context.Context, status domain.FundingStatus) ([]domain.Funding, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+fundingColumns+` FROM fundings
		WHERE status = $1
		ORDER BY created_at
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFundings(rows)
}

func (r *FundingRepository) TotalAmountForAllUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM fundings
	`).Scan(&total)
	return total, err
}

func (r *FundingRepository) TotalAmountByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM fundings WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

func (r *FundingRepository) TotalFundingsCountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM fundings WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

func scanFunding(row pgx.Row) (*domain.Funding, error) {
	var f domain.Funding
	var depositTxid, withdrawalTxid, withdrawalAddr *string
	if err := row.Scan(&f.ID, &f.UserID, &f.Amount, &f.Status, &f.Description,
		&depositTxid, &withdrawalTxid, &withdrawalAddr, &f.WithdrawalID,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if depositTxid != nil {
		f.BitcoinDepositTxid = *depositTxid
	}
	if withdrawalTxid != nil {
		f.BitcoinWithdrawalTxid = *withdrawalTxid
	}
	if withdrawalAddr != nil {
		f.BitcoinWithdrawalAddress = *withdrawalAddr
	}
	return &f, nil
}

func scanFundings(rows pgx.Rows) ([]domain.Funding, error) {
	var fundings []domain.Funding
	for rows.Next() {
		var f domain.Funding
		var depositTxid, withdrawalTxid, withdrawalAddr *string
		if err := rows.Scan(&f.ID, &f.UserID, &f.Amount, &f.Status, &f.Description,
			&depositTxid, &withdrawalTxid, &withdrawalAddr, &f.WithdrawalID,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		if depositTxid != nil {
			f.BitcoinDepositTxid = *depositTxid
		}
		if withdrawalTxid != nil {
			f.BitcoinWithdrawalTxid = *withdrawalTxid
		}
		if withdrawalAddr != nil {
			f.BitcoinWithdrawalAddress = *withdrawalAddr
		}
		fundings = append(fundings, f)
	}
	return fundings, rows.Err()
}
