package domain

import "time"

type FundingStatus string

const (
	FundingPending   FundingStatus = "pending"
	FundingCompleted FundingStatus = "completed"
	FundingRejected  FundingStatus = "rejected"
)

// Funding is a deposit or withdrawal ledger entry. Positive amounts are
// deposits, negative amounts withdrawals. Rows are never deleted; only the
// status changes after creation.
type Funding struct {
	ID                       int64         `json:"id"`
	UserID                   int64         `json:"user_id"`
	Amount                   int64         `json:"amount"`
	Status                   FundingStatus `json:"status"`
	Description              string        `json:"description,omitempty"`
	BitcoinDepositTxid       string        `json:"bitcoin_deposit_txid,omitempty"`
	BitcoinWithdrawalTxid    string        `json:"bitcoin_withdrawal_txid,omitempty"`
	BitcoinWithdrawalAddress string        `json:"bitcoin_withdrawal_address,omitempty"`
	WithdrawalID             *int64        `json:"withdrawal_id,omitempty"`
	CreatedAt                time.Time     `json:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at"`
}
