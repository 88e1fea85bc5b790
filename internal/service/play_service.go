package service

import (
	"context"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlayService is the read façade over bets. Bet placement and cash-out go
// through RoundService so balance moves stay transactional.
type PlayService struct {
	plays *repository.PlayRepository
}

func NewPlayService(db *pgxpool.Pool) *PlayService {
	return &PlayService{plays: repository.NewPlayRepository(db)}
}

func (s *PlayService) GetPlayByID(ctx context.Context, playID int64) (*domain.Play, error) {
	return s.plays.GetByID(ctx, playID)
}

func (s *PlayService) GetAllPlays(ctx context.Context, limit int) ([]domain.Play, error) {
	return s.plays.All(ctx, limit)
}

func (s *PlayService) DeletePlay(ctx context.Context, playID int64) (bool, error) {
	return s.plays.Delete(ctx, playID)
}

func (s *PlayService) GetUserPlays(ctx context.Context, userID int64, limit int) ([]domain.Play, error) {
	return s.plays.UserPlays(ctx, userID, limit)
}

func (s *PlayService) GetRecentPlaysForGame(ctx context.Context, gameID int64, limit int) ([]domain.Play, error) {
	return s.plays.RecentPlaysForGame(ctx, gameID, limit)
}

func (s *PlayService) GetPlaysByUserAndGame(ctx context.Context, userID, gameID int64) ([]domain.Play, error) {
	return s.plays.PlaysByUserAndGame(ctx, userID, gameID)
}

func (s *PlayService) IsUserInGame(ctx context.Context, userID, gameID int64) (bool, error) {
	return s.plays.IsUserInGame(ctx, userID, gameID)
}

func (s *PlayService) GetActivePlaysForGame(ctx context.Context, gameID int64) ([]domain.Play, error) {
	return s.plays.ActivePlaysForGame(ctx, gameID)
}

func (s *PlayService) GetCashedOutPlaysForGame(ctx context.Context, gameID int64) ([]domain.Play, error) {
	return s.plays.CashedOutPlaysForGame(ctx, gameID)
}

func (s *PlayService) GetTotalBetAmountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.plays.TotalBetAmountByUser(ctx, userID)
}

func (s *PlayService) GetTotalBetAmountForGame(ctx context.Context, gameID int64) (int64, error) {
	return s.plays.TotalBetAmountForGame(ctx, gameID)
}

// GetUserProfit is the user's gross cash-out sum. For profit net of bets and
// bonuses use CalculateUserProfit; the two are different figures and are kept
// apart on purpose.
func (s *PlayService) GetUserProfit(ctx context.Context, userID int64) (int64, error) {
	return s.plays.UserProfit(ctx, userID)
}

// CalculateUserProfit sums (cash_out - bet) + bonus over the user's most
// recent plays.
func (s *PlayService) CalculateUserProfit(ctx context.Context, userID int64, limit int) (int64, error) {
	plays, err := s.plays.UserPlays(ctx, userID, limit)
	if err != nil {
		return 0, err
	}
	return sumProfit(plays), nil
}

func sumProfit(plays []domain.Play) int64 {
	var profit int64
	for i := range plays {
		profit += plays[i].Profit()
	}
	return profit
}

func (s *PlayService) GetTopPlayersByTotalBetAmount(ctx context.Context, limit int) ([]domain.PlayerTotal, error) {
	return s.plays.TopPlayersByTotalBetAmount(ctx, limit)
}

func (s *PlayService) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.plays.Leaderboard(ctx, limit)
}

func (s *PlayService) GetUserRank(ctx context.Context, userID int64) (int, int64, error) {
	return s.plays.UserRank(ctx, userID)
}

func (s *PlayService) GetTopWinningPlays(ctx context.Context, limit int) ([]domain.Play, error) {
	return s.plays.TopWinningPlays(ctx, limit)
}

func (s *PlayService) GetTopWinningPlaysByUser(ctx context.Context, userID int64, limit int) ([]domain.Play, error) {
	return s.plays.TopWinningPlaysByUser(ctx, userID, limit)
}

func (s *PlayService) GetBiggestBets(ctx context.Context, limit int) ([]domain.Play, error) {
	return s.plays.BiggestBets(ctx, limit)
}

func (s *PlayService) GetBiggestBetsForGame(ctx context.Context, gameID int64, limit int) ([]domain.Play, error) {
	return s.plays.BiggestBetsForGame(ctx, gameID, limit)
}

func (s *PlayService) GetHighestCashouts(ctx context.Context, limit int) ([]domain.Play, error) {
	return s.plays.HighestCashouts(ctx, limit)
}

func (s *PlayService) GetUserStats(ctx context.Context, userID int64) (*domain.PlayStats, error) {
	return s.plays.UserStats(ctx, userID)
}
