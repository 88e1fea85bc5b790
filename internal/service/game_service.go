package service

import (
	"context"
	"time"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GameService is the read façade over game rounds. It forwards to the
// repository without adding behavior; round mutations go through RoundService.
type GameService struct {
	games  *repository.GameRepository
	hashes *repository.GameHashRepository
}

func NewGameService(db *pgxpool.Pool) *GameService {
	return &GameService{
		games:  repository.NewGameRepository(db),
		hashes: repository.NewGameHashRepository(db),
	}
}

func (s *GameService) GetCurrentGame(ctx context.Context) (*domain.Game, error) {
	return s.games.GetCurrentGame(ctx)
}

func (s *GameService) GetGameByID(ctx context.Context, gameID int64) (*domain.Game, error) {
	return s.games.GetByID(ctx, gameID)
}

func (s *GameService) GetGameHash(ctx context.Context, gameID int64) (*domain.GameHash, error) {
	return s.hashes.GetByGameID(ctx, gameID)
}

func (s *GameService) GetAverageCrashPoint(ctx context.Context) (float64, error) {
	return s.games.AverageCrashPoint(ctx)
}

func (s *GameService) GetHighestCrashPoint(ctx context.Context) (float64, error) {
	return s.games.HighestCrashPoint(ctx)
}

func (s *GameService) GetLowestCrashPoint(ctx context.Context) (float64, error) {
	return s.games.LowestCrashPoint(ctx)
}

func (s *GameService) GetTotalAmountBet(ctx context.Context) (int64, error) {
	return s.games.TotalAmountBet(ctx)
}

func (s *GameService) GetTotalAmountWon(ctx context.Context) (int64, error) {
	return s.games.TotalAmountWon(ctx)
}

func (s *GameService) GetTotalAmountWagered(ctx context.Context) (int64, error) {
	return s.games.TotalAmountWagered(ctx)
}

func (s *GameService) GetTotalAmountWageredByUser(ctx context.Context, userID int64) (int64, error) {
	return s.games.TotalAmountWageredByUser(ctx, userID)
}

func (s *GameService) GetNumberOfGamesAboveCrashPoint(ctx context.Context, value float64) (int64, error) {
	return s.games.CountAboveCrashPoint(ctx, value)
}

func (s *GameService) GetNumberOfGamesBelowCrashPoint(ctx context.Context, value float64) (int64, error) {
	return s.games.CountBelowCrashPoint(ctx, value)
}

func (s *GameService) GetTotalGamesPlayed(ctx context.Context) (int64, error) {
	return s.games.TotalGamesPlayed(ctx)
}

func (s *GameService) GetTotalGamesPlayedByUser(ctx context.Context, userID int64) (int64, error) {
	return s.games.TotalGamesPlayedByUser(ctx, userID)
}

func (s *GameService) GetLongestStreakAboveCrashPoint(ctx context.Context, value float64) (int, error) {
	return s.games.LongestStreakAboveCrashPoint(ctx, value)
}

func (s *GameService) GetLongestStreakBelowCrashPoint(ctx context.Context, value float64) (int, error) {
	return s.games.LongestStreakBelowCrashPoint(ctx, value)
}

func (s *GameService) GetGamesByCrashPointRange(ctx context.Context, minCrash, maxCrash float64, limit int) ([]domain.Game, error) {
	return s.games.GamesByCrashPointRange(ctx, minCrash, maxCrash, limit)
}

func (s *GameService) GetGamesWithinDateRange(ctx context.Context, from, to time.Time) ([]domain.Game, error) {
	return s.games.GamesWithinDateRange(ctx, from, to)
}

func (s *GameService) GetGamesByPlayer(ctx context.Context, userID int64, limit int) ([]domain.Game, error) {
	return s.games.GamesByPlayer(ctx, userID, limit)
}

func (s *GameService) GetRecentGamesWithCrashPoints(ctx context.Context, limit int) ([]domain.GameCrashPoint, error) {
	return s.games.RecentGamesWithCrashPoints(ctx, limit)
}

func (s *GameService) GetMostRecentGame(ctx context.Context) (*domain.Game, error) {
	return s.games.MostRecentGame(ctx)
}

func (s *GameService) GetMostRecentGames(ctx context.Context, limit int) ([]domain.Game, error) {
	return s.games.MostRecentGames(ctx, limit)
}

func (s *GameService) GetHighestCrashPoints(ctx context.Context, limit int) ([]domain.Game, error) {
	return s.games.HighestCrashPoints(ctx, limit)
}

func (s *GameService) GetLowestCrashPoints(ctx context.Context, limit int) ([]domain.Game, error) {
	return s.games.LowestCrashPoints(ctx, limit)
}

func (s *GameService) GetGamesWithMostPlayers(ctx context.Context, limit int) ([]domain.GamePlayerCount, error) {
	return s.games.GamesWithMostPlayers(ctx, limit)
}
