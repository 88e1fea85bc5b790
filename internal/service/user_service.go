package service

import (
	"context"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{users: repository.NewUserRepository(db)}
}

func (s *UserService) CreateUser(ctx context.Context, u *domain.User) error {
	return s.users.Create(ctx, u)
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) GetAllUsers(ctx context.Context, limit int) ([]domain.User, error) {
	return s.users.All(ctx, limit)
}

func (s *UserService) UpdateUser(ctx context.Context, u *domain.User) (bool, error) {
	return s.users.UpdateProfile(ctx, u)
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	return s.users.Delete(ctx, userID)
}
