package services

import (
	"context"
	"sort"
	"strings"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
)

type UserService struct {
	repo user.Repository
}

func NewUserService(repo user.Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, dto CreateUserDTO) (user.User, error) {
	if err := dto.Ok(); err != nil {
		return user.User{}, err
	}
	return s.repo.Create(ctx, dto.ToEntity())
}

// ListByName returns all users sorted by name, then id.
func (s *UserService) ListByName(ctx context.Context) ([]user.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
	return users, nil
}
