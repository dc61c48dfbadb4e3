package user

import (
	"context"
	"strings"
)

type Service interface {
	Signup(ctx context.Context, input SignupInput) (*User, string, error)
	Login(ctx context.Context, input LoginInput) (*User, string, error)
	GetProfile(ctx context.Context, userID uint) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repo.CreateUser(ctx, email, hash, strings.TrimSpace(input.Name))
	if err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
