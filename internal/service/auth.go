package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"
	"carrent-backend/internal/security"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthenticated)

const minPasswordLength = 6

type authService struct {
	tx     repository.TxManager
	repos  *repository.Repos
	tokens security.TokenManager
}

func NewAuthService(tx repository.TxManager, repos *repository.Repos, tokens security.TokenManager) AuthService {
	return &authService{
		tx:     tx,
		repos:  repos,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, username, password, fullName string) (*domain.User, *domain.Customer, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	logger.EnterMethod("authService.Register", "username", username)

	switch {
	case username == "":
		return nil, nil, domain.Validationf("username is required")
	case utf8.RuneCountInString(password) < minPasswordLength:
		return nil, nil, domain.Validationf("password must be at least %d characters", minPasswordLength)
	case fullName == "":
		fullName = username
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleClient},
	}
	customer := &domain.Customer{FullName: fullName}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		customer.UserID = user.ID
		return repos.Customers.Create(ctx, customer)
	})
	if err != nil {
		logger.ExitMethodWithError("authService.Register", err, "username", username)
		return nil, nil, err
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "customer_id", customer.ID)
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, customer, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	logger.EnterMethod("authService.Login", "username", username)

	user, err := s.repos.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if domain.IsNotFound(err) {
			err = ErrInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err, "username", username)
		return nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "username", username)
		return nil, ErrInvalidCredentials
	}

	// Staff accounts may exist without a customer profile.
	var customerID int32
	customer, err := s.repos.Customers.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		customerID = customer.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	token, expires, err := s.tokens.GenerateAccessToken(user, customerID)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, "userID", user.ID)
		return nil, err
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return &Session{
		AccessToken: token,
		ExpiresAt:   expires,
		User:        user,
		CustomerID:  customerID,
	}, nil
}
