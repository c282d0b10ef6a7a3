package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reviewhub/internal/api/auth"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Mailer delivers confirmation codes. The SMTP implementation lives in
// internal/mailer; tests substitute a recorder.
type Mailer interface {
	SendConfirmationCode(recipient, username, code string) error
}

type AuthService interface {
	// Signup creates the user on first contact or re-issues a code for a
	// known (username, email) pair, then emails the code.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges a confirmation code for a JWT access token.
	// The code is consumed on success and cannot be replayed.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	mailer    Mailer
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
	codeTTL   time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mailer Mailer, cfg *config.Config, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		mailer:    mailer,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
		codeTTL:   cfg.ConfirmationCodeTTL,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	errs := FieldErrors{}
	for field, messages := range ValidateUsername(username) {
		errs[field] = messages
	}
	for field, messages := range ValidateEmail(email) {
		errs[field] = messages
	}
	if len(errs) > 0 {
		return nil, errs
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		// Known username: the email must match the one on file, otherwise a
		// second identity could hijack the username.
		if user.Email != email {
			return nil, FieldErrors{"email": {"does not match the email registered for this username"}}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Symmetric check: the email must not belong to another username.
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, FieldErrors{"email": {"already in use by another user"}}
		}
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				// concurrent signup won the insert; re-read and fall through
				// to the code refresh below
				user, err = s.userRepo.FindByUsername(ctx, username)
				if err != nil {
					return nil, err
				}
				if user.Email != email {
					return nil, FieldErrors{"email": {"does not match the email registered for this username"}}
				}
			} else {
				return nil, err
			}
		}
	default:
		return nil, err
	}

	code := auth.GenerateCode()
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.codeTTL)
	user.ConfirmationCode = &hash
	user.CodeExpiresAt = &expiresAt
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.sendCode(user.Email, user.Username, code)
	return user, nil
}

// sendCode delivers the confirmation email in the background so SMTP latency
// never blocks the signup response.
func (s *authService) sendCode(email, username, code string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("confirmation mail panic", "recovered", r)
			}
		}()
		if err := s.mailer.SendConfirmationCode(email, username, code); err != nil {
			s.logger.Error("confirmation mail failed", "username", username, "error", err)
		}
	}()
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationCode == nil {
		return "", ErrInvalidCode
	}
	if user.CodeExpiresAt != nil && time.Now().After(*user.CodeExpiresAt) {
		return "", ErrInvalidCode
	}
	if err := auth.VerifyCode(*user.ConfirmationCode, code); err != nil {
		return "", ErrInvalidCode
	}

	// Single use: clear the stored hash atomically. If a concurrent exchange
	// already consumed it, this one loses.
	consumed, err := s.userRepo.ConsumeConfirmationCode(ctx, user.ID, *user.ConfirmationCode)
	if err != nil {
		return "", err
	}
	if !consumed {
		return "", ErrInvalidCode
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
