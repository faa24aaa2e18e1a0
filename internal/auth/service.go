package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

type Service interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) (*Session, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SignUp(ctx context.Context, email, password string) (*User, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to generate password hash")
		return nil, fmt.Errorf("internal error hashing password: %w", err)
	}

	userID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate user id: %w", err)
	}

	user := &User{
		ID:           userID,
		Email:        email,
		PasswordHash: string(hashBytes),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Msg("service: failed to create user in repository")
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	log.Info().Stringer("user_id", user.ID).Msg("service: user registered")

	return user, nil
}

// SignIn is the only state transition into SignedIn. The admin hint is
// recomputed here, on the transition, not on every read.
func (s *service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("service: failed to get user by email in repository")
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	adminHint, err := s.repo.IsAdmin(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", user.ID).Msg("service: failed to derive admin hint on sign-in")
		return nil, fmt.Errorf("failed to derive admin hint: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		AdminHint: adminHint,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		log.Error().Err(err).Stringer("user_id", user.ID).Msg("service: failed to create session in repository")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Stringer("user_id", user.ID).Bool("admin_hint", adminHint).Msg("service: user signed in")

	return session, nil
}

func (s *service) SignOut(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		log.Error().Err(err).Msg("service: failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (s *service) CurrentSession(ctx context.Context, token string) (*Session, error) {
	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrNoSession
		}
		log.Error().Err(err).Msg("service: failed to get session in repository")
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (s *service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	isAdmin, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to check admin membership")
		return false, fmt.Errorf("failed to check admin membership: %w", err)
	}

	return isAdmin, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
