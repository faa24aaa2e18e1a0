package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Guard is the authorization decision for privileged operations. It must
// be called immediately before every privileged read or write: admin
// membership can be revoked between page load and action, so the cached
// Session.AdminHint is never consulted here. Both the session and the
// membership are re-queried from the source of truth on every call.
type Guard struct {
	repo Repository
}

func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

// Verify returns the live session when the token belongs to a current
// admin. ErrNoSession means the session is missing or expired,
// ErrNotAdmin means the identity is valid but not an admin.
func (g *Guard) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	session, err := g.repo.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrNoSession
		}
		log.Error().Err(err).Msg("guard: failed to load session")
		return nil, fmt.Errorf("guard: failed to load session: %w", err)
	}

	isAdmin, err := g.repo.IsAdmin(ctx, session.UserID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", session.UserID).Msg("guard: failed to re-check admin membership")
		return nil, fmt.Errorf("guard: failed to re-check admin membership: %w", err)
	}
	if !isAdmin {
		log.Warn().Stringer("user_id", session.UserID).Msg("guard: non-admin attempted privileged operation")
		return nil, ErrNotAdmin
	}

	return session, nil
}
