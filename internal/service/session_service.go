package service

import (
	"context"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/repository"
	"companion-app/frontend/internal/result"
	"companion-app/frontend/internal/revalidate"
	"companion-app/frontend/pkg/logger"
)

type SessionService struct {
	sessions    repository.SessionRepository
	revalidator revalidate.Revalidator
	maxLimit    int
	in          *Instrumentation
}

// NewSessionService creates the session service. List limits above maxLimit
// are clamped; maxLimit <= 0 disables the cap.
func NewSessionService(sessions repository.SessionRepository, revalidator revalidate.Revalidator, maxLimit int, in *Instrumentation) *SessionService {
	return &SessionService{sessions: sessions, revalidator: revalidator, maxLimit: maxLimit, in: in}
}

func (s *SessionService) clamp(limit int) int {
	if limit <= 0 {
		return models.DefaultSessionLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func sessionCompanions(entries []models.SessionHistoryEntry) []models.Companion {
	return models.CompanionsOf(entries, func(e models.SessionHistoryEntry) *models.Companion { return e.Companion })
}

// GetUserSessions lists the companions of the caller's sessions, newest first.
func (s *SessionService) GetUserSessions(ctx context.Context, limit int) result.Result[[]models.Companion] {
	return run(ctx, s.in, "get_user_sessions", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[[]models.Companion] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[[]models.Companion](msgAuthRequired)
		}

		entries, err := s.sessions.List(ctx, models.SessionQuery{UserID: caller.UserID, Limit: s.clamp(limit)})
		if err != nil {
			return storeFailure[[]models.Companion](log, "get_user_sessions", err, "Failed to fetch your session history.")
		}
		return result.OK(sessionCompanions(entries))
	})
}

// AddToSessionHistory records that the caller started a session.
func (s *SessionService) AddToSessionHistory(ctx context.Context, companionID string) result.Result[any] {
	return run(ctx, s.in, "add_to_session_history", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[any] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[any]("Authentication required to start a session.")
		}

		entry := &models.SessionHistoryEntry{UserID: caller.UserID, CompanionID: companionID}
		if err := s.sessions.Create(ctx, entry); err != nil {
			return storeFailure[any](log, "add_to_session_history", err, "Failed to save session history.")
		}

		s.revalidator.Revalidate(ctx, HomePath)
		return result.OK[any](nil)
	})
}

// GetRecentSessions lists the companions of every user's recent sessions.
func (s *SessionService) GetRecentSessions(ctx context.Context, limit int) result.Result[[]models.Companion] {
	return run(ctx, s.in, "get_recent_sessions", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[[]models.Companion] {
		entries, err := s.sessions.List(ctx, models.SessionQuery{Limit: s.clamp(limit)})
		if err != nil {
			return storeFailure[[]models.Companion](log, "get_recent_sessions", err, "Failed to fetch recent sessions.")
		}
		return result.OK(sessionCompanions(entries))
	})
}
