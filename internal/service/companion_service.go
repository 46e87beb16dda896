package service

import (
	"context"
	"errors"
	"fmt"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/repository"
	"companion-app/frontend/internal/result"
	"companion-app/frontend/internal/revalidate"
	apperrors "companion-app/frontend/pkg/errors"
	"companion-app/frontend/pkg/logger"

	"github.com/google/uuid"
)

// Pages revalidated after mutations that change them.
const (
	HomePath    = "/"
	LibraryPath = "/companions"
)

// CreationGate decides whether the caller may create another companion.
// *PermissionService implements it.
type CreationGate interface {
	NewCompanionPermissions(ctx context.Context) result.Result[bool]
}

type CompanionService struct {
	companions  repository.CompanionRepository
	revalidator revalidate.Revalidator
	gate        CreationGate
	maxPageSize int
	in          *Instrumentation
}

func NewCompanionService(companions repository.CompanionRepository, revalidator revalidate.Revalidator, maxPageSize int, in *Instrumentation) *CompanionService {
	return &CompanionService{
		companions:  companions,
		revalidator: revalidator,
		maxPageSize: maxPageSize,
		in:          in,
	}
}

// WithCreationGate makes CreateCompanion refuse callers the gate rejects.
func (s *CompanionService) WithCreationGate(gate CreationGate) *CompanionService {
	s.gate = gate
	return s
}

// CreateCompanion inserts a companion authored by the caller once the
// creation gate, if any, allows it.
func (s *CompanionService) CreateCompanion(ctx context.Context, req models.CreateCompanionRequest) result.Result[*models.Companion] {
	return run(ctx, s.in, "create_companion", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[*models.Companion] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[*models.Companion](msgAuthRequired)
		}

		req.Normalize()
		if field := req.MissingField(); field != "" {
			return result.Fail[*models.Companion](apperrors.KindInvalidInput,
				fmt.Sprintf("Invalid companion details: %s is required.", field))
		}

		if s.gate != nil {
			if allowed := s.gate.NewCompanionPermissions(ctx); !allowed.Success {
				return result.Fail[*models.Companion](allowed.Kind, allowed.Message)
			}
		}

		companion := req.ToCompanion(caller.UserID)
		if err := s.companions.Create(ctx, companion); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return result.Fail[*models.Companion](apperrors.KindConflict, "A companion with this name already exists.")
			}
			return storeFailure[*models.Companion](log, "create_companion", err, "Database error: Failed to create companion.")
		}
		if companion.ID == "" {
			log.Error("Companion insert returned no row", "op", "create_companion")
			return result.Fail[*models.Companion](apperrors.KindStore, "Failed to create companion, no data returned.")
		}

		s.revalidator.Revalidate(ctx, HomePath)
		s.revalidator.Revalidate(ctx, LibraryPath)
		return result.OK(companion)
	})
}

// GetAllCompanions lists the catalog, filtered and paginated.
func (s *CompanionService) GetAllCompanions(ctx context.Context, params models.ListCompanionsParams) result.Result[[]models.Companion] {
	return run(ctx, s.in, "get_all_companions", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[[]models.Companion] {
		companions, err := s.companions.List(ctx, params.Normalized(s.maxPageSize))
		if err != nil {
			return storeFailure[[]models.Companion](log, "get_all_companions", err, "Failed to fetch companions.")
		}
		if companions == nil {
			companions = []models.Companion{}
		}
		return result.OK(companions)
	})
}

// GetCompanion fetches one companion by id.
func (s *CompanionService) GetCompanion(ctx context.Context, id string) result.Result[*models.Companion] {
	return run(ctx, s.in, "get_companion", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[*models.Companion] {
		notFound := result.Fail[*models.Companion](apperrors.KindNotFound, "Companion not found.")
		if _, err := uuid.Parse(id); err != nil {
			return notFound
		}

		companion, err := s.companions.GetByID(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound
		case err != nil:
			return storeFailure[*models.Companion](log, "get_companion", err, "Failed to fetch companion data.")
		case companion == nil:
			return notFound
		}
		return result.OK(companion)
	})
}

// GetUserCompanions lists the companions authored by the caller.
func (s *CompanionService) GetUserCompanions(ctx context.Context) result.Result[[]models.Companion] {
	return run(ctx, s.in, "get_user_companions", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[[]models.Companion] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[[]models.Companion](msgAuthRequired)
		}

		companions, err := s.companions.ListByAuthor(ctx, caller.UserID)
		if err != nil {
			return storeFailure[[]models.Companion](log, "get_user_companions", err, "Failed to fetch your companions.")
		}
		if companions == nil {
			companions = []models.Companion{}
		}
		return result.OK(companions)
	})
}
