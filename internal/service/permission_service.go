package service

import (
	"context"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/quota"
	"companion-app/frontend/internal/repository"
	"companion-app/frontend/internal/result"
	apperrors "companion-app/frontend/pkg/errors"
	"companion-app/frontend/pkg/logger"
)

const (
	msgPermissionUnexpected = "An unexpected error occurred while checking permissions."
	msgLimitUnverified      = "Could not verify your companion limit."
)

// PermissionService gates companion creation on the caller's plan.
type PermissionService struct {
	companions   repository.CompanionRepository
	entitlements identity.EntitlementSource
	policy       quota.Policy
	in           *Instrumentation
}

func NewPermissionService(companions repository.CompanionRepository, entitlements identity.EntitlementSource, policy quota.Policy, in *Instrumentation) *PermissionService {
	if entitlements == nil {
		entitlements = identity.ClaimsSource{}
	}
	return &PermissionService{
		companions:   companions,
		entitlements: entitlements,
		policy:       policy,
		in:           in,
	}
}

// decide resolves entitlements, counts only when the plan is limited, and
// applies the policy. The caller must be authenticated.
func (s *PermissionService) decide(ctx context.Context, log *logger.Logger, op string, caller identity.Identity) (quota.Decision, *result.Result[bool]) {
	ent, err := s.entitlements.Entitlements(ctx, caller)
	if err != nil {
		failed := storeFailure[bool](log, op, err, msgLimitUnverified)
		return quota.Decision{}, &failed
	}
	if quota.Unlimited(ent) {
		return quota.Decide(s.policy, ent, 0), nil
	}

	count, err := s.companions.CountByAuthor(ctx, caller.UserID)
	if err != nil {
		failed := storeFailure[bool](log, op, err, msgLimitUnverified)
		return quota.Decision{}, &failed
	}
	return quota.Decide(s.policy, ent, count), nil
}

// CheckCompanionCreationPermissions reports whether the caller may create
// another companion.
func (s *PermissionService) CheckCompanionCreationPermissions(ctx context.Context) result.Result[bool] {
	return run(ctx, s.in, "check_companion_creation_permissions", msgPermissionUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[bool] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[bool](msgAuthRequired)
		}

		decision, failed := s.decide(ctx, log, "check_companion_creation_permissions", caller)
		if failed != nil {
			return *failed
		}
		return result.OK(decision.Allowed)
	})
}

// NewCompanionPermissions succeeds when the caller may create another
// companion and fails with "Companion limit reached." otherwise.
func (s *PermissionService) NewCompanionPermissions(ctx context.Context) result.Result[bool] {
	return run(ctx, s.in, "new_companion_permissions", msgPermissionUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[bool] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[bool](msgAuthRequired)
		}

		decision, failed := s.decide(ctx, log, "new_companion_permissions", caller)
		if failed != nil {
			return *failed
		}
		if !decision.Allowed {
			return result.Fail[bool](apperrors.KindForbidden, "Companion limit reached.")
		}
		return result.OK(true)
	})
}
