package service

import (
	"context"
	"errors"

	"companion-app/frontend/internal/identity"
	"companion-app/frontend/internal/models"
	"companion-app/frontend/internal/repository"
	"companion-app/frontend/internal/result"
	"companion-app/frontend/internal/revalidate"
	apperrors "companion-app/frontend/pkg/errors"
	"companion-app/frontend/pkg/logger"
)

type BookmarkService struct {
	bookmarks   repository.BookmarkRepository
	revalidator revalidate.Revalidator
	in          *Instrumentation
}

func NewBookmarkService(bookmarks repository.BookmarkRepository, revalidator revalidate.Revalidator, in *Instrumentation) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, revalidator: revalidator, in: in}
}

// AddBookmark bookmarks a companion for the caller and revalidates path.
func (s *BookmarkService) AddBookmark(ctx context.Context, companionID, path string) result.Result[any] {
	return run(ctx, s.in, "add_bookmark", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[any] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[any]("You must be logged in to add a bookmark.")
		}

		bookmark := &models.Bookmark{UserID: caller.UserID, CompanionID: companionID}
		if err := s.bookmarks.Create(ctx, bookmark); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return result.Fail[any](apperrors.KindConflict, "This companion is already bookmarked.")
			}
			return storeFailure[any](log, "add_bookmark", err, "Failed to add bookmark.")
		}

		s.revalidator.Revalidate(ctx, path)
		return result.OK[any](nil)
	})
}

// RemoveBookmark removes the caller's bookmark, if any, and revalidates path.
func (s *BookmarkService) RemoveBookmark(ctx context.Context, companionID, path string) result.Result[any] {
	return run(ctx, s.in, "remove_bookmark", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[any] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[any]("You must be logged in to remove a bookmark.")
		}

		if err := s.bookmarks.Delete(ctx, caller.UserID, companionID); err != nil {
			return storeFailure[any](log, "remove_bookmark", err, "Failed to remove bookmark.")
		}

		s.revalidator.Revalidate(ctx, path)
		return result.OK[any](nil)
	})
}

// GetBookmarkedCompanions lists the companions the caller bookmarked.
func (s *BookmarkService) GetBookmarkedCompanions(ctx context.Context) result.Result[[]models.Companion] {
	return run(ctx, s.in, "get_bookmarked_companions", msgUnexpected, func(ctx context.Context, log *logger.Logger) result.Result[[]models.Companion] {
		caller := identity.FromContext(ctx)
		if !caller.Authenticated() {
			return authRequired[[]models.Companion](msgAuthRequired)
		}

		bookmarks, err := s.bookmarks.ListByUser(ctx, caller.UserID)
		if err != nil {
			return storeFailure[[]models.Companion](log, "get_bookmarked_companions", err, "Failed to fetch bookmarks.")
		}
		return result.OK(models.CompanionsOf(bookmarks, func(b models.Bookmark) *models.Companion { return b.Companion }))
	})
}
