package services

import (
	"errors"
	"fmt"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
)

// backendError wraps a storage failure so callers can match both
// models.ErrBackendUnavailable and the underlying cause
func backendError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, models.ErrBackendUnavailable, err)
}

// lookupError maps repository.ErrNotFound to notFound and anything else to
// a backend error
func lookupError(operation string, err error, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return backendError(operation, err)
}
