package services

import (
	"errors"
	"log/slog"

	"threadline/internal/apperror"
)

// wrapStore passes domain errors through untouched and wraps anything else
// as a logged store failure. Callers never see raw driver errors.
func wrapStore(logger *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	logger.Error("store operation failed", "op", op, "error", err)
	return apperror.Store(op, err)
}
