package handlers

import (
	"errors"
	"strings"

	"github.com/filecabinet/backend/internal/apperrors"
	"github.com/filecabinet/backend/pkg/logger"
	"github.com/filecabinet/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// respondError owns the taxonomy-to-status mapping. Anything untyped is
// a 500 with a generic message so internals never leak.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return utils.Error(c, fiber.StatusBadRequest, validationErr.Message)
	}
	var duplicateErr *apperrors.DuplicateNameError
	if errors.As(err, &duplicateErr) {
		return utils.Error(c, fiber.StatusBadRequest, duplicateErr.Message)
	}
	var selfParentErr *apperrors.SelfParentError
	if errors.As(err, &selfParentErr) {
		return utils.Error(c, fiber.StatusBadRequest, selfParentErr.Error())
	}
	var cycleErr *apperrors.CycleError
	if errors.As(err, &cycleErr) {
		return utils.Error(c, fiber.StatusBadRequest, cycleErr.Error())
	}
	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		return utils.Error(c, fiber.StatusNotFound, notFoundErr.Error())
	}
	var unavailableErr *apperrors.StorageUnavailableError
	if errors.As(err, &unavailableErr) {
		logger.Warn("storage_unavailable", map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusServiceUnavailable, "storage temporarily unavailable")
	}

	logger.Error("unhandled_error", map[string]interface{}{
		"path":  c.Path(),
		"error": err.Error(),
	})
	return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
}
