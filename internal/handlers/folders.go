package handlers

import (
	"strconv"
	"strings"

	"github.com/filecabinet/backend/internal/apperrors"
	"github.com/filecabinet/backend/internal/middleware"
	"github.com/filecabinet/backend/internal/services"
	"github.com/filecabinet/backend/pkg/logger"
	"github.com/filecabinet/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FoldersHandler struct {
	Folders  *services.FoldersService
	Contents *services.ContentsService
}

func NewFoldersHandler(folders *services.FoldersService, contents *services.ContentsService) *FoldersHandler {
	return &FoldersHandler{Folders: folders, Contents: contents}
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

func (h *FoldersHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) != "" {
		parsed, err := parseUUID(*req.ParentID)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid parentId")
		}
		parentID = &parsed
	}

	item, err := h.Folders.Create(c.Context(), req.Name, currentUser.ID, parentID)
	if err != nil {
		return respondError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "folder_created", map[string]interface{}{
		"folder_id":   item.ID.String(),
		"folder_name": item.Name,
		"parent_id":   req.ParentID,
	})

	return utils.Success(c, fiber.StatusCreated, item)
}

// ListContents serves both GET /folders (root level) and GET /folders/:id.
func (h *FoldersHandler) ListContents(c *fiber.Ctx) error {
	var parentID *uuid.UUID
	if raw := c.Params("id"); raw != "" {
		parsed, err := parseUUID(raw)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
		}
		parentID = &parsed
	}

	opts, err := listOptionsFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.Contents.ListContents(c.Context(), parentID, opts)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, result)
}

func (h *FoldersHandler) Path(c *fiber.Ctx) error {
	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	path, err := h.Contents.GetPath(c.Context(), folderID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, path)
}

func (h *FoldersHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folderID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid folder id")
	}

	if err := h.Folders.Delete(c.Context(), folderID); err != nil {
		return respondError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "folder_deleted", map[string]interface{}{
		"folder_id": folderID.String(),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func listOptionsFromQuery(c *fiber.Ctx) (services.ListOptions, error) {
	opts := services.ListOptions{
		Search:    strings.TrimSpace(c.Query("search")),
		SortField: c.Query("sortField", "name"),
		SortOrder: c.Query("sortOrder", "ASC"),
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return opts, &apperrors.ValidationError{Message: "invalid page"}
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return opts, &apperrors.ValidationError{Message: "invalid limit"}
	}
	opts.Page = page
	opts.Limit = limit
	return opts, nil
}
