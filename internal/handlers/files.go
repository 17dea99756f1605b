package handlers

import (
	"strings"

	"github.com/filecabinet/backend/internal/middleware"
	"github.com/filecabinet/backend/internal/services"
	"github.com/filecabinet/backend/pkg/logger"
	"github.com/filecabinet/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Files *services.FilesService
}

func NewFilesHandler(files *services.FilesService) *FilesHandler {
	return &FilesHandler{Files: files}
}

type fileRecordRequest struct {
	Name     string  `json:"name"`
	MimeType string  `json:"mimeType"`
	Size     *int64  `json:"size"`
	FolderID *string `json:"folderId"`
}

type createFilesRequest struct {
	Files []fileRecordRequest `json:"files"`
}

// Create registers a batch of file records. Per-record failures land in
// the errors list and never raise the HTTP status; the call only fails
// outright for a malformed body or a dead store.
func (h *FilesHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createFilesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Files == nil {
		return utils.Error(c, fiber.StatusBadRequest, "files must be an array")
	}

	records := make([]services.FileRecord, 0, len(req.Files))
	parseErrors := make([]services.BatchError, 0)
	for _, raw := range req.Files {
		record := services.FileRecord{
			Name:     raw.Name,
			MimeType: raw.MimeType,
		}
		if raw.Size != nil {
			record.Size = *raw.Size
		} else {
			parseErrors = append(parseErrors, services.BatchError{Name: raw.Name, Error: "size is required"})
			continue
		}
		if raw.FolderID != nil && strings.TrimSpace(*raw.FolderID) != "" {
			parsed, err := parseUUID(*raw.FolderID)
			if err != nil {
				parseErrors = append(parseErrors, services.BatchError{Name: raw.Name, Error: "invalid folderId"})
				continue
			}
			record.FolderID = &parsed
		}
		records = append(records, record)
	}

	result, err := h.Files.CreateBatch(c.Context(), currentUser.ID, records)
	if err != nil {
		return respondError(c, err)
	}
	result.Errors = append(result.Errors, parseErrors...)

	logger.InfoWithUser(currentUser.ID.String(), "files_created", map[string]interface{}{
		"requested": len(req.Files),
		"created":   len(result.Success),
		"failed":    len(result.Errors),
	})

	return utils.Success(c, fiber.StatusOK, result)
}

func (h *FilesHandler) Get(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	item, err := h.Files.GetByID(c.Context(), fileID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, item)
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	if err := h.Files.Delete(c.Context(), fileID); err != nil {
		return respondError(c, err)
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_deleted", map[string]interface{}{
		"file_id": fileID.String(),
	})

	return c.SendStatus(fiber.StatusNoContent)
}
