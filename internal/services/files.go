package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/filecabinet/backend/internal/apperrors"
	"github.com/filecabinet/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FilesService owns file record mutations and lookups. Batch creation is
// deliberately per-record: one bad record lands in the errors list while
// its siblings still commit.
type FilesService struct {
	DB        *gorm.DB
	Hierarchy *HierarchyService
	Timeout   time.Duration
}

func NewFilesService(db *gorm.DB, hierarchy *HierarchyService, timeout time.Duration) *FilesService {
	return &FilesService{DB: db, Hierarchy: hierarchy, Timeout: timeout}
}

type FileRecord struct {
	Name     string
	MimeType string
	Size     int64
	FolderID *uuid.UUID
}

type BatchError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type BatchResult struct {
	Success []models.Item `json:"success"`
	Errors  []BatchError  `json:"errors"`
}

// CreateBatch validates and inserts each record independently.
func (s *FilesService) CreateBatch(ctx context.Context, createdByID uuid.UUID, records []FileRecord) (*BatchResult, error) {
	result := &BatchResult{
		Success: make([]models.Item, 0, len(records)),
		Errors:  make([]BatchError, 0),
	}

	for _, record := range records {
		item, err := s.createOne(ctx, createdByID, record)
		if err != nil {
			var unavailable *apperrors.StorageUnavailableError
			if errors.As(err, &unavailable) {
				// A dead store fails the whole call; per-record errors
				// are for bad records, not broken infrastructure.
				return nil, err
			}
			result.Errors = append(result.Errors, BatchError{Name: record.Name, Error: err.Error()})
			continue
		}
		result.Success = append(result.Success, *item)
	}

	return result, nil
}

func (s *FilesService) createOne(ctx context.Context, createdByID uuid.UUID, record FileRecord) (*models.Item, error) {
	file := models.File{
		Name:        strings.TrimSpace(record.Name),
		MimeType:    strings.TrimSpace(record.MimeType),
		Size:        record.Size,
		FolderID:    record.FolderID,
		CreatedByID: createdByID,
	}
	if err := file.Validate(); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if file.FolderID != nil {
			var folder models.Folder
			if err := tx.Where("deleted_at IS NULL").First(&folder, "id = ?", *file.FolderID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return &apperrors.NotFoundError{Resource: "folder"}
				}
				return apperrors.FromStorage(err)
			}
		}

		if err := s.Hierarchy.ValidateUniqueFileName(ctx, tx, file.Name, file.FolderID, nil); err != nil {
			return err
		}

		if err := tx.Create(&file).Error; err != nil {
			if isUniqueViolation(err) {
				return &apperrors.DuplicateNameError{Message: "a file with this name already exists in this folder"}
			}
			return apperrors.FromStorage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var created models.File
	if err := s.DB.WithContext(ctx).Preload("CreatedBy").First(&created, "id = ?", file.ID).Error; err != nil {
		return nil, apperrors.FromStorage(err)
	}

	item := models.FileItem(&created)
	return &item, nil
}

// GetByID returns the file as an Item, excluding soft-deleted rows.
func (s *FilesService) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var file models.File
	err := s.DB.WithContext(ctx).
		Preload("CreatedBy").
		Where("deleted_at IS NULL").
		First(&file, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.NotFoundError{Resource: "file"}
		}
		return nil, apperrors.FromStorage(err)
	}

	item := models.FileItem(&file)
	return &item, nil
}

// GetByIDIncludeDeleted is the explicit opt-in raw lookup: it returns the
// row whether or not the tombstone is set.
func (s *FilesService) GetByIDIncludeDeleted(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := s.DB.WithContext(ctx).Preload("CreatedBy").First(&file, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.NotFoundError{Resource: "file"}
		}
		return nil, apperrors.FromStorage(err)
	}
	return &file, nil
}

// Delete sets the tombstone. Already-deleted and absent rows both report
// not found.
func (s *FilesService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	now := time.Now()
	result := s.DB.WithContext(ctx).Model(&models.File{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", now)
	if result.Error != nil {
		return apperrors.FromStorage(result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "file"}
	}
	return nil
}

// isUniqueViolation recognizes unique index violations from both the
// postgres and the sqlite driver so races against the backstop indexes
// still surface as DuplicateNameError.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
