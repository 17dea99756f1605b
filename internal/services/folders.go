package services

import (
	"context"
	"strings"
	"time"

	"github.com/filecabinet/backend/internal/apperrors"
	"github.com/filecabinet/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoldersService owns folder mutations. Validation and the insert run on
// one transaction so concurrent creators cannot both pass the sibling
// check.
type FoldersService struct {
	DB        *gorm.DB
	Hierarchy *HierarchyService
	Timeout   time.Duration
}

func NewFoldersService(db *gorm.DB, hierarchy *HierarchyService, timeout time.Duration) *FoldersService {
	return &FoldersService{DB: db, Hierarchy: hierarchy, Timeout: timeout}
}

func (s *FoldersService) Create(ctx context.Context, name string, createdByID uuid.UUID, parentID *uuid.UUID) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.ValidationError{Message: "folder name is required"}
	}

	folder := models.Folder{
		Name:        name,
		ParentID:    parentID,
		CreatedByID: createdByID,
	}
	if err := folder.Validate(); err != nil {
		return nil, &apperrors.ValidationError{Message: err.Error()}
	}

	// The id is assigned up front so the cycle walk has something to
	// compare against.
	folder.ID = uuid.New()

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			var parent models.Folder
			if err := tx.Where("deleted_at IS NULL").First(&parent, "id = ?", *parentID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return &apperrors.NotFoundError{Resource: "parent folder"}
				}
				return apperrors.FromStorage(err)
			}
			if err := s.Hierarchy.ValidateParent(ctx, tx, folder.ID, *parentID); err != nil {
				return err
			}
		}

		if err := s.Hierarchy.ValidateUniqueFolderName(ctx, tx, name, parentID, nil); err != nil {
			return err
		}

		if err := tx.Create(&folder).Error; err != nil {
			if isUniqueViolation(err) {
				return &apperrors.DuplicateNameError{Message: "a folder with this name already exists in this location"}
			}
			return apperrors.FromStorage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var created models.Folder
	if err := s.DB.WithContext(ctx).Preload("CreatedBy").First(&created, "id = ?", folder.ID).Error; err != nil {
		return nil, apperrors.FromStorage(err)
	}

	item := models.FolderItem(&created)
	return &item, nil
}

// Delete soft-deletes an empty folder. Deleting while non-deleted
// children exist is refused, mirroring the RESTRICT references.
func (s *FoldersService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folder models.Folder
		if err := tx.Where("deleted_at IS NULL").First(&folder, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperrors.NotFoundError{Resource: "folder"}
			}
			return apperrors.FromStorage(err)
		}

		var childFolders int64
		if err := tx.Model(&models.Folder{}).
			Where("deleted_at IS NULL AND parent_id = ?", id).
			Count(&childFolders).Error; err != nil {
			return apperrors.FromStorage(err)
		}
		var childFiles int64
		if err := tx.Model(&models.File{}).
			Where("deleted_at IS NULL AND folder_id = ?", id).
			Count(&childFiles).Error; err != nil {
			return apperrors.FromStorage(err)
		}
		if childFolders+childFiles > 0 {
			return &apperrors.ValidationError{Message: "folder is not empty"}
		}

		now := time.Now()
		result := tx.Model(&models.Folder{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", now)
		if result.Error != nil {
			return apperrors.FromStorage(result.Error)
		}
		if result.RowsAffected == 0 {
			return &apperrors.NotFoundError{Resource: "folder"}
		}
		return nil
	})
}
