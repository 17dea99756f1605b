package services

import (
	"context"

	"github.com/filecabinet/backend/internal/apperrors"
	"github.com/filecabinet/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HierarchyService enforces the folder tree invariants. Its checks are
// meant to run on the same transaction as the write they guard; the
// partial unique indexes remain as the storage-level backstop.
type HierarchyService struct {
	DB *gorm.DB
}

func NewHierarchyService(db *gorm.DB) *HierarchyService {
	return &HierarchyService{DB: db}
}

// ValidateParent rejects self-parenting and cycles. It walks up from the
// candidate parent; the walk is bounded by the total folder count so it
// terminates even if stored links are already corrupt.
func (s *HierarchyService) ValidateParent(ctx context.Context, tx *gorm.DB, folderID uuid.UUID, candidateParentID uuid.UUID) error {
	if tx == nil {
		tx = s.DB
	}
	if candidateParentID == folderID {
		return &apperrors.SelfParentError{}
	}

	var total int64
	if err := tx.WithContext(ctx).Model(&models.Folder{}).Where("deleted_at IS NULL").Count(&total).Error; err != nil {
		return apperrors.FromStorage(err)
	}

	current := candidateParentID
	for steps := int64(0); steps <= total; steps++ {
		var folder models.Folder
		err := tx.WithContext(ctx).
			Select("id", "parent_id").
			Where("deleted_at IS NULL").
			First(&folder, "id = ?", current).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return apperrors.FromStorage(err)
		}
		if folder.ID == folderID {
			return &apperrors.CycleError{}
		}
		if folder.ParentID == nil {
			return nil
		}
		current = *folder.ParentID
	}

	// The chain outran the folder count, which only happens when the
	// stored links already loop.
	return &apperrors.CycleError{}
}

// ValidateUniqueFolderName checks (name, parentID) uniqueness among
// non-deleted folders. A nil parentID means the root group.
func (s *HierarchyService) ValidateUniqueFolderName(ctx context.Context, tx *gorm.DB, name string, parentID *uuid.UUID, excludeID *uuid.UUID) error {
	if tx == nil {
		tx = s.DB
	}
	query := tx.WithContext(ctx).Model(&models.Folder{}).
		Where("deleted_at IS NULL").
		Where("name = ?", name)
	query = scopeNullableParent(query, "parent_id", parentID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.FromStorage(err)
	}
	if count > 0 {
		return &apperrors.DuplicateNameError{Message: "a folder with this name already exists in this location"}
	}
	return nil
}

// ValidateUniqueFileName checks (name, folderID) uniqueness among
// non-deleted files. A nil folderID means the root group.
func (s *HierarchyService) ValidateUniqueFileName(ctx context.Context, tx *gorm.DB, name string, folderID *uuid.UUID, excludeID *uuid.UUID) error {
	if tx == nil {
		tx = s.DB
	}
	query := tx.WithContext(ctx).Model(&models.File{}).
		Where("deleted_at IS NULL").
		Where("name = ?", name)
	query = scopeNullableParent(query, "folder_id", folderID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.FromStorage(err)
	}
	if count > 0 {
		return &apperrors.DuplicateNameError{Message: "a file with this name already exists in this folder"}
	}
	return nil
}

func scopeNullableParent(query *gorm.DB, column string, id *uuid.UUID) *gorm.DB {
	if id == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *id)
}
