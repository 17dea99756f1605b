package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted size value (100 MiB). The catalog
// stores metadata only, so this bounds the declared size, not a payload.
const MaxFileSize = 100 * 1024 * 1024

// File is a leaf record. FolderID is nil for root-level files; the
// (name, folder_id) pair is unique among non-deleted rows.
type File struct {
	BaseModel
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	MimeType    string     `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size        int64      `json:"size" gorm:"not null;default:0"`
	FolderID    *uuid.UUID `json:"folderId" gorm:"type:uuid;index"`
	CreatedByID uuid.UUID  `json:"createdById" gorm:"type:uuid;not null;index"`

	Folder    *Folder `json:"folder,omitempty" gorm:"foreignKey:FolderID"`
	CreatedBy *User   `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
}

func (f *File) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name,
			validation.Required.Error("file name cannot be empty"),
			validation.Length(1, 255).Error("file name must be between 1 and 255 characters"),
		),
		validation.Field(&f.MimeType,
			validation.Required.Error("mime type cannot be empty"),
		),
		validation.Field(&f.Size,
			validation.Min(int64(0)).Error("file size cannot be negative"),
			validation.Max(int64(MaxFileSize)).Error("file size cannot exceed 100MB"),
		),
	)
}
