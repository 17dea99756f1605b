package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Folder is a node in the catalog tree. ParentID is nil for root-level
// folders; the (name, parent_id) pair is unique among non-deleted rows.
type Folder struct {
	BaseModel
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	ParentID    *uuid.UUID `json:"parentId" gorm:"type:uuid;index"`
	CreatedByID uuid.UUID  `json:"createdById" gorm:"type:uuid;not null;index"`

	Parent     *Folder  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Subfolders []Folder `json:"subfolders,omitempty" gorm:"foreignKey:ParentID"`
	Files      []File   `json:"files,omitempty" gorm:"foreignKey:FolderID"`
	CreatedBy  *User    `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
}

func (f *Folder) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name,
			validation.Required.Error("folder name cannot be empty"),
			validation.Length(1, 255).Error("folder name must be between 1 and 255 characters"),
			validation.NotIn("/", ".", "..").Error("invalid folder name"),
		),
	)
}
