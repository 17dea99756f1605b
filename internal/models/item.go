package models

import (
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	ItemTypeFolder ItemType = "folder"
	ItemTypeFile   ItemType = "file"
)

type ItemUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Item is the unified read model for listings: a tagged union of folder
// and file rows. Folder items carry nil folderId/mimeType/size, file items
// carry nil parentId.
type Item struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ParentID  *uuid.UUID `json:"parentId"`
	FolderID  *uuid.UUID `json:"folderId"`
	MimeType  *string    `json:"mimeType"`
	Size      *int64     `json:"size"`
	ItemType  ItemType   `json:"itemType"`
	User      ItemUser   `json:"user"`
}

func FolderItem(f *Folder) Item {
	item := Item{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		ParentID:  f.ParentID,
		ItemType:  ItemTypeFolder,
	}
	if f.CreatedBy != nil {
		item.User = ItemUser{ID: f.CreatedBy.ID, Name: f.CreatedBy.Name}
	} else {
		item.User = ItemUser{ID: f.CreatedByID}
	}
	return item
}

func FileItem(f *File) Item {
	mimeType := f.MimeType
	size := f.Size
	item := Item{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		FolderID:  f.FolderID,
		MimeType:  &mimeType,
		Size:      &size,
		ItemType:  ItemTypeFile,
	}
	if f.CreatedBy != nil {
		item.User = ItemUser{ID: f.CreatedBy.ID, Name: f.CreatedBy.Name}
	} else {
		item.User = ItemUser{ID: f.CreatedByID}
	}
	return item
}
