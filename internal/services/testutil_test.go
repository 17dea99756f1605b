package services

import (
	"testing"
	"time"

	"github.com/filecabinet/backend/internal/database"
	"github.com/filecabinet/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating models: %v", err)
	}
	user, err := database.SeedDefaultUser(db)
	if err != nil {
		t.Fatalf("failed seeding default user: %v", err)
	}

	return db, user
}

func newServices(t *testing.T) (*gorm.DB, *models.User, *FoldersService, *FilesService, *ContentsService) {
	t.Helper()

	db, user := setupDB(t)
	hierarchy := NewHierarchyService(db)
	folders := NewFoldersService(db, hierarchy, 5*time.Second)
	files := NewFilesService(db, hierarchy, 5*time.Second)
	contents := NewContentsService(db, 5*time.Second)
	return db, user, folders, files, contents
}

func mustCreateFolder(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, parentID *uuid.UUID) *models.Folder {
	t.Helper()

	folder := &models.Folder{
		Name:        name,
		ParentID:    parentID,
		CreatedByID: userID,
	}
	if err := db.Create(folder).Error; err != nil {
		t.Fatalf("failed creating folder %q: %v", name, err)
	}
	return folder
}

func mustCreateFile(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, folderID *uuid.UUID, size int64) *models.File {
	t.Helper()

	file := &models.File{
		Name:        name,
		MimeType:    "application/octet-stream",
		Size:        size,
		FolderID:    folderID,
		CreatedByID: userID,
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed creating file %q: %v", name, err)
	}
	return file
}
