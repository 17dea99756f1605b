package database

import (
	"fmt"

	"github.com/filecabinet/backend/internal/config"
	"github.com/filecabinet/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultUserName is the seeded placeholder owner. The catalog runs
// single-user until real authentication replaces the middleware stub.
const DefaultUserName = "Catalog User"

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if _, err := SeedDefaultUser(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema plus the partial unique indexes that back
// the application-level sibling checks. COALESCE folds NULL parents into
// one group so root-level duplicates are caught too; the expression works
// on both postgres and sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.File{},
	); err != nil {
		return err
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS unique_folder_name_in_parent
			ON folders (name, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'))
			WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS unique_file_name_in_folder
			ON files (name, COALESCE(folder_id, '00000000-0000-0000-0000-000000000000'))
			WHERE deleted_at IS NULL`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedDefaultUser inserts the placeholder owner when the users table is
// empty and returns the first active user either way.
func SeedDefaultUser(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Where("deleted_at IS NULL").Order("created_at ASC").First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{Name: DefaultUserName}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
