package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/filecabinet/backend/internal/apperrors"
	"github.com/filecabinet/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentsService answers "what is in this folder": the unioned,
// filtered, sorted and paginated view over direct child folders and
// files, plus the root-to-folder breadcrumb path.
type ContentsService struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewContentsService(db *gorm.DB, timeout time.Duration) *ContentsService {
	return &ContentsService{DB: db, Timeout: timeout}
}

type ListOptions struct {
	Search    string
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type ListResult struct {
	Items      []models.Item `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// sortColumns is the allow-list for ORDER BY; sort input never reaches
// the SQL text except through this map.
var sortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"size":      "size",
}

type itemRow struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	ParentID  *uuid.UUID
	FolderID  *uuid.UUID
	MimeType  *string
	Size      *int64
	ItemType  string
	UserID    *uuid.UUID
	UserName  *string
}

// ListContents returns one page of the direct children of parentID (nil
// means root level), folders always ahead of files. The count and the
// page are two separate reads; totals can lag the page under concurrent
// writes, which the API accepts.
func (s *ContentsService) ListContents(ctx context.Context, parentID *uuid.UUID, opts ListOptions) (*ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	if opts.SortField == "" {
		opts.SortField = "name"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = "ASC"
	}

	sortColumn, ok := sortColumns[opts.SortField]
	if !ok {
		return nil, &apperrors.ValidationError{Message: "invalid sort field"}
	}
	sortOrder := strings.ToUpper(opts.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		return nil, &apperrors.ValidationError{Message: "invalid sort order"}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	parentCond := "IS NULL"
	searchCond := ""
	if parentID != nil {
		parentCond = "= ?"
	}
	if opts.Search != "" {
		searchCond = " AND LOWER(name) LIKE ?"
	}

	branchArgs := func() []interface{} {
		args := make([]interface{}, 0, 2)
		if parentID != nil {
			args = append(args, *parentID)
		}
		if opts.Search != "" {
			args = append(args, "%"+strings.ToLower(opts.Search)+"%")
		}
		return args
	}

	folderWhere := fmt.Sprintf("WHERE deleted_at IS NULL AND parent_id %s%s", parentCond, searchCond)
	fileWhere := fmt.Sprintf("WHERE deleted_at IS NULL AND folder_id %s%s", parentCond, searchCond)

	countQuery := fmt.Sprintf(`
		SELECT (SELECT COUNT(*) FROM folders %s)
		     + (SELECT COUNT(*) FROM files %s) AS total`,
		folderWhere, fileWhere)

	countArgs := append(branchArgs(), branchArgs()...)

	var totalItems int64
	if err := s.DB.WithContext(ctx).Raw(countQuery, countArgs...).Scan(&totalItems).Error; err != nil {
		return nil, apperrors.FromStorage(err)
	}

	pageQuery := fmt.Sprintf(`
		WITH combined AS (
			SELECT f.id, f.name, f.created_at, f.updated_at, f.parent_id,
			       NULL AS folder_id, NULL AS mime_type, NULL AS size,
			       'folder' AS item_type, u.id AS user_id, u.name AS user_name
			FROM (SELECT * FROM folders %s) f
			LEFT JOIN users u ON u.id = f.created_by_id

			UNION ALL

			SELECT fi.id, fi.name, fi.created_at, fi.updated_at, NULL AS parent_id,
			       fi.folder_id, fi.mime_type, fi.size,
			       'file' AS item_type, u.id AS user_id, u.name AS user_name
			FROM (SELECT * FROM files %s) fi
			LEFT JOIN users u ON u.id = fi.created_by_id
		)
		SELECT * FROM combined
		ORDER BY CASE WHEN item_type = 'folder' THEN 0 ELSE 1 END, %s %s
		LIMIT ? OFFSET ?`,
		folderWhere, fileWhere, sortColumn, sortOrder)

	offset := (opts.Page - 1) * opts.Limit
	pageArgs := append(branchArgs(), branchArgs()...)
	pageArgs = append(pageArgs, opts.Limit, offset)

	var rows []itemRow
	if err := s.DB.WithContext(ctx).Raw(pageQuery, pageArgs...).Scan(&rows).Error; err != nil {
		return nil, apperrors.FromStorage(err)
	}

	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		item := models.Item{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			ParentID:  row.ParentID,
			FolderID:  row.FolderID,
			MimeType:  row.MimeType,
			Size:      row.Size,
			ItemType:  models.ItemType(row.ItemType),
		}
		if row.UserID != nil {
			item.User.ID = *row.UserID
		}
		if row.UserName != nil {
			item.User.Name = *row.UserName
		}
		items = append(items, item)
	}

	totalPages := int((totalItems + int64(opts.Limit) - 1) / int64(opts.Limit))

	return &ListResult{
		Items: items,
		Pagination: Pagination{
			Page:       opts.Page,
			Limit:      opts.Limit,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}, nil
}

// GetPath resolves the breadcrumb from the root to folderID inclusive.
func (s *ContentsService) GetPath(ctx context.Context, folderID uuid.UUID) ([]models.Item, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Folder{}).Where("deleted_at IS NULL").Count(&total).Error; err != nil {
		return nil, apperrors.FromStorage(err)
	}

	path := make([]models.Item, 0)
	current := folderID
	for steps := int64(0); ; steps++ {
		// Corrupt parent links must not spin the walk forever.
		if steps > total {
			return nil, &apperrors.CycleError{}
		}
		var folder models.Folder
		err := s.DB.WithContext(ctx).
			Preload("CreatedBy").
			Where("deleted_at IS NULL").
			First(&folder, "id = ?", current).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				if len(path) == 0 {
					return nil, &apperrors.NotFoundError{Resource: "folder"}
				}
				// A missing ancestor ends the walk; the partial path
				// is still the best available breadcrumb.
				break
			}
			return nil, apperrors.FromStorage(err)
		}

		path = append(path, models.FolderItem(&folder))
		if folder.ParentID == nil {
			break
		}
		current = *folder.ParentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}
