package handlers

import (
	"net/http"
	"testing"

	"github.com/filecabinet/backend/internal/models"
)

func TestFilesEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/folders/", map[string]any{
		"name": "Media",
	})
	assertStatus(t, resp, http.StatusCreated)
	folderID := decodeJSONMap(t, resp)["id"].(string)

	var fileID string

	t.Run("POST /api/files creates a record", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/files/", map[string]any{
			"files": []map[string]any{
				{"name": "a.txt", "mimeType": "text/plain", "size": 42, "folderId": folderID},
			},
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		success := body["success"].([]any)
		errs := body["errors"].([]any)
		if len(success) != 1 || len(errs) != 0 {
			t.Fatalf("expected 1 success and 0 errors, got %d/%d", len(success), len(errs))
		}
		record := success[0].(map[string]any)
		if record["itemType"].(string) != "file" {
			t.Fatalf("expected itemType file, got %v", record["itemType"])
		}
		fileID = record["id"].(string)
	})

	t.Run("POST /api/files partial batch success", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/files/", map[string]any{
			"files": []map[string]any{
				{"name": "b.txt", "mimeType": "text/plain", "size": 10, "folderId": folderID},
				{"name": "a.txt", "mimeType": "text/plain", "size": 10, "folderId": folderID},
				{"name": "c.txt", "mimeType": "text/plain", "size": -5, "folderId": folderID},
			},
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		success := body["success"].([]any)
		errs := body["errors"].([]any)
		if len(success) != 1 || len(errs) != 2 {
			t.Fatalf("expected 1 success and 2 errors, got %d/%d", len(success), len(errs))
		}

		var count int64
		if err := env.db.Model(&models.File{}).Where("deleted_at IS NULL").Count(&count).Error; err != nil {
			t.Fatalf("counting files: %v", err)
		}
		if count != 2 {
			t.Fatalf("expected exactly 2 file rows after batch, got %d", count)
		}
	})

	t.Run("POST /api/files body not an array", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/files/", map[string]any{})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertBodyError(t, body, "files must be an array")
	})

	t.Run("POST /api/files missing size", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/files/", map[string]any{
			"files": []map[string]any{
				{"name": "d.txt", "mimeType": "text/plain"},
			},
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		errs := body["errors"].([]any)
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d", len(errs))
		}
		if errs[0].(map[string]any)["error"].(string) != "size is required" {
			t.Fatalf("unexpected error: %+v", errs[0])
		}
	})

	t.Run("POST /api/files invalid folderId", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/files/", map[string]any{
			"files": []map[string]any{
				{"name": "e.txt", "mimeType": "text/plain", "size": 5, "folderId": "nope"},
			},
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		errs := body["errors"].([]any)
		if len(errs) != 1 || errs[0].(map[string]any)["error"].(string) != "invalid folderId" {
			t.Fatalf("unexpected errors: %+v", errs)
		}
	})

	t.Run("POST /api/files unknown folder", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/files/", map[string]any{
			"files": []map[string]any{
				{"name": "f.txt", "mimeType": "text/plain", "size": 5, "folderId": "00000000-0000-0000-0000-000000000001"},
			},
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		errs := body["errors"].([]any)
		if len(errs) != 1 || errs[0].(map[string]any)["error"].(string) != "folder not found" {
			t.Fatalf("unexpected errors: %+v", errs)
		}
	})

	t.Run("GET /api/files/:id returns file with creator", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/"+fileID, nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		if body["name"].(string) != "a.txt" {
			t.Fatalf("expected a.txt, got %v", body["name"])
		}
		user := body["user"].(map[string]any)
		if user["id"].(string) != env.user.ID.String() {
			t.Fatalf("expected seeded creator id, got %v", user["id"])
		}
	})

	t.Run("GET /api/files/:id not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/00000000-0000-0000-0000-000000000001", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertBodyError(t, body, "file not found")
	})

	t.Run("DELETE /api/files/:id soft deletes", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/files/"+fileID, nil, nil)
		assertStatus(t, resp, http.StatusNoContent)
	})

	t.Run("deleted file invisible through the API", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/files/"+fileID, nil, nil)
		assertStatus(t, resp, http.StatusNotFound)

		resp = performRequest(t, env.app, http.MethodGet, "/api/folders/"+folderID, nil, nil)
		body := decodeJSONMap(t, resp)
		for _, raw := range body["items"].([]any) {
			if raw.(map[string]any)["id"].(string) == fileID {
				t.Fatalf("deleted file still listed")
			}
		}
	})

	t.Run("deleted file row still present with tombstone", func(t *testing.T) {
		var file models.File
		if err := env.db.First(&file, "id = ?", fileID).Error; err != nil {
			t.Fatalf("expected raw row to survive soft delete: %v", err)
		}
		if file.DeletedAt == nil {
			t.Fatalf("expected deleted_at to be set")
		}
	})

	t.Run("DELETE /api/files/:id already deleted", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/files/"+fileID, nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertBodyError(t, body, "file not found")
	})
}
