package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func createTestFolder(t *testing.T, server *Server, token string, body map[string]any) *domain.Folder {
	t.Helper()

	rec := doRequest(t, server, http.MethodPost, "/api/v1/folders", token, body)
	require.Equal(t, http.StatusOK, rec.Code, "create folder failed: %s", rec.Body.String())

	return decodeBody[*domain.Folder](t, rec)
}

func TestCreateFolder(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	folder := createTestFolder(t, server, reg.Token, map[string]any{
		"name":  "Recipes",
		"label": "🍞",
	})

	assert.NotEmpty(t, folder.ID)
	assert.Equal(t, "Recipes", folder.Name)
	assert.Equal(t, "🍞", folder.Label)
}

func TestCreateFolder_LabelTooLong(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/folders", reg.Token, map[string]any{
		"name":  "Recipes",
		"label": "ABC",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFolder(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	folder := createTestFolder(t, server, reg.Token, map[string]any{"name": "Recipes"})

	rec := doRequest(t, server, http.MethodPatch, "/api/v1/folders/"+folder.ID, reg.Token, map[string]any{
		"name": "Baking",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[*domain.Folder](t, rec)
	assert.Equal(t, "Baking", updated.Name)
}

func TestListFolders(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	createTestFolder(t, server, reg.Token, map[string]any{"name": "Recipes"})
	createTestFolder(t, server, reg.Token, map[string]any{"name": "Work"})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/folders", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[FoldersResponse](t, rec)
	assert.Equal(t, 2, resp.Total)
}

func TestDeleteFolder_CascadesToNotes(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	folder := createTestFolder(t, server, reg.Token, map[string]any{"name": "Doomed"})
	inside := createTestNote(t, server, reg.Token, map[string]any{
		"title":     "Inside",
		"folder_id": folder.ID,
	})
	outside := createTestNote(t, server, reg.Token, map[string]any{"title": "Outside"})

	rec := doRequest(t, server, http.MethodDelete, "/api/v1/folders/"+folder.ID, reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The note in the folder went with it; the loose note survived.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/notes/"+inside.ID, reg.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/notes/"+outside.ID, reg.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Deleting again is a no-op, not an error.
	rec = doRequest(t, server, http.MethodDelete, "/api/v1/folders/"+folder.ID, reg.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteFolder_OtherUsersFolderUntouched(t *testing.T) {
	server := setupTestServer(t)
	alice := registerTestUser(t, server, "alice")
	mallory := registerTestUser(t, server, "mallory")

	folder := createTestFolder(t, server, alice.Token, map[string]any{"name": "Private"})

	// Delete by a non-owner reports success but touches nothing.
	rec := doRequest(t, server, http.MethodDelete, "/api/v1/folders/"+folder.ID, mallory.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/folders/"+folder.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
