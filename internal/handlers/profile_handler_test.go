package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

func newProfileApp(repo *fakeProfileRepo) *fiber.App {
	h := NewProfileHandler(repo)
	app := newTestApp()
	app.Get("/profile", RequireAuth(testAuth), h.HandleGet)
	app.Put("/profile", RequireAuth(testAuth), h.HandleUpdate)
	return app
}

func TestProfileHandler_GetMissingProfile(t *testing.T) {
	user := services.Identity{UserID: uuid.New()}
	app := newProfileApp(&fakeProfileRepo{err: repositories.ErrNotFound})

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", bearer(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, user.UserID.String(), body["id"])
	assert.Equal(t, "", body["full_name"])
}

func TestProfileHandler_Get(t *testing.T) {
	user := services.Identity{UserID: uuid.New()}
	app := newProfileApp(&fakeProfileRepo{profile: &models.Profile{ID: user.UserID, FullName: "Jane Doe"}})

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", bearer(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", decodeBody(t, resp)["full_name"])
}

func TestProfileHandler_Update(t *testing.T) {
	user := services.Identity{UserID: uuid.New()}

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"full_name": "Jane Doe"}`, fiber.StatusOK},
		{"missing name", `{}`, fiber.StatusBadRequest},
		{"too long", `{"full_name": "` + strings.Repeat("a", 121) + `"}`, fiber.StatusBadRequest},
		{"not json", `full_name=Jane`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeProfileRepo{}
			app := newProfileApp(repo)

			req := httptest.NewRequest("PUT", "/profile", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearer(t, user))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == fiber.StatusOK {
				assert.Equal(t, "Jane Doe", repo.updated)
			} else {
				assert.Empty(t, repo.updated)
			}
		})
	}
}
