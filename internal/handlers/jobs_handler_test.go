package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

func newJobsApp(index services.JobIndex) *fiber.App {
	h := NewJobsHandler(index)
	app := newTestApp()
	app.Get("/jobs/search", RequireAuth(testAuth), h.HandleSearch)
	return app
}

func TestJobsHandler_NotConfigured(t *testing.T) {
	app := newJobsApp(nil)
	req := httptest.NewRequest("GET", "/jobs/search?q=golang", nil)
	req.Header.Set("Authorization", bearer(t, services.Identity{UserID: uuid.New()}))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestJobsHandler_Search(t *testing.T) {
	user := services.Identity{UserID: uuid.New()}
	index := &fakeJobIndex{results: []services.JobSearchResult{{Title: "Go Developer", Company: "Acme", Score: 0.9}}}
	app := newJobsApp(index)

	req := httptest.NewRequest("GET", "/jobs/search?q=golang+backend&limit=5", nil)
	req.Header.Set("Authorization", bearer(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "golang backend", index.query)
	assert.Equal(t, 5, index.limit)
	assert.Equal(t, user.UserID, index.owner)

	body := decodeBody(t, resp)
	results, ok := body["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestJobsHandler_Validation(t *testing.T) {
	user := services.Identity{UserID: uuid.New()}
	app := newJobsApp(&fakeJobIndex{})

	for _, target := range []string{"/jobs/search", "/jobs/search?q=a", "/jobs/search?q=golang&limit=500"} {
		req := httptest.NewRequest("GET", target, nil)
		req.Header.Set("Authorization", bearer(t, user))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestJobsHandler_SearchFailure(t *testing.T) {
	app := newJobsApp(&fakeJobIndex{err: errors.New("qdrant unavailable")})
	req := httptest.NewRequest("GET", "/jobs/search?q=golang", nil)
	req.Header.Set("Authorization", bearer(t, services.Identity{UserID: uuid.New()}))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
