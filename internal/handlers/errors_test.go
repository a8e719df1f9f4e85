package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

func TestPipelineErrorStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, PipelineErrorStatus(services.KindInvalidInput))
	assert.Equal(t, fiber.StatusUnauthorized, PipelineErrorStatus(services.KindUnauthenticated))
	assert.Equal(t, fiber.StatusBadGateway, PipelineErrorStatus(services.KindUploadFailed))
	assert.Equal(t, fiber.StatusBadGateway, PipelineErrorStatus(services.KindAnalysisFailed))
	assert.Equal(t, StatusClientClosedRequest, PipelineErrorStatus(services.KindCancelled))
	assert.Equal(t, fiber.StatusInternalServerError, PipelineErrorStatus(services.KindSaveFailed))
	assert.Equal(t, fiber.StatusInternalServerError, PipelineErrorStatus(""))
}

func TestPipelineErrorBody(t *testing.T) {
	err := &services.PipelineError{
		Kind:  services.KindAnalysisFailed,
		Stage: services.StageAnalyzing,
		Cause: &services.MalformedResponseError{Message: "no JSON found in model response"},
	}

	body := pipelineErrorBody(err)
	assert.Equal(t, services.KindAnalysisFailed, body["kind"])
	assert.Equal(t, services.StageAnalyzing, body["stage"])
	assert.Equal(t, services.KindMalformedResponse, body["cause"])
	assert.Contains(t, body["error"], "failed to analyze resume")
}

func TestCustomErrorHandler(t *testing.T) {
	app := newTestApp()
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "Resume not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Resume not found", decodeBody(t, resp)["error"])

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
