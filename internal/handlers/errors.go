package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

// StatusClientClosedRequest is returned when the caller went away before the
// submission finished.
const StatusClientClosedRequest = 499

// PipelineErrorStatus maps a submission failure to an HTTP status.
func PipelineErrorStatus(kind services.ErrorKind) int {
	switch kind {
	case services.KindInvalidInput:
		return fiber.StatusBadRequest
	case services.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case services.KindUploadFailed, services.KindAnalysisFailed:
		return fiber.StatusBadGateway
	case services.KindCancelled:
		return StatusClientClosedRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func pipelineErrorBody(err error) fiber.Map {
	body := fiber.Map{"error": err.Error()}

	var pe *services.PipelineError
	if errors.As(err, &pe) {
		body["kind"] = pe.Kind
		body["stage"] = pe.Stage
	}

	var provErr *services.ProviderError
	var malformed *services.MalformedResponseError
	switch {
	case errors.As(err, &provErr):
		body["cause"] = services.KindProviderError
	case errors.As(err, &malformed):
		body["cause"] = services.KindMalformedResponse
	}

	return body
}

func respondPipelineError(c *fiber.Ctx, err error) error {
	return c.Status(PipelineErrorStatus(services.KindOf(err))).JSON(pipelineErrorBody(err))
}

func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
