package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

type JobsHandler struct {
	index     services.JobIndex
	validator *validator.Validate
}

// NewJobsHandler serves semantic search over previously matched jobs. A nil
// index disables the endpoint.
func NewJobsHandler(index services.JobIndex) *JobsHandler {
	return &JobsHandler{index: index, validator: validator.New()}
}

// HandleSearch handles GET /jobs/search?q=...&limit=...
func (h *JobsHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "job search is not configured",
		})
	}

	var req models.JobSearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required (2-500 characters) and limit must be between 1 and 50",
		})
	}

	results, err := h.index.Search(c.UserContext(), identityFrom(c).UserID, req.Query, req.Limit)
	if err != nil {
		log.Printf("❌ Job search failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "job search failed",
		})
	}

	return c.JSON(fiber.Map{
		"query":   req.Query,
		"results": results,
	})
}
