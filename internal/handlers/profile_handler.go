package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/repositories"
)

type ProfileHandler struct {
	profiles  repositories.ProfileRepository
	validator *validator.Validate
}

func NewProfileHandler(profiles repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		validator: validator.New(),
	}
}

// HandleGet handles GET /profile. Users without a stored profile get an
// empty one.
func (h *ProfileHandler) HandleGet(c *fiber.Ctx) error {
	identity := identityFrom(c)

	profile, err := h.profiles.Get(c.UserContext(), identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(models.Profile{ID: identity.UserID})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch profile",
		})
	}

	return c.JSON(profile)
}

// HandleUpdate handles PUT /profile
func (h *ProfileHandler) HandleUpdate(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "full_name is required and must be at most 120 characters",
		})
	}

	profile, err := h.profiles.UpdateFullName(c.UserContext(), identityFrom(c).UserID, req.FullName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update profile",
		})
	}

	return c.JSON(profile)
}
