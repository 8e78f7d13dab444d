package controllers

import (
	"log"

	"pincorder/backend/models"
	"pincorder/backend/services"

	"github.com/gofiber/fiber/v2"
)

// UniversitiesController serves the read-only university catalogue.
type UniversitiesController struct {
	Svc    *services.Services
	Logger *log.Logger
}

func NewUniversitiesController(svc *services.Services, logger *log.Logger) *UniversitiesController {
	return &UniversitiesController{Svc: svc, Logger: logger}
}

func (uc *UniversitiesController) GetUniversities(c *fiber.Ctx) error {
	unis, err := uc.Svc.Universities.List()
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	return c.JSON(nonNilUniversities(unis))
}

func (uc *UniversitiesController) GetUniversity(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	uni, err := uc.Svc.Universities.Get(id)
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	return c.JSON(uni)
}

func (uc *UniversitiesController) SearchUniversities(c *fiber.Ctx) error {
	unis, err := uc.Svc.Universities.Search(queryParam(c, "name"))
	if err != nil {
		return respondError(c, uc.Logger, err)
	}
	return c.JSON(nonNilUniversities(unis))
}

func nonNilUniversities(unis []models.University) []models.University {
	if unis == nil {
		return []models.University{}
	}
	return unis
}
