package controllers

import (
	"log"

	"pincorder/backend/middleware"
	"pincorder/backend/services"

	"github.com/gofiber/fiber/v2"
)

type UserDumpController struct {
	Svc    *services.Services
	Logger *log.Logger
}

func NewUserDumpController(svc *services.Services, logger *log.Logger) *UserDumpController {
	return &UserDumpController{Svc: svc, Logger: logger}
}

// GetUserDump godoc
// @Summary Full client sync snapshot
// @Description Returns the user, their teachers, owned courses and recordings with pins, and everything shared with them
// @Tags sync
// @Produce json
// @Success 200 {object} services.UserDump
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user_dump [get]
func (dc *UserDumpController) GetUserDump(c *fiber.Ctx) error {
	dump, err := dc.Svc.Visibility.Dump(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, dc.Logger, err)
	}
	return c.JSON(dump)
}
