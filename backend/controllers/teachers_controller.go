package controllers

import (
	"log"

	"pincorder/backend/config"
	"pincorder/backend/middleware"
	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TeachersController struct {
	Svc    *services.Services
	Cfg    *config.Config
	Logger *log.Logger
}

func NewTeachersController(svc *services.Services, cfg *config.Config, logger *log.Logger) *TeachersController {
	return &TeachersController{Svc: svc, Cfg: cfg, Logger: logger}
}

type TeacherRequest struct {
	Name       *string         `json:"name" validate:"omitempty,max=300"`
	Role       *string         `json:"role" validate:"omitempty,max=300"`
	Org        *string         `json:"org" validate:"omitempty,max=300"`
	Website    *string         `json:"website" validate:"omitempty,max=300"`
	University nullableID      `json:"university" swaggertype:"integer"`
	Privacy    *models.Privacy `json:"privacy" enums:"0,1,2,3"`
}

func (r TeacherRequest) input() services.TeacherInput {
	return services.TeacherInput{
		Name:         r.Name,
		Role:         r.Role,
		Org:          r.Org,
		Website:      r.Website,
		UniversityID: r.University.ptr(),
		Privacy:      r.Privacy,
	}
}

func (tc *TeachersController) GetTeachers(c *fiber.Ctx) error {
	teachers, err := tc.Svc.Teachers.List(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return c.JSON(nonNilTeachers(teachers))
}

func (tc *TeachersController) GetTeacher(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	teacher, err := tc.Svc.Teachers.Get(middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return c.JSON(teacher)
}

// CreateTeacher godoc
// @Summary Create a teacher
// @Description Creates a teacher authored by the caller. Privacy 3 (featured) is kept for staff only.
// @Tags teachers
// @Accept json
// @Produce json
// @Param input body TeacherRequest true "Teacher data"
// @Success 201 {object} models.Teacher
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /teachers [post]
func (tc *TeachersController) CreateTeacher(c *fiber.Ctx) error {
	var req TeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	teacher, err := tc.Svc.Teachers.Create(middleware.CurrentUser(c), req.input())
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.Created(c, teacher)
}

func (tc *TeachersController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	var req TeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return utils.ValidationError(c, errs)
	}
	teacher, err := tc.Svc.Teachers.Update(middleware.CurrentUser(c), id, req.input())
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return c.JSON(teacher)
}

func (tc *TeachersController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	if err := tc.Svc.Teachers.Delete(middleware.CurrentUser(c), id); err != nil {
		return respondError(c, tc.Logger, err)
	}
	return utils.NoContent(c)
}

func (tc *TeachersController) SearchTeachers(c *fiber.Ctx) error {
	teachers, err := tc.Svc.Teachers.Search(middleware.CurrentUser(c), queryParam(c, "name"))
	if err != nil {
		return respondError(c, tc.Logger, err)
	}
	return c.JSON(nonNilTeachers(teachers))
}

func nonNilTeachers(teachers []models.Teacher) []models.Teacher {
	if teachers == nil {
		return []models.Teacher{}
	}
	return teachers
}
