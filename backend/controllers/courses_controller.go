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

type CoursesController struct {
	Svc    *services.Services
	Cfg    *config.Config
	Logger *log.Logger
}

func NewCoursesController(svc *services.Services, cfg *config.Config, logger *log.Logger) *CoursesController {
	return &CoursesController{Svc: svc, Cfg: cfg, Logger: logger}
}

type CourseRequest struct {
	Name         *string         `json:"name"`
	Teacher      nullableID      `json:"teacher" swaggertype:"integer"`
	ParentCourse nullableID      `json:"parent_course" swaggertype:"integer"`
	Privacy      *models.Privacy `json:"privacy" enums:"0,1,2"`
}

func (r CourseRequest) input() services.CourseInput {
	return services.CourseInput{
		Name:           r.Name,
		TeacherID:      r.Teacher.ptr(),
		ParentCourseID: r.ParentCourse.ptr(),
		Privacy:        r.Privacy,
	}
}

type CourseWithTeacherRequest struct {
	Name         *string         `json:"name"`
	Teacher      *string         `json:"teacher"`
	ParentCourse nullableID      `json:"parent_course" swaggertype:"integer"`
	Privacy      *models.Privacy `json:"privacy" enums:"0,1,2"`
}

type AddTeacherRequest struct {
	Teacher *string `json:"teacher"`
}

type ShareRequest struct {
	SharedUser *uint `json:"shared_user"`
}

// GetCourses returns the courses the user owns or that are shared with them.
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses, err := cc.Svc.Courses.List(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return c.JSON(nonNilCourses(courses))
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	course, err := cc.Svc.Courses.Get(middleware.CurrentUser(c), id)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return c.JSON(course)
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course, err := cc.Svc.Courses.Create(middleware.CurrentUser(c), req.input())
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.Created(c, course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course, err := cc.Svc.Courses.Update(middleware.CurrentUser(c), id, req.input())
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return c.JSON(course)
}

// DeleteCourse removes the course, its sub-courses and their recordings.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	if err := cc.Svc.Courses.Delete(middleware.CurrentUser(c), id); err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.NoContent(c)
}

// AddCourseWithTeacher godoc
// @Summary Create a course and its teacher
// @Description Creates a teacher from the given name, then a course taught by it
// @Tags courses
// @Accept json
// @Produce json
// @Param input body CourseWithTeacherRequest true "Course data with teacher name"
// @Success 201 {object} models.Course
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/add_course_with_teacher [post]
func (cc *CoursesController) AddCourseWithTeacher(c *fiber.Ctx) error {
	var req CourseWithTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	in := services.CourseInput{Name: req.Name, ParentCourseID: req.ParentCourse.ptr(), Privacy: req.Privacy}
	course, err := cc.Svc.Courses.CreateWithTeacher(middleware.CurrentUser(c), req.Teacher, in)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.Created(c, course)
}

// AddTeacher godoc
// @Summary Add a teacher to a course
// @Description Creates a teacher from the given name and assigns it to the course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body AddTeacherRequest true "Teacher name"
// @Success 200 {object} models.Course
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/add_teacher [post]
func (cc *CoursesController) AddTeacher(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	var req AddTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course, err := cc.Svc.Courses.AddTeacher(middleware.CurrentUser(c), id, req.Teacher)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	return c.JSON(course)
}

// ShareCourseWithUser godoc
// @Summary Share a course
// @Description Shares the course and every sub-course with another user
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body ShareRequest true "Target user"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/share_course_with_user [post]
func (cc *CoursesController) ShareCourseWithUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, cc.Logger, err)
	}
	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := cc.Svc.Sharing.ShareCourseWithUser(middleware.CurrentUser(c), id, req.SharedUser); err != nil {
		return respondError(c, cc.Logger, err)
	}
	return utils.OK(c, "OK")
}

func nonNilCourses(courses []models.Course) []models.Course {
	if courses == nil {
		return []models.Course{}
	}
	return courses
}
