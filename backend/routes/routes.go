package routes

import (
	"log"

	"pincorder/backend/config"
	"pincorder/backend/controllers"
	"pincorder/backend/metrics"
	"pincorder/backend/middleware"
	"pincorder/backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp builds the Fiber application with middleware and every route.
func NewApp(cfg *config.Config, svc *services.Services, logger *log.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "Pincorder"})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger, cfg.LogColors))
	app.Use(middleware.MetricsMiddleware(m))

	SetupRoutes(app, svc, cfg, logger, gatherer)
	return app
}

func SetupRoutes(app *fiber.App, svc *services.Services, cfg *config.Config, logger *log.Logger, gatherer prometheus.Gatherer) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Auth routes
	authController := controllers.NewAuthController(svc, cfg, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg, svc.Users)

	// User routes
	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)
	userDumpController := controllers.NewUserDumpController(svc, logger)
	app.Get("/api/user_dump", authMiddleware, userDumpController.GetUserDump)

	// Courses routes
	coursesController := controllers.NewCoursesController(svc, cfg, logger)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Post("/", coursesController.CreateCourse)
	courses.Post("/add_course_with_teacher", coursesController.AddCourseWithTeacher)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Patch("/:id", coursesController.UpdateCourse)
	courses.Put("/:id", coursesController.UpdateCourse)
	courses.Delete("/:id", coursesController.DeleteCourse)
	courses.Post("/:id/add_teacher", coursesController.AddTeacher)
	courses.Post("/:id/share_course_with_user", coursesController.ShareCourseWithUser)

	// Recordings and pins routes
	recordingsController := controllers.NewRecordingsController(svc, cfg, logger)
	recordings := app.Group("/api/recordings", authMiddleware)
	recordings.Get("/", recordingsController.GetRecordings)
	recordings.Post("/", recordingsController.CreateRecording)
	recordings.Get("/search_by_name", recordingsController.SearchByName)
	recordings.Get("/:id", recordingsController.GetRecording)
	recordings.Patch("/:id", recordingsController.UpdateRecording)
	recordings.Put("/:id", recordingsController.UpdateRecording)
	recordings.Delete("/:id", recordingsController.DeleteRecording)
	recordings.Get("/:id/get_status", recordingsController.GetStatus)
	recordings.Post("/:id/upload_file", recordingsController.UploadFile)
	recordings.Delete("/:id/delete_file", recordingsController.DeleteFile)
	recordings.Get("/:id/get_file", recordingsController.GetFile)
	recordings.Get("/:id/get_pins", recordingsController.GetPins)
	recordings.Post("/:id/add_pin", recordingsController.AddPin)
	recordings.Patch("/:id/update_pin", recordingsController.UpdatePin)
	recordings.Delete("/:id/delete_pin", recordingsController.DeletePin)
	recordings.Post("/:id/add_pin_batch", recordingsController.AddPinBatch)
	recordings.Post("/:id/share_recording_with_user", recordingsController.ShareRecordingWithUser)

	// Teachers routes
	teachersController := controllers.NewTeachersController(svc, cfg, logger)
	teachers := app.Group("/api/teachers", authMiddleware)
	teachers.Get("/", teachersController.GetTeachers)
	teachers.Post("/", teachersController.CreateTeacher)
	teachers.Get("/search", teachersController.SearchTeachers)
	teachers.Get("/:id", teachersController.GetTeacher)
	teachers.Patch("/:id", teachersController.UpdateTeacher)
	teachers.Put("/:id", teachersController.UpdateTeacher)
	teachers.Delete("/:id", teachersController.DeleteTeacher)

	// Universities are read-only
	universitiesController := controllers.NewUniversitiesController(svc, logger)
	uni := app.Group("/api/uni", authMiddleware)
	uni.Get("/", universitiesController.GetUniversities)
	uni.Get("/search", universitiesController.SearchUniversities)
	uni.Get("/:id", universitiesController.GetUniversity)
}
