// file: internals/features/school/attendance_sessions/route/attendance_session_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/attendance_sessions/controller"
	"sekolahku_backend/internals/features/school/attendance_sessions/service"
	teachingSvc "sekolahku_backend/internals/features/school/teaching/service"
)

// NewSessionManager merakit manager di atas Postgres (dipakai juga oleh
// attendance route supaya keduanya memakai keyed lock yang sama).
func NewSessionManager(db *gorm.DB) *service.SessionManager {
	return service.NewSessionManager(
		service.NewGormStore(db),
		teachingSvc.NewRosterService(db),
	)
}

// AttendanceSessionTeacherRoutes: surface teacher (/api/t)
func AttendanceSessionTeacherRoutes(r fiber.Router, sessions *service.SessionManager) {
	ctrl := controller.NewAttendanceSessionController(sessions)

	s := r.Group("/attendance-sessions")
	s.Post("/", ctrl.Open)
	s.Get("/", ctrl.ListByTeaching)
	s.Get("/:id", ctrl.Detail)
	s.Put("/:id", ctrl.Update)
	s.Post("/:id/close", ctrl.Close)
	s.Delete("/:id", ctrl.Delete)
}

// AttendanceSessionAdminRoutes: surface admin (/api/a)
func AttendanceSessionAdminRoutes(r fiber.Router, sessions *service.SessionManager) {
	ctrl := controller.NewAttendanceSessionController(sessions)

	s := r.Group("/attendance-sessions")
	s.Post("/:id/force-close", ctrl.ForceClose)
}
