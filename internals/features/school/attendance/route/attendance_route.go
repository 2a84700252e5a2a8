// file: internals/features/school/attendance/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/attendance/controller"
	"sekolahku_backend/internals/features/school/attendance/service"
	sessSvc "sekolahku_backend/internals/features/school/attendance_sessions/service"
	teachingSvc "sekolahku_backend/internals/features/school/teaching/service"
)

func NewRecorder(db *gorm.DB, sessions *sessSvc.SessionManager) *service.Recorder {
	return service.NewRecorder(
		service.NewGormStore(db),
		sessions,
		teachingSvc.NewRosterService(db),
	)
}

// AttendanceTeacherRoutes: surface teacher (/api/t)
func AttendanceTeacherRoutes(r fiber.Router, recorder *service.Recorder) {
	ctrl := controller.NewAttendanceController(recorder)

	a := r.Group("/attendances")
	a.Post("/", ctrl.Record)
	a.Post("/bulk", ctrl.BulkRecord)
	a.Put("/:id", ctrl.Amend)
}

// AttendanceUserRoutes: surface student (/api/u)
func AttendanceUserRoutes(r fiber.Router, recorder *service.Recorder) {
	ctrl := controller.NewAttendanceController(recorder)

	a := r.Group("/attendances")
	a.Post("/self", ctrl.SelfMark)
	a.Get("/history", ctrl.MyHistory)
}
