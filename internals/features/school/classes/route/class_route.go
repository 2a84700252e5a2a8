// file: internals/features/school/classes/route/class_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classCtrl "sekolahku_backend/internals/features/school/classes/controller"
)

// ClassAdminRoutes: CRUD kelas + roster moves, dipasang di group admin.
func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := classCtrl.NewClassController(db)
	classes := r.Group("/classes")
	classes.Post("/", ctl.Create)
	classes.Get("/", ctl.List)
	classes.Get("/:id", ctl.GetByID)
	classes.Patch("/:id", ctl.Update)
	classes.Delete("/:id", ctl.Deactivate)
	classes.Post("/homeroom", ctl.AssignHomeroomTeacher)
	classes.Post("/move-student", ctl.MoveStudent)
	classes.Delete("/:id/students/:student_id", ctl.RemoveStudent)
}
