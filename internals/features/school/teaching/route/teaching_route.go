// file: internals/features/school/teaching/route/teaching_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	teachingCtrl "sekolahku_backend/internals/features/school/teaching/controller"
)

// TeachingAdminRoutes: subjects CRUD + assign/unassign teacher, group admin.
func TeachingAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := teachingCtrl.NewTeachingController(db)

	subjects := r.Group("/subjects")
	subjects.Post("/", ctl.CreateSubject)
	subjects.Get("/", ctl.ListSubjects)
	subjects.Patch("/:id", ctl.UpdateSubject)
	subjects.Delete("/:id", ctl.DeleteSubject)

	teachings := r.Group("/teachings")
	teachings.Post("/", ctl.AssignTeacher)
	teachings.Get("/", ctl.List)
	teachings.Delete("/:id", ctl.Unassign)
}
