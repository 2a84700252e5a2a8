// file: internals/features/school/assignments/route/assignment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/assignments/controller"
)

// AssignmentTeacherRoutes: surface teacher (/api/t)
func AssignmentTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAssignmentController(db)

	a := r.Group("/assignments")
	a.Post("/", ctrl.Create)
	a.Get("/", ctrl.ListByTeaching)
	a.Put("/:id", ctrl.Update)
	a.Post("/:id/publish", ctrl.Publish)
	a.Post("/:id/close", ctrl.Close)
	a.Delete("/:id", ctrl.Delete)
	a.Get("/:id/submissions", ctrl.ListSubmissions)

	s := r.Group("/submissions")
	s.Put("/:id/grade", ctrl.Grade)
	s.Delete("/:id/grade", ctrl.ResetGrade)
}

// AssignmentUserRoutes: surface student (/api/u)
func AssignmentUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAssignmentController(db)

	a := r.Group("/assignments")
	a.Get("/", ctrl.ListForStudent)
	a.Post("/:id/submit", ctrl.Submit)

	s := r.Group("/submissions")
	s.Get("/", ctrl.MySubmissions)
}
