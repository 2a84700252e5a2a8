// file: internals/features/users/user/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userCtrl "sekolahku_backend/internals/features/users/user/controller"
)

// AuthRoutes: endpoint publik (login).
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userCtrl.NewAuthController(db)
	auth := r.Group("/auth")
	auth.Post("/login", ctl.Login)
}

// UserAdminRoutes: manajemen akun, dipasang di group admin.
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userCtrl.NewUserAdminController(db)
	users := r.Group("/users")
	users.Post("/teachers", ctl.CreateTeacher)
	users.Post("/students", ctl.CreateStudent)
	users.Get("/", ctl.List)
	users.Get("/:id", ctl.GetByID)
	users.Patch("/:id/password", ctl.ResetPassword)
	users.Patch("/:id/role", ctl.ChangeRole)
	users.Patch("/:id/activate", ctl.SetActive(true))
	users.Patch("/:id/deactivate", ctl.SetActive(false))
}
