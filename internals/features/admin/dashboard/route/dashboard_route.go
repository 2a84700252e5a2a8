// file: internals/features/admin/dashboard/route/dashboard_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/admin/dashboard/controller"
)

// DashboardAdminRoutes: ringkasan angka untuk halaman admin (/api/a)
func DashboardAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewDashboardController(db)
	r.Get("/dashboard", ctrl.Stats)
}
