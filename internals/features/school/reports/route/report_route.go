// file: internals/features/school/reports/route/report_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/reports/controller"
	"sekolahku_backend/internals/features/school/reports/service"
	teachingSvc "sekolahku_backend/internals/features/school/teaching/service"
)

func newController(db *gorm.DB) *controller.ReportController {
	agg := service.NewAggregator(
		service.NewGormStore(db),
		teachingSvc.NewRosterService(db),
	)
	return controller.NewReportController(agg)
}

// ReportTeacherRoutes: wali kelas & teacher pengampu (/api/t)
func ReportTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := newController(db)

	rep := r.Group("/reports")
	rep.Get("/class-summary/:class_id", ctrl.ClassSummary)
	rep.Get("/subject-grades/:teaching_id", ctrl.SubjectGrades)
}

// ReportAdminRoutes: admin melihat semua laporan (/api/a)
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := newController(db)

	rep := r.Group("/reports")
	rep.Get("/class-summary/:class_id", ctrl.ClassSummary)
	rep.Get("/subject-grades/:teaching_id", ctrl.SubjectGrades)
}
