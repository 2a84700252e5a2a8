// file: internals/features/school/reports/controller/report_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/school/reports/service"
	helper "sekolahku_backend/internals/helpers"
)

type ReportController struct {
	Aggregator *service.Aggregator
}

func NewReportController(agg *service.Aggregator) *ReportController {
	return &ReportController{Aggregator: agg}
}

func actorFromCtx(c *fiber.Ctx) (service.Actor, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: userID, Role: helper.GetRoleFromToken(c)}, nil
}

// GET /api/t/reports/class-summary/:class_id  (juga dipasang di /api/a)
func (ctrl *ReportController) ClassSummary(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParseUUIDParam(c, "class_id")
	if err != nil {
		return err
	}

	report, err := ctrl.Aggregator.ClassSummary(c.Context(), classID, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Rapor kelas berhasil diambil", report)
}

// GET /api/t/reports/subject-grades/:teaching_id  (juga dipasang di /api/a)
func (ctrl *ReportController) SubjectGrades(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	teachingID, err := helper.ParseUUIDParam(c, "teaching_id")
	if err != nil {
		return err
	}

	report, err := ctrl.Aggregator.SubjectGrades(c.Context(), teachingID, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Laporan nilai berhasil diambil", report)
}
