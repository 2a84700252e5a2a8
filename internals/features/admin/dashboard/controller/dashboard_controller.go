// file: internals/features/admin/dashboard/controller/dashboard_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	sessModel "sekolahku_backend/internals/features/school/attendance_sessions/model"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
	helper "sekolahku_backend/internals/helpers"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type dashboardStats struct {
	TotalStudents   int64 `json:"total_students"`
	TotalTeachers   int64 `json:"total_teachers"`
	TotalClasses    int64 `json:"total_classes"`
	ActiveSessions  int64 `json:"active_sessions"`
	AttendanceToday int64 `json:"attendance_today"`
}

// GET /api/a/dashboard
func (ctrl *DashboardController) Stats(c *fiber.Ctx) error {
	var stats dashboardStats

	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("user_role = ? AND user_is_active = TRUE", userModel.RoleStudent).
		Count(&stats.TotalStudents).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik")
	}
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("user_role = ? AND user_is_active = TRUE", userModel.RoleTeacher).
		Count(&stats.TotalTeachers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik")
	}
	if err := ctrl.DB.Model(&classModel.ClassModel{}).
		Where("class_is_active = TRUE").
		Count(&stats.TotalClasses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik")
	}
	if err := ctrl.DB.Model(&sessModel.AttendanceSessionModel{}).
		Where("attendance_session_is_active = TRUE").
		Count(&stats.ActiveSessions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik")
	}
	if err := ctrl.DB.Model(&attModel.AttendanceRecordModel{}).
		Where("attendance_created_at >= CURRENT_DATE").
		Count(&stats.AttendanceToday).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik")
	}

	return helper.JsonOK(c, "Statistik dashboard berhasil diambil", stats)
}
