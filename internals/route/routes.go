// file: internals/route/routes.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	dashboardRoute "sekolahku_backend/internals/features/admin/dashboard/route"
	assignmentRoute "sekolahku_backend/internals/features/school/assignments/route"
	attendanceRoute "sekolahku_backend/internals/features/school/attendance/route"
	sessionRoute "sekolahku_backend/internals/features/school/attendance_sessions/route"
	classRoute "sekolahku_backend/internals/features/school/classes/route"
	reportRoute "sekolahku_backend/internals/features/school/reports/route"
	teachingRoute "sekolahku_backend/internals/features/school/teaching/route"
	userRoute "sekolahku_backend/internals/features/users/user/route"
	"sekolahku_backend/internals/middlewares"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	public := app.Group("/api")
	userRoute.AuthRoutes(public, db)

	// ===================== GROUPS =====================
	// /api/u → semua user login; /api/t → teacher ke atas; /api/a → admin saja
	user := app.Group("/api/u", middlewares.AuthMiddleware(db))
	teacher := app.Group("/api/t",
		middlewares.AuthMiddleware(db),
		middlewares.OnlyRoles(constants.RoleErrorTeacher("panel teacher"), constants.TeacherAndAbove...),
	)
	admin := app.Group("/api/a",
		middlewares.AuthMiddleware(db),
		middlewares.OnlyRoles(constants.RoleErrorAdmin("panel admin"), constants.AdminOnly...),
	)

	// session manager & recorder dipakai lintas surface: rakit sekali supaya
	// keduanya berbagi keyed lock yang sama
	sessions := sessionRoute.NewSessionManager(db)
	recorder := attendanceRoute.NewRecorder(db, sessions)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting User routes...")
	userRoute.UserAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Class & Teaching routes...")
	classRoute.ClassAdminRoutes(admin, db)
	teachingRoute.TeachingAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Attendance routes...")
	sessionRoute.AttendanceSessionTeacherRoutes(teacher, sessions)
	sessionRoute.AttendanceSessionAdminRoutes(admin, sessions)
	attendanceRoute.AttendanceTeacherRoutes(teacher, recorder)
	attendanceRoute.AttendanceUserRoutes(user, recorder)

	log.Println("[INFO] Mounting Assignment routes...")
	assignmentRoute.AssignmentTeacherRoutes(teacher, db)
	assignmentRoute.AssignmentUserRoutes(user, db)

	log.Println("[INFO] Mounting Report routes...")
	reportRoute.ReportTeacherRoutes(teacher, db)
	reportRoute.ReportAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Dashboard routes...")
	dashboardRoute.DashboardAdminRoutes(admin, db)
}
