// file: internals/features/school/attendance_sessions/controller/attendance_session_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/school/attendance_sessions/dto"
	"sekolahku_backend/internals/features/school/attendance_sessions/service"
	helper "sekolahku_backend/internals/helpers"
)

type AttendanceSessionController struct {
	Sessions  *service.SessionManager
	Validator *validator.Validate
}

func NewAttendanceSessionController(sessions *service.SessionManager) *AttendanceSessionController {
	return &AttendanceSessionController{
		Sessions:  sessions,
		Validator: validator.New(),
	}
}

// POST /api/t/attendance-sessions
func (ctrl *AttendanceSessionController) Open(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	sess, err := ctrl.Sessions.Open(c.Context(), service.OpenInput{
		TeachingID: req.TeachingID,
		Name:       req.Name,
		OpenAt:     req.OpenAt,
		CloseAt:    req.CloseAt,
	}, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Session berhasil dibuat", dto.NewSessionResponse(sess))
}

// GET /api/t/attendance-sessions?teaching_id=...
func (ctrl *AttendanceSessionController) ListByTeaching(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	teachingID, err := helper.ParseUUIDQuery(c, "teaching_id")
	if err != nil {
		return err
	}

	summaries, err := ctrl.Sessions.ListByTeaching(c.Context(), teachingID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar session berhasil diambil", summaries)
}

// GET /api/t/attendance-sessions/:id
func (ctrl *AttendanceSessionController) Detail(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	detail, err := ctrl.Sessions.Detail(c.Context(), sessionID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Detail session berhasil diambil", detail)
}

// PUT /api/t/attendance-sessions/:id
func (ctrl *AttendanceSessionController) Update(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	sess, err := ctrl.Sessions.Update(c.Context(), sessionID, service.UpdateInput{
		Name:    req.Name,
		OpenAt:  req.OpenAt,
		CloseAt: req.CloseAt,
	}, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Session berhasil diperbarui", dto.NewSessionResponse(sess))
}

// POST /api/t/attendance-sessions/:id/close
func (ctrl *AttendanceSessionController) Close(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.Sessions.Close(c.Context(), sessionID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Session berhasil ditutup", nil)
}

// DELETE /api/t/attendance-sessions/:id
func (ctrl *AttendanceSessionController) Delete(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.Sessions.Delete(c.Context(), sessionID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Session berhasil dihapus", nil)
}

// POST /api/a/attendance-sessions/:id/force-close
func (ctrl *AttendanceSessionController) ForceClose(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.Sessions.ForceClose(c.Context(), sessionID, adminID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Session berhasil ditutup paksa", nil)
}
