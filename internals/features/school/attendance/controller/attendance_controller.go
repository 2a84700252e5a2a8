// file: internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/school/attendance/dto"
	attModel "sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/features/school/attendance/service"
	helper "sekolahku_backend/internals/helpers"
)

type AttendanceController struct {
	Recorder  *service.Recorder
	Validator *validator.Validate
}

func NewAttendanceController(recorder *service.Recorder) *AttendanceController {
	return &AttendanceController{
		Recorder:  recorder,
		Validator: validator.New(),
	}
}

func actorFromCtx(c *fiber.Ctx) (service.Actor, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: userID, Role: helper.GetRoleFromToken(c)}, nil
}

// POST /api/t/attendances
func (ctrl *AttendanceController) Record(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.RecordAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rec, err := ctrl.Recorder.Record(c.Context(), service.RecordInput{
		SessionID: req.SessionID,
		StudentID: req.StudentID,
		Status:    attModel.AttendanceStatus(req.Status),
		Note:      req.Note,
	}, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Presensi berhasil dicatat", dto.NewAttendanceResponse(rec))
}

// POST /api/t/attendances/bulk
func (ctrl *AttendanceController) BulkRecord(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.BulkRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	marks := make([]service.BulkMark, 0, len(req.Marks))
	for _, mk := range req.Marks {
		marks = append(marks, service.BulkMark{
			StudentID: mk.StudentID,
			Status:    attModel.AttendanceStatus(mk.Status),
			Note:      mk.Note,
		})
	}

	records, err := ctrl.Recorder.BulkRecord(c.Context(), req.SessionID, marks, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Presensi massal berhasil dicatat", dto.NewAttendanceResponses(records))
}

// PUT /api/t/attendances/:id
func (ctrl *AttendanceController) Amend(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	recordID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AmendAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rec, err := ctrl.Recorder.Amend(c.Context(), recordID, service.AmendInput{
		Status: attModel.AttendanceStatus(req.Status),
		Note:   req.Note,
	}, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Presensi berhasil dikoreksi", dto.NewAttendanceResponse(rec))
}

// POST /api/u/attendances/self
func (ctrl *AttendanceController) SelfMark(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.SelfMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rec, err := ctrl.Recorder.SelfMark(c.Context(), req.SessionID, actor)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Kehadiran berhasil dicatat", dto.NewAttendanceResponse(rec))
}

// GET /api/u/attendances/history
func (ctrl *AttendanceController) MyHistory(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	records, err := ctrl.Recorder.History(c.Context(), actor.ID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Riwayat presensi berhasil diambil", dto.NewAttendanceResponses(records))
}
