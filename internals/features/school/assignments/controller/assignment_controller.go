// file: internals/features/school/assignments/controller/assignment_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/school/assignments/dto"
	"sekolahku_backend/internals/features/school/assignments/model"
	helper "sekolahku_backend/internals/helpers"
)

type AssignmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================================================
   Helpers
   ========================================================= */

// teachingOwnedBy memastikan teaching assignment ada dan milik teacher.
func (ctrl *AssignmentController) teachingOwnedBy(teachingID, teacherID uuid.UUID) (classID uuid.UUID, err error) {
	var row struct {
		TeachingTeacherID uuid.UUID `gorm:"column:teaching_teacher_id"`
		TeachingClassID   uuid.UUID `gorm:"column:teaching_class_id"`
	}
	dbErr := ctrl.DB.
		Table("teaching_assignments").
		Select("teaching_teacher_id, teaching_class_id").
		Where("teaching_id = ? AND teaching_deleted_at IS NULL", teachingID).
		Take(&row).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Teaching assignment tidak ditemukan")
	}
	if dbErr != nil {
		return uuid.Nil, dbErr
	}
	if row.TeachingTeacherID != teacherID {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Bukan teaching assignment Anda")
	}
	return row.TeachingClassID, nil
}

func (ctrl *AssignmentController) assignmentOwnedBy(assignmentID, teacherID uuid.UUID) (*model.AssignmentModel, error) {
	var asg model.AssignmentModel
	err := ctrl.DB.
		Where("assignment_id = ?", assignmentID).
		First(&asg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Assignment tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	if _, err := ctrl.teachingOwnedBy(asg.AssignmentTeachingID, teacherID); err != nil {
		return nil, err
	}
	return &asg, nil
}

/* =========================================================
   Teacher surface
   ========================================================= */

// POST /api/t/assignments
func (ctrl *AssignmentController) Create(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if _, err := ctrl.teachingOwnedBy(req.TeachingID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}

	asg := req.ToModel()
	if err := ctrl.DB.Create(asg).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat assignment")
	}
	return helper.JsonCreated(c, "Assignment berhasil dibuat", asg)
}

// PUT /api/t/assignments/:id
func (ctrl *AssignmentController) Update(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	asg, err := ctrl.assignmentOwnedBy(assignmentID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if asg.AssignmentStatus == model.AssignmentStatusClosed {
		return helper.JsonError(c, fiber.StatusConflict, "Assignment sudah ditutup")
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["assignment_title"] = *req.Title
	}
	if req.Description != nil {
		patch["assignment_description"] = *req.Description
	}
	if req.DueAt != nil {
		patch["assignment_due_at"] = *req.DueAt
	}
	if req.Attachments != nil {
		patch["assignment_attachments"] = req.Attachments
	}
	if len(patch) == 0 {
		return helper.JsonUpdated(c, "Tidak ada perubahan", asg)
	}

	if err := ctrl.DB.Model(asg).Updates(patch).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui assignment")
	}
	return helper.JsonUpdated(c, "Assignment berhasil diperbarui", asg)
}

// POST /api/t/assignments/:id/publish
func (ctrl *AssignmentController) Publish(c *fiber.Ctx) error {
	return ctrl.transition(c, model.AssignmentStatusDraft, model.AssignmentStatusPublished, "Assignment berhasil dipublish")
}

// POST /api/t/assignments/:id/close
func (ctrl *AssignmentController) Close(c *fiber.Ctx) error {
	return ctrl.transition(c, model.AssignmentStatusPublished, model.AssignmentStatusClosed, "Assignment berhasil ditutup")
}

func (ctrl *AssignmentController) transition(c *fiber.Ctx, from, to, okMsg string) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	asg, err := ctrl.assignmentOwnedBy(assignmentID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if asg.AssignmentStatus != from {
		return helper.JsonError(c, fiber.StatusConflict, "Status assignment saat ini: "+asg.AssignmentStatus)
	}

	if err := ctrl.DB.Model(asg).Update("assignment_status", to).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah status assignment")
	}
	asg.AssignmentStatus = to
	return helper.JsonUpdated(c, okMsg, asg)
}

// GET /api/t/assignments?teaching_id=...
func (ctrl *AssignmentController) ListByTeaching(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	teachingID, err := helper.ParseUUIDQuery(c, "teaching_id")
	if err != nil {
		return err
	}
	if _, err := ctrl.teachingOwnedBy(teachingID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var assignments []model.AssignmentModel
	if err := ctrl.DB.
		Where("assignment_teaching_id = ?", teachingID).
		Order("assignment_created_at DESC").
		Find(&assignments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar assignment")
	}
	return helper.JsonOK(c, "Daftar assignment berhasil diambil", assignments)
}

// DELETE /api/t/assignments/:id
func (ctrl *AssignmentController) Delete(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	asg, err := ctrl.assignmentOwnedBy(assignmentID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.Delete(asg).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus assignment")
	}
	return helper.JsonDeleted(c, "Assignment berhasil dihapus", nil)
}

// GET /api/t/assignments/:id/submissions
func (ctrl *AssignmentController) ListSubmissions(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := ctrl.assignmentOwnedBy(assignmentID, teacherID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var submissions []model.SubmissionModel
	if err := ctrl.DB.
		Where("submission_assignment_id = ?", assignmentID).
		Order("submission_created_at ASC").
		Find(&submissions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar submission")
	}
	return helper.JsonOK(c, "Daftar submission berhasil diambil", submissions)
}

// PUT /api/t/submissions/:id/grade
func (ctrl *AssignmentController) Grade(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	submissionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.GradeSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	sub, err := ctrl.submissionOwnedBy(submissionID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	now := time.Now()
	if err := ctrl.DB.Model(sub).Updates(map[string]any{
		"submission_score":        req.Score,
		"submission_graded_by_id": teacherID,
		"submission_graded_at":    now,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menilai submission")
	}
	sub.SubmissionScore = &req.Score
	sub.SubmissionGradedByID = &teacherID
	sub.SubmissionGradedAt = &now
	return helper.JsonUpdated(c, "Submission berhasil dinilai", sub)
}

// DELETE /api/t/submissions/:id/grade — batalkan nilai (kembali ungraded)
func (ctrl *AssignmentController) ResetGrade(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	submissionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	sub, err := ctrl.submissionOwnedBy(submissionID, teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.Model(sub).Updates(map[string]any{
		"submission_score":        nil,
		"submission_graded_by_id": nil,
		"submission_graded_at":    nil,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membatalkan nilai")
	}
	sub.SubmissionScore = nil
	sub.SubmissionGradedByID = nil
	sub.SubmissionGradedAt = nil
	return helper.JsonUpdated(c, "Nilai berhasil dibatalkan", sub)
}

func (ctrl *AssignmentController) submissionOwnedBy(submissionID, teacherID uuid.UUID) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	err := ctrl.DB.
		Where("submission_id = ?", submissionID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Submission tidak ditemukan")
	}
	if err != nil {
		return nil, err
	}
	if _, err := ctrl.assignmentOwnedBy(sub.SubmissionAssignmentID, teacherID); err != nil {
		return nil, err
	}
	return &sub, nil
}

/* =========================================================
   Student surface
   ========================================================= */

// GET /api/u/assignments — assignment PUBLISHED untuk kelas student
func (ctrl *AssignmentController) ListForStudent(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var assignments []model.AssignmentModel
	if err := ctrl.DB.
		Joins("JOIN teaching_assignments ON teaching_assignments.teaching_id = assignments.assignment_teaching_id").
		Joins("JOIN users ON users.user_class_id = teaching_assignments.teaching_class_id").
		Where("users.user_id = ? AND assignments.assignment_status = ?", studentID, model.AssignmentStatusPublished).
		Order("assignments.assignment_due_at ASC NULLS LAST").
		Find(&assignments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar assignment")
	}
	return helper.JsonOK(c, "Daftar assignment berhasil diambil", assignments)
}

// POST /api/u/assignments/:id/submit
func (ctrl *AssignmentController) Submit(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var asg model.AssignmentModel
	dbErr := ctrl.DB.
		Where("assignment_id = ?", assignmentID).
		First(&asg).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Assignment tidak ditemukan")
	}
	if dbErr != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil assignment")
	}
	if err := submissionWindowOpen(&asg, time.Now()); err != nil {
		return helper.FromFiberError(c, err)
	}

	// student harus anggota kelas teaching assignment-nya
	var student struct {
		UserClassID *uuid.UUID `gorm:"column:user_class_id"`
	}
	if err := ctrl.DB.
		Table("users").
		Select("user_class_id").
		Where("user_id = ? AND user_deleted_at IS NULL", studentID).
		Take(&student).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data student")
	}
	var teaching struct {
		TeachingClassID uuid.UUID `gorm:"column:teaching_class_id"`
	}
	if err := ctrl.DB.
		Table("teaching_assignments").
		Select("teaching_class_id").
		Where("teaching_id = ?", asg.AssignmentTeachingID).
		Take(&teaching).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil teaching assignment")
	}
	if student.UserClassID == nil || *student.UserClassID != teaching.TeachingClassID {
		return helper.JsonError(c, fiber.StatusForbidden, "Assignment ini bukan untuk kelas Anda")
	}

	// submit ulang sebelum due date menimpa file & note; nilai yang sudah
	// ada tidak disentuh
	sub := model.SubmissionModel{
		SubmissionAssignmentID: assignmentID,
		SubmissionStudentID:    studentID,
		SubmissionFileURL:      req.FileURL,
		SubmissionNote:         req.Note,
	}
	if err := ctrl.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "submission_assignment_id"},
			{Name: "submission_student_id"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"submission_file_url":   req.FileURL,
			"submission_note":       req.Note,
			"submission_updated_at": time.Now(),
		}),
	}).Create(&sub).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan submission")
	}
	return helper.JsonCreated(c, "Submission berhasil dikirim", sub)
}

// submissionWindowOpen: submission hanya diterima saat assignment PUBLISHED
// dan, kalau ada due date, belum melewatinya. Tepat di due date masih boleh.
func submissionWindowOpen(asg *model.AssignmentModel, now time.Time) error {
	if asg.AssignmentStatus != model.AssignmentStatusPublished {
		return fiber.NewError(fiber.StatusConflict, "Assignment tidak menerima submission")
	}
	if asg.AssignmentDueAt != nil && now.After(*asg.AssignmentDueAt) {
		return fiber.NewError(fiber.StatusConflict, "Sudah melewati due date assignment")
	}
	return nil
}

// GET /api/u/submissions — submission milik student (beserta nilai)
func (ctrl *AssignmentController) MySubmissions(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var submissions []model.SubmissionModel
	if err := ctrl.DB.
		Where("submission_student_id = ?", studentID).
		Order("submission_created_at DESC").
		Find(&submissions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar submission")
	}
	return helper.JsonOK(c, "Daftar submission berhasil diambil", submissions)
}
