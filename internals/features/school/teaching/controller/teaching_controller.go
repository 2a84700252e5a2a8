// file: internals/features/school/teaching/controller/teaching_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classModel "sekolahku_backend/internals/features/school/classes/model"
	teachingDTO "sekolahku_backend/internals/features/school/teaching/dto"
	teachingModel "sekolahku_backend/internals/features/school/teaching/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
	helper "sekolahku_backend/internals/helpers"
)

type TeachingController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTeachingController(db *gorm.DB) *TeachingController {
	return &TeachingController{DB: db, Validator: validator.New()}
}

/* =========================================================
   SUBJECTS
   ========================================================= */

// POST /api/a/subjects
func (ctl *TeachingController) CreateSubject(c *fiber.Ctx) error {
	var req teachingDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Subject sudah ada")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Subject berhasil dibuat", m)
}

// PATCH /api/a/subjects/:id
func (ctl *TeachingController) UpdateSubject(c *fiber.Ctx) error {
	subjectID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req teachingDTO.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	patch := map[string]any{"subject_updated_at": time.Now()}
	if req.Name != nil {
		patch["subject_name"] = *req.Name
	}
	if req.Code != nil {
		patch["subject_code"] = *req.Code
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&teachingModel.SubjectModel{}).
		Where("subject_id = ?", subjectID).
		Updates(patch)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Subject berhasil diubah", fiber.Map{"subject_id": subjectID})
}

// GET /api/a/subjects
func (ctl *TeachingController) ListSubjects(c *fiber.Ctx) error {
	var rows []teachingModel.SubjectModel
	if err := ctl.DB.WithContext(c.Context()).
		Order("subject_name ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", rows)
}

// DELETE /api/a/subjects/:id (soft delete)
func (ctl *TeachingController) DeleteSubject(c *fiber.Ctx) error {
	subjectID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.WithContext(c.Context()).
		Where("subject_id = ?", subjectID).
		Delete(&teachingModel.SubjectModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subject tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Subject dihapus", fiber.Map{"subject_id": subjectID})
}

/* =========================================================
   TEACHING ASSIGNMENTS
   ========================================================= */

// POST /api/a/teachings
func (ctl *TeachingController) AssignTeacher(c *fiber.Ctx) error {
	var req teachingDTO.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// teacher harus role TEACHER
	var teacherCount int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("user_id = ? AND user_role = ? AND user_is_active = TRUE", req.TeacherID, userModel.RoleTeacher).
		Count(&teacherCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if teacherCount == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "User bukan teacher aktif")
	}

	// kelas harus aktif
	var classCount int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&classModel.ClassModel{}).
		Where("class_id = ? AND class_is_active = TRUE", req.ClassID).
		Count(&classCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if classCount == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kelas tidak ditemukan / tidak aktif")
	}

	// subject harus ada
	var subjectCount int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&teachingModel.SubjectModel{}).
		Where("subject_id = ?", req.SubjectID).
		Count(&subjectCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if subjectCount == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Subject tidak ditemukan")
	}

	// tidak boleh duplikat (teacher, class, subject)
	var dup int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&teachingModel.TeachingAssignmentModel{}).
		Where("teaching_teacher_id = ? AND teaching_class_id = ? AND teaching_subject_id = ?",
			req.TeacherID, req.ClassID, req.SubjectID).
		Count(&dup).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if dup > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Teacher sudah ditugaskan untuk kelas & subject ini")
	}

	m := &teachingModel.TeachingAssignmentModel{
		TeachingTeacherID: req.TeacherID,
		TeachingClassID:   req.ClassID,
		TeachingSubjectID: req.SubjectID,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Teacher sudah ditugaskan untuk kelas & subject ini")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Teaching assignment berhasil dibuat", m)
}

// DELETE /api/a/teachings/:id
func (ctl *TeachingController) Unassign(c *fiber.Ctx) error {
	teachingID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := ctl.DB.WithContext(c.Context()).
		Where("teaching_id = ?", teachingID).
		Delete(&teachingModel.TeachingAssignmentModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Teaching assignment tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Teaching assignment dihapus", fiber.Map{"teaching_id": teachingID})
}

// GET /api/a/teachings?class_id=&teacher_id=
func (ctl *TeachingController) List(c *fiber.Ctx) error {
	tx := ctl.DB.WithContext(c.Context()).Model(&teachingModel.TeachingAssignmentModel{})
	if classID := c.Query("class_id"); classID != "" {
		tx = tx.Where("teaching_class_id = ?", classID)
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		tx = tx.Where("teaching_teacher_id = ?", teacherID)
	}

	var rows []teachingModel.TeachingAssignmentModel
	if err := tx.Order("teaching_created_at DESC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", rows)
}
