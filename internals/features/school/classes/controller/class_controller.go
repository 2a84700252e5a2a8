// file: internals/features/school/classes/controller/class_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classDTO "sekolahku_backend/internals/features/school/classes/dto"
	classModel "sekolahku_backend/internals/features/school/classes/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
	helper "sekolahku_backend/internals/helpers"
)

type ClassController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db, Validator: validator.New()}
}

// POST /api/a/classes
func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req classDTO.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// unik per (name, year) saat alive
	var count int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&classModel.ClassModel{}).
		Where("class_name = ? AND class_year = ?", req.Name, req.Year).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Kelas dengan nama & tahun tersebut sudah ada")
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Kelas berhasil dibuat", m)
}

// PATCH /api/a/classes/:id
func (ctl *ClassController) Update(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req classDTO.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	patch := map[string]any{"class_updated_at": time.Now()}
	if req.Name != nil {
		patch["class_name"] = *req.Name
	}
	if req.Year != nil {
		patch["class_year"] = *req.Year
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&classModel.ClassModel{}).
		Where("class_id = ?", classID).
		Updates(patch)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Kelas berhasil diubah", fiber.Map{"class_id": classID})
}

// GET /api/a/classes
func (ctl *ClassController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctl.DB.WithContext(c.Context()).Model(&classModel.ClassModel{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []classModel.ClassModel
	if err := tx.Order("class_year DESC, class_name ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(paging, total))
}

// GET /api/a/classes/:id
func (ctl *ClassController) GetByID(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m classModel.ClassModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("class_id = ?", classID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /api/a/classes/homeroom
func (ctl *ClassController) AssignHomeroomTeacher(c *fiber.Ctx) error {
	var req classDTO.AssignHomeroomTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// guard: user harus TEACHER
	var teacher userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ? AND user_role = ? AND user_is_active = TRUE", req.TeacherID, userModel.RoleTeacher).
		First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusBadRequest, "User bukan teacher aktif")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var cls classModel.ClassModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("class_id = ? AND class_is_active = TRUE", req.ClassID).
		First(&cls).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Kelas tidak ditemukan / tidak aktif")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// satu homeroom per teacher per tahun ajaran
	var conflict int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&classModel.ClassModel{}).
		Where("class_homeroom_teacher_id = ? AND class_year = ? AND class_is_active = TRUE AND class_id <> ?",
			req.TeacherID, cls.ClassYear, req.ClassID).
		Count(&conflict).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if conflict > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Teacher sudah menjadi wali kelas lain di tahun yang sama")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&classModel.ClassModel{}).
		Where("class_id = ?", req.ClassID).
		Update("class_homeroom_teacher_id", req.TeacherID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Wali kelas berhasil ditetapkan", fiber.Map{
		"class_id":   req.ClassID,
		"teacher_id": req.TeacherID,
	})
}

// POST /api/a/classes/move-student
func (ctl *ClassController) MoveStudent(c *fiber.Ctx) error {
	var req classDTO.MoveStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var student userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ? AND user_role = ?", req.StudentID, userModel.RoleStudent).
		First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusBadRequest, "User bukan student")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var count int64
	if err := ctl.DB.WithContext(c.Context()).
		Model(&classModel.ClassModel{}).
		Where("class_id = ? AND class_is_active = TRUE", req.ClassID).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if count == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Kelas tidak ditemukan / tidak aktif")
	}

	if err := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("user_id = ?", req.StudentID).
		Update("user_class_id", req.ClassID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Student berhasil dipindahkan", fiber.Map{
		"student_id": req.StudentID,
		"class_id":   req.ClassID,
	})
}

// DELETE /api/a/classes/:id/students/:student_id
func (ctl *ClassController) RemoveStudent(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("user_id = ? AND user_role = ?", studentID, userModel.RoleStudent).
		Update("user_class_id", nil)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Student dikeluarkan dari kelas", fiber.Map{"student_id": studentID})
}

// DELETE /api/a/classes/:id  (soft: nonaktifkan + lepaskan semua student)
func (ctl *ClassController) Deactivate(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&classModel.ClassModel{}).
			Where("class_id = ? AND class_is_active = TRUE", classID).
			Update("class_is_active", false)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		if err := tx.Model(&userModel.UserModel{}).
			Where("user_class_id = ?", classID).
			Update("user_class_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return nil
	}); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Kelas dinonaktifkan", fiber.Map{"class_id": classID})
}
