// file: internals/features/users/user/controller/user_admin_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userDTO "sekolahku_backend/internals/features/users/user/dto"
	userModel "sekolahku_backend/internals/features/users/user/model"
	helper "sekolahku_backend/internals/helpers"
)

// UserAdminController: manajemen akun oleh admin.
type UserAdminController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserAdminController(db *gorm.DB) *UserAdminController {
	return &UserAdminController{DB: db, Validator: validator.New()}
}

// POST /api/a/users/teachers
func (ctl *UserAdminController) CreateTeacher(c *fiber.Ctx) error {
	var req userDTO.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash password")
	}

	m := req.ToModel(string(hashed))
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Teacher berhasil dibuat", userDTO.NewUserResponse(m))
}

// POST /api/a/users/students
func (ctl *UserAdminController) CreateStudent(c *fiber.Ctx) error {
	var req userDTO.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash password")
	}

	m := req.ToModel(string(hashed))
	if err := ctl.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Student berhasil dibuat", userDTO.NewUserResponse(m))
}

// PATCH /api/a/users/:id/password
func (ctl *UserAdminController) ResetPassword(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req userDTO.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash password")
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("user_id = ? AND user_deleted_at IS NULL", userID).
		Update("user_password", string(hashed))
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Password berhasil direset", fiber.Map{"user_id": userID})
}

// PATCH /api/a/users/:id/role
func (ctl *UserAdminController) ChangeRole(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req userDTO.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("user_id = ? AND user_deleted_at IS NULL", userID).
		Update("user_role", strings.ToUpper(req.Role))
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Role berhasil diubah", fiber.Map{"user_id": userID, "role": strings.ToUpper(req.Role)})
}

// PATCH /api/a/users/:id/deactivate  &  /activate
func (ctl *UserAdminController) SetActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := helper.ParseUUIDParam(c, "id")
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		res := ctl.DB.WithContext(c.Context()).
			Model(&userModel.UserModel{}).
			Where("user_id = ? AND user_deleted_at IS NULL", userID).
			Update("user_is_active", active)
		if res.Error != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
		}
		if res.RowsAffected == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonUpdated(c, "Status user berhasil diubah", fiber.Map{"user_id": userID, "is_active": active})
	}
}

// GET /api/a/users?role=&class_id=&is_active=
func (ctl *UserAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctl.DB.WithContext(c.Context()).Model(&userModel.UserModel{})

	if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
		switch role {
		case userModel.RoleAdmin, userModel.RoleTeacher, userModel.RoleStudent:
			tx = tx.Where("user_role = ?", role)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "role tidak valid (ADMIN/TEACHER/STUDENT)")
		}
	}
	if classID := strings.TrimSpace(c.Query("class_id")); classID != "" {
		tx = tx.Where("user_class_id = ?", classID)
	}
	if isActive := strings.TrimSpace(c.Query("is_active")); isActive != "" {
		tx = tx.Where("user_is_active = ?", isActive == "true")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []userModel.UserModel
	if err := tx.Order("user_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]userDTO.UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, userDTO.NewUserResponse(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(paging, total))
}

// GET /api/a/users/:id
func (ctl *UserAdminController) GetByID(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var u userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("user_id = ?", userID).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", userDTO.NewUserResponse(&u))
}
