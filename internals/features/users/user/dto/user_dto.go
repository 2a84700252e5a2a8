// file: internals/features/users/user/dto/user_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/users/user/model"
)

/* =========================================================
   AUTH
   ========================================================= */

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

/* =========================================================
   CREATE / PATCH
   ========================================================= */

type CreateTeacherRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type CreateStudentRequest struct {
	Name     string     `json:"name" validate:"required,min=3,max=100"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	ClassID  *uuid.UUID `json:"class_id" validate:"omitempty"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

func (in *CreateTeacherRequest) ToModel(hashedPassword string) *model.UserModel {
	return &model.UserModel{
		UserName:     strings.TrimSpace(in.Name),
		UserEmail:    strings.ToLower(strings.TrimSpace(in.Email)),
		UserPassword: hashedPassword,
		UserRole:     model.RoleTeacher,
		UserIsActive: true,
	}
}

func (in *CreateStudentRequest) ToModel(hashedPassword string) *model.UserModel {
	return &model.UserModel{
		UserName:     strings.TrimSpace(in.Name),
		UserEmail:    strings.ToLower(strings.TrimSpace(in.Email)),
		UserPassword: hashedPassword,
		UserRole:     model.RoleStudent,
		UserClassID:  in.ClassID,
		UserIsActive: true,
	}
}

/* =========================================================
   RESPONSE
   ========================================================= */

type UserResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewUserResponse(m *model.UserModel) UserResponse {
	return UserResponse{
		UserID:    m.UserID,
		Name:      m.UserName,
		Email:     m.UserEmail,
		Role:      m.UserRole,
		ClassID:   m.UserClassID,
		IsActive:  m.UserIsActive,
		CreatedAt: m.UserCreatedAt,
	}
}
