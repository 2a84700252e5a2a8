// file: internals/features/users/user/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
=========================================================

	Enum role (mirror dari user_role_enum di DB)
	=========================================================
*/
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

// UserModel merepresentasikan tabel users.
// Student menempel ke satu kelas via UserClassID; teacher & admin tidak.
type UserModel struct {
	UserID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`
	UserName     string    `gorm:"size:100;not null;column:user_name" json:"user_name"`
	UserEmail    string    `gorm:"size:255;unique;not null;column:user_email" json:"user_email"`
	UserPassword string    `gorm:"not null;column:user_password" json:"-"`
	UserRole     string    `gorm:"type:user_role_enum;not null;default:'STUDENT';column:user_role" json:"user_role"`

	// hanya terisi untuk STUDENT
	UserClassID *uuid.UUID `gorm:"type:uuid;column:user_class_id" json:"user_class_id,omitempty"`

	UserIsActive bool `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`

	UserCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }
