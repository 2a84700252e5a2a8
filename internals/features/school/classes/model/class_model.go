// file: internals/features/school/classes/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel merepresentasikan tabel classes.
// Unik per (name, year) saat alive.
type ClassModel struct {
	ClassID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_id" json:"class_id"`
	ClassName string    `gorm:"size:100;not null;column:class_name" json:"class_name"`
	ClassYear int       `gorm:"not null;column:class_year" json:"class_year"`

	// Wali kelas (homeroom); satu teacher maksimal satu kelas per tahun ajaran
	ClassHomeroomTeacherID *uuid.UUID `gorm:"type:uuid;column:class_homeroom_teacher_id" json:"class_homeroom_teacher_id,omitempty"`

	ClassIsActive bool `gorm:"not null;default:true;column:class_is_active" json:"class_is_active"`

	ClassCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:class_created_at" json:"class_created_at"`
	ClassUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:class_updated_at" json:"class_updated_at"`
	ClassDeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"class_deleted_at,omitempty"`
}

func (ClassModel) TableName() string { return "classes" }
