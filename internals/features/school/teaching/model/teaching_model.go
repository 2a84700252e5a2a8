// file: internals/features/school/teaching/model/teaching_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectModel merepresentasikan tabel subjects.
type SubjectModel struct {
	SubjectID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_id" json:"subject_id"`
	SubjectName string    `gorm:"size:100;not null;column:subject_name" json:"subject_name"`
	SubjectCode *string   `gorm:"size:32;column:subject_code" json:"subject_code,omitempty"`

	SubjectCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:subject_created_at" json:"subject_created_at"`
	SubjectUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:subject_updated_at" json:"subject_updated_at"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (SubjectModel) TableName() string { return "subjects" }

// TeachingAssignmentModel: binding satu teacher × satu kelas × satu subject.
// Unik per (teacher, class, subject) saat alive.
type TeachingAssignmentModel struct {
	TeachingID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teaching_id" json:"teaching_id"`
	TeachingTeacherID uuid.UUID `gorm:"type:uuid;not null;column:teaching_teacher_id" json:"teaching_teacher_id"`
	TeachingClassID   uuid.UUID `gorm:"type:uuid;not null;column:teaching_class_id" json:"teaching_class_id"`
	TeachingSubjectID uuid.UUID `gorm:"type:uuid;not null;column:teaching_subject_id" json:"teaching_subject_id"`

	TeachingCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:teaching_created_at" json:"teaching_created_at"`
	TeachingUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:teaching_updated_at" json:"teaching_updated_at"`
	TeachingDeletedAt gorm.DeletedAt `gorm:"column:teaching_deleted_at;index" json:"teaching_deleted_at,omitempty"`
}

func (TeachingAssignmentModel) TableName() string { return "teaching_assignments" }
