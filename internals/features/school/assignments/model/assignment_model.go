// file: internals/features/school/assignments/model/assignment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssignmentStatusDraft     = "DRAFT"
	AssignmentStatusPublished = "PUBLISHED"
	AssignmentStatusClosed    = "CLOSED"
)

// AssignmentModel: tugas per teaching assignment. Student hanya melihat
// assignment PUBLISHED; submission hanya diterima selama PUBLISHED.
type AssignmentModel struct {
	AssignmentID          uuid.UUID      `gorm:"column:assignment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"assignment_id"`
	AssignmentTeachingID  uuid.UUID      `gorm:"column:assignment_teaching_id;type:uuid;not null;index" json:"assignment_teaching_id"`
	AssignmentTitle       string         `gorm:"column:assignment_title;type:varchar(150);not null" json:"assignment_title"`
	AssignmentDescription string         `gorm:"column:assignment_description;type:text" json:"assignment_description"`
	AssignmentDueAt       *time.Time     `gorm:"column:assignment_due_at" json:"assignment_due_at"`
	AssignmentStatus      string         `gorm:"column:assignment_status;type:varchar(20);not null;default:'DRAFT'" json:"assignment_status"`
	AssignmentAttachments datatypes.JSON `gorm:"column:assignment_attachments" json:"assignment_attachments"`

	AssignmentCreatedAt time.Time      `gorm:"column:assignment_created_at;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time      `gorm:"column:assignment_updated_at;autoUpdateTime" json:"assignment_updated_at"`
	AssignmentDeletedAt gorm.DeletedAt `gorm:"column:assignment_deleted_at;index" json:"-"`
}

func (AssignmentModel) TableName() string {
	return "assignments"
}

// SubmissionModel: jawaban student atas satu assignment. Score null berarti
// belum dinilai; skala 0–100.
type SubmissionModel struct {
	SubmissionID           uuid.UUID  `gorm:"column:submission_id;type:uuid;default:gen_random_uuid();primaryKey" json:"submission_id"`
	SubmissionAssignmentID uuid.UUID  `gorm:"column:submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submission_assignment_student,priority:1" json:"submission_assignment_id"`
	SubmissionStudentID    uuid.UUID  `gorm:"column:submission_student_id;type:uuid;not null;uniqueIndex:uq_submission_assignment_student,priority:2" json:"submission_student_id"`
	SubmissionFileURL      string     `gorm:"column:submission_file_url;type:text;not null" json:"submission_file_url"`
	SubmissionNote         *string    `gorm:"column:submission_note;type:text" json:"submission_note"`
	SubmissionScore        *float64   `gorm:"column:submission_score" json:"submission_score"`
	SubmissionGradedByID   *uuid.UUID `gorm:"column:submission_graded_by_id;type:uuid" json:"submission_graded_by_id"`
	SubmissionGradedAt     *time.Time `gorm:"column:submission_graded_at" json:"submission_graded_at"`

	SubmissionCreatedAt time.Time      `gorm:"column:submission_created_at;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time      `gorm:"column:submission_updated_at;autoUpdateTime" json:"submission_updated_at"`
	SubmissionDeletedAt gorm.DeletedAt `gorm:"column:submission_deleted_at;index" json:"-"`
}

func (SubmissionModel) TableName() string {
	return "submissions"
}
