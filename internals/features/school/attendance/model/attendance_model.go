// file: internals/features/school/attendance/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
=========================================================

	Enum status (mirror dari attendance_status_enum di DB)
	=========================================================
*/
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusExcused AttendanceStatus = "EXCUSED"
	StatusSick    AttendanceStatus = "SICK"
	StatusAbsent  AttendanceStatus = "ABSENT"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusExcused, StatusSick, StatusAbsent:
		return true
	}
	return false
}

// NeedsNote: EXCUSED/SICK wajib disertai note, siapapun actor-nya.
func (s AttendanceStatus) NeedsNote() bool {
	return s == StatusExcused || s == StatusSick
}

// AttendanceRecordModel: satu mark presensi per (student, session).
// Identitas (student, session) immutable; status/note boleh diubah oleh
// teacher pemilik teaching assignment, termasuk setelah sesi ditutup.
// Unique constraint di DB: (attendance_session_id, attendance_student_id).
type AttendanceRecordModel struct {
	AttendanceID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_id" json:"attendance_id"`

	AttendanceSessionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_session_student,priority:1;column:attendance_session_id" json:"attendance_session_id"`
	AttendanceStudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_session_student,priority:2;column:attendance_student_id" json:"attendance_student_id"`
	AttendanceTeachingID uuid.UUID `gorm:"type:uuid;not null;column:attendance_teaching_id" json:"attendance_teaching_id"`

	AttendanceStatus AttendanceStatus `gorm:"type:attendance_status_enum;not null;column:attendance_status" json:"attendance_status"`
	AttendanceNote   *string          `gorm:"type:text;column:attendance_note" json:"attendance_note,omitempty"`

	// Actor yang membuat mark: student (self), teacher, atau sistem saat backfill close.
	AttendanceCreatedByID uuid.UUID `gorm:"type:uuid;not null;column:attendance_created_by_id" json:"attendance_created_by_id"`

	AttendanceCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:attendance_created_at" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:attendance_updated_at" json:"attendance_updated_at"`
	AttendanceDeletedAt gorm.DeletedAt `gorm:"column:attendance_deleted_at;index" json:"attendance_deleted_at,omitempty"`
}

func (AttendanceRecordModel) TableName() string { return "attendances" }
