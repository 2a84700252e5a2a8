// file: internals/features/school/attendance_sessions/model/attendance_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceSessionModel: satu sesi presensi milik satu teaching assignment.
// Lifecycle: dibuat aktif/terjadwal (dihitung dari window saat create),
// transisi ke inactive tepat satu kali via close, tidak pernah dibuka lagi.
// Invariant: maksimal satu sesi aktif per teaching assignment.
type AttendanceSessionModel struct {
	AttendanceSessionID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_session_id" json:"attendance_session_id"`
	AttendanceSessionTeachingID uuid.UUID `gorm:"type:uuid;not null;column:attendance_session_teaching_id" json:"attendance_session_teaching_id"`

	AttendanceSessionName string `gorm:"size:160;not null;column:attendance_session_name" json:"attendance_session_name"`

	// Window presensi: [open_at, close_at), open_at < close_at
	AttendanceSessionOpenAt  time.Time `gorm:"type:timestamptz;not null;column:attendance_session_open_at" json:"attendance_session_open_at"`
	AttendanceSessionCloseAt time.Time `gorm:"type:timestamptz;not null;column:attendance_session_close_at" json:"attendance_session_close_at"`

	AttendanceSessionIsActive bool `gorm:"not null;default:false;column:attendance_session_is_active" json:"attendance_session_is_active"`

	AttendanceSessionCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:attendance_session_created_at" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:attendance_session_updated_at" json:"attendance_session_updated_at"`
	AttendanceSessionDeletedAt gorm.DeletedAt `gorm:"column:attendance_session_deleted_at;index" json:"attendance_session_deleted_at,omitempty"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }
