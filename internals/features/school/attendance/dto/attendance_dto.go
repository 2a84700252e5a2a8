// file: internals/features/school/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
)

/* ========== REQUEST ========== */

type RecordAttendanceRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=PRESENT EXCUSED SICK ABSENT"`
	Note      *string   `json:"note" validate:"omitempty,max=255"`
}

type BulkMarkItem struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=PRESENT EXCUSED SICK ABSENT"`
	Note      *string   `json:"note" validate:"omitempty,max=255"`
}

type BulkRecordRequest struct {
	SessionID uuid.UUID      `json:"session_id" validate:"required"`
	Marks     []BulkMarkItem `json:"marks" validate:"required,min=1,dive"`
}

type SelfMarkRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
}

type AmendAttendanceRequest struct {
	Status string  `json:"status" validate:"required,oneof=PRESENT EXCUSED SICK ABSENT"`
	Note   *string `json:"note" validate:"omitempty,max=255"`
}

/* ========== RESPONSE ========== */

type AttendanceResponse struct {
	AttendanceID uuid.UUID `json:"attendance_id"`
	SessionID    uuid.UUID `json:"session_id"`
	StudentID    uuid.UUID `json:"student_id"`
	TeachingID   uuid.UUID `json:"teaching_id"`
	Status       string    `json:"status"`
	Note         *string   `json:"note"`
	CreatedByID  uuid.UUID `json:"created_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewAttendanceResponse(m *attModel.AttendanceRecordModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: m.AttendanceID,
		SessionID:    m.AttendanceSessionID,
		StudentID:    m.AttendanceStudentID,
		TeachingID:   m.AttendanceTeachingID,
		Status:       string(m.AttendanceStatus),
		Note:         m.AttendanceNote,
		CreatedByID:  m.AttendanceCreatedByID,
		CreatedAt:    m.AttendanceCreatedAt,
	}
}

func NewAttendanceResponses(ms []attModel.AttendanceRecordModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(ms))
	for i := range ms {
		out = append(out, NewAttendanceResponse(&ms[i]))
	}
	return out
}
