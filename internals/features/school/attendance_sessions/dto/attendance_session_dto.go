// file: internals/features/school/attendance_sessions/dto/attendance_session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	sessModel "sekolahku_backend/internals/features/school/attendance_sessions/model"
)

/* ========== REQUEST ========== */

type OpenSessionRequest struct {
	TeachingID uuid.UUID `json:"teaching_id" validate:"required"`
	Name       string    `json:"name" validate:"required,min=3,max=100"`
	OpenAt     time.Time `json:"open_at" validate:"required"`
	CloseAt    time.Time `json:"close_at" validate:"required"`
}

type UpdateSessionRequest struct {
	Name    *string    `json:"name" validate:"omitempty,min=3,max=100"`
	OpenAt  *time.Time `json:"open_at"`
	CloseAt *time.Time `json:"close_at"`
}

/* ========== RESPONSE ========== */

type SessionResponse struct {
	SessionID  uuid.UUID `json:"session_id"`
	TeachingID uuid.UUID `json:"teaching_id"`
	Name       string    `json:"name"`
	OpenAt     time.Time `json:"open_at"`
	CloseAt    time.Time `json:"close_at"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewSessionResponse(m *sessModel.AttendanceSessionModel) SessionResponse {
	return SessionResponse{
		SessionID:  m.AttendanceSessionID,
		TeachingID: m.AttendanceSessionTeachingID,
		Name:       m.AttendanceSessionName,
		OpenAt:     m.AttendanceSessionOpenAt,
		CloseAt:    m.AttendanceSessionCloseAt,
		IsActive:   m.AttendanceSessionIsActive,
		CreatedAt:  m.AttendanceSessionCreatedAt,
	}
}
