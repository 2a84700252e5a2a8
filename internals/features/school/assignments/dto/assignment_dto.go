// file: internals/features/school/assignments/dto/assignment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sekolahku_backend/internals/features/school/assignments/model"
)

/* ========== REQUEST ========== */

type CreateAssignmentRequest struct {
	TeachingID  uuid.UUID      `json:"teaching_id" validate:"required"`
	Title       string         `json:"title" validate:"required,min=3,max=150"`
	Description string         `json:"description" validate:"max=5000"`
	DueAt       *time.Time     `json:"due_at"`
	Attachments datatypes.JSON `json:"attachments"`
}

func (r *CreateAssignmentRequest) ToModel() *model.AssignmentModel {
	return &model.AssignmentModel{
		AssignmentTeachingID:  r.TeachingID,
		AssignmentTitle:       r.Title,
		AssignmentDescription: r.Description,
		AssignmentDueAt:       r.DueAt,
		AssignmentStatus:      model.AssignmentStatusDraft,
		AssignmentAttachments: r.Attachments,
	}
}

type UpdateAssignmentRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=3,max=150"`
	Description *string        `json:"description" validate:"omitempty,max=5000"`
	DueAt       *time.Time     `json:"due_at"`
	Attachments datatypes.JSON `json:"attachments"`
}

type SubmitAssignmentRequest struct {
	FileURL string  `json:"file_url" validate:"required,url"`
	Note    *string `json:"note" validate:"omitempty,max=1000"`
}

type GradeSubmissionRequest struct {
	Score float64 `json:"score" validate:"min=0,max=100"`
}
