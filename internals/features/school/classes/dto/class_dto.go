// file: internals/features/school/classes/dto/class_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/school/classes/model"
)

type CreateClassRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Year int    `json:"year" validate:"required,min=2000,max=2100"`
}

func (in *CreateClassRequest) ToModel() *model.ClassModel {
	return &model.ClassModel{
		ClassName:     strings.TrimSpace(in.Name),
		ClassYear:     in.Year,
		ClassIsActive: true,
	}
}

type UpdateClassRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Year *int    `json:"year" validate:"omitempty,min=2000,max=2100"`
}

type AssignHomeroomTeacherRequest struct {
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
}

type MoveStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
}
