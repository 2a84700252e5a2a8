// file: internals/features/school/teaching/dto/teaching_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/school/teaching/model"
)

type CreateSubjectRequest struct {
	Name string  `json:"name" validate:"required,min=1,max=100"`
	Code *string `json:"code" validate:"omitempty,max=32"`
}

func (in *CreateSubjectRequest) ToModel() *model.SubjectModel {
	m := &model.SubjectModel{
		SubjectName: strings.TrimSpace(in.Name),
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code != "" {
			m.SubjectCode = &code
		}
	}
	return m
}

type UpdateSubjectRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code *string `json:"code" validate:"omitempty,max=32"`
}

type AssignTeacherRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
	SubjectID uuid.UUID `json:"subject_id" validate:"required"`
}
