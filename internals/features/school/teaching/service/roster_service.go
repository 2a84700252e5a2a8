// file: internals/features/school/teaching/service/roster_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student: satu murid aktif dalam roster kelas.
type Student struct {
	ID   uuid.UUID
	Name string
}

// Teaching: resolved teaching assignment (teacher × class × subject).
type Teaching struct {
	ID        uuid.UUID
	TeacherID uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
}

var ErrTeachingNotFound = errors.New("teaching assignment not found")

// RosterService menyediakan roster kelas & resolusi teaching assignment
// untuk subsistem attendance dan report.
type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// ClassRoster: semua student aktif yang terdaftar pada kelas.
func (s *RosterService) ClassRoster(ctx context.Context, classID uuid.UUID) ([]Student, error) {
	var rows []struct {
		UserID   uuid.UUID `gorm:"column:user_id"`
		UserName string    `gorm:"column:user_name"`
	}
	err := s.DB.WithContext(ctx).
		Table("users").
		Select("user_id, user_name").
		Where("user_class_id = ? AND user_role = 'STUDENT' AND user_is_active = TRUE AND user_deleted_at IS NULL", classID).
		Order("user_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Student, 0, len(rows))
	for _, r := range rows {
		out = append(out, Student{ID: r.UserID, Name: r.UserName})
	}
	return out, nil
}

// TeachingByID: resolve (teacherId, classId, subjectId) dari satu teaching assignment.
func (s *RosterService) TeachingByID(ctx context.Context, teachingID uuid.UUID) (*Teaching, error) {
	var row struct {
		TeachingID        uuid.UUID `gorm:"column:teaching_id"`
		TeachingTeacherID uuid.UUID `gorm:"column:teaching_teacher_id"`
		TeachingClassID   uuid.UUID `gorm:"column:teaching_class_id"`
		TeachingSubjectID uuid.UUID `gorm:"column:teaching_subject_id"`
	}
	err := s.DB.WithContext(ctx).
		Table("teaching_assignments").
		Select("teaching_id, teaching_teacher_id, teaching_class_id, teaching_subject_id").
		Where("teaching_id = ? AND teaching_deleted_at IS NULL", teachingID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeachingNotFound
		}
		return nil, err
	}
	return &Teaching{
		ID:        row.TeachingID,
		TeacherID: row.TeachingTeacherID,
		ClassID:   row.TeachingClassID,
		SubjectID: row.TeachingSubjectID,
	}, nil
}
