// file: internals/features/school/reports/service/gorm_store.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ClassInfo(ctx context.Context, classID uuid.UUID) (*ClassInfo, error) {
	var row struct {
		ClassID                uuid.UUID  `gorm:"column:class_id"`
		ClassName              string     `gorm:"column:class_name"`
		ClassYear              int        `gorm:"column:class_year"`
		ClassHomeroomTeacherID *uuid.UUID `gorm:"column:class_homeroom_teacher_id"`
	}
	err := s.DB.WithContext(ctx).
		Table("classes").
		Select("class_id, class_name, class_year, class_homeroom_teacher_id").
		Where("class_id = ? AND class_deleted_at IS NULL", classID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ClassInfo{
		ClassID:           row.ClassID,
		Name:              row.ClassName,
		Year:              row.ClassYear,
		HomeroomTeacherID: row.ClassHomeroomTeacherID,
	}, nil
}

func (s *GormStore) SubjectsForClass(ctx context.Context, classID uuid.UUID) ([]Subject, error) {
	var rows []struct {
		SubjectID   uuid.UUID `gorm:"column:subject_id"`
		SubjectName string    `gorm:"column:subject_name"`
	}
	err := s.DB.WithContext(ctx).
		Table("subjects").
		Select("DISTINCT subjects.subject_id, subjects.subject_name").
		Joins("JOIN teaching_assignments ON teaching_assignments.teaching_subject_id = subjects.subject_id").
		Where("teaching_assignments.teaching_class_id = ? AND teaching_assignments.teaching_deleted_at IS NULL", classID).
		Order("subjects.subject_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Subject, 0, len(rows))
	for _, r := range rows {
		out = append(out, Subject{ID: r.SubjectID, Name: r.SubjectName})
	}
	return out, nil
}

// ScoresForClass: semua nilai graded di kelas, dipetakan ke subject lewat
// assignment → teaching assignment.
func (s *GormStore) ScoresForClass(ctx context.Context, classID uuid.UUID) ([]ScoreRow, error) {
	var rows []struct {
		StudentID uuid.UUID `gorm:"column:student_id"`
		SubjectID uuid.UUID `gorm:"column:subject_id"`
		Score     float64   `gorm:"column:score"`
	}
	err := s.DB.WithContext(ctx).
		Table("submissions").
		Select("submissions.submission_student_id AS student_id, teaching_assignments.teaching_subject_id AS subject_id, submissions.submission_score AS score").
		Joins("JOIN assignments ON assignments.assignment_id = submissions.submission_assignment_id").
		Joins("JOIN teaching_assignments ON teaching_assignments.teaching_id = assignments.assignment_teaching_id").
		Where("teaching_assignments.teaching_class_id = ?", classID).
		Where("submissions.submission_score IS NOT NULL").
		Where("submissions.submission_deleted_at IS NULL AND assignments.assignment_deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ScoreRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScoreRow{StudentID: r.StudentID, SubjectID: r.SubjectID, Score: r.Score})
	}
	return out, nil
}

func (s *GormStore) ScoresForTeaching(ctx context.Context, teachingID uuid.UUID) ([]ScoreRow, error) {
	var rows []struct {
		StudentID uuid.UUID `gorm:"column:student_id"`
		SubjectID uuid.UUID `gorm:"column:subject_id"`
		Score     float64   `gorm:"column:score"`
	}
	err := s.DB.WithContext(ctx).
		Table("submissions").
		Select("submissions.submission_student_id AS student_id, teaching_assignments.teaching_subject_id AS subject_id, submissions.submission_score AS score").
		Joins("JOIN assignments ON assignments.assignment_id = submissions.submission_assignment_id").
		Joins("JOIN teaching_assignments ON teaching_assignments.teaching_id = assignments.assignment_teaching_id").
		Where("assignments.assignment_teaching_id = ?", teachingID).
		Where("submissions.submission_score IS NOT NULL").
		Where("submissions.submission_deleted_at IS NULL AND assignments.assignment_deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ScoreRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScoreRow{StudentID: r.StudentID, SubjectID: r.SubjectID, Score: r.Score})
	}
	return out, nil
}

func (s *GormStore) AttendanceTalliesForClass(ctx context.Context, classID uuid.UUID) ([]TallyRow, error) {
	return s.tallies(ctx, s.DB.WithContext(ctx).
		Table("attendances").
		Joins("JOIN teaching_assignments ON teaching_assignments.teaching_id = attendances.attendance_teaching_id").
		Where("teaching_assignments.teaching_class_id = ?", classID))
}

func (s *GormStore) AttendanceTalliesForTeaching(ctx context.Context, teachingID uuid.UUID) ([]TallyRow, error) {
	return s.tallies(ctx, s.DB.WithContext(ctx).
		Table("attendances").
		Where("attendances.attendance_teaching_id = ?", teachingID))
}

func (s *GormStore) tallies(_ context.Context, q *gorm.DB) ([]TallyRow, error) {
	var rows []struct {
		StudentID uuid.UUID `gorm:"column:student_id"`
		Status    string    `gorm:"column:status"`
		Count     int       `gorm:"column:count"`
	}
	err := q.
		Select("attendances.attendance_student_id AS student_id, attendances.attendance_status AS status, COUNT(*) AS count").
		Where("attendances.attendance_deleted_at IS NULL").
		Group("attendances.attendance_student_id, attendances.attendance_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]TallyRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TallyRow{
			StudentID: r.StudentID,
			Status:    attModel.AttendanceStatus(r.Status),
			Count:     r.Count,
		})
	}
	return out, nil
}
