// file: internals/features/school/attendance/service/gorm_store.go
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

func (s *GormStore) RecordByID(ctx context.Context, id uuid.UUID) (*attModel.AttendanceRecordModel, error) {
	var rec attModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) RecordBySessionStudent(ctx context.Context, sessionID, studentID uuid.UUID) (*attModel.AttendanceRecordModel, error) {
	var rec attModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_session_id = ? AND attendance_student_id = ?", sessionID, studentID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) CreateRecord(ctx context.Context, m *attModel.AttendanceRecordModel) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormStore) UpdateRecordFields(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return s.DB.WithContext(ctx).
		Model(&attModel.AttendanceRecordModel{}).
		Where("attendance_id = ?", id).
		Updates(patch).Error
}

func (s *GormStore) RecordsByStudent(ctx context.Context, studentID uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	var records []attModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_student_id = ?", studentID).
		Order("attendance_created_at DESC").
		Find(&records).Error
	return records, err
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}
