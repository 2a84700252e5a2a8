// file: internals/features/school/attendance_sessions/service/gorm_store.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	sessModel "sekolahku_backend/internals/features/school/attendance_sessions/model"
)

// GormStore: implementasi Store di atas Postgres.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) SessionByID(ctx context.Context, id uuid.UUID) (*sessModel.AttendanceSessionModel, error) {
	var sess sessModel.AttendanceSessionModel
	err := s.DB.WithContext(ctx).
		Where("attendance_session_id = ?", id).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *GormStore) SessionsByTeaching(ctx context.Context, teachingID uuid.UUID) ([]sessModel.AttendanceSessionModel, error) {
	var sessions []sessModel.AttendanceSessionModel
	err := s.DB.WithContext(ctx).
		Where("attendance_session_teaching_id = ?", teachingID).
		Order("attendance_session_open_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *GormStore) ActiveSessionExists(ctx context.Context, teachingID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	q := s.DB.WithContext(ctx).
		Model(&sessModel.AttendanceSessionModel{}).
		Where("attendance_session_teaching_id = ? AND attendance_session_is_active = TRUE", teachingID)
	if excludeID != nil {
		q = q.Where("attendance_session_id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) CreateSession(ctx context.Context, m *sessModel.AttendanceSessionModel) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormStore) UpdateSessionFields(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return s.DB.WithContext(ctx).
		Model(&sessModel.AttendanceSessionModel{}).
		Where("attendance_session_id = ?", id).
		Updates(patch).Error
}

func (s *GormStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Where("attendance_session_id = ?", id).
		Delete(&sessModel.AttendanceSessionModel{}).Error
}

func (s *GormStore) RecordsBySession(ctx context.Context, sessionID uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	var records []attModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_session_id = ?", sessionID).
		Find(&records).Error
	return records, err
}

func (s *GormStore) CountRecordsBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&attModel.AttendanceRecordModel{}).
		Where("attendance_session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// InsertAbsentRecords: ON CONFLICT DO NOTHING pada unique (session, student),
// supaya mark yang masuk bersamaan dengan close tidak memicu error.
func (s *GormStore) InsertAbsentRecords(ctx context.Context, records []attModel.AttendanceRecordModel) error {
	if len(records) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_session_id"},
				{Name: "attendance_student_id"},
			},
			DoNothing: true,
		}).
		Create(&records).Error
}

func (s *GormStore) DeactivateSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Model(&sessModel.AttendanceSessionModel{}).
		Where("attendance_session_id = ?", sessionID).
		Update("attendance_session_is_active", false).Error
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}
