// file: internals/features/school/attendance_sessions/service/session_manager.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	sessModel "sekolahku_backend/internals/features/school/attendance_sessions/model"
	rosterSvc "sekolahku_backend/internals/features/school/teaching/service"
)

/* =========================================================
   Errors (dipetakan langsung ke HTTP status oleh controller)
   ========================================================= */

var (
	ErrSessionNotFound  = fiber.NewError(fiber.StatusNotFound, "Session tidak ditemukan")
	ErrTeachingNotFound = fiber.NewError(fiber.StatusNotFound, "Teaching assignment tidak ditemukan")
	ErrNotYourTeaching  = fiber.NewError(fiber.StatusForbidden, "Bukan teaching assignment Anda")
	ErrNotYourSession   = fiber.NewError(fiber.StatusForbidden, "Bukan session Anda")
	ErrInvalidWindow    = fiber.NewError(fiber.StatusBadRequest, "open_at harus sebelum close_at")
	ErrSessionConflict  = fiber.NewError(fiber.StatusConflict, "Masih ada session aktif untuk teaching assignment ini")
	ErrSessionClosed    = fiber.NewError(fiber.StatusConflict, "Session sudah ditutup")
)

/* =========================================================
   Dependencies
   ========================================================= */

// Store: akses durable untuk session & backfill. Atomic menjalankan fn dalam
// satu transaksi; insert absen dan flip is_active harus lewat situ.
type Store interface {
	SessionByID(ctx context.Context, id uuid.UUID) (*sessModel.AttendanceSessionModel, error)
	SessionsByTeaching(ctx context.Context, teachingID uuid.UUID) ([]sessModel.AttendanceSessionModel, error)
	ActiveSessionExists(ctx context.Context, teachingID uuid.UUID, excludeID *uuid.UUID) (bool, error)

	CreateSession(ctx context.Context, m *sessModel.AttendanceSessionModel) error
	UpdateSessionFields(ctx context.Context, id uuid.UUID, patch map[string]any) error
	DeleteSession(ctx context.Context, id uuid.UUID) error

	RecordsBySession(ctx context.Context, sessionID uuid.UUID) ([]attModel.AttendanceRecordModel, error)
	CountRecordsBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)

	// InsertAbsentRecords wajib duplicate-tolerant (ON CONFLICT DO NOTHING):
	// retry/double-close tidak boleh error ataupun menduplikasi baris.
	InsertAbsentRecords(ctx context.Context, records []attModel.AttendanceRecordModel) error
	DeactivateSession(ctx context.Context, sessionID uuid.UUID) error

	Atomic(ctx context.Context, fn func(tx Store) error) error
}

// RosterProvider: kolaborator eksternal (lihat teaching/service).
type RosterProvider interface {
	ClassRoster(ctx context.Context, classID uuid.UUID) ([]rosterSvc.Student, error)
	TeachingByID(ctx context.Context, teachingID uuid.UUID) (*rosterSvc.Teaching, error)
}

/* =========================================================
   Keyed lock per teaching assignment
   ========================================================= */

// teachingLocks: serialisasi open/update per teaching assignment supaya
// check-then-write invariant "satu sesi aktif" tidak balapan dalam satu proses.
// Lintas proses tetap mengandalkan check aplikasi (residual gap terdokumentasi).
type teachingLocks struct {
	m sync.Map // uuid.UUID → *sync.Mutex
}

func (l *teachingLocks) lock(teachingID uuid.UUID) func() {
	v, _ := l.m.LoadOrStore(teachingID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

/* =========================================================
   SessionManager
   ========================================================= */

// SessionManager menegakkan state machine open/close dan menjamin
// kelengkapan presensi saat close (backfill ABSENT).
type SessionManager struct {
	store  Store
	roster RosterProvider
	locks  teachingLocks

	// dapat dioverride di test
	now func() time.Time
}

func NewSessionManager(store Store, roster RosterProvider) *SessionManager {
	return &SessionManager{
		store:  store,
		roster: roster,
		now:    time.Now,
	}
}

func (m *SessionManager) computeIsActive(openAt, closeAt time.Time) bool {
	now := m.now()
	return !now.Before(openAt) && now.Before(closeAt)
}

/* =========================================================
   Commands
   ========================================================= */

type OpenInput struct {
	TeachingID uuid.UUID
	Name       string
	OpenAt     time.Time
	CloseAt    time.Time
}

// Open membuat session baru. Jika window mencakup "sekarang" session langsung
// aktif; saat itu tidak boleh ada session aktif lain untuk teaching yang sama.
func (m *SessionManager) Open(ctx context.Context, in OpenInput, actorID uuid.UUID) (*sessModel.AttendanceSessionModel, error) {
	if !in.OpenAt.Before(in.CloseAt) {
		return nil, ErrInvalidWindow
	}

	teaching, err := m.roster.TeachingByID(ctx, in.TeachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return nil, ErrTeachingNotFound
		}
		return nil, err
	}
	if teaching.TeacherID != actorID {
		return nil, ErrNotYourTeaching
	}

	unlock := m.locks.lock(in.TeachingID)
	defer unlock()

	isActive := m.computeIsActive(in.OpenAt, in.CloseAt)
	if isActive {
		exists, err := m.store.ActiveSessionExists(ctx, in.TeachingID, nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrSessionConflict
		}
	}

	sess := &sessModel.AttendanceSessionModel{
		AttendanceSessionTeachingID: in.TeachingID,
		AttendanceSessionName:       in.Name,
		AttendanceSessionOpenAt:     in.OpenAt,
		AttendanceSessionCloseAt:    in.CloseAt,
		AttendanceSessionIsActive:   isActive,
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Close menutup session milik actor, dengan backfill ABSENT.
func (m *SessionManager) Close(ctx context.Context, sessionID, actorID uuid.UUID) error {
	sess, teaching, err := m.sessionWithTeaching(ctx, sessionID)
	if err != nil {
		return err
	}
	if teaching.TeacherID != actorID {
		return ErrNotYourSession
	}
	if !sess.AttendanceSessionIsActive {
		return ErrSessionClosed
	}
	return m.closeWithBackfill(ctx, sess, teaching, actorID)
}

// ForceClose: bypass ownership (surface admin), selain itu identik Close.
func (m *SessionManager) ForceClose(ctx context.Context, sessionID, actorID uuid.UUID) error {
	sess, teaching, err := m.sessionWithTeaching(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sess.AttendanceSessionIsActive {
		return ErrSessionClosed
	}
	return m.closeWithBackfill(ctx, sess, teaching, actorID)
}

type UpdateInput struct {
	Name    *string
	OpenAt  *time.Time
	CloseAt *time.Time
}

// Update mengubah name/window pada session yang masih open, lalu menghitung
// ulang is_active dan mengecek ulang invariant satu-sesi-aktif (exclude diri).
// Window tidak valid → reject tanpa menyentuh state lama.
func (m *SessionManager) Update(ctx context.Context, sessionID uuid.UUID, in UpdateInput, actorID uuid.UUID) (*sessModel.AttendanceSessionModel, error) {
	sess, teaching, err := m.sessionWithTeaching(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if teaching.TeacherID != actorID {
		return nil, ErrNotYourSession
	}

	// lazy close dulu; session yang sudah lewat window dianggap tertutup
	if sess.AttendanceSessionIsActive && !sess.AttendanceSessionCloseAt.After(m.now()) {
		if err := m.closeWithBackfill(ctx, sess, teaching, teaching.TeacherID); err != nil {
			return nil, err
		}
		sess.AttendanceSessionIsActive = false
	}
	if !sess.AttendanceSessionIsActive {
		return nil, ErrSessionClosed
	}

	nextOpenAt := sess.AttendanceSessionOpenAt
	nextCloseAt := sess.AttendanceSessionCloseAt
	if in.OpenAt != nil {
		nextOpenAt = *in.OpenAt
	}
	if in.CloseAt != nil {
		nextCloseAt = *in.CloseAt
	}
	if !nextOpenAt.Before(nextCloseAt) {
		return nil, ErrInvalidWindow
	}

	unlock := m.locks.lock(sess.AttendanceSessionTeachingID)
	defer unlock()

	nextIsActive := m.computeIsActive(nextOpenAt, nextCloseAt)
	if nextIsActive {
		exists, err := m.store.ActiveSessionExists(ctx, sess.AttendanceSessionTeachingID, &sessionID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrSessionConflict
		}
	}

	patch := map[string]any{
		"attendance_session_open_at":    nextOpenAt,
		"attendance_session_close_at":   nextCloseAt,
		"attendance_session_is_active":  nextIsActive,
		"attendance_session_updated_at": m.now(),
	}
	if in.Name != nil {
		patch["attendance_session_name"] = *in.Name
	}
	if err := m.store.UpdateSessionFields(ctx, sessionID, patch); err != nil {
		return nil, err
	}

	sess.AttendanceSessionOpenAt = nextOpenAt
	sess.AttendanceSessionCloseAt = nextCloseAt
	sess.AttendanceSessionIsActive = nextIsActive
	if in.Name != nil {
		sess.AttendanceSessionName = *in.Name
	}
	return sess, nil
}

// Delete menghapus session milik actor (soft delete).
func (m *SessionManager) Delete(ctx context.Context, sessionID, actorID uuid.UUID) error {
	_, teaching, err := m.sessionWithTeaching(ctx, sessionID)
	if err != nil {
		return err
	}
	if teaching.TeacherID != actorID {
		return ErrNotYourSession
	}
	return m.store.DeleteSession(ctx, sessionID)
}

/* =========================================================
   Lazy close (evaluate-then-act guard)
   ========================================================= */

// EnsureCurrent: dipanggil di awal setiap read/write yang menyentuh session.
// Session aktif yang sudah lewat close_at ditutup (backfill diattributkan ke
// teacher pemilik) sebelum data dikembalikan — tidak ada caller yang pernah
// melihat session aktif melewati window-nya.
func (m *SessionManager) EnsureCurrent(ctx context.Context, sessionID uuid.UUID) (*sessModel.AttendanceSessionModel, error) {
	sess, teaching, err := m.sessionWithTeaching(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.AttendanceSessionIsActive && !sess.AttendanceSessionCloseAt.After(m.now()) {
		if err := m.closeWithBackfill(ctx, sess, teaching, teaching.TeacherID); err != nil {
			return nil, err
		}
		sess.AttendanceSessionIsActive = false
	}
	return sess, nil
}

// EnsureCurrentForTeaching menutup semua session overdue milik satu teaching.
func (m *SessionManager) EnsureCurrentForTeaching(ctx context.Context, teachingID uuid.UUID) error {
	teaching, err := m.roster.TeachingByID(ctx, teachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return ErrTeachingNotFound
		}
		return err
	}

	sessions, err := m.store.SessionsByTeaching(ctx, teachingID)
	if err != nil {
		return err
	}
	now := m.now()
	for i := range sessions {
		s := &sessions[i]
		if s.AttendanceSessionIsActive && !s.AttendanceSessionCloseAt.After(now) {
			if err := m.closeWithBackfill(ctx, s, teaching, teaching.TeacherID); err != nil {
				return err
			}
		}
	}
	return nil
}

/* =========================================================
   Queries
   ========================================================= */

type SessionSummary struct {
	Session       sessModel.AttendanceSessionModel `json:"session"`
	AttendedCount int64                            `json:"attended_count"`
	TotalStudents int                              `json:"total_students"`
}

// ListByTeaching: daftar session milik actor, setelah lazy close.
func (m *SessionManager) ListByTeaching(ctx context.Context, teachingID, actorID uuid.UUID) ([]SessionSummary, error) {
	teaching, err := m.roster.TeachingByID(ctx, teachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return nil, ErrTeachingNotFound
		}
		return nil, err
	}
	if teaching.TeacherID != actorID {
		return nil, ErrNotYourTeaching
	}

	if err := m.EnsureCurrentForTeaching(ctx, teachingID); err != nil {
		return nil, err
	}

	roster, err := m.roster.ClassRoster(ctx, teaching.ClassID)
	if err != nil {
		return nil, err
	}

	sessions, err := m.store.SessionsByTeaching(ctx, teachingID)
	if err != nil {
		return nil, err
	}

	out := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		attended, err := m.store.CountRecordsBySession(ctx, sessions[i].AttendanceSessionID)
		if err != nil {
			return nil, err
		}
		out = append(out, SessionSummary{
			Session:       sessions[i],
			AttendedCount: attended,
			TotalStudents: len(roster),
		})
	}
	return out, nil
}

type StudentAttendanceRow struct {
	StudentID    uuid.UUID                  `json:"student_id"`
	Name         string                     `json:"name"`
	AttendanceID *uuid.UUID                 `json:"attendance_id"`
	Status       *attModel.AttendanceStatus `json:"status"`
	Note         *string                    `json:"note"`
}

type SessionDetail struct {
	Session       sessModel.AttendanceSessionModel `json:"session"`
	TotalStudents int                              `json:"total_students"`
	Attended      int                              `json:"attended"`
	Students      []StudentAttendanceRow           `json:"students"`
}

// Detail: session + roster + mark per student, setelah lazy close.
func (m *SessionManager) Detail(ctx context.Context, sessionID, actorID uuid.UUID) (*SessionDetail, error) {
	sess, teaching, err := m.sessionWithTeaching(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if teaching.TeacherID != actorID {
		return nil, ErrNotYourSession
	}

	if sess.AttendanceSessionIsActive && !sess.AttendanceSessionCloseAt.After(m.now()) {
		if err := m.closeWithBackfill(ctx, sess, teaching, teaching.TeacherID); err != nil {
			return nil, err
		}
		sess.AttendanceSessionIsActive = false
	}

	roster, err := m.roster.ClassRoster(ctx, teaching.ClassID)
	if err != nil {
		return nil, err
	}
	records, err := m.store.RecordsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[uuid.UUID]*attModel.AttendanceRecordModel, len(records))
	for i := range records {
		byStudent[records[i].AttendanceStudentID] = &records[i]
	}

	students := make([]StudentAttendanceRow, 0, len(roster))
	for _, st := range roster {
		row := StudentAttendanceRow{StudentID: st.ID, Name: st.Name}
		if rec, ok := byStudent[st.ID]; ok {
			row.AttendanceID = &rec.AttendanceID
			row.Status = &rec.AttendanceStatus
			row.Note = rec.AttendanceNote
		}
		students = append(students, row)
	}

	return &SessionDetail{
		Session:       *sess,
		TotalStudents: len(roster),
		Attended:      len(records),
		Students:      students,
	}, nil
}

/* =========================================================
   Close-with-backfill (algoritma inti)
   ========================================================= */

// closeWithBackfill: missing = roster − recorded; setiap student missing diberi
// record ABSENT (creator = closing actor, tanpa note). Insert absen dan flip
// is_active berjalan dalam SATU transaksi; insert duplicate-tolerant sehingga
// double-close (lazy vs eksplisit) aman di-retry.
func (m *SessionManager) closeWithBackfill(ctx context.Context, sess *sessModel.AttendanceSessionModel, teaching *rosterSvc.Teaching, closedByID uuid.UUID) error {
	if !sess.AttendanceSessionIsActive {
		return nil
	}

	roster, err := m.roster.ClassRoster(ctx, teaching.ClassID)
	if err != nil {
		return err
	}
	records, err := m.store.RecordsBySession(ctx, sess.AttendanceSessionID)
	if err != nil {
		return err
	}

	recorded := make(map[uuid.UUID]struct{}, len(records))
	for i := range records {
		recorded[records[i].AttendanceStudentID] = struct{}{}
	}

	var absents []attModel.AttendanceRecordModel
	for _, st := range roster {
		if _, ok := recorded[st.ID]; ok {
			continue
		}
		absents = append(absents, attModel.AttendanceRecordModel{
			AttendanceSessionID:   sess.AttendanceSessionID,
			AttendanceStudentID:   st.ID,
			AttendanceTeachingID:  sess.AttendanceSessionTeachingID,
			AttendanceStatus:      attModel.StatusAbsent,
			AttendanceCreatedByID: closedByID,
		})
	}

	return m.store.Atomic(ctx, func(tx Store) error {
		if len(absents) > 0 {
			if err := tx.InsertAbsentRecords(ctx, absents); err != nil {
				return err
			}
		}
		// set inactive dua kali = no-op; aman untuk trigger berbarengan
		return tx.DeactivateSession(ctx, sess.AttendanceSessionID)
	})
}

/* =========================================================
   Internal
   ========================================================= */

func (m *SessionManager) sessionWithTeaching(ctx context.Context, sessionID uuid.UUID) (*sessModel.AttendanceSessionModel, *rosterSvc.Teaching, error) {
	sess, err := m.store.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, ErrSessionNotFound
	}
	teaching, err := m.roster.TeachingByID(ctx, sess.AttendanceSessionTeachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return nil, nil, ErrTeachingNotFound
		}
		return nil, nil, err
	}
	return sess, teaching, nil
}
