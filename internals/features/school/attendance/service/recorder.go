// file: internals/features/school/attendance/service/recorder.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	sessModel "sekolahku_backend/internals/features/school/attendance_sessions/model"
	rosterSvc "sekolahku_backend/internals/features/school/teaching/service"
)

var (
	ErrRecordNotFound    = fiber.NewError(fiber.StatusNotFound, "Record presensi tidak ditemukan")
	ErrSessionNotActive  = fiber.NewError(fiber.StatusConflict, "Session sudah tidak aktif")
	ErrDuplicateRecord   = fiber.NewError(fiber.StatusConflict, "Presensi untuk student ini sudah tercatat")
	ErrStudentNotInClass = fiber.NewError(fiber.StatusBadRequest, "Student tidak terdaftar di kelas ini")
	ErrInvalidStatus     = fiber.NewError(fiber.StatusBadRequest, "Status presensi tidak valid")
	ErrNoteRequired      = fiber.NewError(fiber.StatusBadRequest, "Note wajib diisi untuk status EXCUSED/SICK")
	ErrNotSessionOwner   = fiber.NewError(fiber.StatusForbidden, "Bukan session Anda")
	ErrNotSelf           = fiber.NewError(fiber.StatusForbidden, "Student hanya boleh menandai dirinya sendiri")
)

// SessionGuard: lazy close + state terkini sebelum record disentuh.
// Dipenuhi oleh attendance_sessions SessionManager.
type SessionGuard interface {
	EnsureCurrent(ctx context.Context, sessionID uuid.UUID) (*sessModel.AttendanceSessionModel, error)
}

// Store: persistence untuk record presensi.
type Store interface {
	RecordByID(ctx context.Context, id uuid.UUID) (*attModel.AttendanceRecordModel, error)
	RecordBySessionStudent(ctx context.Context, sessionID, studentID uuid.UUID) (*attModel.AttendanceRecordModel, error)
	CreateRecord(ctx context.Context, m *attModel.AttendanceRecordModel) error
	UpdateRecordFields(ctx context.Context, id uuid.UUID, patch map[string]any) error
	RecordsByStudent(ctx context.Context, studentID uuid.UUID) ([]attModel.AttendanceRecordModel, error)
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

type RosterProvider interface {
	ClassRoster(ctx context.Context, classID uuid.UUID) ([]rosterSvc.Student, error)
	TeachingByID(ctx context.Context, teachingID uuid.UUID) (*rosterSvc.Teaching, error)
}

// Actor: siapa yang melakukan operasi, sudah terautentikasi di middleware.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Recorder menulis dan mengoreksi record presensi per (session, student).
type Recorder struct {
	store    Store
	sessions SessionGuard
	roster   RosterProvider

	now func() time.Time
}

func NewRecorder(store Store, sessions SessionGuard, roster RosterProvider) *Recorder {
	return &Recorder{
		store:    store,
		sessions: sessions,
		roster:   roster,
		now:      time.Now,
	}
}

/* =========================================================
   Record (teacher marks one student)
   ========================================================= */

type RecordInput struct {
	SessionID uuid.UUID
	StudentID uuid.UUID
	Status    attModel.AttendanceStatus
	Note      *string
}

// Record: teacher menandai satu student pada session aktif miliknya.
// EXCUSED/SICK wajib disertai note; duplicate (session, student) ditolak.
func (r *Recorder) Record(ctx context.Context, in RecordInput, actor Actor) (*attModel.AttendanceRecordModel, error) {
	sess, teaching, err := r.activeSessionFor(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if teaching.TeacherID != actor.ID {
		return nil, ErrNotSessionOwner
	}
	if err := r.validateMark(ctx, teaching.ClassID, in.StudentID, in.Status, in.Note); err != nil {
		return nil, err
	}

	existing, err := r.store.RecordBySessionStudent(ctx, in.SessionID, in.StudentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRecord
	}

	rec := &attModel.AttendanceRecordModel{
		AttendanceSessionID:   sess.AttendanceSessionID,
		AttendanceStudentID:   in.StudentID,
		AttendanceTeachingID:  sess.AttendanceSessionTeachingID,
		AttendanceStatus:      in.Status,
		AttendanceNote:        trimNote(in.Note),
		AttendanceCreatedByID: actor.ID,
	}
	if err := r.store.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

/* =========================================================
   BulkRecord (teacher marks many, all-or-nothing)
   ========================================================= */

type BulkMark struct {
	StudentID uuid.UUID
	Status    attModel.AttendanceStatus
	Note      *string
}

// BulkRecord: insert idempoten dalam satu transaksi. Status/note divalidasi
// lebih dulu (satu invalid membatalkan semuanya); entry untuk student di luar
// roster dibuang diam-diam, pasangan (session, student) yang sudah punya
// record dilewati tanpa error. Return: record yang benar-benar dibuat.
func (r *Recorder) BulkRecord(ctx context.Context, sessionID uuid.UUID, marks []BulkMark, actor Actor) ([]attModel.AttendanceRecordModel, error) {
	sess, teaching, err := r.activeSessionFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if teaching.TeacherID != actor.ID {
		return nil, ErrNotSessionOwner
	}

	for _, mk := range marks {
		if !mk.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if mk.Status.NeedsNote() && trimNote(mk.Note) == nil {
			return nil, ErrNoteRequired
		}
	}

	roster, err := r.roster.ClassRoster(ctx, teaching.ClassID)
	if err != nil {
		return nil, err
	}
	inRoster := make(map[uuid.UUID]struct{}, len(roster))
	for _, st := range roster {
		inRoster[st.ID] = struct{}{}
	}

	out := make([]attModel.AttendanceRecordModel, 0, len(marks))
	err = r.store.Atomic(ctx, func(tx Store) error {
		for _, mk := range marks {
			if _, ok := inRoster[mk.StudentID]; !ok {
				continue
			}
			existing, err := tx.RecordBySessionStudent(ctx, sessionID, mk.StudentID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			rec := attModel.AttendanceRecordModel{
				AttendanceSessionID:   sess.AttendanceSessionID,
				AttendanceStudentID:   mk.StudentID,
				AttendanceTeachingID:  sess.AttendanceSessionTeachingID,
				AttendanceStatus:      mk.Status,
				AttendanceNote:        trimNote(mk.Note),
				AttendanceCreatedByID: actor.ID,
			}
			if err := tx.CreateRecord(ctx, &rec); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =========================================================
   SelfMark (student marks self, forced PRESENT)
   ========================================================= */

// SelfMark: student menandai dirinya sendiri pada session aktif.
// Status selalu PRESENT; status/note kiriman client diabaikan.
func (r *Recorder) SelfMark(ctx context.Context, sessionID uuid.UUID, actor Actor) (*attModel.AttendanceRecordModel, error) {
	sess, teaching, err := r.activeSessionFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	inClass, err := r.studentInClass(ctx, teaching.ClassID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !inClass {
		return nil, ErrStudentNotInClass
	}

	existing, err := r.store.RecordBySessionStudent(ctx, sessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRecord
	}

	rec := &attModel.AttendanceRecordModel{
		AttendanceSessionID:   sess.AttendanceSessionID,
		AttendanceStudentID:   actor.ID,
		AttendanceTeachingID:  sess.AttendanceSessionTeachingID,
		AttendanceStatus:      attModel.StatusPresent,
		AttendanceCreatedByID: actor.ID,
	}
	if err := r.store.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

/* =========================================================
   Amend (koreksi oleh teacher pemilik, boleh setelah close)
   ========================================================= */

type AmendInput struct {
	Status attModel.AttendanceStatus
	Note   *string
}

// Amend mengubah status/note record yang sudah ada. Session tidak perlu
// aktif — justru untuk mengoreksi hasil backfill (mis. ABSENT → SICK dengan
// surat yang datang terlambat). Aturan note tetap berlaku.
func (r *Recorder) Amend(ctx context.Context, recordID uuid.UUID, in AmendInput, actor Actor) (*attModel.AttendanceRecordModel, error) {
	rec, err := r.store.RecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}

	teaching, err := r.roster.TeachingByID(ctx, rec.AttendanceTeachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if teaching.TeacherID != actor.ID {
		return nil, ErrNotSessionOwner
	}

	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	note := trimNote(in.Note)
	if in.Status.NeedsNote() && note == nil {
		return nil, ErrNoteRequired
	}

	patch := map[string]any{
		"attendance_status":     in.Status,
		"attendance_note":       note,
		"attendance_updated_at": r.now(),
	}
	if err := r.store.UpdateRecordFields(ctx, recordID, patch); err != nil {
		return nil, err
	}

	rec.AttendanceStatus = in.Status
	rec.AttendanceNote = note
	return rec, nil
}

/* =========================================================
   Queries
   ========================================================= */

// History: riwayat presensi milik student, terbaru dulu (diurutkan di store).
func (r *Recorder) History(ctx context.Context, studentID uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	return r.store.RecordsByStudent(ctx, studentID)
}

/* =========================================================
   Internal
   ========================================================= */

func (r *Recorder) activeSessionFor(ctx context.Context, sessionID uuid.UUID) (*sessModel.AttendanceSessionModel, *rosterSvc.Teaching, error) {
	sess, err := r.sessions.EnsureCurrent(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !sess.AttendanceSessionIsActive {
		return nil, nil, ErrSessionNotActive
	}
	// window [open_at, close_at): flag aktif saja tidak cukup
	now := r.now()
	if now.Before(sess.AttendanceSessionOpenAt) || !now.Before(sess.AttendanceSessionCloseAt) {
		return nil, nil, ErrSessionNotActive
	}
	teaching, err := r.roster.TeachingByID(ctx, sess.AttendanceSessionTeachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return nil, nil, ErrRecordNotFound
		}
		return nil, nil, err
	}
	return sess, teaching, nil
}

func (r *Recorder) validateMark(ctx context.Context, classID, studentID uuid.UUID, status attModel.AttendanceStatus, note *string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if status.NeedsNote() && trimNote(note) == nil {
		return ErrNoteRequired
	}
	inClass, err := r.studentInClass(ctx, classID, studentID)
	if err != nil {
		return err
	}
	if !inClass {
		return ErrStudentNotInClass
	}
	return nil
}

func (r *Recorder) studentInClass(ctx context.Context, classID, studentID uuid.UUID) (bool, error) {
	roster, err := r.roster.ClassRoster(ctx, classID)
	if err != nil {
		return false, err
	}
	for _, st := range roster {
		if st.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	s := strings.TrimSpace(*note)
	if s == "" {
		return nil
	}
	return &s
}
