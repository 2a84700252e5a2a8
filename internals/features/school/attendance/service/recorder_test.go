// file: internals/features/school/attendance/service/recorder_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	sessModel "sekolahku_backend/internals/features/school/attendance_sessions/model"
	rosterSvc "sekolahku_backend/internals/features/school/teaching/service"
)

/* =========================================================
   In-memory fakes
   ========================================================= */

type fakeStore struct {
	records map[uuid.UUID]*attModel.AttendanceRecordModel
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[uuid.UUID]*attModel.AttendanceRecordModel{}}
}

func (f *fakeStore) RecordByID(_ context.Context, id uuid.UUID) (*attModel.AttendanceRecordModel, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) RecordBySessionStudent(_ context.Context, sessionID, studentID uuid.UUID) (*attModel.AttendanceRecordModel, error) {
	for _, r := range f.records {
		if r.AttendanceSessionID == sessionID && r.AttendanceStudentID == studentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateRecord(_ context.Context, m *attModel.AttendanceRecordModel) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	cp := *m
	f.records[m.AttendanceID] = &cp
	return nil
}

func (f *fakeStore) UpdateRecordFields(_ context.Context, id uuid.UUID, patch map[string]any) error {
	r, ok := f.records[id]
	if !ok {
		return nil
	}
	if v, ok := patch["attendance_status"]; ok {
		r.AttendanceStatus = v.(attModel.AttendanceStatus)
	}
	if v, ok := patch["attendance_note"]; ok {
		if v == nil {
			r.AttendanceNote = nil
		} else {
			r.AttendanceNote = v.(*string)
		}
	}
	return nil
}

func (f *fakeStore) RecordsByStudent(_ context.Context, studentID uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	var out []attModel.AttendanceRecordModel
	for _, r := range f.records {
		if r.AttendanceStudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	// rollback sederhana: snapshot lalu restore saat gagal
	snapshot := make(map[uuid.UUID]*attModel.AttendanceRecordModel, len(f.records))
	for k, v := range f.records {
		cp := *v
		snapshot[k] = &cp
	}
	if err := fn(f); err != nil {
		f.records = snapshot
		return err
	}
	return nil
}

type fakeGuard struct {
	sessions map[uuid.UUID]*sessModel.AttendanceSessionModel
}

func (g *fakeGuard) EnsureCurrent(_ context.Context, sessionID uuid.UUID) (*sessModel.AttendanceSessionModel, error) {
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeRoster struct {
	teachings map[uuid.UUID]*rosterSvc.Teaching
	rosters   map[uuid.UUID][]rosterSvc.Student
}

func (f *fakeRoster) ClassRoster(_ context.Context, classID uuid.UUID) ([]rosterSvc.Student, error) {
	return f.rosters[classID], nil
}

func (f *fakeRoster) TeachingByID(_ context.Context, teachingID uuid.UUID) (*rosterSvc.Teaching, error) {
	t, ok := f.teachings[teachingID]
	if !ok {
		return nil, rosterSvc.ErrTeachingNotFound
	}
	return t, nil
}

/* =========================================================
   Fixture
   ========================================================= */

type fixture struct {
	store    *fakeStore
	guard    *fakeGuard
	recorder *Recorder
	teacher  uuid.UUID
	session  uuid.UUID
	budi     uuid.UUID
	citra    uuid.UUID
}

func newFixture(t *testing.T, sessionActive bool) *fixture {
	t.Helper()

	fx := &fixture{
		store:   newFakeStore(),
		teacher: uuid.New(),
		session: uuid.New(),
		budi:    uuid.New(),
		citra:   uuid.New(),
	}
	classID := uuid.New()
	teachingID := uuid.New()

	fx.guard = &fakeGuard{sessions: map[uuid.UUID]*sessModel.AttendanceSessionModel{
		fx.session: {
			AttendanceSessionID:         fx.session,
			AttendanceSessionTeachingID: teachingID,
			AttendanceSessionName:       "Matematika pagi",
			AttendanceSessionOpenAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			AttendanceSessionCloseAt:    time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
			AttendanceSessionIsActive:   sessionActive,
		},
	}}
	roster := &fakeRoster{
		teachings: map[uuid.UUID]*rosterSvc.Teaching{
			teachingID: {ID: teachingID, TeacherID: fx.teacher, ClassID: classID, SubjectID: uuid.New()},
		},
		rosters: map[uuid.UUID][]rosterSvc.Student{
			classID: {
				{ID: fx.budi, Name: "Budi"},
				{ID: fx.citra, Name: "Citra"},
			},
		},
	}
	fx.recorder = NewRecorder(fx.store, fx.guard, roster)
	fx.recorder.now = func() time.Time { return time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC) }
	return fx
}

func (fx *fixture) teacherActor() Actor { return Actor{ID: fx.teacher, Role: "TEACHER"} }

func strptr(s string) *string { return &s }

/* =========================================================
   Record
   ========================================================= */

func TestRecord_Success(t *testing.T) {
	fx := newFixture(t, true)

	rec, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	require.NoError(t, err)
	assert.Equal(t, attModel.StatusPresent, rec.AttendanceStatus)
	assert.Equal(t, fx.teacher, rec.AttendanceCreatedByID)
}

func TestRecord_RejectsInactiveSession(t *testing.T) {
	fx := newFixture(t, false)

	_, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestRecord_RejectsOutsideWindow(t *testing.T) {
	fx := newFixture(t, true)

	// flag masih aktif tapi jam sudah lewat close_at
	fx.recorder.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }

	_, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestRecord_RejectsDuplicate(t *testing.T) {
	fx := newFixture(t, true)

	_, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	require.NoError(t, err)

	_, err = fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusSick,
		Note:      strptr("demam"),
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestRecord_NoteRequiredForExcusedAndSick(t *testing.T) {
	fx := newFixture(t, true)

	for _, status := range []attModel.AttendanceStatus{attModel.StatusExcused, attModel.StatusSick} {
		_, err := fx.recorder.Record(context.Background(), RecordInput{
			SessionID: fx.session,
			StudentID: fx.budi,
			Status:    status,
		}, fx.teacherActor())
		assert.ErrorIs(t, err, ErrNoteRequired, string(status))

		// note spasi doang tetap ditolak
		_, err = fx.recorder.Record(context.Background(), RecordInput{
			SessionID: fx.session,
			StudentID: fx.budi,
			Status:    status,
			Note:      strptr("   "),
		}, fx.teacherActor())
		assert.ErrorIs(t, err, ErrNoteRequired, string(status))
	}

	rec, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusSick,
		Note:      strptr("surat dokter"),
	}, fx.teacherActor())
	require.NoError(t, err)
	require.NotNil(t, rec.AttendanceNote)
	assert.Equal(t, "surat dokter", *rec.AttendanceNote)
}

func TestRecord_RejectsStudentOutsideClass(t *testing.T) {
	fx := newFixture(t, true)

	_, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: uuid.New(),
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrStudentNotInClass)
}

func TestRecord_RejectsForeignTeacher(t *testing.T) {
	fx := newFixture(t, true)

	_, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, Actor{ID: uuid.New(), Role: "TEACHER"})
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}

/* =========================================================
   BulkRecord
   ========================================================= */

func TestBulkRecord_InvalidMarkAbortsEverything(t *testing.T) {
	fx := newFixture(t, true)

	// satu mark invalid (EXCUSED tanpa note) membatalkan semuanya
	_, err := fx.recorder.BulkRecord(context.Background(), fx.session, []BulkMark{
		{StudentID: fx.budi, Status: attModel.StatusPresent},
		{StudentID: fx.citra, Status: attModel.StatusExcused},
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrNoteRequired)
	assert.Empty(t, fx.store.records)

	records, err := fx.recorder.BulkRecord(context.Background(), fx.session, []BulkMark{
		{StudentID: fx.budi, Status: attModel.StatusPresent},
		{StudentID: fx.citra, Status: attModel.StatusExcused, Note: strptr("acara keluarga")},
	}, fx.teacherActor())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBulkRecord_DiscardsStudentsOutsideRoster(t *testing.T) {
	fx := newFixture(t, true)

	records, err := fx.recorder.BulkRecord(context.Background(), fx.session, []BulkMark{
		{StudentID: fx.budi, Status: attModel.StatusPresent},
		{StudentID: uuid.New(), Status: attModel.StatusPresent}, // bukan anggota kelas
	}, fx.teacherActor())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, fx.budi, records[0].AttendanceStudentID)
}

func TestBulkRecord_SkipsExistingRecords(t *testing.T) {
	fx := newFixture(t, true)

	existing, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.citra,
		Status:    attModel.StatusSick,
		Note:      strptr("demam"),
	}, fx.teacherActor())
	require.NoError(t, err)

	records, err := fx.recorder.BulkRecord(context.Background(), fx.session, []BulkMark{
		{StudentID: fx.budi, Status: attModel.StatusPresent},
		{StudentID: fx.citra, Status: attModel.StatusPresent}, // sudah ada, dilewati
	}, fx.teacherActor())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, fx.budi, records[0].AttendanceStudentID)

	// record citra tidak tertimpa
	got, _ := fx.store.RecordByID(context.Background(), existing.AttendanceID)
	assert.Equal(t, attModel.StatusSick, got.AttendanceStatus)
}

func TestBulkRecord_PayloadDuplicateInsertsOnce(t *testing.T) {
	fx := newFixture(t, true)

	records, err := fx.recorder.BulkRecord(context.Background(), fx.session, []BulkMark{
		{StudentID: fx.budi, Status: attModel.StatusPresent},
		{StudentID: fx.budi, Status: attModel.StatusSick, Note: strptr("demam")},
	}, fx.teacherActor())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attModel.StatusPresent, records[0].AttendanceStatus)
}

/* =========================================================
   SelfMark
   ========================================================= */

func TestSelfMark_ForcesPresent(t *testing.T) {
	fx := newFixture(t, true)

	rec, err := fx.recorder.SelfMark(context.Background(), fx.session, Actor{ID: fx.budi, Role: "STUDENT"})
	require.NoError(t, err)
	assert.Equal(t, attModel.StatusPresent, rec.AttendanceStatus)
	assert.Nil(t, rec.AttendanceNote)
	assert.Equal(t, fx.budi, rec.AttendanceCreatedByID)
}

func TestSelfMark_RejectsOutsiderAndDuplicate(t *testing.T) {
	fx := newFixture(t, true)

	_, err := fx.recorder.SelfMark(context.Background(), fx.session, Actor{ID: uuid.New(), Role: "STUDENT"})
	assert.ErrorIs(t, err, ErrStudentNotInClass)

	_, err = fx.recorder.SelfMark(context.Background(), fx.session, Actor{ID: fx.budi, Role: "STUDENT"})
	require.NoError(t, err)
	_, err = fx.recorder.SelfMark(context.Background(), fx.session, Actor{ID: fx.budi, Role: "STUDENT"})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestSelfMark_RejectsClosedSession(t *testing.T) {
	fx := newFixture(t, false)

	_, err := fx.recorder.SelfMark(context.Background(), fx.session, Actor{ID: fx.budi, Role: "STUDENT"})
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

/* =========================================================
   Amend
   ========================================================= */

func TestAmend_CorrectsBackfilledAbsent(t *testing.T) {
	fx := newFixture(t, true)

	rec, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusAbsent,
	}, fx.teacherActor())
	require.NoError(t, err)

	// session keburu tutup; koreksi tetap boleh
	fx.guard.sessions[fx.session].AttendanceSessionIsActive = false

	got, err := fx.recorder.Amend(context.Background(), rec.AttendanceID, AmendInput{
		Status: attModel.StatusSick,
		Note:   strptr("surat dokter menyusul"),
	}, fx.teacherActor())
	require.NoError(t, err)
	assert.Equal(t, attModel.StatusSick, got.AttendanceStatus)
	require.NotNil(t, got.AttendanceNote)
	assert.Equal(t, "surat dokter menyusul", *got.AttendanceNote)
}

func TestAmend_NoteRuleStillApplies(t *testing.T) {
	fx := newFixture(t, true)

	rec, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	require.NoError(t, err)

	_, err = fx.recorder.Amend(context.Background(), rec.AttendanceID, AmendInput{
		Status: attModel.StatusExcused,
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrNoteRequired)
}

func TestAmend_OwnerOnlyAndNotFound(t *testing.T) {
	fx := newFixture(t, true)

	rec, err := fx.recorder.Record(context.Background(), RecordInput{
		SessionID: fx.session,
		StudentID: fx.budi,
		Status:    attModel.StatusPresent,
	}, fx.teacherActor())
	require.NoError(t, err)

	_, err = fx.recorder.Amend(context.Background(), rec.AttendanceID, AmendInput{
		Status: attModel.StatusAbsent,
	}, Actor{ID: uuid.New(), Role: "TEACHER"})
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	_, err = fx.recorder.Amend(context.Background(), uuid.New(), AmendInput{
		Status: attModel.StatusAbsent,
	}, fx.teacherActor())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
