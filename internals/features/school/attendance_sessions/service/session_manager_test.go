// file: internals/features/school/attendance_sessions/service/session_manager_test.go
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
	sessions map[uuid.UUID]*sessModel.AttendanceSessionModel
	records  map[uuid.UUID][]attModel.AttendanceRecordModel // by session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: map[uuid.UUID]*sessModel.AttendanceSessionModel{},
		records:  map[uuid.UUID][]attModel.AttendanceRecordModel{},
	}
}

func (f *fakeStore) SessionByID(_ context.Context, id uuid.UUID) (*sessModel.AttendanceSessionModel, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) SessionsByTeaching(_ context.Context, teachingID uuid.UUID) ([]sessModel.AttendanceSessionModel, error) {
	var out []sessModel.AttendanceSessionModel
	for _, s := range f.sessions {
		if s.AttendanceSessionTeachingID == teachingID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveSessionExists(_ context.Context, teachingID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	for _, s := range f.sessions {
		if excludeID != nil && s.AttendanceSessionID == *excludeID {
			continue
		}
		if s.AttendanceSessionTeachingID == teachingID && s.AttendanceSessionIsActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateSession(_ context.Context, m *sessModel.AttendanceSessionModel) error {
	if m.AttendanceSessionID == uuid.Nil {
		m.AttendanceSessionID = uuid.New()
	}
	cp := *m
	f.sessions[m.AttendanceSessionID] = &cp
	return nil
}

func (f *fakeStore) UpdateSessionFields(_ context.Context, id uuid.UUID, patch map[string]any) error {
	s, ok := f.sessions[id]
	if !ok {
		return nil
	}
	if v, ok := patch["attendance_session_name"]; ok {
		s.AttendanceSessionName = v.(string)
	}
	if v, ok := patch["attendance_session_open_at"]; ok {
		s.AttendanceSessionOpenAt = v.(time.Time)
	}
	if v, ok := patch["attendance_session_close_at"]; ok {
		s.AttendanceSessionCloseAt = v.(time.Time)
	}
	if v, ok := patch["attendance_session_is_active"]; ok {
		s.AttendanceSessionIsActive = v.(bool)
	}
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) RecordsBySession(_ context.Context, sessionID uuid.UUID) ([]attModel.AttendanceRecordModel, error) {
	return append([]attModel.AttendanceRecordModel(nil), f.records[sessionID]...), nil
}

func (f *fakeStore) CountRecordsBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	return int64(len(f.records[sessionID])), nil
}

func (f *fakeStore) InsertAbsentRecords(_ context.Context, records []attModel.AttendanceRecordModel) error {
	for _, r := range records {
		dup := false
		for _, existing := range f.records[r.AttendanceSessionID] {
			if existing.AttendanceStudentID == r.AttendanceStudentID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if r.AttendanceID == uuid.Nil {
			r.AttendanceID = uuid.New()
		}
		f.records[r.AttendanceSessionID] = append(f.records[r.AttendanceSessionID], r)
	}
	return nil
}

func (f *fakeStore) DeactivateSession(_ context.Context, sessionID uuid.UUID) error {
	if s, ok := f.sessions[sessionID]; ok {
		s.AttendanceSessionIsActive = false
	}
	return nil
}

func (f *fakeStore) Atomic(_ context.Context, fn func(tx Store) error) error {
	return fn(f)
}

type fakeRoster struct {
	teachings map[uuid.UUID]*rosterSvc.Teaching
	rosters   map[uuid.UUID][]rosterSvc.Student // by class
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
	store   *fakeStore
	mgr     *SessionManager
	teacher uuid.UUID
	class   uuid.UUID
	tchg    uuid.UUID
	budi    uuid.UUID
	citra   uuid.UUID
	dewi    uuid.UUID
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	fx := &fixture{
		store:   newFakeStore(),
		teacher: uuid.New(),
		class:   uuid.New(),
		tchg:    uuid.New(),
		budi:    uuid.New(),
		citra:   uuid.New(),
		dewi:    uuid.New(),
	}
	roster := &fakeRoster{
		teachings: map[uuid.UUID]*rosterSvc.Teaching{
			fx.tchg: {ID: fx.tchg, TeacherID: fx.teacher, ClassID: fx.class, SubjectID: uuid.New()},
		},
		rosters: map[uuid.UUID][]rosterSvc.Student{
			fx.class: {
				{ID: fx.budi, Name: "Budi"},
				{ID: fx.citra, Name: "Citra"},
				{ID: fx.dewi, Name: "Dewi"},
			},
		},
	}
	fx.mgr = NewSessionManager(fx.store, roster)
	fx.mgr.now = func() time.Time { return now }
	return fx
}

func (fx *fixture) setNow(now time.Time) {
	fx.mgr.now = func() time.Time { return now }
}

func (fx *fixture) markPresent(sessionID, studentID uuid.UUID) {
	fx.store.records[sessionID] = append(fx.store.records[sessionID], attModel.AttendanceRecordModel{
		AttendanceID:          uuid.New(),
		AttendanceSessionID:   sessionID,
		AttendanceStudentID:   studentID,
		AttendanceTeachingID:  fx.tchg,
		AttendanceStatus:      attModel.StatusPresent,
		AttendanceCreatedByID: fx.teacher,
	})
}

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

/* =========================================================
   Open
   ========================================================= */

func TestOpen_RejectsInvalidWindow(t *testing.T) {
	fx := newFixture(t, baseTime)

	_, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime, // open_at == close_at
	}, fx.teacher)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime.Add(time.Hour),
		CloseAt:    baseTime,
	}, fx.teacher)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestOpen_ActiveWhenWindowCoversNow(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)
	assert.True(t, sess.AttendanceSessionIsActive)
}

func TestOpen_InactiveWhenWindowInFuture(t *testing.T) {
	fx := newFixture(t, baseTime)

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika siang",
		OpenAt:     baseTime.Add(2 * time.Hour),
		CloseAt:    baseTime.Add(3 * time.Hour),
	}, fx.teacher)
	require.NoError(t, err)
	assert.False(t, sess.AttendanceSessionIsActive)
}

func TestOpen_ConflictWhenActiveSessionExists(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	_, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Sesi pertama",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	_, err = fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Sesi kedua",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(time.Hour),
	}, fx.teacher)
	assert.ErrorIs(t, err, ErrSessionConflict)
}

func TestOpen_FutureSessionDoesNotConflict(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	_, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Sesi pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	// window besok: tidak aktif sekarang, jadi tidak kena check
	_, err = fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Sesi besok",
		OpenAt:     baseTime.Add(24 * time.Hour),
		CloseAt:    baseTime.Add(25 * time.Hour),
	}, fx.teacher)
	assert.NoError(t, err)
}

func TestOpen_RejectsForeignTeaching(t *testing.T) {
	fx := newFixture(t, baseTime)

	_, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Sesi orang lain",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(time.Hour),
	}, uuid.New())
	assert.ErrorIs(t, err, ErrNotYourTeaching)
}

/* =========================================================
   Close + backfill
   ========================================================= */

func TestClose_BackfillsAbsentForUnrecordedStudents(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	fx.markPresent(sess.AttendanceSessionID, fx.budi)

	require.NoError(t, fx.mgr.Close(context.Background(), sess.AttendanceSessionID, fx.teacher))

	records := fx.store.records[sess.AttendanceSessionID]
	require.Len(t, records, 3)

	byStudent := map[uuid.UUID]attModel.AttendanceRecordModel{}
	for _, r := range records {
		byStudent[r.AttendanceStudentID] = r
	}
	assert.Equal(t, attModel.StatusPresent, byStudent[fx.budi].AttendanceStatus)
	assert.Equal(t, attModel.StatusAbsent, byStudent[fx.citra].AttendanceStatus)
	assert.Equal(t, attModel.StatusAbsent, byStudent[fx.dewi].AttendanceStatus)

	// backfill diattributkan ke penutup, tanpa note
	assert.Equal(t, fx.teacher, byStudent[fx.citra].AttendanceCreatedByID)
	assert.Nil(t, byStudent[fx.citra].AttendanceNote)

	assert.False(t, fx.store.sessions[sess.AttendanceSessionID].AttendanceSessionIsActive)
}

func TestClose_SecondCloseRejected(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	require.NoError(t, fx.mgr.Close(context.Background(), sess.AttendanceSessionID, fx.teacher))
	err = fx.mgr.Close(context.Background(), sess.AttendanceSessionID, fx.teacher)
	assert.ErrorIs(t, err, ErrSessionClosed)

	// backfill tidak dobel
	assert.Len(t, fx.store.records[sess.AttendanceSessionID], 3)
}

func TestClose_RejectsForeignSession(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	err = fx.mgr.Close(context.Background(), sess.AttendanceSessionID, uuid.New())
	assert.ErrorIs(t, err, ErrNotYourSession)
}

func TestForceClose_BypassesOwnership(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	admin := uuid.New()
	require.NoError(t, fx.mgr.ForceClose(context.Background(), sess.AttendanceSessionID, admin))

	records := fx.store.records[sess.AttendanceSessionID]
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, admin, r.AttendanceCreatedByID)
	}
}

/* =========================================================
   Lazy close
   ========================================================= */

// Sesi 09:00–09:30, dua dari tiga murid ditandai; jam 09:40 siapa pun yang
// membaca sesi melihatnya tertutup dengan satu ABSENT untuk murid ketiga.
func TestEnsureCurrent_ClosesOverdueSessionWithBackfill(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	fx.markPresent(sess.AttendanceSessionID, fx.budi)
	fx.markPresent(sess.AttendanceSessionID, fx.citra)

	fx.setNow(baseTime.Add(40 * time.Minute))

	got, err := fx.mgr.EnsureCurrent(context.Background(), sess.AttendanceSessionID)
	require.NoError(t, err)
	assert.False(t, got.AttendanceSessionIsActive)

	records := fx.store.records[sess.AttendanceSessionID]
	require.Len(t, records, 3)
	var absents int
	for _, r := range records {
		if r.AttendanceStatus == attModel.StatusAbsent {
			absents++
			assert.Equal(t, fx.dewi, r.AttendanceStudentID)
		}
	}
	assert.Equal(t, 1, absents)
}

func TestEnsureCurrent_LeavesOpenSessionUntouched(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	got, err := fx.mgr.EnsureCurrent(context.Background(), sess.AttendanceSessionID)
	require.NoError(t, err)
	assert.True(t, got.AttendanceSessionIsActive)
	assert.Empty(t, fx.store.records[sess.AttendanceSessionID])
}

func TestEnsureCurrent_NotFound(t *testing.T) {
	fx := newFixture(t, baseTime)

	_, err := fx.mgr.EnsureCurrent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

/* =========================================================
   Update
   ========================================================= */

func TestUpdate_RejectsInvalidWindow(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	badClose := baseTime.Add(-time.Hour)
	_, err = fx.mgr.Update(context.Background(), sess.AttendanceSessionID, UpdateInput{
		CloseAt: &badClose,
	}, fx.teacher)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	// state lama tidak tersentuh
	stored := fx.store.sessions[sess.AttendanceSessionID]
	assert.Equal(t, baseTime.Add(30*time.Minute), stored.AttendanceSessionCloseAt)
	assert.True(t, stored.AttendanceSessionIsActive)
}

func TestUpdate_ShrinkWindowDeactivates(t *testing.T) {
	fx := newFixture(t, baseTime.Add(20*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(time.Hour),
	}, fx.teacher)
	require.NoError(t, err)

	// geser seluruh window ke masa depan: session tidak lagi mencakup "sekarang"
	newOpen := baseTime.Add(2 * time.Hour)
	newClose := baseTime.Add(3 * time.Hour)
	got, err := fx.mgr.Update(context.Background(), sess.AttendanceSessionID, UpdateInput{
		OpenAt:  &newOpen,
		CloseAt: &newClose,
	}, fx.teacher)
	require.NoError(t, err)
	assert.False(t, got.AttendanceSessionIsActive)
}

func TestUpdate_RejectsClosedSession(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)
	require.NoError(t, fx.mgr.Close(context.Background(), sess.AttendanceSessionID, fx.teacher))

	name := "Ganti nama"
	_, err = fx.mgr.Update(context.Background(), sess.AttendanceSessionID, UpdateInput{Name: &name}, fx.teacher)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestUpdate_OverdueSessionLazyClosedFirst(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	fx.setNow(baseTime.Add(time.Hour))

	extend := baseTime.Add(2 * time.Hour)
	_, err = fx.mgr.Update(context.Background(), sess.AttendanceSessionID, UpdateInput{CloseAt: &extend}, fx.teacher)
	assert.ErrorIs(t, err, ErrSessionClosed)

	// lazy close sudah terjadi, lengkap dengan backfill
	assert.False(t, fx.store.sessions[sess.AttendanceSessionID].AttendanceSessionIsActive)
	assert.Len(t, fx.store.records[sess.AttendanceSessionID], 3)
}

/* =========================================================
   Detail & list
   ========================================================= */

func TestDetail_MergesRosterWithMarks(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	fx.markPresent(sess.AttendanceSessionID, fx.budi)

	detail, err := fx.mgr.Detail(context.Background(), sess.AttendanceSessionID, fx.teacher)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.TotalStudents)
	assert.Equal(t, 1, detail.Attended)
	require.Len(t, detail.Students, 3)

	for _, row := range detail.Students {
		if row.StudentID == fx.budi {
			require.NotNil(t, row.Status)
			assert.Equal(t, attModel.StatusPresent, *row.Status)
		} else {
			assert.Nil(t, row.Status)
		}
	}
}

func TestListByTeaching_ClosesOverdueBeforeListing(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	fx.setNow(baseTime.Add(time.Hour))

	summaries, err := fx.mgr.ListByTeaching(context.Background(), fx.tchg, fx.teacher)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].Session.AttendanceSessionIsActive)
	assert.Equal(t, int64(3), summaries[0].AttendedCount) // semua ABSENT hasil backfill
	assert.Equal(t, 3, summaries[0].TotalStudents)
	_ = sess
}

/* =========================================================
   Delete
   ========================================================= */

func TestDelete_OwnerOnly(t *testing.T) {
	fx := newFixture(t, baseTime.Add(5*time.Minute))

	sess, err := fx.mgr.Open(context.Background(), OpenInput{
		TeachingID: fx.tchg,
		Name:       "Matematika pagi",
		OpenAt:     baseTime,
		CloseAt:    baseTime.Add(30 * time.Minute),
	}, fx.teacher)
	require.NoError(t, err)

	err = fx.mgr.Delete(context.Background(), sess.AttendanceSessionID, uuid.New())
	assert.ErrorIs(t, err, ErrNotYourSession)

	require.NoError(t, fx.mgr.Delete(context.Background(), sess.AttendanceSessionID, fx.teacher))
	_, err = fx.mgr.EnsureCurrent(context.Background(), sess.AttendanceSessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
