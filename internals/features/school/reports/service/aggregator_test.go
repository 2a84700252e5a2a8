// file: internals/features/school/reports/service/aggregator_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/features/school/reports/dto"
	rosterSvc "sekolahku_backend/internals/features/school/teaching/service"
)

/* =========================================================
   In-memory fakes
   ========================================================= */

type fakeStore struct {
	classes         map[uuid.UUID]*ClassInfo
	subjects        map[uuid.UUID][]Subject // by class
	classScores     map[uuid.UUID][]ScoreRow
	teachingScores  map[uuid.UUID][]ScoreRow
	classTallies    map[uuid.UUID][]TallyRow
	teachingTallies map[uuid.UUID][]TallyRow
}

func (f *fakeStore) ClassInfo(_ context.Context, classID uuid.UUID) (*ClassInfo, error) {
	return f.classes[classID], nil
}
func (f *fakeStore) SubjectsForClass(_ context.Context, classID uuid.UUID) ([]Subject, error) {
	return f.subjects[classID], nil
}
func (f *fakeStore) ScoresForClass(_ context.Context, classID uuid.UUID) ([]ScoreRow, error) {
	return f.classScores[classID], nil
}
func (f *fakeStore) ScoresForTeaching(_ context.Context, teachingID uuid.UUID) ([]ScoreRow, error) {
	return f.teachingScores[teachingID], nil
}
func (f *fakeStore) AttendanceTalliesForClass(_ context.Context, classID uuid.UUID) ([]TallyRow, error) {
	return f.classTallies[classID], nil
}
func (f *fakeStore) AttendanceTalliesForTeaching(_ context.Context, teachingID uuid.UUID) ([]TallyRow, error) {
	return f.teachingTallies[teachingID], nil
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
	roster   *fakeRoster
	agg      *Aggregator
	homeroom uuid.UUID
	class    uuid.UUID
	mtk      uuid.UUID // matematika
	ipa      uuid.UUID
	budi     uuid.UUID
	citra    uuid.UUID
	dewi     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fx := &fixture{
		homeroom: uuid.New(),
		class:    uuid.New(),
		mtk:      uuid.New(),
		ipa:      uuid.New(),
		budi:     uuid.New(),
		citra:    uuid.New(),
		dewi:     uuid.New(),
	}
	fx.store = &fakeStore{
		classes: map[uuid.UUID]*ClassInfo{
			fx.class: {ClassID: fx.class, Name: "VII-A", Year: 2026, HomeroomTeacherID: &fx.homeroom},
		},
		subjects: map[uuid.UUID][]Subject{
			fx.class: {
				{ID: fx.ipa, Name: "IPA"},
				{ID: fx.mtk, Name: "Matematika"},
			},
		},
		classScores:     map[uuid.UUID][]ScoreRow{},
		teachingScores:  map[uuid.UUID][]ScoreRow{},
		classTallies:    map[uuid.UUID][]TallyRow{},
		teachingTallies: map[uuid.UUID][]TallyRow{},
	}
	fx.roster = &fakeRoster{
		teachings: map[uuid.UUID]*rosterSvc.Teaching{},
		rosters: map[uuid.UUID][]rosterSvc.Student{
			fx.class: {
				{ID: fx.budi, Name: "Budi"},
				{ID: fx.citra, Name: "Citra"},
				{ID: fx.dewi, Name: "Dewi"},
			},
		},
	}
	fx.agg = NewAggregator(fx.store, fx.roster)
	return fx
}

func (fx *fixture) homeroomActor() Actor { return Actor{ID: fx.homeroom, Role: "TEACHER"} }

func rowFor(t *testing.T, report *dto.ClassSummaryReport, studentID uuid.UUID) dto.StudentSummaryRow {
	t.Helper()
	for _, r := range report.Students {
		if r.StudentID == studentID {
			return r
		}
	}
	t.Fatalf("student %s tidak ada di report", studentID)
	return dto.StudentSummaryRow{}
}

/* =========================================================
   Grade banding
   ========================================================= */

func TestToGrade_Bands(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{100, "A"}, {85, "A"},
		{84, "B"}, {70, "B"},
		{69, "C"}, {60, "C"}, {55, "C"},
		{54, "D"}, {0, "D"},
	}
	for _, tc := range cases {
		got := toGrade(&tc.avg)
		require.NotNil(t, got)
		assert.Equal(t, tc.want, *got, "avg=%v", tc.avg)
	}
	assert.Nil(t, toGrade(nil))
}

/* =========================================================
   Class summary
   ========================================================= */

func TestClassSummary_AveragesGradesAndRanks(t *testing.T) {
	fx := newFixture(t)

	fx.store.classScores[fx.class] = []ScoreRow{
		{StudentID: fx.budi, SubjectID: fx.mtk, Score: 80},
		{StudentID: fx.budi, SubjectID: fx.mtk, Score: 90},
		{StudentID: fx.budi, SubjectID: fx.ipa, Score: 85},
		{StudentID: fx.citra, SubjectID: fx.mtk, Score: 60},
	}
	fx.store.classTallies[fx.class] = []TallyRow{
		{StudentID: fx.budi, Status: attModel.StatusPresent, Count: 10},
		{StudentID: fx.budi, Status: attModel.StatusSick, Count: 1},
		{StudentID: fx.citra, Status: attModel.StatusAbsent, Count: 3},
	}

	report, err := fx.agg.ClassSummary(context.Background(), fx.class, fx.homeroomActor())
	require.NoError(t, err)
	require.Len(t, report.Students, 3)

	budi := rowFor(t, report, fx.budi)
	require.NotNil(t, budi.OverallAverage)
	assert.InDelta(t, 85, *budi.OverallAverage, 0.001) // (85 + 85) / 2
	require.NotNil(t, budi.Grade)
	assert.Equal(t, "A", *budi.Grade)
	require.NotNil(t, budi.Rank)
	assert.Equal(t, 1, *budi.Rank)
	assert.Equal(t, dto.AttendanceTally{Present: 10, Sick: 1}, budi.Attendance)

	citra := rowFor(t, report, fx.citra)
	require.NotNil(t, citra.OverallAverage)
	assert.InDelta(t, 60, *citra.OverallAverage, 0.001) // IPA kosong tidak ikut
	require.NotNil(t, citra.Grade)
	assert.Equal(t, "C", *citra.Grade)
	require.NotNil(t, citra.Rank)
	assert.Equal(t, 2, *citra.Rank)
	assert.Equal(t, dto.AttendanceTally{Absent: 3}, citra.Attendance)

	// kolom mapel: rata-rata kelas dari student yang punya nilai saja
	for _, col := range report.Subjects {
		switch col.SubjectID {
		case fx.mtk:
			require.NotNil(t, col.ClassAverage)
			assert.InDelta(t, 73, *col.ClassAverage, 0.001) // round((85 + 60) / 2)
			assert.Equal(t, "B", *col.ClassGrade)
		case fx.ipa:
			require.NotNil(t, col.ClassAverage)
			assert.InDelta(t, 85, *col.ClassAverage, 0.001)
			assert.Equal(t, "A", *col.ClassGrade)
		}
	}

	// Dewi tanpa nilai sama sekali: semuanya null, tanpa rank
	dewi := rowFor(t, report, fx.dewi)
	assert.Nil(t, dewi.OverallAverage)
	assert.Nil(t, dewi.Grade)
	assert.Nil(t, dewi.Rank)
	for _, sa := range dewi.SubjectAverages {
		assert.Nil(t, sa.Average)
	}
}

func TestClassSummary_UngradedSubjectDoesNotDragAverage(t *testing.T) {
	fx := newFixture(t)

	// hanya matematika yang dinilai: overall harus 90, bukan 45
	fx.store.classScores[fx.class] = []ScoreRow{
		{StudentID: fx.budi, SubjectID: fx.mtk, Score: 90},
	}

	report, err := fx.agg.ClassSummary(context.Background(), fx.class, fx.homeroomActor())
	require.NoError(t, err)

	budi := rowFor(t, report, fx.budi)
	require.NotNil(t, budi.OverallAverage)
	assert.InDelta(t, 90, *budi.OverallAverage, 0.001)
	require.NotNil(t, budi.Grade)
	assert.Equal(t, "A", *budi.Grade)

	// mapel tanpa nilai sama sekali: kolom kelasnya juga null
	for _, col := range report.Subjects {
		if col.SubjectID == fx.ipa {
			assert.Nil(t, col.ClassAverage)
			assert.Nil(t, col.ClassGrade)
		}
	}
}

func TestClassSummary_TiesKeepRosterOrder(t *testing.T) {
	fx := newFixture(t)

	fx.store.classScores[fx.class] = []ScoreRow{
		{StudentID: fx.budi, SubjectID: fx.mtk, Score: 75},
		{StudentID: fx.citra, SubjectID: fx.mtk, Score: 75},
		{StudentID: fx.dewi, SubjectID: fx.mtk, Score: 90},
	}

	report, err := fx.agg.ClassSummary(context.Background(), fx.class, fx.homeroomActor())
	require.NoError(t, err)

	assert.Equal(t, 1, *rowFor(t, report, fx.dewi).Rank)
	assert.Equal(t, 2, *rowFor(t, report, fx.budi).Rank)  // seri, Budi lebih dulu di roster
	assert.Equal(t, 3, *rowFor(t, report, fx.citra).Rank)
}

func TestClassSummary_Authorization(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.agg.ClassSummary(context.Background(), fx.class, Actor{ID: uuid.New(), Role: "TEACHER"})
	assert.ErrorIs(t, err, ErrNotHomeroom)

	_, err = fx.agg.ClassSummary(context.Background(), fx.class, Actor{ID: uuid.New(), Role: "ADMIN"})
	assert.NoError(t, err)

	_, err = fx.agg.ClassSummary(context.Background(), uuid.New(), fx.homeroomActor())
	assert.ErrorIs(t, err, ErrClassNotFound)
}

/* =========================================================
   Subject grade report
   ========================================================= */

func TestSubjectGrades_PerTeaching(t *testing.T) {
	fx := newFixture(t)

	teacherID := uuid.New()
	teachingID := uuid.New()
	fx.roster.teachings[teachingID] = &rosterSvc.Teaching{
		ID: teachingID, TeacherID: teacherID, ClassID: fx.class, SubjectID: fx.mtk,
	}
	fx.store.teachingScores[teachingID] = []ScoreRow{
		{StudentID: fx.budi, SubjectID: fx.mtk, Score: 50},
		{StudentID: fx.budi, SubjectID: fx.mtk, Score: 58},
	}
	fx.store.teachingTallies[teachingID] = []TallyRow{
		{StudentID: fx.budi, Status: attModel.StatusPresent, Count: 7},
		{StudentID: fx.budi, Status: attModel.StatusExcused, Count: 2},
	}

	report, err := fx.agg.SubjectGrades(context.Background(), teachingID, Actor{ID: teacherID, Role: "TEACHER"})
	require.NoError(t, err)
	assert.Equal(t, fx.mtk, report.SubjectID)
	require.Len(t, report.Students, 3)

	var budi dto.StudentGradeRow
	for _, r := range report.Students {
		if r.StudentID == fx.budi {
			budi = r
		}
	}
	require.NotNil(t, budi.Average)
	assert.InDelta(t, 54, *budi.Average, 0.001)
	require.NotNil(t, budi.Grade)
	assert.Equal(t, "D", *budi.Grade)
	assert.Equal(t, dto.AttendanceTally{Present: 7, Excused: 2}, budi.Attendance)
}

func TestSubjectGrades_OwnerOnly(t *testing.T) {
	fx := newFixture(t)

	teachingID := uuid.New()
	fx.roster.teachings[teachingID] = &rosterSvc.Teaching{
		ID: teachingID, TeacherID: uuid.New(), ClassID: fx.class, SubjectID: fx.mtk,
	}

	_, err := fx.agg.SubjectGrades(context.Background(), teachingID, Actor{ID: uuid.New(), Role: "TEACHER"})
	assert.ErrorIs(t, err, ErrNotYourTeaching)

	_, err = fx.agg.SubjectGrades(context.Background(), teachingID, Actor{ID: uuid.New(), Role: "ADMIN"})
	assert.NoError(t, err)
}

func TestMean_RoundsToNearestInteger(t *testing.T) {
	got := mean([]float64{80, 85, 90.5})
	require.NotNil(t, got)
	assert.InDelta(t, 85, *got, 0.0001) // 85.1666... dibulatkan

	assert.Nil(t, mean(nil))
}

// Rata-rata 84.5 naik ke 85, jadi masuk band A — bukan turun ke B.
func TestMean_HalfPointRoundsUpAcrossGradeBand(t *testing.T) {
	got := mean([]float64{84, 85})
	require.NotNil(t, got)
	assert.InDelta(t, 85, *got, 0.0001)

	grade := toGrade(got)
	require.NotNil(t, grade)
	assert.Equal(t, "A", *grade)
}
