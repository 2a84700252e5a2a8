// file: internals/features/school/reports/service/aggregator.go
package service

import (
	"context"
	"math"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	attModel "sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/features/school/reports/dto"
	rosterSvc "sekolahku_backend/internals/features/school/teaching/service"
)

var (
	ErrClassNotFound   = fiber.NewError(fiber.StatusNotFound, "Kelas tidak ditemukan")
	ErrNotHomeroom     = fiber.NewError(fiber.StatusForbidden, "Bukan wali kelas ini")
	ErrNotYourTeaching = fiber.NewError(fiber.StatusForbidden, "Bukan teaching assignment Anda")
)

/* =========================================================
   Dependencies
   ========================================================= */

type ClassInfo struct {
	ClassID           uuid.UUID
	Name              string
	Year              int
	HomeroomTeacherID *uuid.UUID
}

type Subject struct {
	ID   uuid.UUID
	Name string
}

// ScoreRow: satu nilai graded (score null tidak pernah sampai ke sini).
type ScoreRow struct {
	StudentID uuid.UUID
	SubjectID uuid.UUID
	Score     float64
}

// TallyRow: jumlah record presensi per (student, status).
type TallyRow struct {
	StudentID uuid.UUID
	Status    attModel.AttendanceStatus
	Count     int
}

type Store interface {
	ClassInfo(ctx context.Context, classID uuid.UUID) (*ClassInfo, error)
	SubjectsForClass(ctx context.Context, classID uuid.UUID) ([]Subject, error)
	ScoresForClass(ctx context.Context, classID uuid.UUID) ([]ScoreRow, error)
	ScoresForTeaching(ctx context.Context, teachingID uuid.UUID) ([]ScoreRow, error)
	AttendanceTalliesForClass(ctx context.Context, classID uuid.UUID) ([]TallyRow, error)
	AttendanceTalliesForTeaching(ctx context.Context, teachingID uuid.UUID) ([]TallyRow, error)
}

type RosterProvider interface {
	ClassRoster(ctx context.Context, classID uuid.UUID) ([]rosterSvc.Student, error)
	TeachingByID(ctx context.Context, teachingID uuid.UUID) (*rosterSvc.Teaching, error)
}

type Actor struct {
	ID   uuid.UUID
	Role string
}

// Aggregator merangkai rapor kelas dan laporan nilai per mata pelajaran
// dari data nilai + presensi. Semua agregasi dilakukan di memori supaya
// semantik null-bukan-nol konsisten di kedua laporan.
type Aggregator struct {
	store  Store
	roster RosterProvider
}

func NewAggregator(store Store, roster RosterProvider) *Aggregator {
	return &Aggregator{store: store, roster: roster}
}

/* =========================================================
   Class summary
   ========================================================= */

// ClassSummary: rapor satu kelas untuk wali kelas (atau admin).
func (a *Aggregator) ClassSummary(ctx context.Context, classID uuid.UUID, actor Actor) (*dto.ClassSummaryReport, error) {
	info, err := a.store.ClassInfo(ctx, classID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrClassNotFound
	}
	if actor.Role != "ADMIN" {
		if info.HomeroomTeacherID == nil || *info.HomeroomTeacherID != actor.ID {
			return nil, ErrNotHomeroom
		}
	}

	roster, err := a.roster.ClassRoster(ctx, classID)
	if err != nil {
		return nil, err
	}
	subjects, err := a.store.SubjectsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	scores, err := a.store.ScoresForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	tallies, err := a.store.AttendanceTalliesForClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	report := buildClassSummary(info, roster, subjects, scores, tallies)
	return report, nil
}

// buildClassSummary: murni, tanpa IO.
func buildClassSummary(info *ClassInfo, roster []rosterSvc.Student, subjects []Subject, scores []ScoreRow, tallies []TallyRow) *dto.ClassSummaryReport {
	// (student, subject) → kumpulan nilai
	type key struct{ student, subject uuid.UUID }
	scoresByKey := map[key][]float64{}
	for _, s := range scores {
		k := key{s.StudentID, s.SubjectID}
		scoresByKey[k] = append(scoresByKey[k], s.Score)
	}
	tallyByStudent := tallyMap(tallies)

	// rata-rata kelas per mapel = mean dari rata-rata student yang punya nilai
	classAvgInputs := make(map[uuid.UUID][]float64, len(subjects))

	rows := make([]dto.StudentSummaryRow, 0, len(roster))
	for _, st := range roster {
		subjectAvgs := make([]dto.SubjectAverage, 0, len(subjects))
		var present []float64
		for _, sub := range subjects {
			avg := mean(scoresByKey[key{st.ID, sub.ID}])
			subjectAvgs = append(subjectAvgs, dto.SubjectAverage{SubjectID: sub.ID, Average: avg})
			if avg != nil {
				present = append(present, *avg)
				classAvgInputs[sub.ID] = append(classAvgInputs[sub.ID], *avg)
			}
		}
		// overall = rata-rata subject yang PUNYA nilai; subject kosong
		// tidak menyeret rata-rata ke bawah
		overall := mean(present)

		rows = append(rows, dto.StudentSummaryRow{
			StudentID:       st.ID,
			Name:            st.Name,
			SubjectAverages: subjectAvgs,
			OverallAverage:  overall,
			Grade:           toGrade(overall),
			Attendance:      tallyByStudent[st.ID],
		})
	}

	assignRanks(rows)

	columns := make([]dto.SubjectColumn, 0, len(subjects))
	for _, s := range subjects {
		classAvg := mean(classAvgInputs[s.ID])
		columns = append(columns, dto.SubjectColumn{
			SubjectID:    s.ID,
			Name:         s.Name,
			ClassAverage: classAvg,
			ClassGrade:   toGrade(classAvg),
		})
	}

	return &dto.ClassSummaryReport{
		ClassID:   info.ClassID,
		ClassName: info.Name,
		ClassYear: info.Year,
		Subjects:  columns,
		Students:  rows,
	}
}

// assignRanks: rank 1-based menurun atas overall average; student tanpa
// overall tidak diberi rank. Nilai sama → urutan roster yang menang (stabil).
func assignRanks(rows []dto.StudentSummaryRow) {
	idx := make([]int, 0, len(rows))
	for i := range rows {
		if rows[i].OverallAverage != nil {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return *rows[idx[a]].OverallAverage > *rows[idx[b]].OverallAverage
	})
	for rank, i := range idx {
		r := rank + 1
		rows[i].Rank = &r
	}
}

/* =========================================================
   Subject grade report
   ========================================================= */

// SubjectGrades: nilai + presensi satu teaching assignment untuk teacher
// pengampunya (atau admin).
func (a *Aggregator) SubjectGrades(ctx context.Context, teachingID uuid.UUID, actor Actor) (*dto.SubjectGradeReport, error) {
	teaching, err := a.roster.TeachingByID(ctx, teachingID)
	if err != nil {
		if err == rosterSvc.ErrTeachingNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Teaching assignment tidak ditemukan")
		}
		return nil, err
	}
	if actor.Role != "ADMIN" && teaching.TeacherID != actor.ID {
		return nil, ErrNotYourTeaching
	}

	roster, err := a.roster.ClassRoster(ctx, teaching.ClassID)
	if err != nil {
		return nil, err
	}
	scores, err := a.store.ScoresForTeaching(ctx, teachingID)
	if err != nil {
		return nil, err
	}
	tallies, err := a.store.AttendanceTalliesForTeaching(ctx, teachingID)
	if err != nil {
		return nil, err
	}

	scoresByStudent := map[uuid.UUID][]float64{}
	for _, s := range scores {
		scoresByStudent[s.StudentID] = append(scoresByStudent[s.StudentID], s.Score)
	}
	tallyByStudent := tallyMap(tallies)

	rows := make([]dto.StudentGradeRow, 0, len(roster))
	for _, st := range roster {
		avg := mean(scoresByStudent[st.ID])
		rows = append(rows, dto.StudentGradeRow{
			StudentID:  st.ID,
			Name:       st.Name,
			Average:    avg,
			Grade:      toGrade(avg),
			Attendance: tallyByStudent[st.ID],
		})
	}

	return &dto.SubjectGradeReport{
		TeachingID: teaching.ID,
		SubjectID:  teaching.SubjectID,
		ClassID:    teaching.ClassID,
		Students:   rows,
	}, nil
}

/* =========================================================
   Shared helpers
   ========================================================= */

// mean: nil kalau tidak ada nilai ("belum dinilai" bukan nol),
// hasil dibulatkan ke bilangan bulat terdekat.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := math.Round(sum / float64(len(values)))
	return &avg
}

// toGrade: banding nilai huruf; nil masuk, nil keluar.
func toGrade(avg *float64) *string {
	if avg == nil {
		return nil
	}
	var g string
	switch {
	case *avg >= 85:
		g = "A"
	case *avg >= 70:
		g = "B"
	case *avg >= 55:
		g = "C"
	default:
		g = "D"
	}
	return &g
}

func tallyMap(tallies []TallyRow) map[uuid.UUID]dto.AttendanceTally {
	out := map[uuid.UUID]dto.AttendanceTally{}
	for _, t := range tallies {
		tally := out[t.StudentID]
		switch t.Status {
		case attModel.StatusPresent:
			tally.Present += t.Count
		case attModel.StatusExcused:
			tally.Excused += t.Count
		case attModel.StatusSick:
			tally.Sick += t.Count
		case attModel.StatusAbsent:
			tally.Absent += t.Count
		}
		out[t.StudentID] = tally
	}
	return out
}
