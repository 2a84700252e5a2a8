// file: internals/features/school/reports/dto/report_dto.go
package dto

import "github.com/google/uuid"

// SubjectColumn: kolom mata pelajaran pada class summary, berikut rata-rata
// dan grade satu kelas untuk mapel itu (null bila belum ada nilai).
type SubjectColumn struct {
	SubjectID    uuid.UUID `json:"subject_id"`
	Name         string    `json:"name"`
	ClassAverage *float64  `json:"class_average"`
	ClassGrade   *string   `json:"class_grade"`
}

// SubjectAverage: rata-rata satu mata pelajaran untuk satu student.
// Average null = belum ada nilai; dibedakan dari nol.
type SubjectAverage struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Average   *float64  `json:"average"`
}

// StudentSummaryRow: satu baris student pada class summary.
type StudentSummaryRow struct {
	StudentID       uuid.UUID        `json:"student_id"`
	Name            string           `json:"name"`
	SubjectAverages []SubjectAverage `json:"subject_averages"`
	OverallAverage  *float64         `json:"overall_average"`
	Grade           *string          `json:"grade"`
	Rank            *int             `json:"rank"`
	Attendance      AttendanceTally  `json:"attendance"`
}

// AttendanceTally: rekap kehadiran per status.
type AttendanceTally struct {
	Present int `json:"present"`
	Excused int `json:"excused"`
	Sick    int `json:"sick"`
	Absent  int `json:"absent"`
}

// ClassSummaryReport: rapor ringkas satu kelas (surface wali kelas/admin).
type ClassSummaryReport struct {
	ClassID   uuid.UUID           `json:"class_id"`
	ClassName string              `json:"class_name"`
	ClassYear int                 `json:"class_year"`
	Subjects  []SubjectColumn     `json:"subjects"`
	Students  []StudentSummaryRow `json:"students"`
}

// StudentGradeRow: satu baris student pada subject grade report.
type StudentGradeRow struct {
	StudentID  uuid.UUID       `json:"student_id"`
	Name       string          `json:"name"`
	Average    *float64        `json:"average"`
	Grade      *string         `json:"grade"`
	Attendance AttendanceTally `json:"attendance"`
}

// SubjectGradeReport: nilai satu mata pelajaran untuk satu teaching assignment.
type SubjectGradeReport struct {
	TeachingID uuid.UUID         `json:"teaching_id"`
	SubjectID  uuid.UUID         `json:"subject_id"`
	ClassID    uuid.UUID         `json:"class_id"`
	Students   []StudentGradeRow `json:"students"`
}
