// file: internals/features/school/assignments/controller/assignment_controller_test.go
package controller

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/school/assignments/model"
)

func publishedAssignment(dueAt *time.Time) *model.AssignmentModel {
	return &model.AssignmentModel{
		AssignmentStatus: model.AssignmentStatusPublished,
		AssignmentDueAt:  dueAt,
	}
}

func TestSubmissionWindowOpen_BeforeDueDate(t *testing.T) {
	due := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	asg := publishedAssignment(&due)

	assert.NoError(t, submissionWindowOpen(asg, due.Add(-time.Hour)))
}

func TestSubmissionWindowOpen_ExactlyAtDueDateStillAccepted(t *testing.T) {
	due := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	asg := publishedAssignment(&due)

	assert.NoError(t, submissionWindowOpen(asg, due))
}

func TestSubmissionWindowOpen_RejectsAfterDueDate(t *testing.T) {
	due := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	asg := publishedAssignment(&due)

	err := submissionWindowOpen(asg, due.Add(time.Minute))
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestSubmissionWindowOpen_NoDueDateAlwaysOpen(t *testing.T) {
	asg := publishedAssignment(nil)

	assert.NoError(t, submissionWindowOpen(asg, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSubmissionWindowOpen_RejectsUnpublished(t *testing.T) {
	due := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	for _, status := range []string{model.AssignmentStatusDraft, model.AssignmentStatusClosed} {
		asg := &model.AssignmentModel{AssignmentStatus: status, AssignmentDueAt: &due}

		err := submissionWindowOpen(asg, due.Add(-time.Hour))
		require.Error(t, err, "status=%s", status)
		fe, ok := err.(*fiber.Error)
		require.True(t, ok)
		assert.Equal(t, fiber.StatusConflict, fe.Code)
	}
}
