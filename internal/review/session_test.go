package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"gtd-review/internal/model"
)

func TestStartDailySession(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.Type != model.ReviewTypeDaily {
		t.Fatalf("expected daily session, got %q", session.Type)
	}
	if session.TotalSteps != 6 {
		t.Fatalf("expected 6 total steps, got %d", session.TotalSteps)
	}
	if session.CurrentStep != 0 {
		t.Fatalf("expected current step 0, got %d", session.CurrentStep)
	}
	if session.Status != model.SessionStatusActive {
		t.Fatalf("expected active status, got %q", session.Status)
	}
}

func TestStartWeeklySessionHasTenSteps(t *testing.T) {
	env := setupTest(t)

	session, _, err := env.manager.Start(context.Background(), model.ReviewTypeWeekly)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if session.TotalSteps != 10 {
		t.Fatalf("expected 10 total steps, got %d", session.TotalSteps)
	}
}

func TestStartJoinsOpenSession(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	first, created, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if !created {
		t.Fatalf("expected first Start to report creation")
	}
	second, created, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected second Start to join session %s, got %s", first.ID, second.ID)
	}
	if created {
		t.Fatalf("joining an open session must not report creation")
	}

	// Joining ignores the requested type too: one session at a time, period.
	third, created, err := env.manager.Start(ctx, model.ReviewTypeWeekly)
	if err != nil {
		t.Fatalf("third Start failed: %v", err)
	}
	if third.ID != first.ID {
		t.Fatalf("expected weekly Start to join open daily session")
	}
	if created {
		t.Fatalf("weekly join must not report creation")
	}
}

func TestStartRejectsUnknownType(t *testing.T) {
	env := setupTest(t)
	if _, _, err := env.manager.Start(context.Background(), "monthly"); err == nil {
		t.Fatalf("expected error for unknown review type")
	}
}

func TestPauseResume(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	paused, err := env.manager.Pause(ctx, session.ID)
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if paused.Status != model.SessionStatusPaused {
		t.Fatalf("expected paused, got %q", paused.Status)
	}

	// Pausing again is a no-op.
	again, err := env.manager.Pause(ctx, session.ID)
	if err != nil {
		t.Fatalf("second Pause failed: %v", err)
	}
	if again.Status != model.SessionStatusPaused {
		t.Fatalf("expected paused after no-op, got %q", again.Status)
	}

	resumed, err := env.manager.Resume(ctx, session.ID)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.Status != model.SessionStatusActive {
		t.Fatalf("expected active, got %q", resumed.Status)
	}
}

func TestPauseUnknownSession(t *testing.T) {
	env := setupTest(t)
	if _, err := env.manager.Pause(context.Background(), "nope"); !errors.Is(err, ErrNoSuchSession) {
		t.Fatalf("expected ErrNoSuchSession, got %v", err)
	}
}

func TestDailyHappyPath(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i, kind := range StepsFor(model.ReviewTypeDaily) {
		session, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{Kind: kind})
		if err != nil {
			t.Fatalf("CompleteStep %q failed: %v", kind, err)
		}
		if session.CurrentStep != i+1 {
			t.Fatalf("after step %q expected current step %d, got %d", kind, i+1, session.CurrentStep)
		}
	}
	if session.CurrentStep != 6 {
		t.Fatalf("expected current step 6, got %d", session.CurrentStep)
	}

	record, err := env.manager.Complete(ctx, session.ID, "done")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if record.Type != model.ReviewTypeDaily {
		t.Fatalf("expected daily review record, got %q", record.Type)
	}
	if record.Notes != "done" {
		t.Fatalf("expected notes to carry over, got %q", record.Notes)
	}
	if record.TasksReviewed != 6 {
		t.Fatalf("expected 6 step payloads counted, got %d", record.TasksReviewed)
	}

	open, err := env.manager.Open(ctx)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if open != nil {
		t.Fatalf("expected no open session after completion, got %s", open.ID)
	}
}

func TestCompleteStepRejectsOutOfOrder(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Session expects the welcome step first.
	_, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{Kind: model.StepPlanning})
	if !errors.Is(err, ErrStepMismatch) {
		t.Fatalf("expected ErrStepMismatch, got %v", err)
	}

	// A step from the other review type is rejected outright.
	_, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{Kind: model.StepMindSweep})
	if !errors.Is(err, ErrStepMismatch) {
		t.Fatalf("expected ErrStepMismatch for foreign step, got %v", err)
	}
}

func TestCompleteStepResubmission(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	session, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{Kind: model.StepWelcome, Notes: "first"})
	if err != nil {
		t.Fatalf("CompleteStep failed: %v", err)
	}
	if session.CurrentStep != 1 {
		t.Fatalf("expected step 1, got %d", session.CurrentStep)
	}

	// Resubmitting the finished step replaces its payload without advancing.
	session, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{Kind: model.StepWelcome, Notes: "second"})
	if err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if session.CurrentStep != 1 {
		t.Fatalf("resubmission must not advance: got step %d", session.CurrentStep)
	}
	if got := session.Data()[model.StepWelcome].Notes; got != "second" {
		t.Fatalf("expected overwritten payload, got notes %q", got)
	}
	if steps := session.Steps(); len(steps) != 1 {
		t.Fatalf("expected 1 completed step entry, got %d", len(steps))
	}
}

func TestCompleteStepValidatesPayload(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Welcome takes notes only; task lists are not allowed.
	_, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{
		Kind:          model.StepWelcome,
		TasksReviewed: []uint{1, 2},
	})
	if !errors.Is(err, ErrStepMismatch) {
		t.Fatalf("expected ErrStepMismatch for invalid payload, got %v", err)
	}
}

func TestDurationMinutes(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	env.manager.now = func() time.Time { return start }

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	env.manager.now = func() time.Time { return start.Add(10 * time.Minute) }
	record, err := env.manager.Complete(ctx, session.ID, "")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if record.DurationMinutes != 10 {
		t.Fatalf("expected 10 minutes, got %d", record.DurationMinutes)
	}
}

func TestAbandonLeavesNoReview(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := env.manager.Abandon(ctx, session.ID); err != nil {
		t.Fatalf("Abandon failed: %v", err)
	}

	got, err := env.manager.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != model.SessionStatusAbandoned {
		t.Fatalf("expected abandoned, got %q", got.Status)
	}

	reviews, err := env.reviews.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("expected no review records after abandon, got %d", len(reviews))
	}

	// A closed session accepts no further operations.
	if _, err := env.manager.Resume(ctx, session.ID); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestCompleteExactlyOnce(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.manager.Complete(ctx, session.ID, ""); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := env.manager.Complete(ctx, session.ID, ""); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on double complete, got %v", err)
	}

	reviews, err := env.reviews.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected exactly 1 review record, got %d", len(reviews))
	}
}

func TestCompleteUpdatesMetrics(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	env.manager.now = func() time.Time { return now }

	session, _, err := env.manager.Start(ctx, model.ReviewTypeDaily)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session, err = env.manager.CompleteStep(ctx, session.ID, model.StepPayload{Kind: model.StepWelcome})
	if err != nil {
		t.Fatalf("CompleteStep failed: %v", err)
	}
	if _, err := env.manager.Complete(ctx, session.ID, ""); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	row, err := env.metrics.FindByDate(ctx, now)
	if err != nil {
		t.Fatalf("FindByDate failed: %v", err)
	}
	if row == nil {
		t.Fatalf("expected a metrics row for the day")
	}
	if row.DailyReviewsCompleted != 1 {
		t.Fatalf("expected 1 daily review counted, got %d", row.DailyReviewsCompleted)
	}
}
