package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gtd-review/internal/model"
	"gtd-review/internal/repository"
)

// Manager drives review sessions through their lifecycle:
//
//	active ⇄ paused → completed
//	active/paused   → abandoned
//
// Sessions are addressed by ID; at most one open session exists at a time,
// enforced transactionally at the storage layer.
type Manager struct {
	sessions *repository.SessionRepository
	reviews  *repository.ReviewRepository
	metrics  *repository.MetricsRepository
	loader   *Loader
	now      func() time.Time
}

func NewManager(sessions *repository.SessionRepository, reviews *repository.ReviewRepository, metrics *repository.MetricsRepository, loader *Loader) *Manager {
	return &Manager{
		sessions: sessions,
		reviews:  reviews,
		metrics:  metrics,
		loader:   loader,
		now:      time.Now,
	}
}

// Start opens a new session of the given type, or returns the already-open
// session when one exists (joining never runs two sessions concurrently).
// The second result reports whether a session was actually created, so
// callers can tell a fresh session from a join. The matching data loader is
// warmed best-effort in either case.
func (m *Manager) Start(ctx context.Context, reviewType model.ReviewType) (*model.ReviewSession, bool, error) {
	if reviewType != model.ReviewTypeDaily && reviewType != model.ReviewTypeWeekly {
		return nil, false, fmt.Errorf("unknown review type %q", reviewType)
	}

	now := m.now()
	session := &model.ReviewSession{
		ID:             uuid.NewString(),
		Type:           reviewType,
		Status:         model.SessionStatusActive,
		CurrentStep:    0,
		TotalSteps:     TotalSteps(reviewType),
		CompletedSteps: "[]",
		SessionData:    "{}",
		StartedAt:      now,
		UpdatedAt:      now,
	}

	created := true
	err := m.sessions.Create(ctx, session)
	switch {
	case errors.Is(err, repository.ErrSessionAlreadyOpen):
		open, ferr := m.sessions.FindOpen(ctx)
		if ferr != nil {
			return nil, false, ferr
		}
		if open == nil {
			// The open session closed between the check and the re-read.
			return nil, false, fmt.Errorf("start review: %w", err)
		}
		session = open
		created = false
	case err != nil:
		return nil, false, fmt.Errorf("start review: %w", err)
	}

	m.warmLoader(ctx, session.Type)
	return session, created, nil
}

func (m *Manager) warmLoader(ctx context.Context, reviewType model.ReviewType) {
	if m.loader == nil {
		return
	}
	var err error
	if reviewType == model.ReviewTypeWeekly {
		_, err = m.loader.LoadWeekly(ctx, m.now())
	} else {
		_, err = m.loader.LoadDaily(ctx, m.now())
	}
	if err != nil {
		log.Printf("[warn] preload %s review data: %v", reviewType, err)
	}
}

// Get loads one session by ID.
func (m *Manager) Get(ctx context.Context, id string) (*model.ReviewSession, error) {
	session, err := m.sessions.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSuchSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Open returns the currently open session, or nil when there is none.
func (m *Manager) Open(ctx context.Context) (*model.ReviewSession, error) {
	return m.sessions.FindOpen(ctx)
}

// Pause moves an active session to paused. Pausing a paused session is a
// no-op returning the session as is.
func (m *Manager) Pause(ctx context.Context, id string) (*model.ReviewSession, error) {
	return m.setStatus(ctx, id, model.SessionStatusPaused)
}

// Resume moves a paused session back to active.
func (m *Manager) Resume(ctx context.Context, id string) (*model.ReviewSession, error) {
	return m.setStatus(ctx, id, model.SessionStatusActive)
}

func (m *Manager) setStatus(ctx context.Context, id string, status model.SessionStatus) (*model.ReviewSession, error) {
	session, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Open() {
		return nil, ErrSessionClosed
	}
	if session.Status == status {
		return session, nil
	}
	session.Status = status
	if err := m.sessions.Update(ctx, session, m.now()); err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteStep records the payload for the session's current step and
// advances it. The payload's kind must match the step the session expects;
// a kind matching an already-completed step overwrites that step's payload
// without advancing.
func (m *Manager) CompleteStep(ctx context.Context, id string, payload model.StepPayload) (*model.ReviewSession, error) {
	session, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Open() {
		return nil, ErrSessionClosed
	}
	if err := ValidatePayload(session.Type, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStepMismatch, err)
	}

	steps := StepsFor(session.Type)
	idx := stepIndex(session.Type, payload.Kind)
	data := session.Data()

	switch {
	case session.CurrentStep < len(steps) && payload.Kind == steps[session.CurrentStep]:
		completed := append(session.Steps(), payload.Kind)
		if err := session.SetSteps(completed); err != nil {
			return nil, err
		}
		data[payload.Kind] = payload
		session.CurrentStep++
	case idx < session.CurrentStep:
		// Resubmission of a finished step: replace its payload, stay put.
		data[payload.Kind] = payload
	default:
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrStepMismatch, steps[session.CurrentStep], payload.Kind)
	}

	if err := session.SetData(data); err != nil {
		return nil, err
	}
	if err := m.sessions.Update(ctx, session, m.now()); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete closes an open session, writes the immutable Review record and
// bumps the day's metrics. The metrics write is best-effort: a failure is
// logged but does not fail the completion.
func (m *Manager) Complete(ctx context.Context, id, notes string) (*model.Review, error) {
	session, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Open() {
		return nil, ErrSessionClosed
	}

	now := m.now()
	session.Status = model.SessionStatusCompleted
	session.CompletedAt = &now
	if err := m.sessions.Update(ctx, session, now); err != nil {
		return nil, err
	}

	data := session.Data()
	review := &model.Review{
		ID:               uuid.NewString(),
		Type:             session.Type,
		CompletedAt:      now,
		Notes:            notes,
		DurationMinutes:  int(math.Round(now.Sub(session.StartedAt).Minutes())),
		TasksReviewed:    len(data),
		ProjectsReviewed: len(data[model.StepProjectsReview].ProjectsTouched),
		ProgressData:     session.SessionData,
	}
	if err := m.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := m.metrics.Increment(ctx, now, deltaFor(session.Type, data)); err != nil {
		log.Printf("[warn] update review metrics: %v", err)
	}
	return review, nil
}

// Abandon closes an open session without writing a Review record.
func (m *Manager) Abandon(ctx context.Context, id string) error {
	session, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if !session.Open() {
		return ErrSessionClosed
	}
	session.Status = model.SessionStatusAbandoned
	return m.sessions.Update(ctx, session, m.now())
}

func deltaFor(reviewType model.ReviewType, data map[model.StepKind]model.StepPayload) repository.MetricsDelta {
	delta := repository.MetricsDelta{}
	if reviewType == model.ReviewTypeWeekly {
		delta.WeeklyReviews = 1
	} else {
		delta.DailyReviews = 1
	}
	for _, payload := range data {
		delta.TasksCompleted += len(payload.TasksCompleted)
		delta.ProjectsUpdated += len(payload.ProjectsTouched)
		delta.InboxProcessed += payload.InboxProcessed
	}
	return delta
}
