// Package review implements the GTD review core: the session state machine,
// the daily/weekly data loaders, the analytics over review history, and the
// coaching prompt selector.
package review

import (
	"fmt"

	"gtd-review/internal/model"
)

// dailySteps is the checklist for a daily review, in order.
var dailySteps = []model.StepKind{
	model.StepWelcome,
	model.StepCalendarCheck,
	model.StepTaskTriage,
	model.StepWaitingForReview,
	model.StepPlanning,
	model.StepReflection,
}

// weeklySteps is the checklist for a weekly review, in order.
var weeklySteps = []model.StepKind{
	model.StepWelcome,
	model.StepMindSweep,
	model.StepInboxZero,
	model.StepCalendarCheck,
	model.StepNextActionsScan,
	model.StepWaitingForReview,
	model.StepProjectsReview,
	model.StepSomedayReview,
	model.StepCalendarAhead,
	model.StepReflection,
}

// StepsFor returns the ordered step checklist for a review type.
func StepsFor(reviewType model.ReviewType) []model.StepKind {
	if reviewType == model.ReviewTypeWeekly {
		return weeklySteps
	}
	return dailySteps
}

// TotalSteps returns the checklist length for a review type.
func TotalSteps(reviewType model.ReviewType) int {
	return len(StepsFor(reviewType))
}

// stepIndex returns the position of a step in the type's checklist, or -1.
func stepIndex(reviewType model.ReviewType, kind model.StepKind) int {
	for i, s := range StepsFor(reviewType) {
		if s == kind {
			return i
		}
	}
	return -1
}

// ValidatePayload checks that a step payload belongs to the review type and
// carries only fields its kind allows.
func ValidatePayload(reviewType model.ReviewType, payload model.StepPayload) error {
	if stepIndex(reviewType, payload.Kind) < 0 {
		return fmt.Errorf("step %q does not belong to a %s review", payload.Kind, reviewType)
	}
	switch payload.Kind {
	case model.StepWelcome, model.StepReflection:
		if len(payload.TasksReviewed) > 0 || len(payload.TasksCompleted) > 0 || payload.InboxProcessed > 0 {
			return fmt.Errorf("step %q takes notes only", payload.Kind)
		}
	case model.StepInboxZero, model.StepMindSweep:
		if payload.InboxProcessed < 0 {
			return fmt.Errorf("step %q: negative inbox count", payload.Kind)
		}
	case model.StepProjectsReview:
		// projects step may touch projects and tasks alike
	default:
		if payload.InboxProcessed != 0 {
			return fmt.Errorf("step %q does not process inbox items", payload.Kind)
		}
	}
	return nil
}
