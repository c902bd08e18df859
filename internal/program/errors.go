package program

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySubmission is returned when submission text is blank.
	ErrEmptySubmission = errors.New("submission text is empty")

	// ErrUnknownWeek is returned for week numbers outside the program.
	ErrUnknownWeek = errors.New("unknown week")

	// ErrWeekLocked is returned when submitting to a locked week.
	ErrWeekLocked = errors.New("week is locked")

	// ErrNotSubmitted is returned when applying a review to a week that has
	// no pending submission.
	ErrNotSubmitted = errors.New("week has no pending submission")

	// ErrProgramMismatch is returned when progress belongs to another program.
	ErrProgramMismatch = errors.New("progress belongs to a different program")
)

// ReviewError reports a failed or malformed external review. The week stays
// submitted and can be resumed.
type ReviewError struct {
	WeekNo int
	Err    error
}

func (e *ReviewError) Error() string {
	return fmt.Sprintf("review for week %d failed: %v", e.WeekNo, e.Err)
}

func (e *ReviewError) Unwrap() error { return e.Err }
