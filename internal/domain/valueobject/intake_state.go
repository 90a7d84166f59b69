package valueobject

import (
	"errors"
	"fmt"
)

// IntakeState is the stage a single claim submission has reached.
type IntakeState struct {
	value string
}

const (
	intakeValidating    = "VALIDATING"
	intakeNormalized    = "NORMALIZED"
	intakeScoring       = "SCORING"
	intakeScored        = "SCORED"
	intakePersisted     = "PERSISTED"
	intakeRejected      = "REJECTED"
	intakeScoringFailed = "SCORING_FAILED"
	intakePersistFailed = "PERSIST_FAILED"
)

var (
	IntakeValidating    = IntakeState{value: intakeValidating}
	IntakeNormalized    = IntakeState{value: intakeNormalized}
	IntakeScoring       = IntakeState{value: intakeScoring}
	IntakeScored        = IntakeState{value: intakeScored}
	IntakePersisted     = IntakeState{value: intakePersisted}
	IntakeRejected      = IntakeState{value: intakeRejected}
	IntakeScoringFailed = IntakeState{value: intakeScoringFailed}
	IntakePersistFailed = IntakeState{value: intakePersistFailed}
)

var intakeTransitions = map[string][]string{
	intakeValidating: {intakeNormalized, intakeRejected},
	intakeNormalized: {intakeScoring},
	intakeScoring:    {intakeScored, intakeScoringFailed},
	intakeScored:     {intakePersisted, intakePersistFailed},
}

// ErrInvalidStatusTransition is returned when an intake state change is not allowed.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// TransitionTo returns next if the move from s is allowed.
func (s IntakeState) TransitionTo(next IntakeState) (IntakeState, error) {
	for _, allowed := range intakeTransitions[s.value] {
		if allowed == next.value {
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s.value, next.value)
}

// IsTerminal reports whether no further transition is possible.
func (s IntakeState) IsTerminal() bool {
	_, ok := intakeTransitions[s.value]
	return !ok
}

// IsFailure reports whether s is one of the failed terminal states.
func (s IntakeState) IsFailure() bool {
	switch s.value {
	case intakeRejected, intakeScoringFailed, intakePersistFailed:
		return true
	}
	return false
}

func (s IntakeState) String() string { return s.value }

func (s IntakeState) Equal(other IntakeState) bool { return s.value == other.value }
