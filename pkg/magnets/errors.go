package magnets

import (
	"errors"
	"fmt"
)

// Reason classifies a rule violation
type Reason uint8

const (
	ReasonOutOfBounds Reason = iota + 1
	ReasonBlocked
	ReasonNotYourTurn
	ReasonDiceExhausted
	ReasonGameEnded
	ReasonInvalidShape
	ReasonTargetNotEligible
	ReasonNoSpaceForPartner
	ReasonWrongPhase
	ReasonForbiddenColumn
	ReasonWrongHalf
	ReasonNotOwned
	ReasonStealNotAllowed
	ReasonAlreadyRolled
)

var reasonNames = map[Reason]string{
	ReasonOutOfBounds:       "out of bounds",
	ReasonBlocked:           "blocked",
	ReasonNotYourTurn:       "not your turn",
	ReasonDiceExhausted:     "dice exhausted",
	ReasonGameEnded:         "game ended",
	ReasonInvalidShape:      "invalid shape",
	ReasonTargetNotEligible: "target not eligible",
	ReasonNoSpaceForPartner: "no space for partner",
	ReasonWrongPhase:        "wrong phase",
	ReasonForbiddenColumn:   "forbidden column",
	ReasonWrongHalf:         "wrong half",
	ReasonNotOwned:          "not owned",
	ReasonStealNotAllowed:   "steal not allowed",
	ReasonAlreadyRolled:     "already rolled",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

// RuleError is an expected, user-facing failure. The board is unchanged
// whenever an action returns one.
type RuleError struct {
	Reason Reason
	Msg    string
}

func (e *RuleError) Error() string {
	if e.Msg == "" {
		return e.Reason.String()
	}
	return e.Msg
}

// Is matches any RuleError with the same reason, so the sentinels below
// work with errors.Is
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Reason == e.Reason
}

func violation(reason Reason, format string, args ...any) error {
	return &RuleError{Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// Rule violation sentinels
var (
	ErrOutOfBounds       = &RuleError{Reason: ReasonOutOfBounds}
	ErrBlocked           = &RuleError{Reason: ReasonBlocked}
	ErrNotYourTurn       = &RuleError{Reason: ReasonNotYourTurn}
	ErrDiceExhausted     = &RuleError{Reason: ReasonDiceExhausted}
	ErrGameEnded         = &RuleError{Reason: ReasonGameEnded}
	ErrInvalidShape      = &RuleError{Reason: ReasonInvalidShape}
	ErrTargetNotEligible = &RuleError{Reason: ReasonTargetNotEligible}
	ErrNoSpaceForPartner = &RuleError{Reason: ReasonNoSpaceForPartner}
	ErrWrongPhase        = &RuleError{Reason: ReasonWrongPhase}
	ErrForbiddenColumn   = &RuleError{Reason: ReasonForbiddenColumn}
	ErrWrongHalf         = &RuleError{Reason: ReasonWrongHalf}
	ErrNotOwned          = &RuleError{Reason: ReasonNotOwned}
	ErrStealNotAllowed   = &RuleError{Reason: ReasonStealNotAllowed}
	ErrAlreadyRolled     = &RuleError{Reason: ReasonAlreadyRolled}
)

// Faults, these mean a caller bug or corrupted state
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrCorruptMagnet  = errors.New("corrupt magnet pairing")
	ErrSeedingFailed  = errors.New("neutral seeding failed")
)

// IsRuleViolation reports whether err is an expected rule violation rather
// than a fault
func IsRuleViolation(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

func fmtFault(base error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}
