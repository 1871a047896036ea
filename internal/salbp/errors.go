package salbp

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed instance token stream.
type ParseError struct {
	// Offset is the 0-based index of the offending whitespace token, or -1 at end of input.
	Offset int
	Token  string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("parse: %s (at end of input)", e.Msg)
	}
	if e.Token == "" {
		return fmt.Sprintf("parse: %s (token #%d)", e.Msg, e.Offset)
	}
	return fmt.Sprintf("parse: %s (token #%d %q)", e.Msg, e.Offset, e.Token)
}

type InvalidInstanceCode string

const (
	CodeCycle            InvalidInstanceCode = "cycle"
	CodeUnknownTask      InvalidInstanceCode = "unknown_task"
	CodeDuplicateTask    InvalidInstanceCode = "duplicate_task"
	CodeInvalidTaskID    InvalidInstanceCode = "invalid_task_id"
	CodeNonPositiveTime  InvalidInstanceCode = "non_positive_time"
	CodeNonPositiveCycle InvalidInstanceCode = "non_positive_cycle_time"
	CodeEmptyInstance    InvalidInstanceCode = "empty_instance"
)

// InvalidInstanceError reports a well-formed but semantically invalid instance.
type InvalidInstanceError struct {
	Code InvalidInstanceCode
	Msg  string
	// Cycle holds the task ids of the offending cycle for CodeCycle, first id repeated last.
	Cycle []int
}

func (e *InvalidInstanceError) Error() string {
	return fmt.Sprintf("invalid instance: %s: %s", e.Code, e.Msg)
}

// EvaluationError reports a candidate assignment that breaks the calling contract.
// Capacity and precedence violations are never reported this way.
type EvaluationError struct {
	Msg string
}

func (e *EvaluationError) Error() string {
	return "evaluation: " + e.Msg
}

var ErrPenaltyTooSmall = errors.New("penalty factor too small")

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func IsInvalidInstance(err error) bool {
	var ie *InvalidInstanceError
	return errors.As(err, &ie)
}

func IsEvaluationError(err error) bool {
	var ee *EvaluationError
	return errors.As(err, &ee)
}

func invalid(code InvalidInstanceCode, format string, args ...any) *InvalidInstanceError {
	return &InvalidInstanceError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func evalErr(format string, args ...any) *EvaluationError {
	return &EvaluationError{Msg: fmt.Sprintf(format, args...)}
}
