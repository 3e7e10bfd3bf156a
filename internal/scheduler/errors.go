package scheduler

import (
	"fmt"
	"strings"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Code classifies scheduling failures.
type Code string

const (
	CodeInfeasibleSynchronized Code = "INFEASIBLE_SYNCHRONIZED_SUBJECT"
	CodeInfeasibleUnit         Code = "INFEASIBLE_UNIT_PLACEMENT"
	CodeConfiguration          Code = "CONFIGURATION_ERROR"
)

// Error is a scheduling failure with enough context to decide on a retry.
type Error struct {
	Code    Code
	Message string
	Bucket  *model.Bucket
	Section string
	Subject string
	Err     error
}

// Sentinels for errors.Is.
var (
	ErrInfeasibleSynchronized = &Error{Code: CodeInfeasibleSynchronized, Message: "cannot synchronize required subject"}
	ErrInfeasibleUnit         = &Error{Code: CodeInfeasibleUnit, Message: "could not schedule subject"}
	ErrConfiguration          = &Error{Code: CodeConfiguration, Message: "invalid configuration"}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Subject != "" {
		fmt.Fprintf(&b, " %s", e.Subject)
	}
	if e.Section != "" {
		fmt.Fprintf(&b, " for section %s", e.Section)
	}
	if e.Bucket != nil {
		fmt.Fprintf(&b, " [%s]", e.Bucket)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func configurationError(message string, err error) *Error {
	return &Error{Code: CodeConfiguration, Message: message, Err: err}
}

func synchronizedError(b model.Bucket, subject string) *Error {
	return &Error{Code: CodeInfeasibleSynchronized, Message: ErrInfeasibleSynchronized.Message, Bucket: &b, Subject: subject}
}

func unitError(b model.Bucket, section model.Section, subject string) *Error {
	return &Error{Code: CodeInfeasibleUnit, Message: ErrInfeasibleUnit.Message, Bucket: &b, Section: section.ID(), Subject: subject}
}
