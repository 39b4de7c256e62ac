package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application failures.
type ErrorKind int

const (
	// KindValidation marks malformed user input.
	KindValidation ErrorKind = iota + 1
	// KindExtraction marks failures of the external extraction tool.
	KindExtraction
	// KindStorage marks directory or file write failures.
	KindStorage
)

// String returns the name of the kind.
func (kind ErrorKind) String() string {
	switch kind {
	case KindValidation:
		return "validation"
	case KindExtraction:
		return "extraction"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// ExtractionReason refines an extraction failure for user-facing messages.
type ExtractionReason string

const (
	ReasonNotFound ExtractionReason = "not-found"
	ReasonAuth     ExtractionReason = "auth"
	ReasonNetwork  ExtractionReason = "network"
	ReasonTimeout  ExtractionReason = "timeout"
	ReasonGeneric  ExtractionReason = "generic"
)

// Error is the single application error type. Kind is carried as data.
type Error struct {
	Kind    ErrorKind
	Reason  ExtractionReason
	Message string
	Err     error
}

func (applicationError *Error) Error() string {
	if applicationError.Err != nil && applicationError.Message == "" {
		return applicationError.Err.Error()
	}
	if applicationError.Err != nil {
		return fmt.Sprintf("%s: %v", applicationError.Message, applicationError.Err)
	}
	return applicationError.Message
}

func (applicationError *Error) Unwrap() error {
	return applicationError.Err
}

// ValidationError reports malformed input.
func ValidationError(format string, arguments ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, arguments...)}
}

// ExtractionError reports a failure of the extraction tool.
func ExtractionError(reason ExtractionReason, message string, cause error) error {
	if reason == "" {
		reason = ReasonGeneric
	}
	return &Error{Kind: KindExtraction, Reason: reason, Message: message, Err: cause}
}

// StorageError reports a failure to create directories or write files.
func StorageError(message string, cause error) error {
	return &Error{Kind: KindStorage, Message: message, Err: cause}
}

// KindOf returns the kind of the first application error in the chain, or zero.
func KindOf(err error) ErrorKind {
	var applicationError *Error
	if errors.As(err, &applicationError) {
		return applicationError.Kind
	}
	return 0
}

// ReasonOf returns the extraction reason of err, or an empty reason.
func ReasonOf(err error) ExtractionReason {
	var applicationError *Error
	if errors.As(err, &applicationError) {
		return applicationError.Reason
	}
	return ""
}
