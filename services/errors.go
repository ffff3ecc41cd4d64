package services

import "errors"

// ErrorKind classifies failures so controllers can answer with the specific
// reason instead of a generic one ("you can't bid on your own paper" vs
// "you're not on this conference's reviewer list").
type ErrorKind string

const (
	ErrKindNotFound           ErrorKind = "not_found"
	ErrKindNotAuthorized      ErrorKind = "not_authorized"
	ErrKindConflictOfInterest ErrorKind = "conflict_of_interest"
	ErrKindNotAMember         ErrorKind = "not_a_member"
	ErrKindAlreadySubmitted   ErrorKind = "already_submitted"
	ErrKindNoReviewsSubmitted ErrorKind = "no_reviews_submitted"
	ErrKindValidation         ErrorKind = "validation"
)

// ServiceError carries an error kind alongside the message.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

// KindOf extracts the error kind, or an empty kind for unclassified errors.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}
