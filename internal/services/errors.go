package services

import (
	"fmt"
	"strings"
)

// RejectionCode identifies why an operation was refused. Every failure
// mode gets its own machine-readable code so clients can distinguish,
// for example, a room that never existed from one that expired.
type RejectionCode string

const (
	CodeInvalidIdentifier RejectionCode = "invalid_identifier"
	CodeInvalidInput      RejectionCode = "invalid_input"
	CodeNotFound          RejectionCode = "not_found"
	CodeExpired           RejectionCode = "expired"
	CodeInactive          RejectionCode = "inactive"
	CodeInvalidChoice     RejectionCode = "invalid_choice"
	CodeDuplicateVote     RejectionCode = "duplicate_vote"
	CodeStorage           RejectionCode = "storage_error"
)

// Rejection is a structured refusal. Legal carries the poll's full legal
// choice set on invalid_choice rejections so callers can self-correct.
type Rejection struct {
	Code   RejectionCode
	Detail string
	Legal  []string
	cause  error
}

func (r *Rejection) Error() string {
	if r.Detail != "" {
		return fmt.Sprintf("%s: %s", r.Code, r.Detail)
	}
	return string(r.Code)
}

func (r *Rejection) Unwrap() error { return r.cause }

func reject(code RejectionCode, detail string) *Rejection {
	return &Rejection{Code: code, Detail: detail}
}

func rejectInvalidChoice(choice string, legal []string) *Rejection {
	return &Rejection{
		Code:   CodeInvalidChoice,
		Detail: fmt.Sprintf("choice %q is not valid, must be one of: %s", choice, strings.Join(legal, ", ")),
		Legal:  legal,
	}
}

func rejectStorage(err error) *Rejection {
	return &Rejection{Code: CodeStorage, Detail: "storage operation failed", cause: err}
}

// AsRejection unwraps err into a *Rejection, mapping unexpected errors
// to a storage rejection so nothing leaks through untyped.
func AsRejection(err error) *Rejection {
	if r, ok := err.(*Rejection); ok {
		return r
	}
	return rejectStorage(err)
}
