package models

import (
	"errors"
	"fmt"
)

// Error taxonomy of the sync flow. Callers classify with errors.Is.
var (
	// ErrUnauthorized is returned for a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when the identity provider has no embedded wallet yet.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by the store on a uniqueness violation.
	// It is resolved inside the service and never reaches the HTTP layer.
	ErrConflict = errors.New("resource state conflict")
	// ErrInternal marks any unexpected store or provider failure.
	ErrInternal = errors.New("internal error")
)

var (
	ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrUnauthorized)
	ErrInvalidCredential = fmt.Errorf("%w: invalid credential", ErrUnauthorized)
	ErrNoEmbeddedWallet  = fmt.Errorf("%w: no embedded wallet", ErrNotFound)
)

// Stage names the step of a sync in which a failure happened.
type Stage string

const (
	StageVerify              Stage = "verify"
	StageResolveUser         Stage = "resolve_user"
	StageCreateUser          Stage = "create_user"
	StageFetchLinkedAccounts Stage = "fetch_linked_accounts"
	StageValidateAddress     Stage = "validate_address"
	StageCreateWallet        Stage = "create_wallet"
)

// StageError is an internal failure annotated with where it happened and for whom.
type StageError struct {
	Stage     Stage
	SubjectID string
	Err       error
}

// NewStageError wraps err as an internal failure at stage.
func NewStageError(stage Stage, subjectID string, err error) *StageError {
	return &StageError{Stage: stage, SubjectID: subjectID, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for subject %s: %v", e.Stage, e.SubjectID, e.Err)
}

// Unwrap exposes both the underlying cause and ErrInternal.
func (e *StageError) Unwrap() []error {
	return []error{ErrInternal, e.Err}
}
