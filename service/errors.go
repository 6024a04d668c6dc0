package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so callers can decide how to present them
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindStateConflict ErrorKind = "state_conflict"
	KindCollaborator  ErrorKind = "collaborator"
)

// DomainError is a named rejection from one of the services
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code so wrapped copies still compare equal to the sentinel
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidSize        = newDomainError(KindValidation, "invalid_size", "tournament size is out of range")
	ErrInvalidParties     = newDomainError(KindValidation, "invalid_parties", "winner and loser must be different users")
	ErrInvalidLimit       = newDomainError(KindValidation, "invalid_limit", "limit must be positive")
	ErrTournamentNotFound = newDomainError(KindNotFound, "tournament_not_found", "tournament not found")
	ErrNotAuthorized      = newDomainError(KindAuthorization, "not_authorized", "only moderators can do that")
	ErrNotHost            = newDomainError(KindAuthorization, "not_host", "only the tournament host can do that")
	ErrRegistrationClosed = newDomainError(KindStateConflict, "registration_closed", "tournament registration is closed")
	ErrAlreadyJoined      = newDomainError(KindStateConflict, "already_joined", "already joined this tournament")
	ErrNotParticipant     = newDomainError(KindStateConflict, "not_participant", "not a participant in this tournament")
	ErrTournamentFull     = newDomainError(KindStateConflict, "tournament_full", "tournament is full")
	ErrQuorumNotMet       = newDomainError(KindStateConflict, "quorum_not_met", "not enough participants to start")
	ErrAlreadyCompleted   = newDomainError(KindStateConflict, "already_completed", "tournament is already completed")
	ErrNoParticipants     = newDomainError(KindStateConflict, "no_participants", "tournament has no participants")
	ErrCatalogUnavailable = newDomainError(KindCollaborator, "catalog_unavailable", "catalog service is unavailable")
)

// KindOf returns the kind of the first DomainError in err's chain, or "" if there is none
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// withDetail wraps a sentinel with extra context while keeping errors.Is working
func withDetail(sentinel *DomainError, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
