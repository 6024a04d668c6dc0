package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("join failed: %w", withDetail(ErrTournamentFull, "tournament %d has %d/%d", 3, 8, 8))

	assert.True(t, errors.Is(err, ErrTournamentFull))
	assert.False(t, errors.Is(err, ErrAlreadyJoined))
	assert.Equal(t, KindStateConflict, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrInvalidSize))
	assert.Equal(t, KindAuthorization, KindOf(ErrNotAuthorized))
	assert.Equal(t, KindNotFound, KindOf(ErrTournamentNotFound))
	assert.Equal(t, KindCollaborator, KindOf(ErrCatalogUnavailable))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
