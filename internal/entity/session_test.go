package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/hanoi"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
)

func TestSessionStatusMethods(t *testing.T) {
	t.Run("IsActive returns true when session status is active", func(t *testing.T) {
		// Given: an active session
		session := &Session{Status: StatusActive}

		// Then: it is active and not finished
		assert.True(t, session.IsActive())
		assert.False(t, session.IsFinished())
	})

	t.Run("Solved and lost sessions are finished", func(t *testing.T) {
		solved := &Session{Status: StatusSolved}
		lost := &Session{Status: StatusLost}

		assert.True(t, solved.IsFinished())
		assert.True(t, solved.IsSolved())
		assert.True(t, lost.IsFinished())
		assert.False(t, lost.IsSolved())
	})
}

func TestSession_ConfirmActive(t *testing.T) {
	t.Run("Returns nil when session is active", func(t *testing.T) {
		session := &Session{Status: StatusActive}

		assert.NoError(t, session.ConfirmActive())
	})

	t.Run("Returns ErrSessionTerminated when session is finished", func(t *testing.T) {
		for _, status := range []string{StatusSolved, StatusLost} {
			// Given: a finished session
			session := &Session{ID: "s1", Status: status}

			// When: checking if the session is active
			err := session.ConfirmActive()

			// Then: it should return ErrSessionTerminated
			assert.ErrorIs(t, err, apperror.ErrSessionTerminated)
		}
	})

	t.Run("Returns error for unknown session status", func(t *testing.T) {
		session := &Session{Status: "paused"}

		err := session.ConfirmActive()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown session status")
	})
}

func TestSession_Validate(t *testing.T) {
	t.Run("Accepts the state named by the kind", func(t *testing.T) {
		state, err := hanoi.Initialize(3)
		require.NoError(t, err)

		session := &Session{Config: Config{Kind: KindHanoi}, Hanoi: &state}

		assert.NoError(t, session.Validate())
	})

	t.Run("Rejects a missing state", func(t *testing.T) {
		session := &Session{Config: Config{Kind: KindMastermind}}

		assert.ErrorIs(t, session.Validate(), apperror.ErrUnknownKind)
	})

	t.Run("Rejects a second populated state", func(t *testing.T) {
		state, err := hanoi.Initialize(3)
		require.NoError(t, err)

		session := &Session{
			Config:     Config{Kind: KindHanoi},
			Hanoi:      &state,
			Mastermind: &mastermind.Session{},
		}

		assert.ErrorIs(t, session.Validate(), apperror.ErrUnknownKind)
	})

	t.Run("Rejects an unknown kind", func(t *testing.T) {
		session := &Session{Config: Config{Kind: "tangram"}}

		assert.ErrorIs(t, session.Validate(), apperror.ErrUnknownKind)
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("sudoku")
	assert.ErrorIs(t, err, apperror.ErrUnknownKind)
}
