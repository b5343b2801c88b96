package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/lightsout"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/metrics"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func seed(n int64) *int64 {
	return &n
}

func newManager(t *testing.T, repo sessionRepo) (*SessionManager, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	manager := NewSessionManager(logger, repo, m, 8)
	manager.now = func() time.Time {
		return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	}

	return manager, m
}

func pegs(from, to int) entity.Move {
	return entity.Move{Pegs: &entity.PegMove{From: from, To: to}}
}

func TestSessionManager_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a new session", func(t *testing.T) {
		// Given: a manager over the memory repository
		manager, m := newManager(t, repository.NewMemorySessionRepository())

		// When: starting a hanoi session
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindHanoi, DiskCount: 4})

		// Then: it is stored and counted
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, entity.StatusActive, session.Status)

		stored, err := manager.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session, stored)
		assert.InDelta(t, 1, testutil.ToFloat64(m.SessionsStarted.WithLabelValues("hanoi")), 0)
	})

	t.Run("Mastermind takes the configured attempt budget", func(t *testing.T) {
		manager, _ := newManager(t, repository.NewMemorySessionRepository())

		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindMastermind})

		require.NoError(t, err)
		assert.Equal(t, 8, session.Mastermind.Remaining)
		assert.Equal(t, 8, session.Config.MaxAttempts)
	})

	t.Run("Invalid configuration stores nothing", func(t *testing.T) {
		// Given: a repository that expects no calls
		repo := &mockSessionRepo{}
		manager, _ := newManager(t, repo)

		// When: starting with a bad disk count
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindHanoi, DiskCount: -2})

		// Then: the engine error passes through
		require.ErrorIs(t, err, apperror.ErrInvalidConfiguration)
		assert.Nil(t, session)
		repo.AssertExpectations(t)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).
			Return(errRedisDown).
			Once()
		manager, _ := newManager(t, repo)

		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindLightsOut})

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, session)
		repo.AssertExpectations(t)
	})
}

func TestSessionManager_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a session to completion", func(t *testing.T) {
		// Given: a one disk tower
		manager, m := newManager(t, repository.NewMemorySessionRepository())
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindHanoi, DiskCount: 1})
		require.NoError(t, err)

		// When: moving the disk to the target peg
		solved, _, err := manager.Move(ctx, session.ID, pegs(0, 2))

		// Then: the stored session is solved
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSolved, solved.Status)

		stored, err := manager.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, solved, stored)
		assert.InDelta(t, 1, testutil.ToFloat64(m.SessionsFinished.WithLabelValues("hanoi", entity.StatusSolved)), 0)

		// And: the shell refuses more moves
		after, _, err := manager.Move(ctx, session.ID, pegs(2, 0))
		require.ErrorIs(t, err, apperror.ErrSessionTerminated)
		assert.Equal(t, solved, after)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesTotal.WithLabelValues("hanoi", metrics.ResultTerminated)), 0)
	})

	t.Run("Illegal move returns the unchanged session", func(t *testing.T) {
		manager, m := newManager(t, repository.NewMemorySessionRepository())
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindHanoi, DiskCount: 3})
		require.NoError(t, err)

		unchanged, _, err := manager.Move(ctx, session.ID, pegs(1, 2))

		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Equal(t, session, unchanged)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesTotal.WithLabelValues("hanoi", metrics.ResultIllegal)), 0)
	})

	t.Run("Mastermind moves report feedback", func(t *testing.T) {
		manager, _ := newManager(t, repository.NewMemorySessionRepository())
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindMastermind, Seed: seed(3)})
		require.NoError(t, err)

		next, outcome, err := manager.Move(ctx, session.ID, entity.Move{Guess: session.Mastermind.Code})

		require.NoError(t, err)
		require.NotNil(t, outcome.Feedback)
		assert.Equal(t, mastermind.DefaultCodeLength, outcome.Feedback.Exact)
		assert.Equal(t, entity.StatusSolved, next.Status)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		manager, _ := newManager(t, repository.NewMemorySessionRepository())

		_, _, err := manager.Move(ctx, "missing", pegs(0, 1))

		assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Returns error if storing the move fails", func(t *testing.T) {
		// Given: a repository that loads but cannot store
		repo := &mockSessionRepo{}
		manager, m := newManager(t, repo)

		stored := &entity.Session{
			ID:     "s1",
			Config: entity.Config{Kind: entity.KindLightsOut},
			Status: entity.StatusActive,
			LightsOut: &entity.LightsOut{
				Grid: lightsout.Toggle(lightsout.Grid{}, 0, 0),
			},
		}
		repo.On("GetByID", mock.Anything, "s1").Return(stored, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errRedisDown).Once()

		// When: moving
		next, _, err := manager.Move(ctx, "s1", entity.Move{Cell: &lightsout.Cell{Row: 0, Col: 0}})

		// Then: the storage error surfaces
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, next)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesTotal.WithLabelValues("lightsout", metrics.ResultError)), 0)
		repo.AssertExpectations(t)
	})

	t.Run("Concurrent moves on one session are not lost", func(t *testing.T) {
		// Given: a challenge game, whose code never repeats a color
		manager, _ := newManager(t, repository.NewMemorySessionRepository())
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindMastermind, MaxAttempts: 20})
		require.NoError(t, err)

		guess := []mastermind.Color{"white", "white", "white", "white"}

		// When: eight guesses arrive at once
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, moveErr := manager.Move(ctx, session.ID, entity.Move{Guess: guess})
				assert.NoError(t, moveErr)
			}()
		}
		wg.Wait()

		// Then: every guess was recorded
		stored, err := manager.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, stored.Moves)
		assert.Equal(t, 12, stored.Mastermind.Remaining)
		assert.Len(t, stored.Mastermind.Log, 8)
	})
}

func TestSessionManager_Restart(t *testing.T) {
	ctx := context.Background()

	t.Run("Seeded sessions restart with the same puzzle", func(t *testing.T) {
		// Given: a seeded lights-out session with one move played
		manager, _ := newManager(t, repository.NewMemorySessionRepository())
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindLightsOut, Seed: seed(42)})
		require.NoError(t, err)

		_, _, err = manager.Move(ctx, session.ID, entity.Move{Cell: &lightsout.Cell{Row: 1, Col: 1}})
		require.NoError(t, err)

		// When: restarting
		restarted, err := manager.Restart(ctx, session.ID)

		// Then: the board is the original one and the counter is reset
		require.NoError(t, err)
		assert.Equal(t, session.ID, restarted.ID)
		assert.Equal(t, session.LightsOut, restarted.LightsOut)
		assert.Zero(t, restarted.Moves)
	})

	t.Run("Finished sessions become playable again", func(t *testing.T) {
		manager, _ := newManager(t, repository.NewMemorySessionRepository())
		session, err := manager.Start(ctx, entity.Config{Kind: entity.KindHanoi, DiskCount: 1})
		require.NoError(t, err)
		_, _, err = manager.Move(ctx, session.ID, pegs(0, 2))
		require.NoError(t, err)

		restarted, err := manager.Restart(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusActive, restarted.Status)

		_, _, err = manager.Move(ctx, session.ID, pegs(0, 2))
		assert.NoError(t, err)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		manager, _ := newManager(t, repository.NewMemorySessionRepository())

		_, err := manager.Restart(ctx, "missing")

		assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionManager_Delete(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t, repository.NewMemorySessionRepository())

	session, err := manager.Start(ctx, entity.Config{Kind: entity.KindFreeTheKey})
	require.NoError(t, err)

	require.NoError(t, manager.Delete(ctx, session.ID))

	_, err = manager.Get(ctx, session.ID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	err = manager.Delete(ctx, session.ID)
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
