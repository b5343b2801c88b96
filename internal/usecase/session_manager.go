package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/metrics"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/pkg"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/puzzle"
)

const lockStripes = 64

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type recorder interface {
	SessionStarted(kind string)
	MoveApplied(kind, result string, elapsed time.Duration)
	SessionFinished(kind, status string)
}

// SourceFor - a seeded source when the config pins a seed, otherwise a clock seeded one.
func SourceFor(seed *int64) pkg.Source {
	if seed != nil {
		return pkg.NewSource(*seed)
	}

	return pkg.NewTimeSource()
}

// SessionManager drives puzzle sessions: it loads a snapshot, applies one engine
// transition and stores the replacement.
type SessionManager struct {
	logger  *slog.Logger
	repo    sessionRepo
	metrics recorder

	maxAttempts int

	newSource func(seed *int64) pkg.Source
	now       func() time.Time

	// serializes load-apply-store per session within this process
	locks [lockStripes]sync.Mutex
}

// NewSessionManager - maxAttempts is the Mastermind budget used when a config leaves it zero.
func NewSessionManager(logger *slog.Logger, repo sessionRepo, rec recorder, maxAttempts int) *SessionManager {
	return &SessionManager{
		logger:  logger.With("component", "session_manager"),
		repo:    repo,
		metrics: rec,

		maxAttempts: maxAttempts,

		newSource: SourceFor,
		now:       time.Now,
	}
}

func (that *SessionManager) Start(ctx context.Context, cfg entity.Config) (*entity.Session, error) {
	log := that.logger.With("method", "Start", "kind", cfg.Kind)

	if cfg.Kind == entity.KindMastermind && cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = that.maxAttempts
	}

	session, err := puzzle.Start(that.newSource(cfg.Seed), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	session.ID = pkg.GenerateSessionID()
	session.CreatedAt = that.now().UTC()
	session.UpdatedAt = session.CreatedAt

	if err = that.repo.CreateOrUpdate(ctx, &session); err != nil {
		log.Error("failed to store session", "error", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.metrics.SessionStarted(string(cfg.Kind))
	log.Info("session started", "session_id", session.ID)

	return &session, nil
}

func (that *SessionManager) Get(ctx context.Context, id string) (*entity.Session, error) {
	return that.getSession(ctx, id)
}

// Move - applies move to the session. Rule errors come back together with the
// unchanged session.
func (that *SessionManager) Move(ctx context.Context, id string, move entity.Move) (*entity.Session, puzzle.Outcome, error) {
	log := that.logger.With("method", "Move", "session_id", id)
	started := that.now()

	unlock := that.lock(id)
	defer unlock()

	session, err := that.getSession(ctx, id)
	if err != nil {
		return nil, puzzle.Outcome{}, err
	}

	kind := string(session.Kind())

	next, outcome, err := puzzle.ApplyMove(*session, move)
	if err != nil {
		that.metrics.MoveApplied(kind, resultOf(err), that.now().Sub(started))
		log.Debug("move rejected", "error", err)

		return session, puzzle.Outcome{}, fmt.Errorf("failed to apply move: %w", err)
	}

	next.UpdatedAt = that.now().UTC()

	if err = that.updateSession(ctx, &next); err != nil {
		that.metrics.MoveApplied(kind, metrics.ResultError, that.now().Sub(started))
		log.Error("failed to store session", "error", err)

		return nil, puzzle.Outcome{}, err
	}

	that.metrics.MoveApplied(kind, metrics.ResultOK, that.now().Sub(started))

	if next.IsFinished() {
		that.metrics.SessionFinished(kind, next.Status)
		log.Info("session finished", "status", next.Status, "moves", next.Moves)
	}

	return &next, outcome, nil
}

// Restart - replaces the session with a fresh one built from the same config.
// The id and creation time are kept.
func (that *SessionManager) Restart(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "Restart", "session_id", id)

	unlock := that.lock(id)
	defer unlock()

	existing, err := that.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := puzzle.Start(that.newSource(existing.Config.Seed), existing.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to restart session: %w", err)
	}

	session.ID = existing.ID
	session.CreatedAt = existing.CreatedAt
	session.UpdatedAt = that.now().UTC()

	if err = that.updateSession(ctx, &session); err != nil {
		log.Error("failed to store session", "error", err)
		return nil, err
	}

	that.metrics.SessionStarted(string(session.Kind()))
	log.Info("session restarted")

	return &session, nil
}

func (that *SessionManager) Delete(ctx context.Context, id string) error {
	log := that.logger.With("method", "Delete", "session_id", id)

	unlock := that.lock(id)
	defer unlock()

	if err := that.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session deleted")

	return nil
}

func (that *SessionManager) getSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *SessionManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.repo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *SessionManager) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	mu := &that.locks[h.Sum32()%lockStripes]
	mu.Lock()

	return mu.Unlock
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, apperror.ErrIllegalMove):
		return metrics.ResultIllegal
	case errors.Is(err, apperror.ErrInvalidGuess):
		return metrics.ResultInvalid
	case errors.Is(err, apperror.ErrSessionTerminated):
		return metrics.ResultTerminated
	default:
		return metrics.ResultError
	}
}
