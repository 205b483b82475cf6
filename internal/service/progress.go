package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/unlock"
)

// Progress records level completions and answers progress queries.
type Progress struct {
	userStore       model.UserStore
	completionStore model.CompletionStore
	progressStore   model.ProgressStore
	logger          *logger.Logger
	tracer          trace.Tracer

	maxLevel        int
	enforceSequence bool
	now             func() time.Time
}

type ProgressOption func(*Progress)

// WithMaxLevel sets the number of levels per island.
func WithMaxLevel(n int) ProgressOption {
	return func(p *Progress) {
		if n > 0 {
			p.maxLevel = n
		}
	}
}

// WithSequentialCompletion rejects completing a level whose predecessor is not completed.
func WithSequentialCompletion(enabled bool) ProgressOption {
	return func(p *Progress) {
		p.enforceSequence = enabled
	}
}

func WithClock(now func() time.Time) ProgressOption {
	return func(p *Progress) {
		p.now = now
	}
}

func NewProgress(
	userStore model.UserStore,
	completionStore model.CompletionStore,
	progressStore model.ProgressStore,
	logger *logger.Logger,
	opts ...ProgressOption,
) *Progress {
	p := &Progress{
		userStore:       userStore,
		completionStore: completionStore,
		progressStore:   progressStore,
		logger:          logger,
		tracer:          newTracer(),
		maxLevel:        model.DefaultMaxLevel,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CompleteLevel marks the level completed for the user. Repeating the call
// with the same arguments leaves the same stored state.
func (s *Progress) CompleteLevel(ctx context.Context, userID, islandID, levelNumber any) (err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.CompleteLevel")
	defer func() { endSpan(span, err) }()

	values, err := parseFields(
		field{"userId", userID},
		field{"islandId", islandID},
		field{"levelNumber", levelNumber},
	)
	if err != nil {
		return err
	}
	uid := values[0]
	if err := checkUserID(uid); err != nil {
		return err
	}
	island, err := checkIsland("islandId", values[1])
	if err != nil {
		return err
	}
	level, err := checkLevel("levelNumber", values[2], s.maxLevel)
	if err != nil {
		return err
	}

	span.SetAttributes(
		attribute.Int64("user.id", uid),
		attribute.Int64("island.id", int64(island)),
		attribute.Int("level.number", level),
	)

	s.logger.Debug("Progress service: completing level",
		"user_id", uid,
		"island", island.String(),
		"level", level)

	if err := s.ensureUser(ctx, uid); err != nil {
		return err
	}

	if s.enforceSequence && level > 1 {
		completed, err := s.completionStore.CompletedLevels(ctx, uid, island)
		if err != nil {
			s.logger.Error("Progress service: failed to get completed levels",
				"user_id", uid,
				"island", island.String(),
				"error", err.Error())
			return fmt.Errorf("failed to get completed levels: %w", err)
		}
		if !unlock.IsUnlocked(level, completed, unlock.NextUnlocked(completed, s.maxLevel)) {
			s.logger.Info("Progress service: level is locked",
				"user_id", uid,
				"island", island.String(),
				"level", level)
			return apperr.NewErrLevelLocked(level)
		}
	}

	err = s.completionStore.UpsertCompletion(ctx, uid, island, level, s.now().UTC())
	if errors.Is(err, model.ErrNotFound) {
		// The user was removed between the existence check and the write.
		return apperr.NewErrUserNotFound(uid)
	}
	if err != nil {
		s.logger.Error("Progress service: failed to upsert level completion",
			"user_id", uid,
			"island", island.String(),
			"level", level,
			"error", err.Error())
		return fmt.Errorf("failed to upsert level completion: %w", err)
	}

	s.logger.Info("Progress service: level completed",
		"user_id", uid,
		"island", island.String(),
		"level", level)

	return nil
}

// GetIslandProgress returns the completed levels of an island and the unlock frontier.
func (s *Progress) GetIslandProgress(ctx context.Context, userID, islandID any) (_ model.IslandProgress, err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.GetIslandProgress")
	defer func() { endSpan(span, err) }()

	values, err := parseFields(
		field{"userId", userID},
		field{"islandId", islandID},
	)
	if err != nil {
		return model.IslandProgress{}, err
	}
	uid := values[0]
	if err := checkUserID(uid); err != nil {
		return model.IslandProgress{}, err
	}
	island, err := checkIsland("islandId", values[1])
	if err != nil {
		return model.IslandProgress{}, err
	}

	span.SetAttributes(
		attribute.Int64("user.id", uid),
		attribute.Int64("island.id", int64(island)),
	)

	completed, err := s.completionStore.CompletedLevels(ctx, uid, island)
	if err != nil {
		s.logger.Error("Progress service: failed to get completed levels",
			"user_id", uid,
			"island", island.String(),
			"error", err.Error())
		return model.IslandProgress{}, fmt.Errorf("failed to get completed levels: %w", err)
	}
	if completed == nil {
		completed = []int{}
	}

	return model.IslandProgress{
		UserID:          uid,
		Island:          island,
		CompletedLevels: completed,
		NextUnlocked:    unlock.NextUnlocked(completed, s.maxLevel),
	}, nil
}

// LevelStatus reports whether a level is completed, when, and whether it can be played.
func (s *Progress) LevelStatus(ctx context.Context, userID, islandID, levelNumber any) (_ model.LevelStatus, err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.LevelStatus")
	defer func() { endSpan(span, err) }()

	values, err := parseFields(
		field{"userId", userID},
		field{"islandId", islandID},
		field{"levelNumber", levelNumber},
	)
	if err != nil {
		return model.LevelStatus{}, err
	}
	uid := values[0]
	if err := checkUserID(uid); err != nil {
		return model.LevelStatus{}, err
	}
	island, err := checkIsland("islandId", values[1])
	if err != nil {
		return model.LevelStatus{}, err
	}
	level, err := checkLevel("levelNumber", values[2], s.maxLevel)
	if err != nil {
		return model.LevelStatus{}, err
	}

	status := model.LevelStatus{UserID: uid, Island: island, Level: level}

	c, err := s.completionStore.GetCompletion(ctx, uid, island, level)
	switch {
	case errors.Is(err, model.ErrNotFound):
	case err != nil:
		s.logger.Error("Progress service: failed to get level completion",
			"user_id", uid,
			"island", island.String(),
			"level", level,
			"error", err.Error())
		return model.LevelStatus{}, fmt.Errorf("failed to get level completion: %w", err)
	default:
		status.Completed = c.Completed
		status.CompletedAt = c.CompletedAt
	}

	completed, err := s.completionStore.CompletedLevels(ctx, uid, island)
	if err != nil {
		s.logger.Error("Progress service: failed to get completed levels",
			"user_id", uid,
			"island", island.String(),
			"error", err.Error())
		return model.LevelStatus{}, fmt.Errorf("failed to get completed levels: %w", err)
	}
	status.Unlocked = status.Completed ||
		unlock.IsUnlocked(level, completed, unlock.NextUnlocked(completed, s.maxLevel))

	return status, nil
}

// CurrentLevel returns the coarse progress pointer, creating it at level 1
// on first use.
func (s *Progress) CurrentLevel(ctx context.Context, userID any) (_ model.Progress, err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.CurrentLevel")
	defer func() { endSpan(span, err) }()

	uid, err := parseUserID(userID)
	if err != nil {
		return model.Progress{}, err
	}
	if err := s.ensureUser(ctx, uid); err != nil {
		return model.Progress{}, err
	}

	p, created, err := s.progressStore.Ensure(ctx, uid, s.now().UTC())
	if err != nil {
		return model.Progress{}, s.progressError(uid, "ensure progress", err)
	}
	if created {
		s.logger.Info("Progress service: progress initialized",
			"user_id", uid)
	}

	return p, nil
}

// ResetProgress moves the pointer back to level 1. Completion history is kept.
func (s *Progress) ResetProgress(ctx context.Context, userID any) (_ model.Progress, err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.ResetProgress")
	defer func() { endSpan(span, err) }()

	uid, err := parseUserID(userID)
	if err != nil {
		return model.Progress{}, err
	}
	if err := s.ensureUser(ctx, uid); err != nil {
		return model.Progress{}, err
	}

	p, err := s.progressStore.Reset(ctx, uid, s.now().UTC())
	if err != nil {
		return model.Progress{}, s.progressError(uid, "reset progress", err)
	}

	s.logger.Info("Progress service: progress reset",
		"user_id", uid)

	return p, nil
}

// UpdateProgress stores the pointer as given. It does not touch completions.
func (s *Progress) UpdateProgress(ctx context.Context, userID, islandID, currentLevel any) (_ model.Progress, err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.UpdateProgress")
	defer func() { endSpan(span, err) }()

	values, err := parseFields(
		field{"userId", userID},
		field{"islandId", islandID},
		field{"currentLevel", currentLevel},
	)
	if err != nil {
		return model.Progress{}, err
	}
	uid := values[0]
	if err := checkUserID(uid); err != nil {
		return model.Progress{}, err
	}
	island, err := checkIsland("islandId", values[1])
	if err != nil {
		return model.Progress{}, err
	}
	level, err := checkLevel("currentLevel", values[2], s.maxLevel)
	if err != nil {
		return model.Progress{}, err
	}

	if err := s.ensureUser(ctx, uid); err != nil {
		return model.Progress{}, err
	}

	p, err := s.progressStore.Set(ctx, uid, island, level, s.now().UTC())
	if err != nil {
		return model.Progress{}, s.progressError(uid, "update progress", err)
	}

	s.logger.Info("Progress service: progress updated",
		"user_id", uid,
		"island", island.String(),
		"level", level)

	return p, nil
}

func (s *Progress) ListProgress(ctx context.Context, userID any) (_ []model.Progress, err error) {
	ctx, span := s.tracer.Start(ctx, "Progress.ListProgress")
	defer func() { endSpan(span, err) }()

	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, uid); err != nil {
		return nil, err
	}

	list, err := s.progressStore.ListByUser(ctx, uid)
	if err != nil {
		return nil, s.progressError(uid, "list progress", err)
	}
	return list, nil
}

// ensureUser reports a not-found client error before any write is attempted.
func (s *Progress) ensureUser(ctx context.Context, userID int64) error {
	ok, err := s.userStore.Exists(ctx, userID)
	if err != nil {
		s.logger.Error("Progress service: failed to check user",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		s.logger.Info("Progress service: user not found",
			"user_id", userID)
		return apperr.NewErrUserNotFound(userID)
	}
	return nil
}

func (s *Progress) progressError(userID int64, op string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return apperr.NewErrUserNotFound(userID)
	}
	s.logger.Error("Progress service: failed to "+op,
		"user_id", userID,
		"error", err.Error())
	return fmt.Errorf("failed to %s: %w", op, err)
}
