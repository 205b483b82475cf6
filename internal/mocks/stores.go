// Package mocks holds testify mocks for the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mento-app/mento-server/internal/model"
)

var (
	_ model.UserStore       = (*UserStore)(nil)
	_ model.CompletionStore = (*CompletionStore)(nil)
	_ model.ProgressStore   = (*ProgressStore)(nil)
	_ model.OnboardingStore = (*OnboardingStore)(nil)
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type CompletionStore struct {
	mock.Mock
}

func (m *CompletionStore) UpsertCompletion(ctx context.Context, userID int64, island model.Island, level int, at time.Time) error {
	args := m.Called(ctx, userID, island, level, at)
	return args.Error(0)
}

func (m *CompletionStore) CompletedLevels(ctx context.Context, userID int64, island model.Island) ([]int, error) {
	args := m.Called(ctx, userID, island)
	levels, _ := args.Get(0).([]int)
	return levels, args.Error(1)
}

func (m *CompletionStore) GetCompletion(ctx context.Context, userID int64, island model.Island, level int) (model.LevelCompletion, error) {
	args := m.Called(ctx, userID, island, level)
	return args.Get(0).(model.LevelCompletion), args.Error(1)
}

type ProgressStore struct {
	mock.Mock
}

func (m *ProgressStore) Ensure(ctx context.Context, userID int64, now time.Time) (model.Progress, bool, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(model.Progress), args.Bool(1), args.Error(2)
}

func (m *ProgressStore) Set(ctx context.Context, userID int64, island model.Island, level int, now time.Time) (model.Progress, error) {
	args := m.Called(ctx, userID, island, level, now)
	return args.Get(0).(model.Progress), args.Error(1)
}

func (m *ProgressStore) Reset(ctx context.Context, userID int64, now time.Time) (model.Progress, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(model.Progress), args.Error(1)
}

func (m *ProgressStore) ListByUser(ctx context.Context, userID int64) ([]model.Progress, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Progress)
	return list, args.Error(1)
}

type OnboardingStore struct {
	mock.Mock
}

func (m *OnboardingStore) Upsert(ctx context.Context, o model.Onboarding) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OnboardingStore) GetByUserID(ctx context.Context, userID int64) (model.Onboarding, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Onboarding), args.Error(1)
}
