package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/service"
)

type progressServiceMock struct {
	mock.Mock
}

func (m *progressServiceMock) CompleteLevel(ctx context.Context, userID, islandID, levelNumber any) error {
	args := m.Called(ctx, userID, islandID, levelNumber)
	return args.Error(0)
}

func (m *progressServiceMock) GetIslandProgress(ctx context.Context, userID, islandID any) (model.IslandProgress, error) {
	args := m.Called(ctx, userID, islandID)
	return args.Get(0).(model.IslandProgress), args.Error(1)
}

func (m *progressServiceMock) LevelStatus(ctx context.Context, userID, islandID, levelNumber any) (model.LevelStatus, error) {
	args := m.Called(ctx, userID, islandID, levelNumber)
	return args.Get(0).(model.LevelStatus), args.Error(1)
}

func (m *progressServiceMock) CurrentLevel(ctx context.Context, userID any) (model.Progress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Progress), args.Error(1)
}

func (m *progressServiceMock) ResetProgress(ctx context.Context, userID any) (model.Progress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Progress), args.Error(1)
}

func (m *progressServiceMock) UpdateProgress(ctx context.Context, userID, islandID, currentLevel any) (model.Progress, error) {
	args := m.Called(ctx, userID, islandID, currentLevel)
	return args.Get(0).(model.Progress), args.Error(1)
}

func (m *progressServiceMock) ListProgress(ctx context.Context, userID any) ([]model.Progress, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Progress)
	return list, args.Error(1)
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, email, password string) (model.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (service.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.Session), args.Error(1)
}

type onboardingServiceMock struct {
	mock.Mock
}

func (m *onboardingServiceMock) Save(ctx context.Context, userID any, in service.OnboardingInput) error {
	args := m.Called(ctx, userID, in)
	return args.Error(0)
}

func (m *onboardingServiceMock) Get(ctx context.Context, userID any) (*model.Onboarding, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*model.Onboarding)
	return profile, args.Error(1)
}

type pingerMock struct {
	err error
}

func (p pingerMock) Ping(context.Context) error {
	return p.err
}
