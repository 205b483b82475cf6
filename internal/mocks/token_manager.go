package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/mento-app/mento-server/internal/model"
)

var _ model.TokenManager = (*TokenManager)(nil)

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}
