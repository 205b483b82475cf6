package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mento-app/mento-server/internal/apperr"
	servermocks "github.com/mento-app/mento-server/internal/mocks"
	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/testutil"
)

func newOnboardingService() (*Onboarding, *servermocks.UserStore, *servermocks.OnboardingStore) {
	userStore := &servermocks.UserStore{}
	store := &servermocks.OnboardingStore{}
	o := NewOnboarding(userStore, store, testutil.MakeNoopLogger())
	o.now = func() time.Time { return fixedNow }
	return o, userStore, store
}

func TestOnboarding_Save(t *testing.T) {
	o, userStore, store := newOnboardingService()

	userStore.On("Exists", mock.Anything, int64(7)).Return(true, nil)
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(p model.Onboarding) bool {
		return p.UserID == 7 &&
			p.Name != nil && *p.Name == "Ana" &&
			p.Age != nil && *p.Age == 24 &&
			p.Emotions == nil &&
			p.GoalID != nil && *p.GoalID == 3 &&
			p.GenderID == nil &&
			p.UpdatedAt.Equal(fixedNow)
	})).Return(nil)

	err := o.Save(context.Background(), "7", OnboardingInput{Name: " Ana ", Age: "24", GoalID: 3.0})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestOnboarding_Save_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID any
		in     OnboardingInput
		code   string
		field  string
	}{
		{name: "missing user", userID: nil, code: apperr.CodeMissingData, field: "userId"},
		{name: "age out of range", userID: 7, in: OnboardingInput{Age: 400}, code: apperr.CodeInvalidValue, field: "age"},
		{name: "age not a number", userID: 7, in: OnboardingInput{Age: "old"}, code: apperr.CodeInvalidValue, field: "age"},
		{name: "negative age", userID: 7, in: OnboardingInput{Age: -3}, code: apperr.CodeInvalidValue, field: "age"},
		{name: "name too long", userID: 7, in: OnboardingInput{Name: strings.Repeat("a", 101)}, code: apperr.CodeInvalidValue, field: "name"},
		{name: "negative gender", userID: 7, in: OnboardingInput{GenderID: -1}, code: apperr.CodeInvalidValue, field: "genderId"},
		{name: "bad intensity", userID: 7, in: OnboardingInput{IntensityID: "x"}, code: apperr.CodeInvalidValue, field: "intensityId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, userStore, store := newOnboardingService()

			err := o.Save(context.Background(), tt.userID, tt.in)
			apiErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.field, apiErr.Field)
			userStore.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestOnboarding_Save_UnknownUser(t *testing.T) {
	o, userStore, store := newOnboardingService()
	userStore.On("Exists", mock.Anything, int64(9)).Return(false, nil)

	err := o.Save(context.Background(), 9, OnboardingInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestOnboarding_Get(t *testing.T) {
	o, _, store := newOnboardingService()
	name := "Ana"

	store.On("GetByUserID", mock.Anything, int64(7)).Return(model.Onboarding{UserID: 7, Name: &name}, nil)
	store.On("GetByUserID", mock.Anything, int64(8)).Return(model.Onboarding{}, model.ErrNotFound)
	store.On("GetByUserID", mock.Anything, int64(9)).Return(model.Onboarding{}, errors.New("boom"))

	got, err := o.Get(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", *got.Name)

	got, err = o.Get(context.Background(), "8")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = o.Get(context.Background(), 9)
	assert.Error(t, err)
}
