package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/coerce"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

// profileFields holds the onboarding values once age is coerced to a number.
type profileFields struct {
	Name     string `json:"name" validate:"max=100"`
	Emotions string `json:"emotions" validate:"max=1000"`
	Age      int64  `json:"age" validate:"gte=0,lte=130"`
}

// OnboardingInput holds the loosely typed profile fields posted by clients.
type OnboardingInput struct {
	Name        string
	Age         any
	Emotions    string
	GenderID    any
	IntensityID any
	GoalID      any
}

type Onboarding struct {
	userStore       model.UserStore
	onboardingStore model.OnboardingStore
	logger          *logger.Logger
	tracer          trace.Tracer
	now             func() time.Time
}

func NewOnboarding(
	userStore model.UserStore,
	onboardingStore model.OnboardingStore,
	logger *logger.Logger,
) *Onboarding {
	return &Onboarding{
		userStore:       userStore,
		onboardingStore: onboardingStore,
		logger:          logger,
		tracer:          newTracer(),
		now:             time.Now,
	}
}

// Save replaces the user's profile. Empty fields are stored as null.
func (o *Onboarding) Save(ctx context.Context, userID any, in OnboardingInput) (err error) {
	ctx, span := o.tracer.Start(ctx, "Onboarding.Save")
	defer func() { endSpan(span, err) }()

	uid, err := parseUserID(userID)
	if err != nil {
		return err
	}

	fields := profileFields{
		Name:     strings.TrimSpace(in.Name),
		Emotions: strings.TrimSpace(in.Emotions),
	}
	age, err := coerce.ID(in.Age)
	switch {
	case errors.Is(err, coerce.ErrMissing):
	case err != nil:
		return apperr.NewErrInvalidValue("age", "must be a whole number")
	default:
		fields.Age = age
	}
	if err := validateInput(fields); err != nil {
		return err
	}

	profile := model.Onboarding{
		UserID:    uid,
		Name:      optionalString(fields.Name),
		Emotions:  optionalString(fields.Emotions),
		UpdatedAt: o.now().UTC(),
	}
	if fields.Age > 0 {
		a := int(fields.Age)
		profile.Age = &a
	}

	if profile.GenderID, err = optionalID("genderId", in.GenderID); err != nil {
		return err
	}
	if profile.IntensityID, err = optionalID("intensityId", in.IntensityID); err != nil {
		return err
	}
	if profile.GoalID, err = optionalID("goalId", in.GoalID); err != nil {
		return err
	}

	ok, err := o.userStore.Exists(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return apperr.NewErrUserNotFound(uid)
	}

	err = o.onboardingStore.Upsert(ctx, profile)
	if errors.Is(err, model.ErrNotFound) {
		return apperr.NewErrUserNotFound(uid)
	}
	if err != nil {
		o.logger.Error("Onboarding service: failed to save profile",
			"user_id", uid,
			"error", err.Error())
		return fmt.Errorf("failed to save onboarding: %w", err)
	}

	o.logger.Info("Onboarding service: profile saved",
		"user_id", uid)

	return nil
}

// Get returns the user's profile, or nil when none was saved yet.
func (o *Onboarding) Get(ctx context.Context, userID any) (_ *model.Onboarding, err error) {
	ctx, span := o.tracer.Start(ctx, "Onboarding.Get")
	defer func() { endSpan(span, err) }()

	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	profile, err := o.onboardingStore.GetByUserID(ctx, uid)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		o.logger.Error("Onboarding service: failed to get profile",
			"user_id", uid,
			"error", err.Error())
		return nil, fmt.Errorf("failed to get onboarding: %w", err)
	}
	return &profile, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
