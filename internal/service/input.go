package service

import (
	"errors"
	"fmt"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/coerce"
	"github.com/mento-app/mento-server/internal/model"
)

// field is a loosely typed request value together with its client-facing name.
type field struct {
	name  string
	value any
}

// parseFields runs presence checks on every field before coercing any of
// them, so a missing value is reported ahead of a malformed one.
func parseFields(fields ...field) ([]int64, error) {
	for _, f := range fields {
		if _, err := coerce.ID(f.value); errors.Is(err, coerce.ErrMissing) {
			return nil, apperr.NewErrMissingData(f.name)
		}
	}

	values := make([]int64, len(fields))
	for i, f := range fields {
		n, err := coerce.ID(f.value)
		if err != nil {
			return nil, apperr.NewErrInvalidValue(f.name, "must be an integer")
		}
		values[i] = n
	}
	return values, nil
}

func checkUserID(id int64) error {
	if id <= 0 {
		return apperr.NewErrInvalidValue("userId", "must be a positive integer")
	}
	return nil
}

func checkIsland(name string, id int64) (model.Island, error) {
	island := model.Island(id)
	if !island.Valid() {
		return 0, apperr.NewErrInvalidValue(name, fmt.Sprintf("unknown island %d", id))
	}
	return island, nil
}

func checkLevel(name string, level int64, maxLevel int) (int, error) {
	if level <= 0 || level > int64(maxLevel) {
		return 0, apperr.NewErrInvalidValue(name, fmt.Sprintf("must be between 1 and %d", maxLevel))
	}
	return int(level), nil
}

// parseUserID is the single-field form of parseFields.
func parseUserID(v any) (int64, error) {
	values, err := parseFields(field{"userId", v})
	if err != nil {
		return 0, err
	}
	if err := checkUserID(values[0]); err != nil {
		return 0, err
	}
	return values[0], nil
}

// optionalID coerces an optional positive identifier; absent values stay nil.
func optionalID(name string, v any) (*int64, error) {
	n, err := coerce.PositiveID(v)
	if errors.Is(err, coerce.ErrMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.NewErrInvalidValue(name, "must be a positive integer")
	}
	return &n, nil
}
