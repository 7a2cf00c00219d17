// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/mushaf/internal/content"
	"github.com/taibuivan/mushaf/internal/platform/constants"
	"github.com/taibuivan/mushaf/internal/platform/validate"
)

// Service orchestrates business rules for settings.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new setting [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// All returns the stored settings.
func (service *Service) All(ctx context.Context) (map[string]string, error) {
	return service.repo.All(ctx)
}

/*
Set validates and upserts one setting.

Parameters:
  - ctx: context.Context
  - key: string (required token, at most 64 characters, surrounding space trimmed)
  - value: string (at most 1024 characters; script, translation and recitation are checked)

Returns:
  - error: VALIDATION_ERROR or persistence failures
*/
func (service *Service) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)

	v := &validate.Validator{}
	v.Required(FieldKey, key).MaxLen(FieldKey, key, MaxKeyLength).Token(FieldKey, key)
	v.MaxLen(FieldValue, value, MaxValueLength)
	validateKnown(v, key, value)
	if err := v.Err(); err != nil {
		return err
	}

	if err := service.repo.Set(ctx, key, value); err != nil {
		return err
	}

	service.logger.InfoContext(ctx, "setting_updated", slog.String("key", key))
	return nil
}

// validateKnown checks the values of keys the content client reads.
// Other keys are stored as given.
func validateKnown(v *validate.Validator, key, value string) {
	switch key {
	case constants.SettingScript:
		v.OneOf(FieldValue, value, content.Scripts...)
	case constants.SettingTranslation, constants.SettingRecitation:
		n, err := strconv.Atoi(value)
		v.Custom(FieldValue, err != nil || n < 1, "Must be a positive integer")
	}
}
