package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategorisedErrors_MatchBothSentinels(t *testing.T) {
	conflict := domain.NewStateConflictError("booking already cancelled")

	assert.True(t, errors.Is(conflict, conflict))
	assert.True(t, errors.Is(conflict, domain.ErrStateConflict))
	assert.False(t, errors.Is(conflict, domain.ErrValidation))
	assert.Equal(t, "booking already cancelled", conflict.Error())
}

func TestCategorisedErrors_SurviveWrapping(t *testing.T) {
	notFound := domain.NewNotFoundError("premises not found")
	wrapped := fmt.Errorf("loading premises: %w", notFound)

	assert.True(t, errors.Is(wrapped, notFound))
	assert.True(t, errors.Is(wrapped, domain.ErrNotFound))
}

func TestCategorisedErrors_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"validation", domain.NewValidationError("end before start"), domain.ErrValidation},
		{"state conflict", domain.NewStateConflictError("not open"), domain.ErrStateConflict},
		{"no capacity", domain.NewNoCapacityError("no beds"), domain.ErrNoCapacity},
		{"not found", domain.NewNotFoundError("unknown id"), domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.category))
		})
	}
}
