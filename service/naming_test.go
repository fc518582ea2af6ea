package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameGuard(t *testing.T) {
	owner := uuid.New()
	taken := map[string]uuid.UUID{"kiln-01": owner}
	guard := NewNameGuard("name", func(_ context.Context, candidate string, excludeID *uuid.UUID) (bool, error) {
		id, ok := taken[candidate]
		if !ok {
			return false, nil
		}
		return excludeID == nil || *excludeID != id, nil
	})
	ctx := context.Background()

	available, err := guard.IsAvailable(ctx, "kiln-02", nil)
	require.NoError(t, err)
	assert.True(t, available)

	err = guard.Ensure(ctx, "kiln-01", nil)
	assertCode(t, err, CodeBadRequest)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Contains(t, MessageOf(err), `"kiln-01"`)

	assert.NoError(t, guard.Ensure(ctx, "kiln-01", &owner))
	assert.ErrorIs(t, guard.Conflict("kiln-01"), ErrNameTaken)
}

func TestNameGuard_LookupFailure(t *testing.T) {
	guard := NewNameGuard("slug", func(context.Context, string, *uuid.UUID) (bool, error) {
		return false, errors.New("db down")
	})

	err := guard.Ensure(context.Background(), "anything", nil)

	assertCode(t, err, CodeInternal)
	assert.NotErrorIs(t, err, ErrNameTaken)
}
