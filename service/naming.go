package service

import (
	"context"

	"github.com/google/uuid"
)

// TakenFunc reports whether candidate is used by any row other than excludeID.
type TakenFunc func(ctx context.Context, candidate string, excludeID *uuid.UUID) (bool, error)

// NameGuard pre-checks human-readable names, slugs and paths before a create or rename.
// It is a read and does not lock; the unique index decides concurrent races.
type NameGuard struct {
	label string
	taken TakenFunc
}

func NewNameGuard(label string, taken TakenFunc) *NameGuard {
	return &NameGuard{label: label, taken: taken}
}

func (g *NameGuard) IsAvailable(ctx context.Context, candidate string, excludeID *uuid.UUID) (bool, error) {
	taken, err := g.taken(ctx, candidate, excludeID)
	if err != nil {
		return false, Internal("failed to check "+g.label+" availability", err)
	}
	return !taken, nil
}

// Ensure fails with a BAD_REQUEST wrapping ErrNameTaken when candidate is in use.
func (g *NameGuard) Ensure(ctx context.Context, candidate string, excludeID *uuid.UUID) error {
	available, err := g.IsAvailable(ctx, candidate, excludeID)
	if err != nil {
		return err
	}
	if !available {
		return nameTaken(g.label, candidate)
	}
	return nil
}

// Conflict builds the error for a unique violation the store reported after the pre-check passed.
func (g *NameGuard) Conflict(candidate string) error {
	return nameTaken(g.label, candidate)
}
