package service

import "github.com/google/uuid"

// Caller identifies who is invoking an operation. Handlers build it from the request's
// credentials and pass it explicitly; services never look at request state.
type Caller struct {
	ID              uuid.UUID
	Email           string
	Role            string
	IsAuthenticated bool
}

func Anonymous() Caller {
	return Caller{}
}

func (c Caller) Require() error {
	if !c.IsAuthenticated || c.ID == uuid.Nil {
		return Unauthorized("authentication required")
	}
	return nil
}
