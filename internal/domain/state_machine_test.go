package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionPolicy_CanTransition(t *testing.T) {
	p := DefaultTransitionPolicy()

	allowed := []struct {
		from, to RentalStatus
		actor    Actor
	}{
		{RentalStatusPending, RentalStatusActive, ActorManager},
		{RentalStatusPending, RentalStatusRejected, ActorManager},
		{RentalStatusPending, RentalStatusCancelled, ActorCustomer},
		{RentalStatusActive, RentalStatusCompleted, ActorManager},
		{RentalStatusActive, RentalStatusCompleted, ActorCustomer},
		{RentalStatusActive, RentalStatusCancelled, ActorCustomer},
	}
	for _, tt := range allowed {
		assert.NoError(t, p.CanTransition(tt.from, tt.to, tt.actor), "%s -> %s by %s", tt.from, tt.to, tt.actor)
	}

	denied := []struct {
		from, to RentalStatus
		actor    Actor
	}{
		{RentalStatusPending, RentalStatusActive, ActorCustomer},
		{RentalStatusPending, RentalStatusRejected, ActorCustomer},
		{RentalStatusPending, RentalStatusCancelled, ActorManager},
		{RentalStatusPending, RentalStatusCompleted, ActorManager},
		{RentalStatusActive, RentalStatusRejected, ActorManager},
		{RentalStatusActive, RentalStatusPending, ActorManager},
		{RentalStatusRejected, RentalStatusActive, ActorManager},
		{RentalStatusCancelled, RentalStatusPending, ActorCustomer},
		{RentalStatusCompleted, RentalStatusCancelled, ActorCustomer},
	}
	for _, tt := range denied {
		err := p.CanTransition(tt.from, tt.to, tt.actor)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s by %s", tt.from, tt.to, tt.actor)
	}
}

func TestTransitionPolicy_CancelActiveDisabled(t *testing.T) {
	p := TransitionPolicy{AllowCancelActive: false}

	assert.ErrorIs(t, p.CanTransition(RentalStatusActive, RentalStatusCancelled, ActorCustomer), ErrInvalidTransition)
	assert.NoError(t, p.CanTransition(RentalStatusPending, RentalStatusCancelled, ActorCustomer))
}

func TestTransitionPolicy_Transition(t *testing.T) {
	p := DefaultTransitionPolicy()

	t.Run("Applies legal step", func(t *testing.T) {
		r := &Rental{Status: RentalStatusPending}
		applied, err := p.Transition(r, RentalStatusActive, ActorManager)
		assert.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, RentalStatusActive, r.Status)
	})

	t.Run("Same terminal status is a no-op", func(t *testing.T) {
		for _, st := range []RentalStatus{RentalStatusRejected, RentalStatusCancelled, RentalStatusCompleted} {
			r := &Rental{Status: st}
			applied, err := p.Transition(r, st, ActorManager)
			assert.NoError(t, err)
			assert.False(t, applied)
			assert.Equal(t, st, r.Status)
		}
	})

	t.Run("Contradictory terminal step fails untouched", func(t *testing.T) {
		r := &Rental{Status: RentalStatusRejected}
		applied, err := p.Transition(r, RentalStatusCompleted, ActorManager)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.False(t, applied)
		assert.Equal(t, RentalStatusRejected, r.Status)
	})

	t.Run("Re-approving is not a no-op", func(t *testing.T) {
		r := &Rental{Status: RentalStatusActive}
		_, err := p.Transition(r, RentalStatusActive, ActorManager)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestDeriveAvailability(t *testing.T) {
	assert.True(t, DeriveAvailability(nil))
	assert.True(t, DeriveAvailability([]RentalStatus{RentalStatusRejected, RentalStatusCancelled, RentalStatusCompleted}))
	assert.False(t, DeriveAvailability([]RentalStatus{RentalStatusCompleted, RentalStatusPending}))
	assert.False(t, DeriveAvailability([]RentalStatus{RentalStatusActive}))
}
