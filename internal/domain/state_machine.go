package domain

import "fmt"

type Actor string

const (
	// ActorCustomer is the customer owning the reservation. Ownership is
	// verified by the caller before a transition is attempted.
	ActorCustomer Actor = "CUSTOMER"
	// ActorManager covers managers and admins.
	ActorManager Actor = "MANAGER"
)

type transitionKey struct {
	from RentalStatus
	to   RentalStatus
}

var transitions = map[transitionKey][]Actor{
	{RentalStatusPending, RentalStatusActive}:    {ActorManager},
	{RentalStatusPending, RentalStatusRejected}:  {ActorManager},
	{RentalStatusPending, RentalStatusCancelled}: {ActorCustomer},
	{RentalStatusActive, RentalStatusCompleted}:  {ActorManager, ActorCustomer},
	{RentalStatusActive, RentalStatusCancelled}:  {ActorCustomer},
}

// TransitionPolicy switches optional edges of the lifecycle graph.
type TransitionPolicy struct {
	AllowCancelActive bool
}

func DefaultTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{AllowCancelActive: true}
}

// CanTransition validates a single lifecycle step.
func (p TransitionPolicy) CanTransition(from, to RentalStatus, actor Actor) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	if from == RentalStatusActive && to == RentalStatusCancelled && !p.AllowCancelActive {
		return fmt.Errorf("%w: active rentals cannot be cancelled", ErrInvalidTransition)
	}
	actors, ok := transitions[transitionKey{from, to}]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	for _, a := range actors {
		if a == actor {
			return nil
		}
	}
	return fmt.Errorf("%w: %s may not move %s -> %s", ErrInvalidTransition, actor, from, to)
}

// Transition applies the step to r when it is legal. Re-applying the terminal
// status r already holds reports applied=false with no error.
func (p TransitionPolicy) Transition(r *Rental, to RentalStatus, actor Actor) (applied bool, err error) {
	if r.Status == to && to.IsTerminal() {
		return false, nil
	}
	if err := p.CanTransition(r.Status, to, actor); err != nil {
		return false, err
	}
	r.Status = to
	return true, nil
}
