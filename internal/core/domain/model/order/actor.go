package order

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Role classifies who is requesting a status transition.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleClient is an order-owning customer. Clients may only cancel
	// their own orders.
	RoleClient

	// RoleAdmin is a back-office operator with full transition rights.
	RoleAdmin

	// RoleSystem is the synthetic identity the reconciliation scheduler
	// uses to authorize automatic transitions.
	RoleSystem
)

// RoleFromString parses an external role tag ("CLIENT", "ADMIN").
// The system role is never accepted from the outside; it exists only for the
// scheduler's synthetic actor.
func RoleFromString(s string) (Role, error) {
	switch s {
	case "CLIENT":
		return RoleClient, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role is invalid",
			fmt.Errorf("%q is not a valid role tag", s))
	}
}

// String returns the wire tag of the role.
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "CLIENT"
	case RoleAdmin:
		return "ADMIN"
	case RoleSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Actor is the identity on whose behalf a transition is requested: a client,
// an admin, or the scheduler's synthetic system identity.
//
// Actor is a value object; use NewClientActor, NewAdminActor, or SystemActor.
type Actor struct {
	id   string
	role Role
}

// NewClientActor creates an actor for an order-owning customer.
func NewClientActor(clientID kernel.UUID) (Actor, error) {
	if err := clientID.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: clientID.String(), role: RoleClient}, nil
}

// NewAdminActor creates an actor for a back-office operator.
func NewAdminActor(adminID kernel.UUID) (Actor, error) {
	if err := adminID.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: adminID.String(), role: RoleAdmin}, nil
}

// SystemActor returns the synthetic identity used by the reconciliation
// scheduler for automatic transitions.
func SystemActor() Actor {
	return Actor{id: "system", role: RoleSystem}
}

// ID returns the actor's identifier. For clients and admins this is a UUID
// string; for the system actor it is the fixed tag "system".
func (a Actor) ID() string {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// Validate checks that the actor carries a known role and an identity.
func (a Actor) Validate() error {
	if a.id == "" || a.role == RoleUnknown {
		return errs.NewValueIsRequiredError("actor")
	}
	return nil
}

// MayTransition reports whether the actor is authorized to move the given
// order to the requested status. Admins and the system actor may request any
// edge; a client may only request cancellation, and only on an order they own.
func (a Actor) MayTransition(o *Order, to Status) bool {
	switch a.role {
	case RoleAdmin, RoleSystem:
		return true
	case RoleClient:
		return to == Cancelled && o != nil && a.id == o.ClientID().String()
	default:
		return false
	}
}
