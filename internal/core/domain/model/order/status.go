package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The legal moves between statuses are not encoded here; they live in
// TransitionGraph, which is constructed once at startup and injected into the
// code that applies transitions. Status itself only knows its identity, its
// wire tag, and whether it is terminal.
//
// Production workflow:
//
//	Created ──> Confirmed ──> Shipped ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Status is persisted and published as its uppercase tag (e.g. "CREATED"),
// which is what downstream consumers expect on the wire.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status, set at checkout once inventory
	// reservation succeeded.
	Created

	// Confirmed indicates the order has been accepted for fulfilment.
	Confirmed

	// Shipped indicates the order has left the warehouse.
	Shipped

	// Delivered indicates the order reached the client.
	// Terminal status with no further transitions.
	Delivered

	// Cancelled indicates the order was cancelled and its inventory
	// reservation released. Terminal status with no further transitions.
	Cancelled
)

// getStatusStrings returns a map of Status values to their wire tags.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Created:   "CREATED",
		Confirmed: "CONFIRMED",
		Shipped:   "SHIPPED",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation and parsing.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:   "CREATED",
		Confirmed: "CONFIRMED",
		Shipped:   "SHIPPED",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// StatusFromString parses a wire tag back into a Status.
// Returns an error for anything outside the five valid tags.
func StatusFromString(s string) (Status, error) {
	for status, tag := range getValidStatusStrings() {
		if tag == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status tag", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Created, Confirmed, Shipped, Delivered, Cancelled.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire tag of the status ("CREATED", "CONFIRMED", ...).
// Implements fmt.Stringer; safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status ends the order lifecycle.
// Delivered and Cancelled have no outgoing transitions; orders in these
// statuses are retained indefinitely but never change again.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}
