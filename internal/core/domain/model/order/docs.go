// Package order provides domain entities and business logic for order
// lifecycle management. It implements the Order aggregate root together with
// the transition graph that governs its status changes.
//
// The package includes:
//   - Order: The aggregate root carrying an immutable item snapshot, a status,
//     and the optimistic-concurrency version counter
//   - Status: The finite set of lifecycle states with their wire tags
//   - TransitionGraph: An immutable value describing the legal status moves,
//     constructed once at startup and injected as a dependency
//   - Item: A value object snapshotting product, quantity, and price at order time
//   - Actor: The identity (client, admin, or system) requesting a transition
//   - StatusChangedEvent: The notification emitted after a committed transition
//
// Key business rules:
//   - Status only moves along transition-graph edges; Delivered and Cancelled
//     are terminal
//   - Every non-terminal status has at most one non-cancellation outgoing edge,
//     enforced when the graph is constructed, so the reconciliation sweep can
//     pick the next status deterministically
//   - Items and the derived total price are fixed at creation; cancellation
//     releases inventory but never alters them
//   - The version counter increases with every committed change and is the
//     token for compare-and-swap persistence
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
