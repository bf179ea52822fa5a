package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a requested status change is not
	// an edge of the transition graph.
	ErrInvalidTransition = errors.New("status transition is not allowed")

	// ErrGraphIsNotConstructed is returned when a TransitionGraph instance was
	// not created through NewTransitionGraph.
	ErrGraphIsNotConstructed = errors.New("TransitionGraph must be created via NewTransitionGraph constructor")
)

// TransitionGraph is the static directed graph of legal status transitions.
// It is an immutable value constructed once at startup and passed as a
// dependency into the code that applies transitions, so tests can substitute
// alternate graphs without touching global state.
//
// Construction enforces that every status has at most one outgoing edge that
// is not Cancelled. The reconciliation sweep advances orders by following that
// single forward edge; a branching graph would leave it unable to choose, so a
// branch fails construction instead of being resolved by iteration order.
type TransitionGraph struct {
	edges         map[Status]map[Status]bool
	nextActive    map[Status]Status
	isConstructed bool
}

// NewTransitionGraph builds a transition graph from an adjacency list.
// Returns an error if any status in the list is invalid, if an edge targets
// an invalid status, or if a status has more than one non-cancellation
// outgoing edge. Callers at startup should treat an error as fatal.
func NewTransitionGraph(adjacency map[Status][]Status) (TransitionGraph, error) {
	edges := make(map[Status]map[Status]bool, len(adjacency))
	nextActive := make(map[Status]Status)

	for from, targets := range adjacency {
		if err := from.Validate(); err != nil {
			return TransitionGraph{}, err
		}

		edges[from] = make(map[Status]bool, len(targets))
		for _, to := range targets {
			if err := to.Validate(); err != nil {
				return TransitionGraph{}, err
			}
			edges[from][to] = true

			if to == Cancelled {
				continue
			}
			if prev, ok := nextActive[from]; ok {
				return TransitionGraph{}, fmt.Errorf(
					"transition graph is ambiguous: %s has forward edges to both %s and %s", from, prev, to)
			}
			nextActive[from] = to
		}
	}

	return TransitionGraph{
		edges:         edges,
		nextActive:    nextActive,
		isConstructed: true,
	}, nil
}

// DefaultTransitionGraph returns the production order workflow:
//
//	CREATED   -> CONFIRMED, CANCELLED
//	CONFIRMED -> SHIPPED, CANCELLED
//	SHIPPED   -> DELIVERED
//	DELIVERED -> (terminal)
//	CANCELLED -> (terminal)
//
// The edge set is fixed at compile time, so a construction failure is a
// programming error and panics at startup.
func DefaultTransitionGraph() TransitionGraph {
	graph, err := NewTransitionGraph(map[Status][]Status{
		Created:   {Confirmed, Cancelled},
		Confirmed: {Shipped, Cancelled},
		Shipped:   {Delivered},
		Delivered: {},
		Cancelled: {},
	})
	if err != nil {
		panic(err)
	}
	return graph
}

// Validate ensures the graph was created through NewTransitionGraph.
func (g TransitionGraph) Validate() error {
	if !g.isConstructed {
		return ErrGraphIsNotConstructed
	}
	return nil
}

// CanTransition reports whether to is in the adjacency set of from.
// Stateless and side-effect free; a zero-value graph permits nothing.
func (g TransitionGraph) CanTransition(from, to Status) bool {
	return g.edges[from][to]
}

// NextActiveStatus returns the single non-cancellation outgoing edge of from,
// if one exists. Terminal statuses (and statuses whose only edge is
// Cancelled) have no forward edge and return ok=false.
//
// Uniqueness of the forward edge is guaranteed at construction, so the result
// is deterministic.
func (g TransitionGraph) NextActiveStatus(from Status) (Status, bool) {
	next, ok := g.nextActive[from]
	return next, ok
}
