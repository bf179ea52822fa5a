// Package guard provides a lightweight constructor-enforcement primitive for
// commands, queries, and value objects. Embedding a ConstructorGuard in a
// struct makes zero-value instances distinguishable from instances created
// through their designated constructor, so Validate methods can reject
// objects that bypassed construction-time validation.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guard belongs to
// a zero-value object and the caller supplied no specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. The zero value
// fails validation; only NewConstructorGuard produces a passing guard.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that passes validation. Call it from
// the owning object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns notConstructedErr, or ErrDefaultConstructorGuard when
// notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}
	if notConstructedErr == nil {
		return ErrDefaultConstructorGuard
	}
	return notConstructedErr
}
