// Package kernel holds domain primitives shared across the order model.
//
// Currently that is UUID, the identifier value object used for orders,
// clients, and products. Kernel types are immutable value objects: a zero
// value fails validation, copies are safe, and comparison goes through
// explicit methods rather than struct equality in calling code.
package kernel
