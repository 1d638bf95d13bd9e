// Package ode provides the core types for fixed-step propagation of
// ordinary differential equations:
//
//   - [State]: vector representing the integrated quantity
//   - [Derivative]: source of dX/dt = f(X)
//   - [DerivativeFunc]: adapter so plain closures act as a Derivative
//
// The package assumes nothing about dimensionality beyond the minimal
// vector algebra State provides (clone, add, scale, scaled accumulate).
//
// # Thread Safety
//
// State values are plain slices and follow the usual Go aliasing rules.
// A Derivative shared across goroutines must itself be safe for
// concurrent Eval calls; nothing in this package serializes access to it.
package ode
