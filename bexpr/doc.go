// Package bexpr parses Boolean equations, rewrites them and evaluates them
// into truth tables.
//
// Equations mix plain-English and symbolic operators freely:
//
//	out = (A and B) || ~C -> D
//
// The spelling used for every operator is kept on its node so rendered
// output preserves the author's notation.
//
// Supported transformations:
//   - De Morgan's law (ApplyDeMorgans)
//   - negation coalescing (CoalesceNegations)
//   - AND over OR distribution (DistributeAnds)
//   - OR over AND distribution (DistributeOrs)
//   - reduction to AND, OR and NOT (ToPrimitives)
//
// Each transformation returns a new Expression whose tree shares no node with
// its input. Parse, transformation and evaluation failures caused by input
// are reported as *GrammarError, *TooManySymbolsError,
// *InvalidArgumentTypeError or *InvalidArgumentError; anything else is an
// *InternalError.
package bexpr
