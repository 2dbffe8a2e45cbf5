// Package primitives provides the immutable definition layer of the engine:
// state identifiers, the state hierarchy (StateGraph), the transition lookup
// table (TransitionTable) and the Chart that bundles them.
//
// Everything in this package is built once, validated at construction time
// and never mutated afterwards. A single Chart may back any number of
// machine instances.
//
// Core invariants:
//   - the hierarchy is a forest: no state is its own ancestor
//   - every composite state names one of its own children as initial
//   - candidates for (state, event) keep declaration order
package primitives
