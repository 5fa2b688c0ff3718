// Package minball computes the minimum enclosing ball of a set of balls in
// the plane.
//
// Responsibilities: input validation, the randomized incremental LP-type
// solver, and certification of every result before it is returned.
// Key types: Ball2D, Solver, LPTypeSolver.
//
// The solver keeps a basis of at most three balls whose tangent ball is the
// current candidate. When a ball is found outside the candidate the basis is
// repaired against it, and the scan repeats until a full pass finds no
// violator. Every returned ball is certified against all inputs; a failed
// certification panics with *InvalidSolutionError because it can only mean a
// solver defect.
//
// The package holds no state between calls and is safe for concurrent use.
package minball
