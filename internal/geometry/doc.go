// Package geometry provides the 3D primitives used to cut a tunnel with a
// plane: spheres, disks, planes with an in-plane 2D parametrisation, lines,
// segments and the planar circles the cuts produce.
//
// Vectors are gonum r3.Vec / r2.Vec values. Comparisons use Epsilon as an
// absolute slack unless a method says otherwise.
package geometry
