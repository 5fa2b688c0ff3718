// Package tunnel models a molecular tunnel as a chain of spheres along a
// centre curve and fits minimal cross-section disks to it.
//
// A cross-section at a point and normal is the plane cut of every sphere,
// restricted to the connected group of cut circles containing the point.
// The minimal disk is the minimum enclosing ball of those circles, lifted
// back into 3D.
package tunnel
