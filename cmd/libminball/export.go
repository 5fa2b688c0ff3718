//go:build cgo

package main

// #include "minball_C_interface.h"
import "C"

import (
	"unsafe"

	"github.com/banshee-data/minball/internal/minball"
)

// fromC copies the C array. A null pointer or negative size yields no
// balls so the size check rejects it.
func fromC(balls *C.struct_Ball2D, size C.int) []minball.Ball2D {
	if balls == nil || size <= 0 {
		return nil
	}
	in := unsafe.Slice(balls, int(size))
	out := make([]minball.Ball2D, len(in))
	for i, b := range in {
		out[i] = minball.Ball2D{
			Center: [2]float64{float64(b.center[0]), float64(b.center[1])},
			Radius: float64(b.radius),
		}
	}
	return out
}

func toC(b minball.Ball2D) C.struct_Ball2D {
	var out C.struct_Ball2D
	out.center[0] = C.double(b.Center[0])
	out.center[1] = C.double(b.Center[1])
	out.radius = C.double(b.Radius)
	return out
}

//export compute_minball2D
func compute_minball2D(balls *C.struct_Ball2D, size C.int) C.struct_Ball2D {
	result, _ := solve(fromC(balls, size), int(size))
	return toC(result)
}

//export compute_minball2D_checked
func compute_minball2D_checked(balls *C.struct_Ball2D, size C.int, out *C.struct_Ball2D) C.int {
	result, status := solve(fromC(balls, size), int(size))
	if status == statusOK && out != nil {
		*out = toC(result)
	}
	return C.int(status)
}

func main() {}
