// Command libminball builds the minimum enclosing ball solver as a C
// library:
//
//	go build -buildmode=c-shared -o libminball.so ./cmd/libminball
//
// The exported symbols are declared in minball_C_interface.h.
package main
