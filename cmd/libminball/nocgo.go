//go:build !cgo

package main

import "log"

func main() {
	log.Fatal("libminball: build with CGO_ENABLED=1 and -buildmode=c-shared or c-archive")
}
