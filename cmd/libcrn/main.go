// Command libcrn builds the crnbridge C library.
//
//	go build -tags crnlib -buildmode=c-shared -o libcrn.so ./cmd/libcrn
//
// It exports the legacy ConvertCrnInMemory, GetError, ClearError and
// FreeMemory entry points, which share one process-wide registry and keep the
// last error per OS thread, and a handle API (CrnCreateContext and friends) where each
// context owns its own registry and last error.
package main

func main() {}
