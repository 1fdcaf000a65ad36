//go:build !dev

// Package trace provides runtime tracing for development builds.
// This is the release version where all hooks compile to no-ops.
package trace

import "context"

// Init is a no-op in release builds.
func Init() func() {
	return func() {}
}

// Region is a no-op in release builds.
func Region(_ context.Context, _ string) func() {
	return func() {}
}
