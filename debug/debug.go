//go:build !debug

// Package debug exposes the build-time debug flag consumed by the logger.
package debug

const Debug = false
