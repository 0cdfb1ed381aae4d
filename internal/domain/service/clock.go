// Package service defines contracts for infrastructure services consumed by
// the use case layer.
package service

// Clock provides the current time at seconds resolution. All *_at stamps
// written by the engines come from here so tests can pin time.
type Clock interface {
	Now() int64
}
