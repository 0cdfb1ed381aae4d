// Package delivery defines the contract every transport entrypoint
// implements so the application can run them uniformly.
package delivery

import "context"

// Delivery is a blocking transport server (HTTP today).
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
