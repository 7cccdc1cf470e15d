// Package delivery defines the entry points that expose the application to the outside world.
package delivery

import "context"

// Delivery is a long-running server started by the application.
// Serve blocks until the server stops; a clean shutdown returns nil.
type Delivery interface {
	Serve(ctx context.Context) error
}
