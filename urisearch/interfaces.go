package urisearch

import "context"

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/uLookup/urisearch QueryProcessor,Listener

// QueryProcessor is implemented by objects that find documents which are
// likely to mention a URI.
type QueryProcessor interface {
	// Search returns the URIs of documents relevant for uri.
	// Implementations must honour ctx cancellation.
	Search(ctx context.Context, uri string) ([]string, error)
}

// Listener is implemented by objects that want to be notified about
// finished search tasks. Listener methods are invoked from worker
// goroutines and must not block indefinitely. Listeners must be comparable
// values.
type Listener interface {
	// SearchCompleted is invoked with results whose outcome is
	// task.OutcomeCompleted.
	SearchCompleted(*Result)

	// SearchFailed is invoked with every other result.
	SearchFailed(*Result)
}
