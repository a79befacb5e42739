package deref

import "context"

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/uLookup/deref Dereferencer,Importer,Listener

// Dereferencer is implemented by objects that retrieve and parse the
// representation found at a URI.
type Dereferencer interface {
	// Dereference retrieves uri. Implementations must honour ctx
	// cancellation.
	Dereference(ctx context.Context, uri string) (*Document, error)
}

// Importer is implemented by sinks that store dereferenced documents.
type Importer interface {
	// Import stores doc.
	Import(ctx context.Context, doc *Document) error
}

// Analyzer is implemented by objects that inspect dereferenced documents
// before they are imported.
type Analyzer interface {
	// Analyze inspects doc. It must not modify doc.
	Analyze(doc *Document)
}

// Listener is implemented by objects that want to be notified about
// finished dereferencing tasks. Listener methods are invoked from worker
// goroutines and must not block indefinitely. Listeners are compared for
// equality and must therefore be comparable values, e.g. pointers.
type Listener interface {
	// DereferencingCompleted is invoked with results whose outcome is
	// task.OutcomeCompleted.
	DereferencingCompleted(*Result)

	// DereferencingFailed is invoked with every other result.
	DereferencingFailed(*Result)
}

// NopImporter is an Importer that discards documents.
type NopImporter struct{}

// Import implements Importer.
func (NopImporter) Import(context.Context, *Document) error { return nil }

// NopAnalyzer is an Analyzer that ignores documents.
type NopAnalyzer struct{}

// Analyze implements Analyzer.
func (NopAnalyzer) Analyze(*Document) {}
