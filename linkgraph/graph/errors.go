package graph

import "errors"

var (
	// ErrNotFound is returned when a link lookup fails.
	ErrNotFound = errors.New("not found")

	// ErrUnknownEdgeLinks is returned when an edge refers to links that
	// do not exist.
	ErrUnknownEdgeLinks = errors.New("unknown source and/or destination for edge")
)
