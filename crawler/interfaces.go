package crawler

import "net/http"

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/uLookup/crawler URLGetter,PrivateNetworkDetector

// URLGetter is implemented by objects that execute HTTP requests.
type URLGetter interface {
	Do(req *http.Request) (*http.Response, error)
}

// PrivateNetworkDetector should be implemented by objects that can detect
// whether a host resolves to a private network address.
type PrivateNetworkDetector interface {
	IsNetworkPrivate(address string) (bool, error)
}
