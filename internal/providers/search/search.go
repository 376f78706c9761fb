package search

import "context"

// Provider looks up a short fact on the web. found is false when the engine
// answered but nothing usable came back; err is reserved for transport and
// provider failures.
type Provider interface {
	Lookup(ctx context.Context, query string) (snippet string, found bool, err error)
}
