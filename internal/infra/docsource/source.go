// Package docsource fetches the raw schedule document text from a local
// file, an HTTP endpoint, or a Google Doc.
package docsource

import "context"

// Source yields the schedule document as plain text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}
