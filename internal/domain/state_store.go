package domain

import "context"

// StateStore persists the sent-log between reminder passes.
type StateStore interface {
	Load(ctx context.Context) (SentLog, error)
	Save(ctx context.Context, log SentLog) error
}
