package memory

import "context"

// Backend makes committed history durable.
type Backend interface {
	Load(ctx context.Context, sessionID string) ([]Message, error)
	Append(ctx context.Context, sessionID string, msgs []Message) error
}

// NopBackend keeps nothing; history lives only as long as the Store.
type NopBackend struct{}

func (NopBackend) Load(context.Context, string) ([]Message, error) { return nil, nil }

func (NopBackend) Append(context.Context, string, []Message) error { return nil }
