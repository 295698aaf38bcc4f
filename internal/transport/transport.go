// Package transport defines the interface for pluggable message transports.
//
// Each transport (gRPC, HTTP) implements this interface and feeds incoming
// utterances to a Handler. Transports don't care how an utterance is
// processed; they only translate between their wire format and
// message.Message / message.TurnResult.
package transport

import (
	"context"

	"github.com/nadzzz/voxlist/internal/message"
)

// Handler processes an incoming message and returns the turn result.
// The turn processor provides this handler to each transport.
type Handler func(ctx context.Context, msg *message.Message) (*message.TurnResult, error)

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http").
	Name() string

	// Listen starts accepting incoming messages and passes them to handler.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
