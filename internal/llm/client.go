package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoProvider is returned by Unavailable when no completion provider is configured.
var ErrNoProvider = errors.New("llm: no completion provider configured")

// ErrEmptyReply is returned when a provider answers with blank text.
var ErrEmptyReply = errors.New("llm: empty reply")

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request is a single-turn completion request. A negative Temperature leaves
// the provider default in place.
type Request struct {
	System      []string
	Prompt      string
	MaxTokens   int32
	Temperature float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client is a text-completion service.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ServiceError reports a failed external completion call for one operation.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Timeout reports whether the call was abandoned because its deadline passed.
func (e *ServiceError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Unavailable is a Client that always fails. It keeps the service running
// in fail-open mode when no provider credentials are present.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, Request) (Response, error) {
	return Response{}, ErrNoProvider
}
