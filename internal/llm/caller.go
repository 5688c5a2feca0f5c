package llm

import (
	"context"
	"time"

	"github.com/wolfman30/chatlookup/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single completion call when none is configured.
const DefaultTimeout = 10 * time.Second

// Caller runs completions under a per-call deadline. When the deadline
// passes it returns at once and cancels the in-flight request.
type Caller struct {
	client  Client
	timeout time.Duration
	metrics *metrics.ChatMetrics
	tracer  trace.Tracer
}

func NewCaller(client Client, timeout time.Duration, m *metrics.ChatMetrics) *Caller {
	if client == nil {
		client = Unavailable{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Caller{
		client:  client,
		timeout: timeout,
		metrics: m,
		tracer:  otel.Tracer("chatlookup.internal.llm"),
	}
}

type completion struct {
	resp Response
	err  error
}

// Call performs one completion for op. Failures are returned as *ServiceError.
func (c *Caller) Call(ctx context.Context, op string, req Request) (Response, error) {
	ctx, span := c.tracer.Start(ctx, "llm.complete", trace.WithAttributes(attribute.String("llm.op", op)))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		resp, err := c.client.Complete(callCtx, req)
		done <- completion{resp: resp, err: err}
	}()

	var result completion
	select {
	case result = <-done:
	case <-callCtx.Done():
		result.err = callCtx.Err()
	}

	if result.err != nil {
		svcErr := &ServiceError{Op: op, Err: result.err}
		outcome := "error"
		if svcErr.Timeout() {
			outcome = "timeout"
		}
		c.metrics.ObserveLLMCall(op, outcome)
		span.RecordError(svcErr)
		span.SetStatus(codes.Error, outcome)
		return Response{}, svcErr
	}

	c.metrics.ObserveLLMCall(op, "ok")
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Int("llm.tokens.input", int(result.resp.Usage.InputTokens)),
			attribute.Int("llm.tokens.output", int(result.resp.Usage.OutputTokens)),
		)
	}
	return result.resp, nil
}

// CallObject performs a completion and decodes the reply as a JSON object.
// Output that is not a JSON object is reported as a *ServiceError.
func (c *Caller) CallObject(ctx context.Context, op string, req Request) (Fields, error) {
	resp, err := c.Call(ctx, op, req)
	if err != nil {
		return Fields{}, err
	}
	fields, err := DecodeObject(resp.Text)
	if err != nil {
		c.metrics.ObserveLLMCall(op, "malformed")
		return Fields{}, &ServiceError{Op: op, Err: err}
	}
	return fields, nil
}

// CallArray performs a completion and decodes the reply as a JSON array of objects.
func (c *Caller) CallArray(ctx context.Context, op string, req Request) ([]Fields, error) {
	resp, err := c.Call(ctx, op, req)
	if err != nil {
		return nil, err
	}
	items, err := DecodeArray(resp.Text)
	if err != nil {
		c.metrics.ObserveLLMCall(op, "malformed")
		return nil, &ServiceError{Op: op, Err: err}
	}
	return items, nil
}
