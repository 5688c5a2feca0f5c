package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/chatlookup/internal/observability/metrics"
)

type stubClient struct {
	text  string
	err   error
	calls atomic.Int32
	last  Request
}

func (s *stubClient) Complete(_ context.Context, req Request) (Response, error) {
	s.calls.Add(1)
	s.last = req
	if s.err != nil {
		return Response{}, s.err
	}
	return Response{Text: s.text}, nil
}

// blockingClient waits until its context is cancelled.
type blockingClient struct {
	cancelled chan struct{}
}

func (b *blockingClient) Complete(ctx context.Context, _ Request) (Response, error) {
	<-ctx.Done()
	close(b.cancelled)
	return Response{}, ctx.Err()
}

// stubbornClient ignores its context and answers late.
type stubbornClient struct {
	delay time.Duration
}

func (s stubbornClient) Complete(context.Context, Request) (Response, error) {
	time.Sleep(s.delay)
	return Response{Text: "late"}, nil
}

func TestCallerSuccess(t *testing.T) {
	client := &stubClient{text: "hello"}
	caller := NewCaller(client, time.Second, metrics.NewChatMetrics(prometheus.NewRegistry()))

	resp, err := caller.Call(context.Background(), "test.op", Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, "hi", client.last.Prompt)
}

func TestCallerWrapsProviderError(t *testing.T) {
	boom := errors.New("boom")
	caller := NewCaller(&stubClient{err: boom}, time.Second, nil)

	_, err := caller.Call(context.Background(), "clinic.extract", Request{Prompt: "hi"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "clinic.extract", svcErr.Op)
	assert.False(t, svcErr.Timeout())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "clinic.extract")
}

func TestCallerTimeoutCancelsCall(t *testing.T) {
	client := &blockingClient{cancelled: make(chan struct{})}
	caller := NewCaller(client, 20*time.Millisecond, nil)

	start := time.Now()
	_, err := caller.Call(context.Background(), "menu.compose", Request{Prompt: "hi"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.True(t, svcErr.Timeout())
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-client.cancelled:
	case <-time.After(time.Second):
		t.Fatal("in-flight call was not cancelled")
	}
}

func TestCallerReturnsBeforeStubbornClient(t *testing.T) {
	caller := NewCaller(stubbornClient{delay: 300 * time.Millisecond}, 20*time.Millisecond, nil)

	start := time.Now()
	_, err := caller.Call(context.Background(), "clinic.compose", Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestCallerDefaults(t *testing.T) {
	caller := NewCaller(nil, 0, nil)
	assert.Equal(t, DefaultTimeout, caller.timeout)

	_, err := caller.Call(context.Background(), "op", Request{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestCallObject(t *testing.T) {
	caller := NewCaller(&stubClient{text: "```json\n{\"specialization\": \"Dentist\"}\n```"}, time.Second, nil)
	fields, err := caller.CallObject(context.Background(), "clinic.extract", Request{Prompt: "hi"})
	require.NoError(t, err)
	spec, ok := fields.String("specialization")
	assert.True(t, ok)
	assert.Equal(t, "Dentist", spec)

	caller = NewCaller(&stubClient{text: "I could not find any filters."}, time.Second, nil)
	fields, err = caller.CallObject(context.Background(), "clinic.extract", Request{Prompt: "hi"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "clinic.extract", svcErr.Op)
	assert.Empty(t, fields)
}

func TestCallArray(t *testing.T) {
	caller := NewCaller(&stubClient{text: `[{"dish_name": "Dal", "is_valid": true}]`}, time.Second, nil)
	items, err := caller.CallArray(context.Background(), "menu.validate", Request{Prompt: "hi"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	caller = NewCaller(&stubClient{text: `{"dish_name": "Dal"}`}, time.Second, nil)
	_, err = caller.CallArray(context.Background(), "menu.validate", Request{Prompt: "hi"})
	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
}
