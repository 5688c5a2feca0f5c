package clinic

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/chatlookup/internal/llm"
	"github.com/wolfman30/chatlookup/internal/observability/metrics"
	"github.com/wolfman30/chatlookup/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Flow names the clinic chat flow in logs, metrics and transcripts.
	Flow = "clinic"

	NoDoctorsReply = "No doctors available for the requested criteria."
	ApologyReply   = "An error occurred while generating the response."

	opExtract = "clinic.extract"
	opCompose = "clinic.compose"
)

const composePromptTemplate = `User Query: "%s". Response: %s. Generate only a single professional response, ensuring clarity.`

// Options configures a Service. Zero values are usable.
type Options struct {
	Logger      *logging.Logger
	Metrics     *metrics.ChatMetrics
	Temperature float32
}

// Service answers appointment questions: it extracts a filter with the
// completion service, searches the roster, and has the completion service
// phrase the result.
type Service struct {
	doctors     []Doctor
	caller      *llm.Caller
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
	tracer      trace.Tracer
	temperature float32
}

func NewService(doctors []Doctor, caller *llm.Caller, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if caller == nil {
		caller = llm.NewCaller(nil, 0, opts.Metrics)
	}
	return &Service{
		doctors:     doctors,
		caller:      caller,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		tracer:      otel.Tracer("chatlookup.internal.clinic"),
		temperature: opts.Temperature,
	}
}

// ExtractFilter asks the completion service for the filter in message.
// On error the returned filter is empty.
func (s *Service) ExtractFilter(ctx context.Context, message string) (Filter, error) {
	fields, err := s.caller.CallObject(ctx, opExtract, llm.Request{
		Prompt: fmt.Sprintf(extractPromptTemplate, message),
	})
	if err != nil {
		return Filter{}, err
	}
	return filterFromFields(fields), nil
}

// Compose asks the completion service to turn the search summaries into a
// single reply.
func (s *Service) Compose(ctx context.Context, message string, summaries []string) (string, error) {
	resp, err := s.caller.Call(ctx, opCompose, llm.Request{
		Prompt:      fmt.Sprintf(composePromptTemplate, message, strings.Join(summaries, "\n")),
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", &llm.ServiceError{Op: opCompose, Err: llm.ErrEmptyReply}
	}
	return reply, nil
}

// Respond runs the whole clinic flow for one message. External failures
// never surface as errors: extraction falls back to an empty filter and
// composition to ApologyReply.
func (s *Service) Respond(ctx context.Context, message string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "clinic.respond")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filter, err := s.ExtractFilter(ctx, message)
	if err != nil {
		s.logger.Warn("clinic filter extraction failed, searching without filters", "op", opExtract, "error", err)
		s.metrics.ObserveFailOpen(opExtract)
		span.SetAttributes(attribute.Bool("clinic.extract.fail_open", true))
		filter = Filter{}
	}
	s.logger.Debug("clinic filters extracted",
		"doctor_name", filter.DoctorName,
		"specialization", filter.Specialization,
		"date", filter.Date,
		"time", filter.Time,
	)

	options := Search(s.doctors, filter)
	s.metrics.ObserveMatches(Flow, len(options))
	span.SetAttributes(attribute.Int("clinic.matches", len(options)))
	if len(options) == 0 {
		s.logger.Info("no doctors matched the given filters")
		return NoDoctorsReply, nil
	}

	reply, err := s.Compose(ctx, message, Summaries(options))
	if err != nil {
		s.logger.Warn("clinic reply composition failed", "op", opCompose, "error", err)
		s.metrics.ObserveFailOpen(opCompose)
		span.SetAttributes(attribute.Bool("clinic.compose.fail_open", true))
		return ApologyReply, nil
	}
	return reply, nil
}
