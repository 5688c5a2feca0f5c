package menu

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
	// Flow names the restaurant chat flow in logs, metrics and transcripts.
	Flow = "restaurant"

	NoDishesReply = "Sorry, no suitable dishes found for your preferences."
	ApologyReply  = "An error occurred while generating a response."

	opExtract  = "menu.extract"
	opValidate = "menu.validate"
	opCompose  = "menu.compose"
)

const composePromptTemplate = `Based on the following user query and matching dishes, generate a helpful and concise response:

User Query: "%s"

Matching Dishes:
%s

Return a friendly response that:
- Mentions 2-3 matching dishes by name
- Highlights dietary or spiciness preferences if matched
- Is short and helpful (within 3-4 lines)`

// Options configures a Service. Zero values are usable.
type Options struct {
	Logger      *logging.Logger
	Metrics     *metrics.ChatMetrics
	Temperature float32
	// Validate enables the completion-service check of matched dishes.
	Validate bool
}

type Service struct {
	dishes      []Dish
	caller      *llm.Caller
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
	tracer      trace.Tracer
	temperature float32
	validate    bool
}

func NewService(dishes []Dish, caller *llm.Caller, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if caller == nil {
		caller = llm.NewCaller(nil, 0, opts.Metrics)
	}
	return &Service{
		dishes:      dishes,
		caller:      caller,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		tracer:      otel.Tracer("chatlookup.internal.menu"),
		temperature: opts.Temperature,
		validate:    opts.Validate,
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

// Summaries renders dishes as the bullet lines used in the compose prompt.
func Summaries(dishes []Dish) []string {
	out := make([]string, len(dishes))
	for i, d := range dishes {
		out[i] = fmt.Sprintf("- %s: %s (Price: ₹%s)", d.Name, d.Description, formatPrice(d.Price))
	}
	return out
}

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

// Respond runs the whole restaurant flow for one message. Extraction falls
// back to no filter, validation to the unvalidated matches, and
// composition to ApologyReply.
func (s *Service) Respond(ctx context.Context, message string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "menu.respond")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filter, err := s.ExtractFilter(ctx, message)
	if err != nil {
		s.logger.Warn("menu filter extraction failed, searching without filters", "op", opExtract, "error", err)
		s.metrics.ObserveFailOpen(opExtract)
		span.SetAttributes(attribute.Bool("menu.extract.fail_open", true))
		filter = Filter{}
	}

	dishes := Match(s.dishes, filter)
	span.SetAttributes(attribute.Int("menu.matches", len(dishes)))

	if s.validate && len(dishes) > 0 {
		validated, err := s.Validate(ctx, dishes, filter)
		if err != nil {
			s.logger.Warn("menu validation failed, keeping all matches", "op", opValidate, "error", err)
			s.metrics.ObserveFailOpen(opValidate)
			span.SetAttributes(attribute.Bool("menu.validate.fail_open", true))
		}
		dishes = validated
	}

	s.metrics.ObserveMatches(Flow, len(dishes))
	if len(dishes) == 0 {
		return NoDishesReply, nil
	}

	reply, err := s.Compose(ctx, message, Summaries(dishes))
	if err != nil {
		s.logger.Warn("menu reply composition failed", "op", opCompose, "error", err)
		s.metrics.ObserveFailOpen(opCompose)
		span.SetAttributes(attribute.Bool("menu.compose.fail_open", true))
		return ApologyReply, nil
	}
	return reply, nil
}
