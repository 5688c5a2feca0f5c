package menu

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/chatlookup/internal/llm"
	"github.com/wolfman30/chatlookup/internal/observability/metrics"
)

// scriptedLLM answers each prompt kind with a canned reply.
type scriptedLLM struct {
	mu          sync.Mutex
	extract     string
	extractErr  error
	validate    string
	validateErr error
	compose     string
	composeErr  error
	prompts     []string
}

func (s *scriptedLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, req.Prompt)
	s.mu.Unlock()

	switch {
	case strings.HasPrefix(req.Prompt, "Extract structured information"):
		return llm.Response{Text: s.extract}, s.extractErr
	case strings.HasPrefix(req.Prompt, "Validate the following dishes"):
		return llm.Response{Text: s.validate}, s.validateErr
	default:
		return llm.Response{Text: s.compose}, s.composeErr
	}
}

func (s *scriptedLLM) promptWithPrefix(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.prompts {
		if strings.HasPrefix(p, prefix) {
			return p
		}
	}
	return ""
}

func newTestService(client llm.Client, validate bool) *Service {
	m := metrics.NewChatMetrics(prometheus.NewRegistry())
	return NewService(testDishes(), llm.NewCaller(client, time.Second, m), Options{Metrics: m, Validate: validate})
}

func TestRespondWithValidation(t *testing.T) {
	client := &scriptedLLM{
		extract:  `{"dietary": "Vegetarian", "price_range": 300, "restaurant": null, "ingredients": [], "spiciness": null}`,
		validate: "```json\n[{\"dish_name\": \"Paneer Tikka\", \"is_valid\": true, \"reason\": \"fits\"}, {\"dish_name\": \"Margherita Pizza\", \"is_valid\": false}]\n```",
		compose:  "Try the Paneer Tikka!\n",
	}
	svc := newTestService(client, true)

	reply, err := svc.Respond(context.Background(), "veg food under 300")
	require.NoError(t, err)
	assert.Equal(t, "Try the Paneer Tikka!", reply)

	validatePrompt := client.promptWithPrefix("Validate the following dishes")
	assert.Contains(t, validatePrompt, `- Dietary Preference: "Vegetarian"`)
	assert.Contains(t, validatePrompt, `- Price Range: "300"`)
	assert.Contains(t, validatePrompt, `- Restaurant: "None"`)
	assert.Contains(t, validatePrompt, "- Margherita Pizza: Cheese and tomato on a wheat crust, Gluten-Free: No, Price: 199")

	composePrompt := client.promptWithPrefix("Based on the following user query")
	assert.Contains(t, composePrompt, `User Query: "veg food under 300"`)
	assert.Contains(t, composePrompt, "- Paneer Tikka: Grilled cottage cheese with peppers and onion (Price: ₹250)")
	assert.NotContains(t, composePrompt, "Margherita Pizza")
}

func TestRespondValidationFailureKeepsMatches(t *testing.T) {
	client := &scriptedLLM{
		extract:  `{"restaurant": "Dominos"}`,
		validate: "these all look fine",
		compose:  "Margherita Pizza it is.",
	}
	svc := newTestService(client, true)

	reply, err := svc.Respond(context.Background(), "what does dominos have")
	require.NoError(t, err)
	assert.Equal(t, "Margherita Pizza it is.", reply)
	assert.Contains(t, client.promptWithPrefix("Based on the following"), "Margherita Pizza")
}

func TestRespondValidationRejectsAll(t *testing.T) {
	client := &scriptedLLM{
		extract:  `{"restaurant": "Dominos"}`,
		validate: `[{"dish_name": "Margherita Pizza", "is_valid": false}]`,
		compose:  "unused",
	}
	svc := newTestService(client, true)

	reply, err := svc.Respond(context.Background(), "dominos")
	require.NoError(t, err)
	assert.Equal(t, NoDishesReply, reply)
	assert.Empty(t, client.promptWithPrefix("Based on the following"))
}

func TestRespondWithoutValidation(t *testing.T) {
	client := &scriptedLLM{extract: `{"spiciness": "Spicy"}`, compose: "Chicken Chettinad is fiery."}
	svc := newTestService(client, false)

	reply, err := svc.Respond(context.Background(), "something spicy")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Chettinad is fiery.", reply)
	assert.Empty(t, client.promptWithPrefix("Validate the following dishes"))
}

func TestRespondExtractionFailureUsesAllDishes(t *testing.T) {
	client := &scriptedLLM{extractErr: errors.New("timeout"), compose: "Lots to choose from."}
	svc := newTestService(client, false)

	filter, err := svc.ExtractFilter(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, filter.IsEmpty())

	reply, err := svc.Respond(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Lots to choose from.", reply)

	prompt := client.promptWithPrefix("Based on the following")
	for _, d := range testDishes() {
		assert.Contains(t, prompt, d.Name)
	}
}

func TestRespondNoMatches(t *testing.T) {
	client := &scriptedLLM{extract: `{"restaurant": "Nowhere Diner"}`}
	svc := newTestService(client, true)

	reply, err := svc.Respond(context.Background(), "nowhere diner menu")
	require.NoError(t, err)
	assert.Equal(t, NoDishesReply, reply)
	assert.Len(t, client.prompts, 1)
}

func TestRespondCompositionFailure(t *testing.T) {
	client := &scriptedLLM{extract: `{}`, composeErr: errors.New("503")}
	svc := newTestService(client, false)

	reply, err := svc.Respond(context.Background(), "menu")
	require.NoError(t, err)
	assert.Equal(t, ApologyReply, reply)
}

func TestValidateEmptyInput(t *testing.T) {
	client := &scriptedLLM{}
	svc := newTestService(client, true)

	out, err := svc.Validate(context.Background(), nil, Filter{})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, client.prompts)
}

func TestValidateAcceptsStringVerdicts(t *testing.T) {
	client := &scriptedLLM{validate: `[{"dish_name": "Vegan Buddha Bowl", "is_valid": "true"}, {"is_valid": true}]`}
	svc := newTestService(client, true)

	out, err := svc.Validate(context.Background(), testDishes(), Filter{Dietary: "Vegan"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vegan Buddha Bowl"}, dishNames(out))
}
