package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/chatlookup/internal/llm"
)

const validatePromptTemplate = `Validate the following dishes based on user preferences:
- Dietary Preference: "%s"
- Restaurant: "%s"
- Price Range: "%s"
- Gluten-Free: "%s"

Return a JSON array where each object contains:
{
  "dish_name": "Dish Name",
  "is_valid": true or false,
  "reason": "Why the dish is valid/invalid"
}

Dishes to validate:
%s`

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func validatePrompt(dishes []Dish, f Filter) string {
	price := "None"
	if f.MaxPrice > 0 {
		price = formatPrice(f.MaxPrice)
	}
	glutenFree := "No"
	if f.requiresGlutenFree() {
		glutenFree = "Yes"
	}

	lines := make([]string, len(dishes))
	for i, d := range dishes {
		lines[i] = fmt.Sprintf("- %s: %s, Gluten-Free: %s, Price: %s", d.Name, d.Description, d.GlutenFree, formatPrice(d.Price))
	}
	return fmt.Sprintf(validatePromptTemplate, orNone(f.Dietary), orNone(f.Restaurant), price, glutenFree, strings.Join(lines, "\n"))
}

// Validate asks the completion service to confirm each dish against f and
// keeps only the dishes it marks valid. On error the input is returned
// unchanged together with the error.
func (s *Service) Validate(ctx context.Context, dishes []Dish, f Filter) ([]Dish, error) {
	if len(dishes) == 0 {
		return dishes, nil
	}

	verdicts, err := s.caller.CallArray(ctx, opValidate, llm.Request{Prompt: validatePrompt(dishes, f)})
	if err != nil {
		return dishes, err
	}

	valid := make(map[string]bool, len(verdicts))
	for _, v := range verdicts {
		name, ok := v.String("dish_name")
		if !ok {
			continue
		}
		if isValid, ok := v.Flag("is_valid"); ok && isValid {
			valid[name] = true
		}
	}

	kept := make([]Dish, 0, len(dishes))
	for _, d := range dishes {
		if valid[d.Name] {
			kept = append(kept, d)
		}
	}
	return kept, nil
}
