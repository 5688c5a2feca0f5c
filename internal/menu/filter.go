package menu

import (
	"strings"

	"github.com/wolfman30/chatlookup/internal/llm"
)

// Filter is the structured query extracted from a user message. Zero
// values mean the field was not given.
type Filter struct {
	Dietary     string   `json:"dietary,omitempty"`
	MaxPrice    float64  `json:"price_range,omitempty"`
	Restaurant  string   `json:"restaurant,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	SpiceLevel  string   `json:"spiciness,omitempty"`
	GlutenFree  bool     `json:"gluten_free,omitempty"`
}

func (f Filter) IsEmpty() bool {
	return f.Dietary == "" && f.MaxPrice <= 0 && f.Restaurant == "" &&
		len(f.Ingredients) == 0 && f.SpiceLevel == "" && !f.GlutenFree
}

// requiresGlutenFree is true when the flag is set or an ingredient keyword
// asks for gluten-free food.
func (f Filter) requiresGlutenFree() bool {
	if f.GlutenFree {
		return true
	}
	for _, ing := range f.Ingredients {
		if isGlutenFreeKeyword(ing) {
			return true
		}
	}
	return false
}

func isGlutenFreeKeyword(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gluten-free", "gluten free", "glutenfree":
		return true
	}
	return false
}

func filterFromFields(fields llm.Fields) Filter {
	var f Filter
	f.Dietary, _ = fields.String("dietary")
	if price, ok := fields.Number("price_range"); ok && price > 0 {
		f.MaxPrice = price
	}
	f.Restaurant, _ = fields.String("restaurant")
	f.Ingredients = fields.Strings("ingredients")
	f.SpiceLevel, _ = fields.String("spiciness")
	f.GlutenFree, _ = fields.Flag("gluten_free")
	// The prompt offers Gluten-Free as a dietary value; the dataset keeps it
	// as a separate flag.
	if isGlutenFreeKeyword(f.Dietary) {
		f.Dietary = ""
		f.GlutenFree = true
	}
	return f
}

const extractPromptTemplate = `Extract structured information from the following user query:
Query: "%s"
Return a JSON object with:
- dietary (Vegetarian, Non-Vegetarian, Vegan, Gluten-Free, or null if not mentioned)
- price_range (Numeric value if mentioned, or null)
- restaurant (Restaurant name if mentioned, or null)
- ingredients (List of ingredients if mentioned, or empty list)
- spiciness (Mild, Medium, Spicy, or null)
- gluten_free ("Yes" if the user wants gluten-free food, or null)

Example Output (return only valid JSON, no Markdown formatting):
{
  "dietary": "Vegetarian",
  "price_range": 200,
  "restaurant": "Dominos",
  "ingredients": ["cheese", "tomato"],
  "spiciness": "Medium",
  "gluten_free": "Yes"
}`

// Match keeps the dishes that satisfy every given field of f, in dataset
// order.
func Match(dishes []Dish, f Filter) []Dish {
	dietary := strings.ToLower(f.Dietary)
	restaurant := strings.ToLower(f.Restaurant)
	spice := strings.ToLower(f.SpiceLevel)
	glutenFree := f.requiresGlutenFree()

	var keywords []string
	for _, ing := range f.Ingredients {
		if isGlutenFreeKeyword(ing) {
			continue
		}
		if kw := strings.ToLower(strings.TrimSpace(ing)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	matched := make([]Dish, 0, len(dishes))
	for _, d := range dishes {
		if dietary != "" && strings.ToLower(d.Dietary) != dietary {
			continue
		}
		if f.MaxPrice > 0 && (d.Price <= 0 || d.Price > f.MaxPrice) {
			continue
		}
		if restaurant != "" && !strings.Contains(strings.ToLower(d.Restaurant), restaurant) {
			continue
		}
		if spice != "" && strings.ToLower(d.SpiceLevel) != spice {
			continue
		}
		if glutenFree && !bool(d.GlutenFree) {
			continue
		}
		if !mentionsAll(d, keywords) {
			continue
		}
		matched = append(matched, d)
	}
	return matched
}

func mentionsAll(d Dish, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(d.Name + " " + d.Description)
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
