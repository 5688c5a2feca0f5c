// Package menu answers free-text dish questions against a fixed set of
// restaurant menus.
package menu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Dish is one menu record. The JSON keys follow the menu dataset export.
type Dish struct {
	Name        string  `json:"dish_name"`
	Description string  `json:"description"`
	Price       float64 `json:"Price"`
	Dietary     string  `json:"dietary_info"`
	SpiceLevel  string  `json:"Spice-Level"`
	GlutenFree  YesNo   `json:"Gluten-Free"`
	Restaurant  string  `json:"restaurant_name"`
}

// YesNo is a boolean stored as "Yes"/"No" in the dataset.
type YesNo bool

func (y *YesNo) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*y = YesNo(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("menu: decode yes/no flag: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		*y = true
	case "no", "n", "false", "":
		*y = false
	default:
		return fmt.Errorf("menu: unexpected yes/no value %q", s)
	}
	return nil
}

func (y YesNo) MarshalJSON() ([]byte, error) {
	return json.Marshal(y.String())
}

func (y YesNo) String() string {
	if y {
		return "Yes"
	}
	return "No"
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
