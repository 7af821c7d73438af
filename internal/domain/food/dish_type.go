package food

import (
	"fmt"
	"strings"
)

// DishType classifies a recipe on the menu
type DishType string

const (
	DishTypeSoup       DishType = "soup"
	DishTypeSalad      DishType = "salad"
	DishTypeBigSalad   DishType = "big_salad"
	DishTypeMainDish   DishType = "main_dish"
	DishTypeVegetarian DishType = "vegetarian"
	DishTypePasta      DishType = "pasta"
	DishTypeBBQ        DishType = "bbq"
)

var dishTypeLabels = map[DishType]string{
	DishTypeSoup:       "Soup",
	DishTypeSalad:      "Salad",
	DishTypeBigSalad:   "Big salad",
	DishTypeMainDish:   "Main dish",
	DishTypeVegetarian: "Vegetarian",
	DishTypePasta:      "Pasta",
	DishTypeBBQ:        "BBQ",
}

// AllDishTypes returns the dish types in menu order
func AllDishTypes() []DishType {
	return []DishType{
		DishTypeSoup,
		DishTypeSalad,
		DishTypeBigSalad,
		DishTypeMainDish,
		DishTypeVegetarian,
		DishTypePasta,
		DishTypeBBQ,
	}
}

// IsValid reports whether d is one of the known dish types
func (d DishType) IsValid() bool {
	_, ok := dishTypeLabels[d]
	return ok
}

// Label returns the human readable name
func (d DishType) Label() string {
	if label, ok := dishTypeLabels[d]; ok {
		return label
	}
	return string(d)
}

// ParseDishType accepts either the stored value ("big_salad") or the label ("Big salad"), case-insensitively.
func ParseDishType(s string) (DishType, error) {
	needle := strings.TrimSpace(strings.ToLower(s))
	for dishType, label := range dishTypeLabels {
		if needle == string(dishType) || needle == strings.ToLower(label) {
			return dishType, nil
		}
	}
	return "", fmt.Errorf("unknown dish type %q", s)
}
