package foodlog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/winterarc/internal/errors"
)

// ValidateInput checks raw user input for a new entry.
// The name is trimmed and must be non-empty. The calorie text must be a
// base-10 integer in (0, MaxCalories] (surrounding whitespace allowed).
func ValidateInput(name, caloriesText string) (string, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, errors.NewInvalidField("name", "name is required")
	}

	caloriesText = strings.TrimSpace(caloriesText)
	if caloriesText == "" {
		return "", 0, errors.NewInvalidField("calories", "calories is required")
	}

	calories, err := strconv.Atoi(caloriesText)
	if err != nil {
		return "", 0, errors.NewInvalidField("calories", "calories must be a whole number")
	}
	if calories <= 0 {
		return "", 0, errors.NewInvalidField("calories", "calories must be greater than 0")
	}
	if calories > MaxCalories {
		return "", 0, errors.NewInvalidField("calories", fmt.Sprintf("calories must be at most %d", MaxCalories))
	}

	return name, calories, nil
}
