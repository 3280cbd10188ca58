package engine

import (
	"fmt"
	"strings"
)

// ParseCategory parses user input to a Category.
// Empty input selects DefaultCategory; unknown input is an error.
func ParseCategory(input string) (Category, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultCategory, nil
	case "work", "job", "career":
		return CategoryWork, nil
	case "personal", "home":
		return CategoryPersonal, nil
	case "health", "fitness":
		return CategoryHealth, nil
	case "learning", "learn", "study":
		return CategoryLearning, nil
	case "creative", "art":
		return CategoryCreative, nil
	default:
		return "", ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", input)}
	}
}

// ParsePriority parses user input to a Priority.
// Empty input selects DefaultPriority; unknown input is an error.
func ParsePriority(input string) (Priority, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultPriority, nil
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return "", ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", input)}
	}
}
