package engine

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryCreative Category = "creative"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryCreative}

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryCreative:
		return true
	default:
		return false
	}
}

// DefaultCategory is preselected by the add forms.
const DefaultCategory Category = CategoryWork

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high=3, medium=2, low=1, unknown=0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// DefaultPriority is preselected by the add forms.
const DefaultPriority Priority = PriorityMedium

type Size string

const (
	SizeSmall  Size = "small"
	SizeNormal Size = "normal"
	SizeLarge  Size = "large"
)

// SizeForPriority maps a task priority to the size of the plant it grows.
func SizeForPriority(p Priority) Size {
	switch p {
	case PriorityHigh:
		return SizeLarge
	case PriorityLow:
		return SizeSmall
	default:
		return SizeNormal
	}
}
