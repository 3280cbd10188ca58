package engine

import "slices"

// Achievement is a milestone unlocked once enough tasks have been completed.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
}

// AchievementStatus pairs a catalog entry with whether the garden has unlocked it.
type AchievementStatus struct {
	Achievement
	Unlocked bool
}

var catalog = []Achievement{
	{ID: "first_task", Title: "First Sprout!", Description: "Complete your first task", Threshold: 1},
	{ID: "five_tasks", Title: "Growing Garden", Description: "Complete 5 tasks", Threshold: 5},
	{ID: "ten_tasks", Title: "Blooming Beautiful", Description: "Complete 10 tasks", Threshold: 10},
	{ID: "twenty_tasks", Title: "Garden Master", Description: "Complete 20 tasks", Threshold: 20},
	{ID: "fifty_tasks", Title: "Productivity Guru", Description: "Complete 50 tasks", Threshold: 50},
}

// Catalog returns the achievements in their declared order.
func Catalog() []Achievement {
	return slices.Clone(catalog)
}

// LookupAchievement finds a catalog entry by id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// NextAchievement returns the first catalog entry, in catalog order, whose threshold
// is met by completed and which is not in unlocked. Only one achievement is reported
// per call even when several qualify; the rest surface on later completions.
func NextAchievement(completed int, unlocked []string) (Achievement, bool) {
	for _, a := range catalog {
		if a.Threshold <= completed && !slices.Contains(unlocked, a.ID) {
			return a, true
		}
	}
	return Achievement{}, false
}

// AchievementStatuses reports every catalog entry with its unlocked flag.
func AchievementStatuses(unlocked []string) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, AchievementStatus{Achievement: a, Unlocked: slices.Contains(unlocked, a.ID)})
	}
	return out
}
