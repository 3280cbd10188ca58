package storage

import "time"

// Stable keys of the four persisted records.
const (
	KeyTasks        = "productivityTasks"
	KeyPlants       = "productivityPlants"
	KeyStats        = "productivityStats"
	KeyAchievements = "unlockedAchievements"
)

// AllKeys lists the persisted keys in the order they are written on reset.
var AllKeys = []string{KeyTasks, KeyPlants, KeyStats, KeyAchievements}

type Task struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Category    string     `json:"type"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Plant struct {
	ID       string    `json:"id"`
	Emoji    string    `json:"emoji"`
	Category string    `json:"type"`
	Size     string    `json:"size"`
	TaskText string    `json:"taskText"`
	GrownAt  time.Time `json:"grownAt"`
	TaskID   int64     `json:"taskId,omitempty"`
}

type Stats struct {
	CompletedTasks int `json:"completedTasks"`
	PlantsGrown    int `json:"plantsGrown"`
}

// Snapshot is the full persisted state.
type Snapshot struct {
	Tasks    []Task
	Plants   []Plant
	Stats    Stats
	Unlocked []string
}
