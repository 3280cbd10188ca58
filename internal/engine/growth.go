package engine

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"garden/internal/storage"
)

// Rand is the random source used to pick plant symbols.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG source seeded with seed. A zero seed is replaced by the
// current time so unseeded gardens still vary between runs.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// plantPalettes holds the fixed symbol set of each category.
var plantPalettes = map[Category][]string{
	CategoryWork:     {"🏢", "💼", "📊", "💻", "📈", "🏗️", "⚙️", "📋"},
	CategoryPersonal: {"🏠", "🛋️", "🧹", "🍳", "📱", "🎯", "🔧", "📦"},
	CategoryHealth:   {"💪", "🏃‍♂️", "🥗", "🧘‍♀️", "🚴‍♂️", "🏋️‍♂️", "🥤", "😴"},
	CategoryLearning: {"📚", "🎓", "🧠", "📝", "🔬", "🎯", "💡", "📖"},
	CategoryCreative: {"🎨", "🎭", "🎵", "✍️", "📸", "🎪", "🎬", "🖌️"},
}

// Palette returns a copy of the symbols a category can grow.
func Palette(c Category) []string {
	p := plantPalettes[c]
	out := make([]string, len(p))
	copy(out, p)
	return out
}

// growPlant builds the plant for a completed task. The task's category is valid by
// construction; an unknown one falls back to the default palette.
func growPlant(rng Rand, task storage.Task, now time.Time) storage.Plant {
	palette, ok := plantPalettes[Category(task.Category)]
	if !ok {
		palette = plantPalettes[DefaultCategory]
	}
	return storage.Plant{
		ID:       uuid.NewString(),
		Emoji:    palette[rng.IntN(len(palette))],
		Category: task.Category,
		Size:     string(SizeForPriority(Priority(task.Priority))),
		TaskText: task.Text,
		GrownAt:  now,
		TaskID:   task.ID,
	}
}
