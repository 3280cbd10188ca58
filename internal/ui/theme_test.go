package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIcons(t *testing.T) {
	assert.Equal(t, "🏢", CategoryIcon("work"))
	assert.Equal(t, "🎨", CategoryIcon("creative"))
	assert.Equal(t, "📋", CategoryIcon("bonus"))
	assert.Equal(t, IconSeedling, PriorityIcon("low"))
	assert.Equal(t, IconHerb, PriorityIcon("medium"))
	assert.Equal(t, IconTree, PriorityIcon("high"))
	assert.Equal(t, IconHerb, PriorityIcon(""))
}

func TestRenderedTextKeepsContent(t *testing.T) {
	assert.True(t, strings.Contains(PriorityText("high"), "high"))
	assert.True(t, strings.Contains(CategoryText("health"), "health"))
	assert.True(t, strings.Contains(Notice(NoticeError, "Please enter a task description!"), "Please enter a task description!"))
	assert.True(t, strings.Contains(PlantText("💼", "large"), "💼"))
	assert.True(t, strings.Contains(LabelValue("Plants", 3), "3"))
}

func TestPlantDetails(t *testing.T) {
	grown := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, `🌱 📚 grown from: "read a chapter" on 2024-05-01`, PlantDetails("📚", "read a chapter", grown))
}
