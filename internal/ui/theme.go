package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Garden theme shared by the CLI and the board.

const (
	IconSeedling = "🌱"
	IconHerb     = "🌿"
	IconTree     = "🌳"
	IconGarden   = "🌻"
	IconSparkle  = "✨"
	IconDone     = "✅"
	IconTrophy   = "🏆"
	IconTrash    = "🗑️"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconLock     = "🔒"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("35")  // leaf green
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Done  = lipgloss.NewStyle().Foreground(cMuted).Strikethrough(true)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
	Modal       = lipgloss.NewStyle().BorderStyle(lipgloss.DoubleBorder()).BorderForeground(cGold).Padding(1, 3)
)

// Notice kinds, matching the severities the board and CLI report.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Notice renders a one-line message styled by kind.
func Notice(kind, msg string) string {
	switch kind {
	case NoticeSuccess:
		return Good.Render(IconDone + " " + msg)
	case NoticeError:
		return Bad.Render(IconError + " " + msg)
	case NoticeWarning:
		return Warn.Render(IconWarn + " " + msg)
	default:
		return H2.Render(IconInfo + " " + msg)
	}
}

// CategoryIcon returns the badge shown next to a task's category.
func CategoryIcon(category string) string {
	switch category {
	case "work":
		return "🏢"
	case "personal":
		return "🏠"
	case "health":
		return "💪"
	case "learning":
		return "📚"
	case "creative":
		return "🎨"
	default:
		return "📋"
	}
}

func PriorityIcon(priority string) string {
	switch priority {
	case "low":
		return IconSeedling
	case "high":
		return IconTree
	default:
		return IconHerb
	}
}

// PriorityText renders a priority with its icon, colored by urgency.
func PriorityText(priority string) string {
	label := PriorityIcon(priority) + " " + priority
	switch priority {
	case "high":
		return Bad.Render(label)
	case "medium":
		return Warn.Render(label)
	default:
		return Good.Render(label)
	}
}

// CategoryText renders a category with its icon.
func CategoryText(category string) string {
	return Key.Render(CategoryIcon(category) + " " + category)
}

// PlantText renders a plant symbol, emphasized by size.
func PlantText(emoji, size string) string {
	switch size {
	case "large":
		return Gold.Render(emoji + "⁺")
	case "small":
		return Muted.Render(emoji + "₋")
	default:
		return emoji
	}
}

// PlantDetails describes where a plant came from.
func PlantDetails(emoji, taskText string, grownAt time.Time) string {
	return fmt.Sprintf("%s %s grown from: %q on %s", IconSeedling, emoji, taskText, grownAt.Local().Format("2006-01-02"))
}

func StatusText(completed bool) string {
	if completed {
		return Good.Render(IconDone + " Completed")
	}
	return Warn.Render("pending")
}

// WelcomeMessage is shown when the garden has neither tasks nor plants.
const WelcomeMessage = "Welcome to Productivity Garden! 🌱 Add tasks and watch your garden grow as you complete them!"
