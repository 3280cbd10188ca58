package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"garden/internal/engine"
	"garden/internal/storage"
	"garden/internal/ui"
)

func newTestBoard(t *testing.T) (boardModel, *engine.Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := engine.NewService(store,
		engine.WithRand(engine.NewRand(7)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	m := newBoardModel(context.Background(), svc)
	// Notices never expire in tests; dismissal is driven by sending dismissMsg.
	m.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	m = update(t, m, m.Init()())
	return m, svc, store
}

func update(t *testing.T, m boardModel, msg tea.Msg) boardModel {
	t.Helper()
	next, _ := m.Update(msg)
	bm, ok := next.(boardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm
}

// press sends a key and, when the model answers with a service command, runs it
// and feeds the result back followed by a fresh load.
func press(t *testing.T, m boardModel, key tea.KeyMsg) boardModel {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(boardModel)
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case createdMsg, completedMsg, deletedMsg, resetMsg, loadedMsg:
		m = update(t, m, msg)
		return update(t, m, m.loadCmd()())
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m boardModel, s string) boardModel {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		m = press(t, m, runes(string(r)))
	}
	return m
}

func TestBoard_WelcomeOnEmptyGarden(t *testing.T) {
	m, _, _ := newTestBoard(t)
	if m.notice == nil || m.notice.text != ui.WelcomeMessage {
		t.Fatalf("notice=%+v, want welcome", m.notice)
	}
	if !strings.Contains(m.View(), "Productivity Garden") {
		t.Fatalf("view missing header:\n%s", m.View())
	}
}

func TestBoard_AddTaskFlow(t *testing.T) {
	m, svc, _ := newTestBoard(t)

	m = press(t, m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode=%v, want add", m.mode)
	}
	m = typeText(t, m, "write report")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})      // personal
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}) // medium -> high
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeList {
		t.Fatalf("mode=%v, want list", m.mode)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks=%d, want 1", len(tasks))
	}
	if tasks[0].Text != "write report" || tasks[0].Category != "personal" || tasks[0].Priority != "high" {
		t.Fatalf("task=%+v", tasks[0])
	}
	if len(m.tasks) != 1 {
		t.Fatalf("board shows %d tasks", len(m.tasks))
	}
	if m.notice == nil || m.notice.kind != ui.NoticeSuccess {
		t.Fatalf("notice=%+v, want success", m.notice)
	}
}

func TestBoard_EmptyDescriptionStaysInForm(t *testing.T) {
	m, svc, _ := newTestBoard(t)

	m = press(t, m, runes("a"))
	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeAdd {
		t.Fatalf("mode=%v, want add form to reopen", m.mode)
	}
	if m.notice == nil || m.notice.text != "Please enter a task description!" {
		t.Fatalf("notice=%+v", m.notice)
	}
	if len(svc.Tasks()) != 0 {
		t.Fatalf("tasks=%d, want 0", len(svc.Tasks()))
	}
}

func TestBoard_EscCancelsAdd(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	m = press(t, m, runes("a"))
	m = typeText(t, m, "draft")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList || len(m.input) != 0 {
		t.Fatalf("mode=%v input=%q", m.mode, string(m.input))
	}
	if len(svc.Tasks()) != 0 {
		t.Fatalf("esc created a task")
	}
}

func TestBoard_CompleteShowsAchievementModal(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), engine.CreateTaskInput{
		Description: "stretch", Category: engine.CategoryHealth, Priority: engine.PriorityLow,
	}); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())

	m = press(t, m, runes("c"))
	if m.mode != modeAchievement || m.achievement == nil || m.achievement.ID != "first_task" {
		t.Fatalf("mode=%v achievement=%+v", m.mode, m.achievement)
	}
	if !strings.Contains(m.View(), "Achievement Unlocked") {
		t.Fatalf("view missing modal:\n%s", m.View())
	}
	if len(m.plants) != 1 || m.stats.CompletedTasks != 1 {
		t.Fatalf("plants=%d stats=%+v", len(m.plants), m.stats)
	}

	m = press(t, m, runes("x"))
	if m.mode != modeList || m.achievement != nil {
		t.Fatalf("modal not dismissed: mode=%v", m.mode)
	}
}

func TestBoard_CompleteTwiceIsNoop(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), engine.CreateTaskInput{
		Description: "one", Category: engine.CategoryWork, Priority: engine.PriorityMedium,
	}); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())
	m = press(t, m, runes("c"))
	m = press(t, m, runes("q")) // dismiss modal
	m = press(t, m, runes(" "))

	if got := svc.Stats(); got.CompletedTasks != 1 || got.PlantsGrown != 1 {
		t.Fatalf("stats=%+v", got)
	}
}

func TestBoard_DeleteNeedsConfirmation(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), engine.CreateTaskInput{
		Description: "gone", Category: engine.CategoryWork, Priority: engine.PriorityMedium,
	}); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())

	m = press(t, m, runes("d"))
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode=%v", m.mode)
	}
	m = press(t, m, runes("n"))
	if len(svc.Tasks()) != 1 {
		t.Fatalf("declined delete removed the task")
	}

	m = press(t, m, runes("d"))
	m = press(t, m, runes("y"))
	if len(svc.Tasks()) != 0 || len(m.tasks) != 0 {
		t.Fatalf("tasks left: svc=%d board=%d", len(svc.Tasks()), len(m.tasks))
	}
	if m.notice == nil || m.notice.text != "Task removed from garden" {
		t.Fatalf("notice=%+v", m.notice)
	}
}

func TestBoard_DeleteTargetsPromptedTaskAfterReload(t *testing.T) {
	m, svc, store := newTestBoard(t)
	ctx := context.Background()
	if _, err := svc.CreateTask(ctx, engine.CreateTaskInput{
		Description: "A", Category: engine.CategoryWork, Priority: engine.PriorityLow,
	}); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())

	m = press(t, m, runes("d"))
	if !strings.Contains(m.View(), ui.IconTrash+` Delete "A"?`) {
		t.Fatalf("prompt does not name the task:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "> ") {
		t.Fatalf("selected row not marked:\n%s", m.View())
	}

	// Another process adds a task that sorts above "A" while the prompt is open.
	other := engine.NewService(store, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := other.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := other.CreateTask(ctx, engine.CreateTaskInput{
		Description: "B", Category: engine.CategoryWork, Priority: engine.PriorityHigh,
	}); err != nil {
		t.Fatal(err)
	}
	_, cmd := m.Update(storeChangedMsg{})
	m = update(t, m, cmd())
	if m.selectedTask().Text != "B" {
		t.Fatalf("reload should move the selection onto B, got %q", m.selectedTask().Text)
	}
	if !strings.Contains(m.View(), `Delete "A"?`) {
		t.Fatalf("prompt changed after reload:\n%s", m.View())
	}

	m = press(t, m, runes("y"))
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "B" {
		t.Fatalf("tasks=%+v, want only B", tasks)
	}
}

func TestBoard_DeclinedDeleteForgetsTarget(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	if _, err := svc.CreateTask(context.Background(), engine.CreateTaskInput{
		Description: "keep", Category: engine.CategoryLearning, Priority: engine.PriorityMedium,
	}); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())

	m = press(t, m, runes("d"))
	if m.pendingDelete == nil || m.pendingDelete.Text != "keep" {
		t.Fatalf("pendingDelete=%+v", m.pendingDelete)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.pendingDelete != nil || m.mode != modeList {
		t.Fatalf("mode=%v pendingDelete=%+v after esc", m.mode, m.pendingDelete)
	}
	m = press(t, m, runes("y"))
	if len(svc.Tasks()) != 1 {
		t.Fatal("a stray y deleted a task")
	}
}

func TestBoard_ResetClearsEverything(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	task, err := svc.CreateTask(context.Background(), engine.CreateTaskInput{
		Description: "grow", Category: engine.CategoryCreative, Priority: engine.PriorityHigh,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteTask(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())

	m = press(t, m, runes("R"))
	if m.mode != modeConfirmReset {
		t.Fatalf("mode=%v", m.mode)
	}
	m = press(t, m, runes("y"))

	if !svc.IsEmpty() || len(svc.Unlocked()) != 0 || svc.Stats() != (storage.Stats{}) {
		t.Fatalf("garden not reset: stats=%+v unlocked=%v", svc.Stats(), svc.Unlocked())
	}
	if len(m.plants) != 0 || len(m.tasks) != 0 {
		t.Fatalf("board still shows state")
	}
}

func TestBoard_PlantDetailsOnEnter(t *testing.T) {
	m, svc, _ := newTestBoard(t)
	task, err := svc.CreateTask(context.Background(), engine.CreateTaskInput{
		Description: "read a chapter", Category: engine.CategoryLearning, Priority: engine.PriorityMedium,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteTask(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, m.loadCmd()())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != paneGarden {
		t.Fatalf("focus=%v", m.focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.notice == nil || !strings.Contains(m.notice.text, `grown from: "read a chapter"`) {
		t.Fatalf("notice=%+v", m.notice)
	}
}

func TestBoard_DismissIgnoresStaleNotice(t *testing.T) {
	m, _, _ := newTestBoard(t)
	m.notify(ui.NoticeInfo, "first", noticeDuration)
	first := m.notice.id
	m.notify(ui.NoticeInfo, "second", noticeDuration)

	m = update(t, m, dismissMsg{id: first})
	if m.notice == nil || m.notice.text != "second" {
		t.Fatalf("stale dismiss cleared the newer notice: %+v", m.notice)
	}
	m = update(t, m, dismissMsg{id: m.notice.id})
	if m.notice != nil {
		t.Fatalf("notice=%+v, want nil", m.notice)
	}
}

func TestBoard_PersistFailureWarns(t *testing.T) {
	m, svc, store := newTestBoard(t)
	store.SetFailWrites(errors.New("disk full"))

	m = press(t, m, runes("a"))
	m = typeText(t, m, "kept")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(svc.Tasks()) != 1 {
		t.Fatalf("task not kept in memory")
	}
	if m.notice == nil || m.notice.kind != ui.NoticeWarning || !strings.Contains(m.notice.text, "disk full") {
		t.Fatalf("notice=%+v", m.notice)
	}
}

func TestBoard_StoreChangeReloads(t *testing.T) {
	m, _, _ := newTestBoard(t)
	_, cmd := m.Update(storeChangedMsg{})
	if cmd == nil {
		t.Fatal("store change did not schedule a reload")
	}
	if _, ok := cmd().(loadedMsg); !ok {
		t.Fatal("reload did not produce a loadedMsg")
	}
}
