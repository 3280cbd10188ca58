package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"garden/internal/engine"
	"garden/internal/storage"
	"garden/internal/ui"
)

const (
	noticeDuration  = 3 * time.Second
	welcomeDuration = 6 * time.Second
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
	modeConfirmReset
	modeAchievement
)

type pane int

const (
	paneTasks pane = iota
	paneGarden
)

type notice struct {
	id   int
	kind string
	text string
}

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	tasks    []storage.Task
	plants   []storage.Plant
	stats    storage.Stats
	unlocked []string
	empty    bool

	focus    pane
	selected int
	plantSel int
	mode     mode

	// pendingDelete is the task the open delete prompt asks about.
	pendingDelete *storage.Task

	input    []rune
	category int
	priority int

	notice      *notice
	noticeSeq   int
	achievement *engine.Achievement
	welcomed    bool

	// afterChange runs after every successful load; the board uses it to refresh
	// metric gauges.
	afterChange func()
	tick        func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	loading bool
	err     error
}

type loadedMsg struct {
	tasks    []storage.Task
	plants   []storage.Plant
	stats    storage.Stats
	unlocked []string
	empty    bool
	err      error
}

// storeChangedMsg is sent by the file watcher when the data file changes on disk.
type storeChangedMsg struct{}

type createdMsg struct {
	task storage.Task
	err  error
}

type completedMsg struct {
	id  int64
	res *engine.CompleteResult
	err error
}

type deletedMsg struct {
	id      int64
	removed bool
	err     error
}

type resetMsg struct {
	err error
}

type dismissMsg struct {
	id int
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:      ctx,
		svc:      svc,
		loading:  true,
		priority: priorityIndex(engine.DefaultPriority),
		tick:     tea.Tick,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return snapshot(svc, nil)
	}
}

// reloadCmd re-reads the store before taking a snapshot.
func (m boardModel) reloadCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return snapshot(svc, svc.Load(ctx))
	}
}

func snapshot(svc *engine.Service, err error) loadedMsg {
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{
		tasks:    svc.SortedTasks(),
		plants:   svc.Plants(),
		stats:    svc.Stats(),
		unlocked: svc.Unlocked(),
		empty:    svc.IsEmpty(),
	}
}

func (m boardModel) createCmd(in engine.CreateTaskInput) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		task, err := svc.CreateTask(ctx, in)
		return createdMsg{task: task, err: err}
	}
}

func (m boardModel) completeCmd(id int64) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		res, err := svc.CompleteTask(ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) deleteCmd(id int64) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		removed, err := svc.DeleteTask(ctx, id)
		return deletedMsg{id: id, removed: removed, err: err}
	}
}

func (m boardModel) resetCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return resetMsg{err: svc.ResetGarden(ctx)}
	}
}

// notify replaces the current notice and schedules its dismissal.
func (m *boardModel) notify(kind, text string, d time.Duration) tea.Cmd {
	m.noticeSeq++
	id := m.noticeSeq
	m.notice = &notice{id: id, kind: kind, text: text}
	return m.tick(d, func(time.Time) tea.Msg { return dismissMsg{id: id} })
}

// persistNotice reports a failed write, or returns nil when err is not a PersistError.
func (m *boardModel) persistNotice(err error) tea.Cmd {
	var pe *engine.PersistError
	if !errors.As(err, &pe) {
		return nil
	}
	return m.notify(ui.NoticeWarning, "Saved in memory only: "+pe.Err.Error(), noticeDuration)
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, m.notify(ui.NoticeError, "Load failed: "+msg.err.Error(), noticeDuration)
		}
		m.tasks = msg.tasks
		m.plants = msg.plants
		m.stats = msg.stats
		m.unlocked = msg.unlocked
		m.empty = msg.empty
		m.clampSelection()
		if m.afterChange != nil {
			m.afterChange()
		}
		if m.empty && !m.welcomed {
			m.welcomed = true
			return m, m.notify(ui.NoticeInfo, ui.WelcomeMessage, welcomeDuration)
		}
		return m, nil
	case storeChangedMsg:
		return m, m.reloadCmd()
	case dismissMsg:
		if m.notice != nil && m.notice.id == msg.id {
			m.notice = nil
		}
		return m, nil
	case createdMsg:
		if engine.IsValidation(msg.err) {
			m.mode = modeAdd
			var ve engine.ValidationError
			errors.As(msg.err, &ve)
			return m, m.notify(ui.NoticeError, ve.Message, noticeDuration)
		}
		cmd := m.persistNotice(msg.err)
		if cmd == nil && msg.err != nil {
			cmd = m.notify(ui.NoticeError, msg.err.Error(), noticeDuration)
		}
		if cmd == nil {
			cmd = m.notify(ui.NoticeSuccess, "Task planted successfully! 🌱", noticeDuration)
		}
		return m, tea.Batch(m.loadCmd(), cmd)
	case completedMsg:
		if msg.res == nil {
			return m, m.notify(ui.NoticeError, "Complete failed: "+msg.err.Error(), noticeDuration)
		}
		if !msg.res.Completed {
			return m, m.notify(ui.NoticeInfo, "Already done.", noticeDuration)
		}
		cmd := m.persistNotice(msg.err)
		if cmd == nil {
			cmd = m.notify(ui.NoticeSuccess, fmt.Sprintf("Great job! Your %s plant is growing! 🌿", msg.res.Task.Category), noticeDuration)
		}
		if msg.res.Unlocked != nil {
			m.achievement = msg.res.Unlocked
			m.mode = modeAchievement
		}
		return m, tea.Batch(m.loadCmd(), cmd)
	case deletedMsg:
		if !msg.removed {
			return m, m.notify(ui.NoticeInfo, "Task not found.", noticeDuration)
		}
		cmd := m.persistNotice(msg.err)
		if cmd == nil {
			cmd = m.notify(ui.NoticeInfo, "Task removed from garden", noticeDuration)
		}
		return m, tea.Batch(m.loadCmd(), cmd)
	case resetMsg:
		m.welcomed = true
		cmd := m.persistNotice(msg.err)
		if cmd == nil {
			cmd = m.notify(ui.NoticeInfo, "Garden reset successfully! Start fresh! 🌱", noticeDuration)
		}
		return m, tea.Batch(m.loadCmd(), cmd)
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmDelete, modeConfirmReset:
			return m.updateConfirm(msg)
		case modeAchievement:
			m.mode = modeList
			m.achievement = nil
			return m, nil
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m boardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, m.reloadCmd()
	case "tab":
		if m.focus == paneTasks {
			m.focus = paneGarden
		} else {
			m.focus = paneTasks
		}
		return m, nil
	case "up", "k":
		if m.focus == paneGarden {
			if m.plantSel > 0 {
				m.plantSel--
			}
		} else if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.focus == paneGarden {
			if m.plantSel < len(m.plants)-1 {
				m.plantSel++
			}
		} else if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil
	case "a":
		m.mode = modeAdd
		m.input = nil
		m.category = 0
		m.priority = priorityIndex(engine.DefaultPriority)
		return m, nil
	case "R":
		m.mode = modeConfirmReset
		return m, nil
	case "enter":
		if m.focus != paneGarden {
			return m, nil
		}
		p := m.selectedPlant()
		if p == nil {
			return m, nil
		}
		return m, m.notify(ui.NoticeInfo, ui.PlantDetails(p.Emoji, p.TaskText, p.GrownAt), noticeDuration)
	case "c", " ":
		t := m.selectedTask()
		if m.focus != paneTasks || t == nil {
			return m, nil
		}
		if t.Completed {
			return m, m.notify(ui.NoticeInfo, "Already done.", noticeDuration)
		}
		return m, m.completeCmd(t.ID)
	case "d", "x":
		t := m.selectedTask()
		if m.focus != paneTasks || t == nil {
			return m, nil
		}
		target := *t
		m.pendingDelete = &target
		m.mode = modeConfirmDelete
		return m, nil
	}
	return m, nil
}

func (m boardModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeList
		m.input = nil
		return m, nil
	case tea.KeyEnter:
		m.mode = modeList
		in := engine.CreateTaskInput{
			Description: string(m.input),
			Category:    engine.Categories[m.category],
			Priority:    engine.Priorities[m.priority],
		}
		m.input = nil
		return m, m.createCmd(in)
	case tea.KeyTab:
		m.category = (m.category + 1) % len(engine.Categories)
		return m, nil
	case tea.KeyShiftTab:
		m.priority = (m.priority + 1) % len(engine.Priorities)
		return m, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeySpace:
		m.input = append(m.input, ' ')
		return m, nil
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
		return m, nil
	}
	return m, nil
}

func (m boardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmed := msg.String() == "y" || msg.String() == "Y"
	current := m.mode
	target := m.pendingDelete
	m.mode = modeList
	m.pendingDelete = nil
	if !confirmed {
		return m, nil
	}
	if current == modeConfirmReset {
		return m, m.resetCmd()
	}
	if target == nil {
		return m, nil
	}
	return m, m.deleteCmd(target.ID)
}

func (m *boardModel) clampSelection() {
	if m.selected >= len(m.tasks) {
		m.selected = len(m.tasks) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.plantSel >= len(m.plants) {
		m.plantSel = len(m.plants) - 1
	}
	if m.plantSel < 0 {
		m.plantSel = 0
	}
}

func (m boardModel) selectedTask() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m boardModel) selectedPlant() *storage.Plant {
	if m.plantSel < 0 || m.plantSel >= len(m.plants) {
		return nil
	}
	return &m.plants[m.plantSel]
}

func priorityIndex(p engine.Priority) int {
	for i, v := range engine.Priorities {
		if v == p {
			return i
		}
	}
	return 0
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	if m.mode == modeAchievement && m.achievement != nil {
		return header + "\n\n" + m.renderAchievement() + "\n"
	}

	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 32
	if m.width > 0 && m.width/2 < leftW {
		leftW = max(m.width/2, 20)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		ui.Panel.Width(leftW).Render(sidebar),
		" ",
		ui.Panel.Render(main))

	return header + "\n" + body + "\n" + footer
}

func (m boardModel) renderHeader() string {
	if m.loading && m.tasks == nil {
		return ui.Heading(ui.IconGarden, "Productivity Garden (loading…)")
	}
	return ui.Heading(ui.IconGarden, "Productivity Garden") + "  " +
		ui.LabelValue("Completed", m.stats.CompletedTasks) + "  " +
		ui.LabelValue("Plants", m.stats.PlantsGrown) + "  " +
		ui.LabelValue("Achievements", fmt.Sprintf("%d/%d", len(m.unlocked), len(engine.Catalog())))
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.PanelTitle.Render("Garden")}
	if len(m.plants) == 0 {
		lines = append(lines, ui.Muted.Render("(nothing grown yet)"))
	}
	for i, p := range m.plants {
		row := fmt.Sprintf("%s %s", ui.PlantText(p.Emoji, p.Size), truncate(p.TaskText, 20))
		lines = append(lines, cursorRow(m.focus == paneGarden && i == m.plantSel, row))
	}
	lines = append(lines, "")
	lines = append(lines, ui.PanelTitle.Render("Keys"))
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- tab: tasks/garden")
	lines = append(lines, "- a: add task")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- d: delete")
	lines = append(lines, "- enter: plant details")
	lines = append(lines, "- R: reset garden")
	lines = append(lines, "- r: reload, q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.mode == modeAdd {
		return m.renderAddForm()
	}
	var out []string
	out = append(out, ui.PanelTitle.Render("Tasks"))
	if len(m.tasks) == 0 {
		out = append(out, ui.Muted.Render("(no tasks yet, press a to plant one)"))
	}
	for i, t := range m.tasks {
		text := t.Text
		if t.Completed {
			text = ui.Done.Render(text)
		}
		row := fmt.Sprintf("%s %s %s", ui.CategoryIcon(t.Category), ui.PriorityIcon(t.Priority), text)
		out = append(out, cursorRow(m.focus == paneTasks && i == m.selected, row))
	}
	switch m.mode {
	case modeConfirmDelete:
		if m.pendingDelete != nil {
			out = append(out, "", ui.Warn.Render(fmt.Sprintf("%s Delete %q? (y/n)", ui.IconTrash, m.pendingDelete.Text)))
		}
	case modeConfirmReset:
		out = append(out, "", ui.Warn.Render("Reset your entire garden? This will delete all tasks and plants. (y/n)"))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderAddForm() string {
	lines := []string{
		ui.PanelTitle.Render("New task"),
		"> " + string(m.input) + "█",
		"",
		ui.LabelValue("Category", ui.CategoryText(string(engine.Categories[m.category]))) + ui.Muted.Render("  (tab)"),
		ui.LabelValue("Priority", ui.PriorityText(string(engine.Priorities[m.priority]))) + ui.Muted.Render("  (shift+tab)"),
		"",
		ui.Muted.Render("enter: save · esc: cancel"),
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderAchievement() string {
	a := m.achievement
	body := ui.Gold.Render(ui.IconTrophy+" Achievement Unlocked! "+ui.IconSparkle) + "\n\n" +
		ui.Title.Render(a.Title) + "\n" + a.Description + "\n\n" +
		ui.Muted.Render("press any key")
	return ui.Modal.Render(body)
}

func (m boardModel) renderFooter() string {
	if m.notice == nil {
		return ""
	}
	return "\n" + ui.Notice(m.notice.kind, m.notice.text)
}

// cursorRow marks the selected row of a pane.
func cursorRow(selected bool, row string) string {
	if selected {
		return ui.SelectedRow.Render("> " + row)
	}
	return "  " + row
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
