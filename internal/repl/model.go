package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"
	"github.com/muesli/reflow/wordwrap"

	"showsearch/internal/app"
	"showsearch/internal/browse"
	"showsearch/internal/theme"
)

const maxMessages = 6

type focusArea int

const (
	focusInput focusArea = iota
	focusView
)

type listView struct {
	cursor int
	offset int
}

type detailView struct {
	showID int
	scroll int
}

type model struct {
	ctx      context.Context
	app      *app.App
	input    textinput.Model
	theme    theme.Theme
	focus    focusArea
	list     listView
	detail   detailView
	messages []string
	width    int
	quitting bool
}

// commandDoneMsg carries the outcome of a command run off the update loop.
type commandDoneMsg struct {
	result app.CommandResult
	err    error
}

type selectDoneMsg struct {
	row int
	err error
}

type configEditedMsg struct {
	result app.CommandResult
	err    error
}

func newModel(ctx context.Context, application *app.App) model {
	ti := textinput.New()
	ti.Placeholder = "show name or command (help)"
	ti.Focus()
	ti.Prompt = "search> "
	ti.CharLimit = 256
	ti.Width = 60

	th := theme.ForName(application.Config().ColorTheme)
	return model{
		ctx:   ctx,
		app:   application,
		input: ti,
		theme: th,
		messages: []string{
			th.Message.Render("Type a show name and press Enter. 'help' lists commands."),
		},
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 12 {
			m.input.Width = msg.Width - 12
		}
		return m, nil
	case commandDoneMsg:
		return m.handleCommandDone(msg)
	case selectDoneMsg:
		return m.handleSelectDone(msg)
	case configEditedMsg:
		if msg.err != nil {
			m.addError(msg.err)
			return m, nil
		}
		m.theme = theme.ForName(m.app.Config().ColorTheme)
		m.addMessage(msg.result.Message)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyTab:
			return m.toggleFocus()
		}
		if m.focus == focusView {
			if _, ok := m.app.State().(browse.DetailView); ok {
				return m.updateDetail(msg)
			}
			return m.updateList(msg)
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.handleSubmit()
		case tea.KeyEsc:
			if m.app.Back() {
				m.detail = detailView{}
				return m, nil
			}
		case tea.KeyDown:
			if len(m.app.Screen().Rows) > 0 {
				return m.setFocus(focusView)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) setFocus(area focusArea) (tea.Model, tea.Cmd) {
	m.focus = area
	if area == focusInput {
		return m, m.input.Focus()
	}
	m.input.Blur()
	return m, nil
}

func (m model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		return m.setFocus(focusView)
	}
	return m.setFocus(focusInput)
}

func (m model) handleSubmit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return m, nil
	}

	// Anything that does not start with a command is a search query.
	if _, ok := m.app.CommandName(strings.Fields(line)[0]); !ok {
		line = "search " + shellquote.Join(line)
	}

	return m, m.runCommand(line)
}

func (m model) runCommand(line string) tea.Cmd {
	ctx, application := m.ctx, m.app
	return func() tea.Msg {
		result, err := application.Execute(ctx, line)
		return commandDoneMsg{result: result, err: err}
	}
}

func (m model) handleCommandDone(msg commandDoneMsg) (tea.Model, tea.Cmd) {
	if msg.result.Refreshed {
		m.list = listView{}
	}
	if msg.err != nil {
		m.addError(msg.err)
	}
	m.addMessage(msg.result.Message)

	if msg.result.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	if msg.result.EditConfig {
		editor := &configEditor{ctx: m.ctx, app: m.app}
		return m, tea.Exec(editor, func(err error) tea.Msg {
			if err != nil {
				return configEditedMsg{err: err}
			}
			return configEditedMsg{result: editor.result}
		})
	}
	if msg.result.Focus > 0 {
		m.list.cursor = msg.result.Focus - 1
		m.clampList()
		return m.setFocus(focusView)
	}
	return m.syncView()
}

func (m model) handleSelectDone(msg selectDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, browse.ErrInvalidSelection) {
			m.addMessage(fmt.Sprintf("Row %d is no longer on the list.", msg.row+1))
		} else {
			m.addError(fmt.Errorf("could not open the show: %w", msg.err))
		}
	}
	return m.syncView()
}

// syncView moves focus onto a freshly opened show and keeps the list cursor
// inside the current results.
func (m model) syncView() (tea.Model, tea.Cmd) {
	if detail, ok := m.app.State().(browse.DetailView); ok {
		if detail.Detail.ShowID != m.detail.showID || m.focus == focusInput {
			m.detail = detailView{showID: detail.Detail.ShowID}
			return m.setFocus(focusView)
		}
		return m, nil
	}
	m.detail = detailView{}
	m.clampList()
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := len(m.app.Screen().Rows)
	switch msg.String() {
	case "up", "k":
		if m.list.cursor > 0 {
			m.list.cursor--
		}
	case "down", "j":
		if m.list.cursor < rows-1 {
			m.list.cursor++
		}
	case "home", "g":
		m.list.cursor = 0
	case "end", "G":
		m.list.cursor = rows - 1
	case "enter":
		if rows == 0 || m.app.Status().Loading {
			return m, nil
		}
		return m, m.selectRow(m.list.cursor)
	case "esc", "/", "i":
		return m.setFocus(focusInput)
	}
	m.clampList()
	return m, nil
}

func (m model) selectRow(row int) tea.Cmd {
	ctx, application := m.ctx, m.app
	return func() tea.Msg {
		return selectDoneMsg{row: row, err: application.Select(ctx, row)}
	}
}

func (m *model) clampList() {
	rows := len(m.app.Screen().Rows)
	window := m.app.Config().MaxListRows
	if window <= 0 {
		window = rows
	}
	if m.list.cursor >= rows {
		m.list.cursor = rows - 1
	}
	if m.list.cursor < 0 {
		m.list.cursor = 0
	}
	if m.list.cursor < m.list.offset {
		m.list.offset = m.list.cursor
	}
	if m.list.cursor >= m.list.offset+window {
		m.list.offset = m.list.cursor - window + 1
	}
	if m.list.offset < 0 {
		m.list.offset = 0
	}
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.detailPage()
	maxScroll := len(m.detailLines()) - page
	if maxScroll < 0 {
		maxScroll = 0
	}

	switch msg.String() {
	case "down", "j":
		m.detail.scroll++
	case "up", "k":
		m.detail.scroll--
	case "pgdown", " ":
		m.detail.scroll += page
	case "pgup":
		m.detail.scroll -= page
	case "home", "g":
		m.detail.scroll = 0
	case "end", "G":
		m.detail.scroll = maxScroll
	case "esc", "backspace", "b":
		m.app.Back()
		m.detail = detailView{}
		m.clampList()
		return m, nil
	case "/", "i":
		return m.setFocus(focusInput)
	}

	if m.detail.scroll > maxScroll {
		m.detail.scroll = maxScroll
	}
	if m.detail.scroll < 0 {
		m.detail.scroll = 0
	}
	return m, nil
}

func (m model) detailPage() int {
	if lines := m.app.Config().MaxSummaryLines; lines > 0 {
		return lines
	}
	return 12
}

func (m model) wrapWidth() int {
	width := m.app.Config().SummaryWidth
	if m.width > 4 && (width <= 0 || m.width-2 < width) {
		width = m.width - 2
	}
	if width <= 0 {
		width = 80
	}
	return width
}

// detailLines lays out the scrollable body of the show view.
func (m model) detailLines() []string {
	screen := m.app.Screen()
	if !screen.Detail {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(wordwrap.String(screen.Summary, m.wrapWidth()), "\n") {
		lines = append(lines, m.theme.Summary.Render(line))
	}
	lines = append(lines, "", m.theme.Header.Render(fmt.Sprintf("Cast (%d)", len(screen.Rows))))
	if len(screen.Rows) == 0 {
		lines = append(lines, m.theme.Dim.Render("No cast listed."))
	}
	if detail, ok := m.app.State().(browse.DetailView); ok && len(detail.Cast) == len(screen.Rows) {
		for _, member := range detail.Cast {
			line := m.theme.Person.Render(member.PersonName)
			if member.CharacterName != "" {
				line += " " + m.theme.Character.Render("as "+member.CharacterName)
			}
			lines = append(lines, line)
		}
		return lines
	}
	for _, row := range screen.Rows {
		lines = append(lines, m.theme.Normal.Render(row))
	}
	return lines
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, message := range m.messages {
		b.WriteString(message)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch state := m.app.State().(type) {
	case browse.DetailView:
		b.WriteString(m.renderDetail(state))
	case browse.ListView:
		b.WriteString(m.renderList(state))
	}

	if status := m.renderStatus(); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func (m model) renderList(state browse.ListView) string {
	screen := browse.Describe(state)
	var b strings.Builder

	if len(screen.Rows) == 0 {
		if m.app.Query() != "" {
			b.WriteString(m.theme.Dim.Render(fmt.Sprintf("No shows found for %q.", m.app.Query())))
		} else {
			b.WriteString(m.theme.Dim.Render("No search yet."))
		}
		b.WriteString("\n\n")
		return b.String()
	}

	b.WriteString(m.theme.Header.Render(fmt.Sprintf("%s (%d)", screen.Title, len(screen.Rows))))
	b.WriteString("\n")

	window := m.app.Config().MaxListRows
	if window <= 0 {
		window = len(screen.Rows)
	}
	end := m.list.offset + window
	if end > len(screen.Rows) {
		end = len(screen.Rows)
	}
	for i := m.list.offset; i < end; i++ {
		item := state.Results[i]
		label := fmt.Sprintf("%2d. %s", i+1, screen.Rows[i])
		if i == m.list.cursor && m.focus == focusView {
			b.WriteString(m.theme.Cursor.Render("> " + label))
		} else {
			b.WriteString(m.theme.Normal.Render("  " + label))
		}
		if item.ImageURL == "" {
			b.WriteString(m.theme.Dim.Render("  (no image)"))
		}
		b.WriteString("\n")
	}
	if end-m.list.offset < len(screen.Rows) {
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("Showing %d-%d of %d", m.list.offset+1, end, len(screen.Rows))))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Dim.Render("↑↓/jk move, Enter opens, Tab switches to the input"))
	b.WriteString("\n\n")
	return b.String()
}

func (m model) renderDetail(state browse.DetailView) string {
	screen := browse.Describe(state)
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(screen.Title))
	b.WriteString("\n")
	if state.Detail.ImageURL != "" {
		b.WriteString(m.theme.Dim.Render(state.Detail.ImageURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	lines := m.detailLines()
	page := m.detailPage()
	start := m.detail.scroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + page
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(lines) > page {
		b.WriteString(m.theme.Dim.Render(fmt.Sprintf("Showing lines %d-%d of %d", start+1, end, len(lines))))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Dim.Render("↑↓/jk scroll, Esc back to results"))
	b.WriteString("\n\n")
	return b.String()
}

func (m model) renderStatus() string {
	status := m.app.Status()
	switch {
	case status.Searching:
		return m.theme.Status.Render("Searching…")
	case status.Loading:
		return m.theme.Status.Render("Loading show…")
	default:
		return ""
	}
}

func (m *model) addMessage(message string) {
	if message == "" {
		return
	}
	m.messages = append(m.messages, m.theme.Message.Render(message))
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

func (m *model) addError(err error) {
	m.messages = append(m.messages, m.theme.Error.Render(err.Error()))
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// configEditor hands the terminal to the interactive configuration editor.
type configEditor struct {
	ctx    context.Context
	app    *app.App
	result app.CommandResult
}

func (e *configEditor) Run() error {
	result, err := e.app.EditConfig(e.ctx)
	if err != nil {
		return err
	}
	e.result = result
	return nil
}

func (e *configEditor) SetStdin(io.Reader)  {}
func (e *configEditor) SetStdout(io.Writer) {}
func (e *configEditor) SetStderr(io.Writer) {}
