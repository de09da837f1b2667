package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Zuo-Peng/chatstat/internal/parse"
)

type tuiMode int

const (
	modeMenu tuiMode = iota
	modePrompt
)

const menuWidth = 36

type copiedMsg struct {
	err error
}

type model struct {
	transcript *parse.Transcript
	topN       int
	sender     string // selected sender, "" until chosen with option 2
	mode       tuiMode
	cursor     int
	shown      option // option whose output is in the view, optNone for none
	input      textinput.Model
	view       viewport.Model
	content    string
	status     string
	width      int
	height     int
	ready      bool
	quitting   bool
}

func initialModel(t *parse.Transcript, topN int) model {
	ti := textinput.New()
	ti.Placeholder = "Sender name..."
	ti.Prompt = "sender> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		transcript: t,
		topN:       topN,
		input:      ti,
		view:       newViewport(0, 0),
	}
	m.setContent(fmt.Sprintf("%s\n\n%d messages from %d senders, %d lines skipped.\nPick an option from the menu.",
		t.Source(), t.Len(), len(t.Senders()), t.Dropped()))
	return m
}

// Run starts the interactive menu over t and blocks until it exits.
func Run(t *parse.Transcript, topN int) error {
	p := tea.NewProgram(initialModel(t, topN), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.view = newViewport(m.viewWidth(), m.panelHeight())
		m.view.SetContent(m.content)
		if m.shown != optNone {
			return m, renderViewCmd(m.transcript, m.shown, m.sender, m.topN, m.viewWidth())
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modePrompt {
			return m.updatePrompt(msg)
		}
		return m.updateMenu(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd

	case viewRenderedMsg:
		// drop renders for a selection that has since changed
		if msg.opt != m.shown || msg.sender != m.sender {
			return m, nil
		}
		if msg.err != nil {
			m.setContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.setContent(msg.content)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied view to clipboard"
		}
		return m, nil
	}

	return m, nil
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if opt, ok := optionForKey(msg.String()); ok {
		return m.choose(opt)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Enter):
		return m.choose(menu[m.cursor].opt)

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(menu)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Copy):
		return m, copyCmd(m.content)

	case key.Matches(msg, keys.ViewUp):
		m.view.LineUp(m.panelHeight() / 2)

	case key.Matches(msg, keys.ViewDn):
		m.view.LineDown(m.panelHeight() / 2)

	case key.Matches(msg, keys.PageUp):
		m.view.LineUp(m.panelHeight())

	case key.Matches(msg, keys.PageDown):
		m.view.LineDown(m.panelHeight())
	}
	return m, nil
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.mode = modeMenu
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = modeMenu
		m.input.Blur()
		sender := strings.TrimSpace(m.input.Value())
		if sender == "" {
			return m, nil
		}
		m.sender = sender
		return m.show(optHistory)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// choose runs a menu option. Sender-scoped options without a selected sender
// show a hint instead of a view.
func (m model) choose(opt option) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case opt == optQuit:
		m.quitting = true
		return m, tea.Quit
	case opt == optHistory:
		m.mode = modePrompt
		m.input.SetValue(m.sender)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case opt.needsSender() && m.sender == "":
		m.shown = optNone
		m.setContent(msgSelectSender)
		return m, nil
	}
	return m.show(opt)
}

func (m model) show(opt option) (tea.Model, tea.Cmd) {
	m.shown = opt
	return m, renderViewCmd(m.transcript, opt, m.sender, m.topN, m.viewWidth())
}

func (m *model) setContent(s string) {
	m.content = s
	m.view.SetContent(s)
	m.view.GotoTop()
}

func copyCmd(content string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(ansi.Strip(content))}
	}
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	panelH := m.panelHeight()

	menuPanel := stylePanelBorder.
		Width(menuWidth).
		Height(panelH).
		Render(m.renderMenu(menuWidth, panelH))

	m.view.Width = m.viewWidth()
	m.view.Height = panelH
	viewPanel := styleActiveBorder.
		Width(m.viewWidth()).
		Height(panelH).
		Render(m.view.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, menuPanel, viewPanel)

	var top string
	if m.mode == modePrompt {
		top = m.input.View()
	} else {
		top = styleTitle.Render(m.transcript.Source())
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, panels, m.statusBar())
}

func (m model) viewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width-menuWidth-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

func (m model) statusBar() string {
	parts := []string{"1-5 choose", "up/dn enter", "C-u/C-d scroll", "y copy", "0/esc quit"}
	if m.mode == modePrompt {
		parts = []string{"type a sender", "enter confirm", "esc cancel"}
	}
	if m.status != "" {
		parts = append([]string{m.status}, parts...)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}
