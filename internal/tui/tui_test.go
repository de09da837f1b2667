package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chatstat/internal/parse"
)

func testModel() model {
	tr := parse.FromLines([]string{
		"[01/01/2024, 09:00:00] Alice: Happy new year!",
		"[01/01/2024, 09:01:12] Bob: Same to you",
		"[02/01/2024, 18:30:00] Alice: Dinner at 7?",
	}, parse.WithSource("family.txt"))
	m := initialModel(tr, 15)
	nm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return nm.(model)
}

func press(t *testing.T, m model, k string) (model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	nm, cmd := m.Update(msg)
	return nm.(model), cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	require.NotNil(t, cmd)
	nm, _ := m.Update(cmd())
	return nm.(model)
}

func selectSender(t *testing.T, m model, sender string) model {
	t.Helper()
	m, _ = press(t, m, "2")
	require.Equal(t, modePrompt, m.mode)
	m, _ = press(t, m, sender)
	m, cmd := press(t, m, "enter")
	return run(t, m, cmd)
}

func TestSenderScopedOptionsNeedSelection(t *testing.T) {
	for _, k := range []string{"3", "5"} {
		m, cmd := press(t, testModel(), k)
		assert.Nil(t, cmd, k)
		assert.Equal(t, msgSelectSender, m.content, k)
		assert.Equal(t, optNone, m.shown, k)
	}
}

func TestSelectSender(t *testing.T) {
	m := selectSender(t, testModel(), "Alice")
	assert.Equal(t, modeMenu, m.mode)
	assert.Equal(t, "Alice", m.sender)
	assert.Equal(t, optHistory, m.shown)

	content := ansi.Strip(m.content)
	assert.Contains(t, content, "Alice (2 messages)")
	assert.Contains(t, content, "Dinner at 7?")
	assert.NotContains(t, content, "Same to you")

	m, cmd := press(t, m, "3")
	m = run(t, m, cmd)
	assert.Contains(t, m.content, "Messages per day - Alice")

	m, cmd = press(t, m, "5")
	m = run(t, m, cmd)
	assert.Contains(t, m.content, "Messages over time")
	assert.Contains(t, m.content, "02/01/2024")
}

func TestPromptCancelKeepsSelection(t *testing.T) {
	m := selectSender(t, testModel(), "Bob")

	m, _ = press(t, m, "2")
	m, _ = press(t, m, "esc")
	assert.Equal(t, modeMenu, m.mode)
	assert.Equal(t, "Bob", m.sender)

	// an empty answer leaves the selection alone
	m, _ = press(t, m, "2")
	m.input.SetValue("  ")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "Bob", m.sender)
}

func TestStaleRenderDropped(t *testing.T) {
	m, cmd := press(t, testModel(), "1")
	require.NotNil(t, cmd)
	before := m.content

	nm, _ := m.Update(viewRenderedMsg{opt: optShare, content: "stale"})
	assert.Equal(t, before, nm.(model).content)

	m = run(t, m, cmd)
	assert.Contains(t, m.content, "Messages per sender")
}

func TestMenuNavigation(t *testing.T) {
	m := testModel()
	m, _ = press(t, m, "down")
	assert.Equal(t, 1, m.cursor)

	m, _ = press(t, m, "enter")
	assert.Equal(t, modePrompt, m.mode)
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"0", "esc"} {
		m, cmd := press(t, testModel(), k)
		assert.True(t, m.quitting, k)
		require.NotNil(t, cmd, k)
		assert.Equal(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestRenderView(t *testing.T) {
	tr := testModel().transcript

	out, err := renderView(tr, optSummary, "", 15, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")

	out, err = renderView(tr, optShare, "", 1, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "top 1")
	assert.Contains(t, out, "100.0%")

	out, err = renderView(tr, optTimeline, "", 15, 80)
	require.NoError(t, err)
	assert.Equal(t, msgSelectSender, out)

	out, err = renderView(tr, optHistogram, "Zed", 15, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "(no data)")
}

func TestView(t *testing.T) {
	m := testModel()
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "(none)")
}
