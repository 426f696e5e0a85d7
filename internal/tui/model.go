// Package tui is the terminal presentation layer for a chat session. It
// renders the session snapshot and forwards input events to the controller;
// all conversation logic lives behind the controller boundary.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/gjson"
	"github.com/wanderly/travelchat/internal/domain"
	"github.com/wanderly/travelchat/internal/session"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	userNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	offlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	userMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	botMsgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	resultsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type submitResultMsg session.SubmitResult

type voiceResultMsg session.VoiceResult

type probeMsg bool

// Model is the Bubble Tea model for one chat session.
type Model struct {
	ctrl   *session.Controller
	user   domain.User
	logout func()

	vp    viewport.Model
	input textarea.Model
	spin  spinner.Model

	notice  string
	waiting bool // submit dispatched, result pending
	ready   bool
	width   int
	height  int
}

// New builds the chat model around an already-wired controller. The logout
// callback comes from the surrounding auth layer and is invoked, not
// interpreted.
func New(ctrl *session.Controller, user domain.User, logout func()) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about flights, hotels, or destinations..."
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.CharLimit = 2000
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	if logout == nil {
		logout = func() {}
	}

	return Model{
		ctrl:   ctrl,
		user:   user,
		logout: logout,
		input:  ta,
		spin:   sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick, m.probeCmd())
}

func (m Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		return probeMsg(m.ctrl.Start(context.Background()))
	}
}

func (m Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg(m.ctrl.Submit(context.Background(), text))
	}
}

func (m Model) voiceCmd() tea.Cmd {
	return func() tea.Msg {
		return voiceResultMsg(m.ctrl.ToggleVoice(context.Background()))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		threadHeight := msg.Height - 7
		if threadHeight < 3 {
			threadHeight = 3
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, threadHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = threadHeight
		}
		m.input.SetWidth(msg.Width - 2)
		m.refreshThread()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.logout()
			return m, tea.Quit
		case "enter":
			return m.handleSubmit()
		case "ctrl+r":
			m.notice = ""
			return m, m.voiceCmd()
		}

	case probeMsg:
		m.refreshThread()
		return m, nil

	case submitResultMsg:
		m.waiting = false
		if msg.Notice != "" {
			m.notice = msg.Notice
		}
		m.refreshThread()
		return m, nil

	case voiceResultMsg:
		if msg.Outcome.Transcript != "" {
			// Populates the input only; sending stays a manual action.
			m.input.SetValue(msg.Outcome.Transcript)
		}
		if msg.Notice != "" {
			m.notice = msg.Notice
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refreshThread()
		return m, cmd
	}

	var taCmd, vpCmd tea.Cmd
	m.input, taCmd = m.input.Update(msg)
	m.vp, vpCmd = m.vp.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

// handleSubmit mirrors the controller's guards so the input buffer is only
// cleared for a submit that will actually be attempted; the controller
// remains the authority either way.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.notice = session.NoticeEmpty
		return m, nil
	}
	snap := m.ctrl.Store().Snapshot()
	if !snap.Connected {
		m.notice = session.NoticeDisconnected
		return m, nil
	}
	if m.waiting {
		m.notice = session.NoticeBusy
		return m, nil
	}

	m.input.Reset()
	m.notice = ""
	m.waiting = true
	return m, m.submitCmd(text)
}

func (m *Model) refreshThread() {
	if !m.ready {
		return
	}
	atBottom := m.vp.AtBottom()
	m.vp.SetContent(renderThread(m.ctrl.Store().Snapshot(), m.user, m.vp.Width))
	if atBottom {
		m.vp.GotoBottom()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	snap := m.ctrl.Store().Snapshot()

	var b strings.Builder
	b.WriteString(m.headerView(snap))
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(m.statusView(snap))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send • alt+enter newline • ctrl+r voice • esc logout"))
	return b.String()
}

func (m Model) headerView(snap session.Snapshot) string {
	status := connectedStyle.Render("● Connected")
	if !snap.Connected {
		status = offlineStyle.Render("○ Disconnected")
	}
	title := headerStyle.Render("✈ AI Travel Assistant")
	who := userNameStyle.Render(m.user.Name)
	return fmt.Sprintf("%s  %s  %s", title, who, status)
}

func (m Model) statusView(snap session.Snapshot) string {
	switch {
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	case snap.Typing || m.waiting:
		return statusStyle.Render(m.spin.View() + " Assistant is typing...")
	case snap.Recording:
		return statusStyle.Render("🎤 Listening...")
	}
	return ""
}

func renderThread(snap session.Snapshot, user domain.User, width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, msg := range snap.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		label := botMsgStyle.Render("Assistant")
		if msg.Role == domain.RoleUser {
			label = userMsgStyle.Render(user.Name)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wrap.Render(msg.Text))
		b.WriteString("\n")
		if summary := searchSummary(msg.SearchResults); summary != "" {
			b.WriteString(resultsStyle.Render("📎 " + summary))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// searchSummary describes an attached search payload without interpreting
// it: element count for arrays, a generic marker otherwise.
func searchSummary(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	v := gjson.ParseBytes(raw)
	if v.IsArray() {
		n := len(v.Array())
		if n == 0 {
			return ""
		}
		if n == 1 {
			return "1 search result attached"
		}
		return fmt.Sprintf("%d search results attached", n)
	}
	return "search results attached"
}
