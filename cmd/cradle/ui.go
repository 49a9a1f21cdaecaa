package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/cradle/chat"
	"github.com/tailored-agentic-units/cradle/conversation"
	"github.com/tailored-agentic-units/cradle/observability"
)

const (
	placeholder = "Escribe tu pregunta aquí..."
	sendLabel   = "Enviar"
	offlineNote = "Sin conexión con el asistente"
)

var (
	userBubble = lipgloss.NewStyle().
			Background(lipgloss.Color("#e959a0")).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1)

	assistantBubble = lipgloss.NewStyle().
			Background(lipgloss.Color("#fdacba")).
			Foreground(lipgloss.Color("#2b2b2b")).
			Padding(0, 1)

	sendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#e959a0")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
)

// turnMsg carries a reconciled turn back to the UI.
type turnMsg struct {
	turn *chat.Turn
	err  error
}

// statusMsg reports a completion failure class for the status line.
type statusMsg string

type model struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *chat.Controller

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	pending bool
	shown   int
	status  string
	width   int
	ready   bool
}

// newModel creates the chat screen. Turns run under a context derived from
// parent that is cancelled when the user quits, abandoning any outstanding
// turn.
func newModel(parent context.Context, ctrl *chat.Controller) model {
	ctx, cancel := context.WithCancel(parent)

	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctx:     ctx,
		cancel:  cancel,
		ctrl:    ctrl,
		input:   in,
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - 3
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - lipgloss.Width(sendStyle.Render(sendLabel)) - 4
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case turnMsg:
		m.pending = false
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		if msg.err != nil {
			m.status = msg.err.Error()
		} else if msg.turn.Err == nil {
			m.status = ""
		}
		m.refresh(true)
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit hands the input to the controller. Enter is ignored while a turn is
// outstanding or the input is blank.
func (m model) submit() (tea.Model, tea.Cmd) {
	if m.pending || m.ctrl.Busy() || strings.TrimSpace(m.input.Value()) == "" {
		return m, nil
	}

	m.ctrl.SetInput(m.input.Value())
	m.input.Reset()
	m.pending = true

	ctx, ctrl := m.ctx, m.ctrl
	send := func() tea.Msg {
		turn, err := ctrl.Submit(ctx)
		return turnMsg{turn: turn, err: err}
	}
	return m, tea.Batch(send, m.spinner.Tick)
}

// refresh re-renders the conversation when it changed, or when forced, and
// keeps the view pinned to the newest message.
func (m *model) refresh(force bool) {
	if !m.ready {
		return
	}
	msgs := m.ctrl.Messages()
	if !force && len(msgs) == m.shown {
		return
	}
	m.shown = len(msgs)
	m.viewport.SetContent(renderConversation(msgs, m.width))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "Cargando..."
	}

	footer := m.status
	if m.pending {
		footer = m.spinner.View()
	}

	inputRow := lipgloss.JoinHorizontal(lipgloss.Center,
		m.input.View(), " ", sendStyle.Render(sendLabel))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		statusStyle.Render(footer),
		inputRow,
	)
}

// renderConversation lays out user messages right-aligned and assistant
// messages left-aligned, each wrapped to at most three quarters of width.
func renderConversation(msgs []conversation.Message, width int) string {
	if width <= 0 {
		width = 80
	}
	maxBubble := width * 3 / 4
	if maxBubble < 10 {
		maxBubble = width
	}

	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		style, pos := assistantBubble, lipgloss.Left
		if msg.IsUser() {
			style, pos = userBubble, lipgloss.Right
		}

		w := lipgloss.Width(msg.Text) + style.GetHorizontalFrameSize()
		if w > maxBubble {
			w = maxBubble
		}
		bubble := style.Width(w).Render(msg.Text)
		sb.WriteString(lipgloss.PlaceHorizontal(width, pos, bubble))
	}
	return sb.String()
}

// statusObserver forwards completion failures to the running program so the
// status line can name the failure class. Error details stay in the log.
type statusObserver struct {
	send func(tea.Msg)
	mu   sync.Mutex
}

// attach starts forwarding to send, typically (*tea.Program).Send.
func (s *statusObserver) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *statusObserver) OnEvent(_ context.Context, event observability.Event) {
	if event.Type != chat.EventCompletionError {
		return
	}

	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send == nil {
		return
	}

	go send(statusNote(event))
}

// statusNote maps a completion failure to the status line text. Only an
// unreachable endpoint gets a note; other failures show the apology alone.
func statusNote(event observability.Event) statusMsg {
	if kind, _ := event.Data["kind"].(string); kind == "unreachable" {
		return statusMsg(offlineNote)
	}
	return ""
}
