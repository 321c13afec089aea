// Package tui is the terminal client for the conversation core: the unified
// contact list, the open conversation and the assistant overlay.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oFernandesx/TCC/internal/pkg/assistant"
	"github.com/oFernandesx/TCC/internal/pkg/chat/domain"
	"github.com/oFernandesx/TCC/internal/pkg/chat/session"
)

type view int

const (
	viewList view = iota
	viewChat
	viewAssistant
)

// refreshInterval drives re-rendering from the session caches, which the
// realtime handlers mutate outside the bubbletea loop.
const refreshInterval = 500 * time.Millisecond

type tickMsg time.Time

type openedMsg struct{ err error }

type sentMsg struct{ err error }

type askedMsg struct{}

// Model is the bubbletea model for the chat client.
type Model struct {
	chat      *session.Session
	assistant *assistant.Session

	view    view
	items   []session.ListItem
	cursor  int
	offset  int
	width   int
	height  int
	input   textinput.Model
	sending bool
	opening bool
	quit    bool
}

// NewModel wires the TUI to a started session and an assistant overlay.
func NewModel(chat *session.Session, overlay *assistant.Session) Model {
	in := textinput.New()
	in.Placeholder = "Digite sua mensagem..."
	in.CharLimit = 500

	return Model{
		chat:      chat,
		assistant: overlay,
		items:     chat.List(),
		input:     in,
		width:     100,
		height:    30,
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.items = m.chat.List()
		m.clampCursor()
		return m, tick()

	case openedMsg:
		m.opening = false
		if msg.err != nil {
			m.view = viewList
		}
		return m, nil

	case sentMsg:
		m.sending = false
		if msg.err == nil {
			// Input clears only on an accepted send; a failed draft stays put.
			m.input.SetValue("")
		}
		return m, nil

	case askedMsg:
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewList:
			return m.updateList(msg)
		case viewChat:
			return m.updateChat(msg)
		case viewAssistant:
			return m.updateAssistant(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quit = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor >= len(m.items) || m.opening {
			return m, nil
		}
		switch item := m.items[m.cursor].(type) {
		case session.AssistantEntry:
			m.assistant.Open()
			m.view = viewAssistant
			m.input.Placeholder = "Faça uma pergunta para a NEXUS IA..."
			m.input.Focus()
			return m, nil
		case session.ContactEntry:
			m.view = viewChat
			m.opening = true
			m.input.Placeholder = "Digite sua mensagem..."
			m.input.Focus()
			return m, m.openCmd(item)
		}
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quit = true
		return m, tea.Quit

	case "esc":
		m.chat.CloseConversation()
		m.input.Blur()
		m.input.SetValue("")
		m.view = viewList
		return m, nil

	case "enter":
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.sending {
			return m, nil
		}
		m.sending = true
		return m, m.sendCmd(content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateAssistant(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quit = true
		return m, tea.Quit

	case "esc":
		m.input.Blur()
		m.input.SetValue("")
		m.view = viewList
		return m, nil

	case "enter":
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.assistant.Typing() {
			return m, nil
		}
		m.input.SetValue("")
		return m, m.askCmd(content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openCmd(item session.ContactEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var err error
		if item.Active() {
			err = m.chat.OpenConversation(ctx, *item.Conversation)
		} else {
			err = m.chat.OpenWith(ctx, item.User)
		}
		return openedMsg{err: err}
	}
}

func (m Model) sendCmd(content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := m.chat.Send(ctx, content)
		return sentMsg{err: err}
	}
}

func (m Model) askCmd(content string) tea.Cmd {
	return func() tea.Msg {
		m.assistant.Ask(context.Background(), content)
		return askedMsg{}
	}
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	switch m.view {
	case viewChat:
		return m.viewChatPane()
	case viewAssistant:
		return m.viewAssistantPane()
	default:
		return m.viewListPane()
	}
}

func (m Model) viewListPane() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Conversas"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := m.renderItem(item)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ navegar · enter abrir · q sair"))
	return b.String()
}

func (m Model) renderItem(item session.ListItem) string {
	switch it := item.(type) {
	case session.AssistantEntry:
		return assistantTag.Render(it.Name) + dimStyle.Render("  Sua assistente virtual")

	case session.ContactEntry:
		if !it.Active() {
			return it.User.Name + dimStyle.Render("  Novo Chat: "+courseLabel(it.User))
		}
		last := it.Conversation.LastMessage()
		if last == nil {
			return it.User.Name
		}
		line := fmt.Sprintf("%s  %s %s", it.User.Name,
			dimStyle.Render(truncate(last.Content, 40)), dimStyle.Render(formatHour(last.CreatedAt)))
		self := m.chat.Self().ID
		switch {
		case !last.SentBy(self) && !last.Read:
			line += " " + unreadBadgeStyle.Render(" 1 ")
		case last.SentBy(self) && last.Read:
			line += " " + readReceiptStyle.Render("✓✓")
		case last.SentBy(self):
			line += " " + unreadReceiptStyle.Render("✓✓")
		}
		return line
	}
	return ""
}

func (m Model) viewChatPane() string {
	var b strings.Builder

	peerName := ""
	if conv, ok := m.chat.Channel.Conversation(); ok {
		peerName = conv.Peer(m.chat.Self().ID).Name
	}
	b.WriteString(titleStyle.Render("← " + peerName))
	b.WriteString("\n\n")

	messages := m.chat.Channel.Messages()
	if m.opening {
		b.WriteString(dimStyle.Render("carregando..."))
		b.WriteString("\n")
	} else if len(messages) == 0 {
		b.WriteString(dimStyle.Render("Comece uma conversa!"))
		b.WriteString("\n")
	}
	self := m.chat.Self().ID
	for _, msg := range tail(messages, m.visibleRows()) {
		b.WriteString(m.renderMessage(msg, self))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter enviar · esc voltar"))
	return b.String()
}

func (m Model) renderMessage(msg domain.Message, selfID int64) string {
	hour := formatHour(msg.CreatedAt)
	if msg.SentBy(selfID) {
		receipt := unreadReceiptStyle.Render("✓✓")
		if msg.Read {
			receipt = readReceiptStyle.Render("✓✓")
		}
		body := ownMsgStyle.Render(msg.Content) + " " + dimStyle.Render(hour) + " " + receipt
		return alignRight(body, m.width)
	}
	return peerMsgStyle.Render(msg.Content) + " " + dimStyle.Render(hour)
}

func (m Model) viewAssistantPane() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("← NEXUS IA") + dimStyle.Render(" (Assistente Virtual)"))
	b.WriteString("\n\n")

	for _, turn := range tail(m.assistant.Turns(), m.visibleRows()) {
		hour := dimStyle.Render(formatHour(turn.At))
		if turn.Role == assistant.RoleAssistant {
			b.WriteString(peerMsgStyle.Render(turn.Content) + " " + hour)
		} else {
			b.WriteString(alignRight(ownMsgStyle.Render(turn.Content)+" "+hour, m.width))
		}
		b.WriteString("\n")
	}
	if m.assistant.Typing() {
		b.WriteString(dimStyle.Render("NEXUS IA está digitando..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter perguntar · esc voltar"))
	return b.String()
}

func (m Model) visibleRows() int {
	rows := m.height - 8
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func courseLabel(u domain.User) string {
	if name := u.CourseName(); name != "" {
		return name
	}
	return "Sem curso"
}

func formatHour(t time.Time) string {
	return t.Local().Format("15:04")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func alignRight(s string, width int) string {
	pad := width - lipgloss.Width(s)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func tail[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
