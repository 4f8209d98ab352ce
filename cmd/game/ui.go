package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/hallway/internal/game"
	"github.com/jwebster45206/hallway/pkg/emotion"
)

const PlaceHolderText = "메시지를 입력하세요... (/help)"

type entryKind int

const (
	entryPlayer entryKind = iota
	entryNPC
	entrySystem
	entryError
)

type logEntry struct {
	kind entryKind
	text string
}

// GameUI is the BubbleTea model that runs the game.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	ctx          context.Context
	sess         *session
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	entries     []logEntry
	lastChanges emotion.ChangeSet

	// Quit confirmation state
	showQuitModal bool
	ending        bool

	// Progress bar state
	progressTick int
}

type turnResultMsg struct {
	result game.TurnResult
}

type sessionEndedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	risingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	fallingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewGameUI(ctx context.Context, sess *session) GameUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ui := GameUI{
		ctx:          ctx,
		sess:         sess,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
	ui.addEntry(entrySystem, sess.look(ctx))
	return ui
}

func (m *GameUI) addEntry(kind entryKind, text string) {
	m.entries = append(m.entries, logEntry{kind: kind, text: text})
}

// writeChatContent rebuilds the chat log for the current viewport width.
func (m *GameUI) writeChatContent() {
	chatWidth := max(m.chatViewport.Width-6, 10) // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.sess.world.Title)) + "\n")
	content.WriteString(m.sess.world.Event + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	for _, e := range m.entries {
		switch e.kind {
		case entryPlayer:
			content.WriteString(userStyle.Render(m.sess.world.PlayerName+": ") + wordwrap.String(e.text, chatWidth) + "\n\n")
		case entryNPC:
			content.WriteString(formatNPCResponse(e.text, chatWidth) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
		default:
			content.WriteString(systemStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// writeMetadata renders the side panel: place, partner, emotions and the
// last turn's changes.
func (m *GameUI) writeMetadata() string {
	s := m.sess
	var content strings.Builder
	content.WriteString(titleStyle.Render("현재 상황") + "\n\n")

	content.WriteString("장소:\n")
	content.WriteString(s.gs.Location + "\n\n")

	content.WriteString("이곳에 있는 사람:\n")
	if names := s.gs.NPCsAt(s.gs.Location); len(names) > 0 {
		content.WriteString(strings.Join(names, ", ") + "\n\n")
	} else {
		content.WriteString("없음\n\n")
	}

	if s.gs.SelectedNPC == "" {
		content.WriteString("대화 상대:\n없음\n")
		return content.String()
	}

	id := s.registry.ID(s.gs.SelectedNPC)
	score, level := s.engine.Relationship(m.ctx, id)
	content.WriteString(titleStyle.Render(s.gs.SelectedNPC) + "\n")
	content.WriteString(fmt.Sprintf("관계: %s (%.1f)\n\n", level, score))
	for _, line := range emotionBars(s.engine.Current(m.ctx, id)) {
		content.WriteString(line + "\n")
	}

	if len(m.lastChanges) > 0 {
		content.WriteString("\n" + titleStyle.Render("감정 변화") + "\n")
		for _, name := range m.lastChanges.Names() {
			c := m.lastChanges[name]
			line := fmt.Sprintf("%s %+.1f", emotion.DisplayName(name), c.Delta())
			if c.Delta() > 0 {
				content.WriteString(risingStyle.Render(line) + "\n")
			} else {
				content.WriteString(fallingStyle.Render(line) + "\n")
			}
		}
	}
	return content.String()
}

func (m *GameUI) refresh() {
	m.writeChatContent()
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m GameUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Generation keeps running behind the quit dialog.
	switch msg := msg.(type) {
	case turnResultMsg:
		return m.applyResult(msg)
	case progressTickMsg:
		if !m.loading {
			return m, nil
		}
		m.progressTick++
		m.writeChatContent()
		return m, progressTick()
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				m.handleCommand(input)
				return m, nil
			}
			return m.sendMessage(input)
		}

	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// applyResult folds a finished generation into the session. Once the
// session is ending the result is dropped so the reset stays final.
func (m GameUI) applyResult(msg turnResultMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if m.ending {
		return m, nil
	}
	changes, err := m.sess.turns.ApplyTurn(m.ctx, m.sess.gs, msg.result)
	switch {
	case errors.Is(err, game.ErrStaleTurn):
		// The player moved on; nothing to show.
	case err != nil:
		m.addEntry(entryError, "응답을 받지 못했습니다. 잠시 후 다시 시도해 주세요.")
	default:
		display := msg.result.Reply.Display(msg.result.NPC)
		m.sess.lastReply = display
		m.lastChanges = changes
		m.addEntry(entryNPC, display)
	}
	m.refresh()
	return m, nil
}

// sendMessage records the player's line and starts generation off the
// update loop.
func (m GameUI) sendMessage(input string) (tea.Model, tea.Cmd) {
	req, err := m.sess.turns.PrepareTurn(m.ctx, m.sess.gs, input)
	if err != nil {
		if errors.Is(err, game.ErrNoNPCSelected) {
			m.addEntry(entryError, "먼저 /talk <이름> 으로 대화 상대를 고르세요.")
		} else {
			m.addEntry(entryError, err.Error())
		}
		m.refresh()
		return m, nil
	}

	m.addEntry(entryPlayer, input)
	m.lastChanges = nil
	m.loading = true
	m.progressTick = 0
	m.refresh()

	turns, ctx := m.sess.turns, m.ctx
	generate := func() tea.Msg {
		return turnResultMsg{result: turns.Generate(ctx, req)}
	}
	return m, tea.Batch(generate, progressTick())
}

func (m *GameUI) handleCommand(input string) {
	if strings.EqualFold(strings.Fields(input)[0], "/copy") {
		m.copyLastReply()
		m.refresh()
		return
	}

	text, err := m.sess.run(m.ctx, input)
	if err != nil {
		m.addEntry(entryError, err.Error())
	} else {
		m.addEntry(entrySystem, text)
	}
	m.refresh()
}

func (m *GameUI) copyLastReply() {
	if m.sess.lastReply == "" {
		m.addEntry(entryError, "복사할 대답이 없습니다.")
		return
	}
	if err := clipboard.WriteAll(m.sess.lastReply); err != nil {
		m.sess.logger.Warn("Clipboard write failed", "error", err)
		m.addEntry(entryError, "클립보드에 복사하지 못했습니다.")
		return
	}
	m.addEntry(entrySystem, "마지막 대답을 복사했습니다.")
}

func (m GameUI) endSession() tea.Cmd {
	lifecycle, ctx := m.sess.lifecycle, m.ctx
	return func() tea.Msg {
		return sessionEndedMsg{err: lifecycle.End(ctx)}
	}
}

func (m GameUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionEndedMsg:
		if msg.err != nil {
			m.sess.logger.Error("Failed to reset emotions on exit", "error", msg.err)
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.ending {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			m.ending = true
			return m, m.endSession()
		case tea.KeyEsc:
			m.showQuitModal = false
			m.textarea.Focus()
			return m, textarea.Blink
		default:
			switch msg.String() {
			case "y", "Y":
				m.ending = true
				return m, m.endSession()
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m GameUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("게임을 종료할까요?"))
	content.WriteString("\n\n")
	if m.ending {
		content.WriteString("감정 상태를 초기화하는 중...")
	} else {
		content.WriteString("종료하면 모든 학생의 감정이 처음 상태로 돌아갑니다.")
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Y: 종료, N: 계속"))
	}

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m GameUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 0))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// formatNPCResponse wraps a displayed reply and highlights the speaker.
func formatNPCResponse(response string, width int) string {
	lines := strings.Split(wordwrap.String(response, width), "\n")
	if idx := strings.Index(lines[0], ": "); idx > 0 {
		lines[0] = speakerStyle.Render(lines[0][:idx+1]) + lines[0][idx+1:]
	}
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "(") {
			lines[i] = promptStyle.Render(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}

// renderProgressBar creates an animated progress bar for loading states
func (m GameUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	usable = min(max(usable, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
