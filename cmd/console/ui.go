package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/keep-terminal/internal/game"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/state"
)

const (
	PlaceHolderText = "ENTER COMMAND..."
	loadingEvery    = 1500 * time.Millisecond
	sidebarWidth    = 26
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx      context.Context
	engine   *game.Engine
	opts     game.Options
	registry *scenario.Registry
	logger   *slog.Logger

	transcript viewport.Model
	textarea   textarea.Model
	ready      bool
	width      int
	height     int

	// Title screen state
	showTitle      bool
	modules        []string
	selectedModule int

	// Quit confirmation state
	showQuitModal bool

	// Map editing state
	mapFocus bool
	cursorX  int
	cursorY  int

	loadingTick int
	tickSeq     int
	notice      string

	// run and after are swapped out in tests so no goroutines or timers run.
	run   func(call *game.Call) tea.Cmd
	after func(d time.Duration, msg tea.Msg) tea.Cmd
}

type narratorResultMsg struct {
	result game.Result
}

type combatTickMsg struct {
	seq int
}

type loadingTickMsg struct{}

type clipboardMsg struct {
	err error
}

func NewConsoleUI(ctx context.Context, engine *game.Engine, opts game.Options, registry *scenario.Registry) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render("> ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	modules := registry.IDs()
	selected := 0
	for i, id := range modules {
		if id == engine.Scenario().ID {
			selected = i
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return ConsoleUI{
		ctx:            ctx,
		engine:         engine,
		opts:           opts,
		registry:       registry,
		logger:         logger,
		transcript:     vp,
		textarea:       ta,
		showTitle:      !engine.Started(),
		modules:        modules,
		selectedModule: selected,
		run:            runCall(ctx),
		after: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
}

// runCall performs narrator calls off the event loop.
func runCall(ctx context.Context) func(call *game.Call) tea.Cmd {
	return func(call *game.Call) tea.Cmd {
		return func() tea.Msg {
			return narratorResultMsg{result: call.Run(ctx)}
		}
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.pendingTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showTitle {
		return m.updateTitle(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.transcript, vpCmd = m.transcript.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.writeTranscript()

	case narratorResultMsg:
		m.engine.Resolve(m.ctx, msg.result)
		m.writeTranscript()
		return m, m.scheduleTick()

	case combatTickMsg:
		if msg.seq != m.tickSeq {
			return m, nil
		}
		var cmd tea.Cmd
		if call := m.engine.Tick(m.ctx); call != nil {
			cmd = m.dispatch(call)
		}
		m.writeTranscript()
		return m, tea.Batch(cmd, m.scheduleTick())

	case loadingTickMsg:
		if m.engine.Busy() {
			m.loadingTick++
			m.writeTranscript()
			return m, m.after(loadingEvery, loadingTickMsg{})
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn("Clipboard copy failed", "error", msg.err)
			m.notice = "COPY FAILED"
		} else {
			m.notice = "COPIED"
		}
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyTab:
			m.mapFocus = !m.mapFocus
			if m.mapFocus {
				m.textarea.Blur()
				return m, nil
			}
			return m, m.textarea.Focus()
		case tea.KeyCtrlY:
			return m, copyLastNarration(m.engine.State())
		case tea.KeyPgUp, tea.KeyPgDown:
			m.transcript, vpCmd = m.transcript.Update(msg)
			return m, vpCmd
		}

		if m.mapFocus {
			return m.updateMap(msg)
		}

		if msg.Type == tea.KeyEnter {
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			return m, m.submit(input)
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	return m, tiCmd
}

// submit hands a line of input to the engine.
func (m *ConsoleUI) submit(input string) tea.Cmd {
	if input == "" {
		return nil
	}
	call, err := m.engine.Submit(m.ctx, input)
	if errors.Is(err, game.ErrBusy) {
		m.notice = "STAND BY"
		return nil
	}
	var cmd tea.Cmd
	if call != nil {
		cmd = m.dispatch(call)
	}
	m.writeTranscript()
	return tea.Batch(cmd, m.scheduleTick())
}

// dispatch starts a narrator call and the loading animation.
func (m *ConsoleUI) dispatch(call *game.Call) tea.Cmd {
	m.loadingTick = 0
	return tea.Batch(m.run(call), m.after(loadingEvery, loadingTickMsg{}))
}

// scheduleTick arms the next combat tick. Earlier ticks are invalidated so
// a phase never advances twice.
func (m *ConsoleUI) scheduleTick() tea.Cmd {
	m.tickSeq++
	return m.pendingTick()
}

func (m ConsoleUI) pendingTick() tea.Cmd {
	d, ok := m.engine.NextTick()
	if !ok {
		return nil
	}
	return m.after(d, combatTickMsg{seq: m.tickSeq})
}

func (m ConsoleUI) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.cursorY = max(m.cursorY-1, 0)
	case tea.KeyDown:
		m.cursorY = min(m.cursorY+1, state.MapSize-1)
	case tea.KeyLeft:
		m.cursorX = max(m.cursorX-1, 0)
	case tea.KeyRight:
		m.cursorX = min(m.cursorX+1, state.MapSize-1)
	case tea.KeySpace, tea.KeyEnter:
		m.engine.ClickCell(m.ctx, m.cursorX, m.cursorY)
	}
	return m, nil
}

func (m ConsoleUI) updateTitle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
		case tea.KeyUp:
			if m.selectedModule > 0 {
				m.selectedModule--
			}
		case tea.KeyDown:
			if m.selectedModule < len(m.modules)-1 {
				m.selectedModule++
			}
		case tea.KeyEnter:
			if err := m.enter(); err != nil {
				m.logger.Error("Failed to start session", "error", err)
				m.notice = strings.ToUpper(err.Error())
				return m, nil
			}
			m.showTitle = false
			m.writeTranscript()
			return m, tea.Batch(m.textarea.Focus(), m.scheduleTick())
		}
	}
	return m, nil
}

// enter leaves the title screen. Choosing a different module starts a fresh
// session in it under the same id.
func (m *ConsoleUI) enter() error {
	if len(m.modules) > 0 {
		id := m.modules[m.selectedModule]
		if id != m.engine.Scenario().ID {
			scn, err := m.registry.Get(id)
			if err != nil {
				return err
			}
			opts := m.opts
			opts.Scenario = scn
			engine, err := game.Create(m.ctx, m.engine.State().ID, opts)
			if err != nil {
				return err
			}
			m.engine = engine
			m.logger.Info("Switched module", "module", id)
		}
	}
	return m.engine.Start(m.ctx)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case narratorResultMsg:
		// keep the session current while the modal is open
		m.engine.Resolve(m.ctx, msg.result)
		m.writeTranscript()
		return m, m.scheduleTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showTitle {
					return m, nil
				}
				// ticks that arrived while the modal was open were dropped
				cmds := []tea.Cmd{m.scheduleTick()}
				if m.engine.Busy() {
					cmds = append(cmds, m.after(loadingEvery, loadingTickMsg{}))
				}
				if !m.mapFocus {
					cmds = append(cmds, m.textarea.Focus())
				}
				return m, tea.Batch(cmds...)
			}
		}
	}
	return m, nil
}

func (m *ConsoleUI) resize(width, height int) {
	m.width = width
	m.height = height

	chatWidth := max(m.width-sidebarWidth-4, 20)
	m.transcript.Width = chatWidth
	m.transcript.Height = max(m.height-6, 3)
	m.textarea.SetWidth(chatWidth)
	m.ready = true
}

func copyLastNarration(s *state.SessionState) tea.Cmd {
	msg, ok := s.LastMessage(chat.KindDM)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(msg.Content)}
	}
}
