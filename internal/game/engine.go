// Package game drives a session: it interprets player commands, runs the
// combat phase loop and applies narrator responses to the session state.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jwebster45206/keep-terminal/internal/config"
	"github.com/jwebster45206/keep-terminal/internal/logger"
	"github.com/jwebster45206/keep-terminal/internal/services"
	"github.com/jwebster45206/keep-terminal/internal/storage"
	"github.com/jwebster45206/keep-terminal/pkg/actor"
	"github.com/jwebster45206/keep-terminal/pkg/chat"
	"github.com/jwebster45206/keep-terminal/pkg/combat"
	"github.com/jwebster45206/keep-terminal/pkg/dice"
	"github.com/jwebster45206/keep-terminal/pkg/prompts"
	"github.com/jwebster45206/keep-terminal/pkg/scenario"
	"github.com/jwebster45206/keep-terminal/pkg/signals"
	"github.com/jwebster45206/keep-terminal/pkg/sound"
	"github.com/jwebster45206/keep-terminal/pkg/state"
)

// ErrBusy is returned when input arrives while a narrator call is outstanding.
// The input is refused, not queued.
var ErrBusy = errors.New("narrator call in progress")

// DefaultRollSides is used by ROLL when no valid die size is given.
const DefaultRollSides = 20

// Settings are the tunable timings and policies of an Engine.
type Settings struct {
	NarratorTimeout    time.Duration
	CombatTickDelay    time.Duration
	MonsterTurnDelay   time.Duration
	ResetClearsStarted bool
}

// DefaultSettings matches the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		NarratorTimeout:  90 * time.Second,
		CombatTickDelay:  800 * time.Millisecond,
		MonsterTurnDelay: 1200 * time.Millisecond,
	}
}

// SettingsFromConfig copies the engine settings out of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		NarratorTimeout:    cfg.NarratorTimeout,
		CombatTickDelay:    cfg.CombatTickDelay,
		MonsterTurnDelay:   cfg.MonsterTurnDelay,
		ResetClearsStarted: cfg.ResetClearsStarted,
	}
}

// Options wires an Engine's collaborators. Scenario, Narrator and Store are
// required; the rest have defaults.
type Options struct {
	Scenario *scenario.Scenario // used for fresh sessions
	Registry *scenario.Registry // resolves the module of restored sessions
	Narrator services.Narrator
	Store    storage.Store
	Roller   dice.Roller
	Notifier sound.Notifier
	Signals  signals.Extractor
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string // character ids
	Settings Settings
}

func (o *Options) validate() error {
	if o.Scenario == nil {
		return fmt.Errorf("scenario is required")
	}
	if o.Narrator == nil {
		return fmt.Errorf("narrator is required")
	}
	if o.Store == nil {
		return fmt.Errorf("store is required")
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Notifier == nil {
		o.Notifier = sound.Nop{}
	}
	if o.Roller == nil {
		o.Roller = dice.New(dice.WithNotifier(o.Notifier), dice.WithLogger(o.Logger))
	}
	if o.Signals == nil {
		o.Signals = signals.NewKeywordExtractor(nil, nil)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return nil
}

func (o *Options) scenarioFor(moduleID string) (*scenario.Scenario, error) {
	if o.Scenario.ID == moduleID {
		return o.Scenario, nil
	}
	if o.Registry == nil {
		return nil, fmt.Errorf("%w: %s", scenario.ErrNotFound, moduleID)
	}
	return o.Registry.Get(moduleID)
}

// Engine owns one session. It is not safe for concurrent use: a single event
// loop calls every method and runs dispatched Calls elsewhere.
type Engine struct {
	opts     Options
	scn      *scenario.Scenario
	factory  *actor.Factory
	logger   *slog.Logger
	settings Settings

	state      *state.SessionState
	started    bool
	loading    bool
	generation uint64
}

// NewEngine wraps an existing session.
func NewEngine(s *state.SessionState, started bool, opts Options) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("session state is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	scn, err := opts.scenarioFor(s.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve module: %w", err)
	}

	factory := actor.NewFactory(opts.Roller)
	if opts.NewID != nil {
		factory.WithIDFunc(opts.NewID)
	}

	e := &Engine{
		opts:     opts,
		scn:      scn,
		factory:  factory,
		logger:   logger.WithSessionID(opts.Logger, s.ID),
		settings: opts.Settings,
		state:    s,
		started:  started,
	}
	e.repairCombat()
	return e, nil
}

// Open restores session id from the store, or starts a fresh session when
// the snapshot is missing, corrupt or unreadable. An empty id always starts
// fresh. The resulting state is persisted.
func Open(ctx context.Context, id string, opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger

	var s *state.SessionState
	if id != "" {
		loaded, err := opts.Store.LoadSession(ctx, id)
		switch {
		case err != nil:
			log.Warn("Could not restore session, starting fresh", "session_id", id, "error", err)
		case loaded == nil:
			log.Info("No saved session, starting fresh", "session_id", id)
		default:
			if _, err := opts.scenarioFor(loaded.ModuleID); err != nil {
				log.Warn("Saved session uses an unknown module, starting fresh",
					"session_id", id, "module", loaded.ModuleID, "error", err)
			} else {
				s = loaded
			}
		}
	}
	if s == nil {
		return Create(ctx, id, opts)
	}
	return restore(ctx, s, opts)
}

// Create starts a fresh session in opts.Scenario under id (a new id when
// empty), replacing any stored snapshot. The started flag is kept.
func Create(ctx context.Context, id string, opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s := state.NewSessionState(opts.Scenario, opts.Now())
	if id != "" {
		s.ID = id
	}
	return restore(ctx, s, opts)
}

func restore(ctx context.Context, s *state.SessionState, opts Options) (*Engine, error) {
	started, err := opts.Store.IsStarted(ctx, s.ID)
	if err != nil {
		opts.Logger.Warn("Could not read started flag", "session_id", s.ID, "error", err)
	}

	e, err := NewEngine(s, started, opts)
	if err != nil {
		return nil, err
	}
	e.persist(ctx)
	return e, nil
}

// repairCombat keeps InCombat and the combat phase consistent on restore.
func (e *Engine) repairCombat() {
	s := e.state
	switch {
	case s.InCombat && !s.Combat.Active():
		s.Combat = combat.Start()
	case !s.InCombat && s.Combat.Active():
		s.Combat = combat.End()
	}
}

// State returns the current snapshot. Snapshots are replaced, never mutated,
// so the returned value stays valid; callers must not modify it.
func (e *Engine) State() *state.SessionState {
	return e.state
}

// Scenario returns the session's adventure module.
func (e *Engine) Scenario() *scenario.Scenario {
	return e.scn
}

// Busy reports whether a narrator call is outstanding.
func (e *Engine) Busy() bool {
	return e.loading
}

// Started reports whether the title screen has been dismissed.
func (e *Engine) Started() bool {
	return e.started
}

// Start dismisses the title screen and persists the flag.
func (e *Engine) Start(ctx context.Context) error {
	e.started = true
	if err := e.opts.Store.SetStarted(ctx, e.state.ID, true); err != nil {
		e.logger.Error("Failed to persist started flag", "error", err)
		return fmt.Errorf("failed to mark session started: %w", err)
	}
	return nil
}

// Submit handles one line of player input. It returns a Call when the input
// needs the narrator.
func (e *Engine) Submit(ctx context.Context, input string) (*Call, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, nil
	}
	if e.loading {
		return nil, ErrBusy
	}

	cmd := strings.ToUpper(text)
	if cmd == "RESET" {
		e.Reset(ctx)
		return nil, nil
	}

	switch e.state.SetupStep {
	case state.StepNone:
		if cmd == "G" {
			e.generateParty(ctx)
		}
		return nil, nil
	case state.StepGenerated:
		switch cmd {
		case "G":
			e.generateParty(ctx)
		case "K":
			e.keepParty(ctx)
		}
		return nil, nil
	case state.StepConfirmed:
		if cmd == "S" {
			return e.dispatch(PurposeIntro, prompts.IntroInstruction(e.scn), ""), nil
		}
		return nil, nil
	}

	return e.play(ctx, text, cmd), nil
}

func (e *Engine) generateParty(ctx context.Context) {
	party := e.factory.GenerateParty(actor.DefaultPartyNames)
	e.apply(ctx, func(s *state.SessionState) {
		s.Party = party
		s.ActiveCharacterID = nil
		if len(party) > 0 {
			s.SetActive(party[0].ID)
		}
		s.AppendMessage(chat.KindSystem, partyAssembled(party), e.opts.Now())
		s.SetupStep = state.StepGenerated
	})
	e.logger.Info("Party generated", "size", len(party), "difficulty", actor.AssessDifficulty(party))
}

func (e *Engine) keepParty(ctx context.Context) {
	e.apply(ctx, func(s *state.SessionState) {
		s.AppendMessage(chat.KindSystem, PartyLocked, e.opts.Now())
		s.SetupStep = state.StepConfirmed
	})
}

// play handles input once the adventure is running.
func (e *Engine) play(ctx context.Context, text, cmd string) *Call {
	now := e.opts.Now()

	if name, ok := strings.CutPrefix(cmd, "SELECT "); ok {
		e.apply(ctx, func(s *state.SessionState) {
			s.AppendMessage(chat.KindPlayer, text, now)
			s.TurnCount++
			if c, found := s.FindCharacterByName(name); found {
				s.SetActive(c.ID)
			}
		})
		return nil
	}

	if cmd == "ROLL" || strings.HasPrefix(cmd, "ROLL ") {
		sides := parseSides(cmd)
		result := e.opts.Roller.Roll(sides, 1)
		e.apply(ctx, func(s *state.SessionState) {
			s.AppendMessage(chat.KindPlayer, text, now)
			s.TurnCount++
			s.AppendMessage(chat.KindDice, RollOutput(sides, result), now)
		})
		return nil
	}

	if e.state.InCombat && e.state.Combat.SelfAdvancing() {
		e.apply(ctx, func(s *state.SessionState) {
			s.AppendMessage(chat.KindPlayer, text, now)
			s.AppendMessage(chat.KindSystem, StandBy, now)
		})
		return nil
	}

	purpose := PurposeAction
	if e.state.InCombat && e.state.Combat.AwaitingPlayer() {
		purpose = PurposePartyTurn
	}
	e.apply(ctx, func(s *state.SessionState) {
		s.AppendMessage(chat.KindPlayer, text, now)
		s.TurnCount++
	})

	speaker := ""
	if c, ok := e.state.ActiveCharacter(); ok {
		speaker = c.Name
	}
	return e.dispatch(purpose, text, speaker)
}

// parseSides reads the die size from "ROLL <n>".
func parseSides(cmd string) int {
	fields := strings.Fields(cmd)
	if len(fields) < 2 {
		return DefaultRollSides
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n <= 0 {
		return DefaultRollSides
	}
	return n
}

// dispatch marks the engine busy and builds the Call. The request carries a
// private copy of the session.
func (e *Engine) dispatch(purpose Purpose, instruction, speaker string) *Call {
	e.generation++
	e.loading = true
	e.logger.Debug("Dispatching narrator call", "purpose", purpose, "generation", e.generation)

	return &Call{
		Generation: e.generation,
		Purpose:    purpose,
		Request: &services.NarratorRequest{
			Session:     e.state.Clone(),
			Scenario:    e.scn,
			Instruction: instruction,
			Actor:       speaker,
		},
		narrator: e.opts.Narrator,
		timeout:  e.settings.NarratorTimeout,
	}
}

// Resolve applies a finished Call. Results from an older generation (the
// session was reset, or the result was already applied) are discarded.
func (e *Engine) Resolve(ctx context.Context, res Result) {
	if !e.loading || res.Generation != e.generation {
		e.logger.Debug("Discarding stale narrator result",
			"purpose", res.Purpose, "generation", res.Generation, "current", e.generation)
		return
	}
	e.loading = false

	if res.Err != nil {
		e.logger.Warn("Narrator call failed", "purpose", res.Purpose, "error", res.Err)
		notice := InterfaceLoss
		if res.Purpose == PurposeIntro {
			notice = IntroInterfaceLoss
		}
		e.apply(ctx, func(s *state.SessionState) {
			s.AppendMessage(chat.KindSystem, notice, e.opts.Now())
		})
		return
	}

	if res.Purpose == PurposeIntro {
		e.apply(ctx, func(s *state.SessionState) {
			now := e.opts.Now()
			s.AppendMessage(chat.KindSystem, e.scn.Banner(), now)
			s.AppendMessage(chat.KindDM, res.Text, now)
			s.SetupStep = state.StepPlaying
		})
		return
	}

	e.applyNarration(ctx, res)
}

// applyNarration appends the narrator's prose and scans it for location,
// XP and combat signals.
func (e *Engine) applyNarration(ctx context.Context, res Result) {
	sig := e.opts.Signals
	text := res.Text
	var cues []sound.Cue

	e.apply(ctx, func(s *state.SessionState) {
		now := e.opts.Now()
		s.AppendMessage(chat.KindDM, text, now)

		if loc, ok := sig.ExtractLocation(text, e.scn.LocationNames()); ok && loc != s.Location {
			s.Visit(loc)
		}

		if xp, ok := sig.ExtractXP(text); ok && xp > 0 && len(s.Party) > 0 {
			before := s.Party
			s.Party = actor.AwardXP(s.Party, xp, e.opts.Roller)
			s.AppendMessage(chat.KindSystem, xpAwarded(xp, before, s.Party), now)
		}

		ended := sig.DetectCombatEnd(text)
		switch {
		case s.InCombat && ended:
			s.InCombat = false
			s.Combat = combat.End()
			s.AppendMessage(chat.KindSystem, CombatResolved, now)
			cues = append(cues, sound.Flee)
		case s.InCombat:
			s.Combat = combat.EndTurn(s.Combat)
		case ended:
			cues = append(cues, sound.Flee)
		case sig.DetectCombatStart(text):
			s.InCombat = true
			s.Combat = combat.Start()
			s.AppendMessage(chat.KindSystem, CombatEngaged, now)
			cues = append(cues, sound.CombatStart)
		}
	})

	for _, cue := range cues {
		e.opts.Notifier.Play(cue)
	}
	if e.state.InCombat {
		e.logger.Debug("Combat state", "combat", e.state.Combat.Describe())
	}
}

// Tick advances a self-advancing combat phase. SURPRISE and INITIATIVE are
// resolved locally; MONSTER_TURN returns a narrator Call. It does nothing
// while busy or outside those phases.
func (e *Engine) Tick(ctx context.Context) *Call {
	if e.loading || !e.state.InCombat || e.state.SetupStep != state.StepPlaying {
		return nil
	}

	switch e.state.Combat.Phase {
	case combat.PhaseSurprise, combat.PhaseInitiative:
		out, ok := combat.Advance(e.state.Combat, e.opts.Roller)
		if !ok {
			return nil
		}
		e.apply(ctx, func(s *state.SessionState) {
			s.Combat = out.State
			s.AppendMessage(chat.KindSystem, out.Message, e.opts.Now())
		})
		return nil
	case combat.PhaseMonsterTurn:
		return e.dispatch(PurposeMonsterTurn, combat.MonsterTurnInstruction, "")
	}
	return nil
}

// NextTick reports when the driver should call Tick next.
func (e *Engine) NextTick() (time.Duration, bool) {
	if e.loading || !e.state.InCombat || e.state.SetupStep != state.StepPlaying {
		return 0, false
	}
	switch e.state.Combat.Phase {
	case combat.PhaseSurprise, combat.PhaseInitiative:
		return e.settings.CombatTickDelay, true
	case combat.PhaseMonsterTurn:
		return e.settings.MonsterTurnDelay, true
	}
	return 0, false
}

// ClickCell cycles the map symbol at (x, y). Out-of-range cells are ignored.
func (e *Engine) ClickCell(ctx context.Context, x, y int) bool {
	next := e.state.Clone()
	if !next.CycleCell(x, y) {
		return false
	}
	e.state = next
	e.persist(ctx)
	return true
}

// Reset discards the session and starts over under the same id. Any
// outstanding narrator call becomes stale. The started flag survives unless
// the settings say otherwise.
func (e *Engine) Reset(ctx context.Context) {
	e.generation++
	e.loading = false

	id := e.state.ID
	if err := e.opts.Store.DeleteSession(ctx, id); err != nil {
		e.logger.Error("Failed to delete session snapshot", "error", err)
	}
	if e.settings.ResetClearsStarted {
		e.started = false
		if err := e.opts.Store.SetStarted(ctx, id, false); err != nil {
			e.logger.Error("Failed to clear started flag", "error", err)
		}
	}

	fresh := state.NewSessionState(e.scn, e.opts.Now())
	fresh.ID = id
	e.state = fresh
	e.persist(ctx)
	e.logger.Info("Session reset")
}

// apply runs fn on a copy of the state, swaps the copy in and persists it.
func (e *Engine) apply(ctx context.Context, fn func(s *state.SessionState)) {
	next := e.state.Clone()
	fn(next)
	e.state = next
	e.persist(ctx)
}

func (e *Engine) persist(ctx context.Context) {
	if err := e.opts.Store.SaveSession(ctx, e.state); err != nil {
		e.logger.Error("Failed to persist session", "error", err)
	}
}

// View is a read-only summary of an engine for API responses.
type View struct {
	Session *state.SessionState `json:"session"`
	Busy    bool                `json:"busy"`
	Started bool                `json:"started"`
	Combat  string              `json:"combat"`
}

// View returns the current summary.
func (e *Engine) View() View {
	return View{
		Session: e.state,
		Busy:    e.loading,
		Started: e.started,
		Combat:  e.state.Combat.Describe(),
	}
}
