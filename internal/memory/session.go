package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/playperu/emojimemory/internal/scores"
)

var (
	ErrWrongPhase       = errors.New("action not available in the current phase")
	ErrRecordNotAllowed = errors.New("records can only be saved after a finished solo game")
	ErrRecordSaved      = errors.New("record already saved for this game")
	ErrNotEligible      = errors.New("time does not qualify for the top 5")
	ErrNoLeaderboard    = errors.New("no leaderboard configured")
)

type Phase string

const (
	PhaseMenu          Phase = "menu"
	PhaseAnnouncing    Phase = "announcing"
	PhasePlaying       Phase = "playing"
	PhaseLevelComplete Phase = "level_complete"
	PhaseGameComplete  Phase = "game_complete"
)

type Delays struct {
	Match time.Duration
	Miss  time.Duration
	Turn  time.Duration
	Tick  time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Match: 300 * time.Millisecond,
		Miss:  800 * time.Millisecond,
		Turn:  1500 * time.Millisecond,
		Tick:  time.Second,
	}
}

// Leaderboard is the persistence a Session needs for solo records.
type Leaderboard interface {
	Save(ctx context.Context, rec scores.Record) (scores.Submission, error)
	Top5(ctx context.Context) ([]scores.Record, error)
}

// Options configures a Session. Zero values get defaults.
type Options struct {
	Catalog     Catalog
	Symbols     []string
	Rand        *rand.Rand
	Clock       clockwork.Clock
	Scheduler   Scheduler
	Delays      Delays
	Renderer    Renderer
	Leaderboard Leaderboard
	Logger      *slog.Logger
}

type RoundResult struct {
	Level  int    `json:"level"`
	Winner string `json:"winner"`
}

// Outcome is the final screen of a finished game.
type Outcome struct {
	Mode        Mode   `json:"mode"`
	StatLabel   string `json:"statLabel"`
	StatValue   string `json:"statValue"`
	Winner      string `json:"winner,omitempty"`
	RecordSaved bool   `json:"recordSaved"`
}

// Session is one player's (or one pair's) game. All transitions, whether
// triggered by a request or a timer, run under mu.
type Session struct {
	id     string
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	phase    Phase
	game     GameSession
	versus   *VersusState
	engine   *Engine
	rounds   []RoundResult
	outcome  *Outcome
	epoch    uint64
	pending  Timer
	ticker   Timer
	lastSeen time.Time
}

func NewSession(id string, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog
	}
	if opts.Symbols == nil {
		opts.Symbols = DefaultSymbols
	}
	if err := opts.Catalog.Validate(len(opts.Symbols)); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewClockScheduler(opts.Clock)
	}
	if opts.Delays == (Delays{}) {
		opts.Delays = DefaultDelays()
	}
	if opts.Renderer == nil {
		opts.Renderer = NopRenderer{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Session{
		id:       id,
		opts:     opts,
		logger:   opts.Logger.With("session", id),
		phase:    PhaseMenu,
		lastSeen: opts.Clock.Now(),
	}, nil
}

func (s *Session) ID() string { return s.id }

// LastSeen is the time of the last player action.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() { s.lastSeen = s.opts.Clock.Now() }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Game() GameSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Versus returns a copy of the versus state, nil in solo.
func (s *Session) Versus() *VersusState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versus == nil {
		return nil
	}
	v := *s.versus
	return &v
}

func (s *Session) StartSolo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.resetLocked()
	s.game.Mode = ModeSolo
	s.initLevelLocked()
}

// StartVersus begins a versus game. Blank names fall back to defaults.
func (s *Session) StartVersus(player1, player2 string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.resetLocked()
	s.game.Mode = ModeVersus
	s.versus = NewVersusState(player1, player2)
	s.announceLocked()
}

// Flip forwards a card tap to the engine. Taps are ignored unless the board
// is playable.
func (s *Session) Flip(id int) FlipResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.phase != PhasePlaying || !s.game.Active || s.engine == nil {
		return FlipIgnored
	}

	res := s.engine.Flip(id, s.versus)
	if res == FlipIgnored {
		return res
	}
	card, _ := s.engine.Card(id)
	s.opts.Renderer.SetCard(viewOf(card, false))

	switch res {
	case FlipMatch:
		s.renderHUDLocked()
		s.pending = s.scheduleLocked(s.opts.Delays.Match, s.resolveLocked)
	case FlipMiss:
		s.renderHUDLocked()
		s.pending = s.scheduleLocked(s.opts.Delays.Miss, s.resolveLocked)
	}
	return res
}

// NextLevel advances from the level-complete screen.
func (s *Session) NextLevel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.phase != PhaseLevelComplete {
		return ErrWrongPhase
	}
	s.opts.Renderer.HideModal(ModalLevelComplete)
	s.game.LevelIndex++
	if s.versus != nil {
		s.versus.resetRound()
		s.announceLocked()
		return nil
	}
	s.initLevelLocked()
	return nil
}

// RestartLevel re-deals the current level while it is being played. The
// solo clock is not reset; versus round counters are. A finished level has
// already been tallied and can only be left with NextLevel.
func (s *Session) RestartLevel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.phase != PhasePlaying && s.phase != PhaseAnnouncing {
		return ErrWrongPhase
	}
	s.opts.Renderer.HideModal(ModalTurn)
	if s.versus != nil {
		s.versus.resetRound()
	}
	s.initLevelLocked()
	return nil
}

// ReturnToMenu cancels every timer and resets all game state.
func (s *Session) ReturnToMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.resetLocked()
	s.opts.Renderer.HideModal(ModalTurn)
	s.opts.Renderer.HideModal(ModalLevelComplete)
	s.opts.Renderer.HideModal(ModalVictory)
}

// Close stops outstanding timers without touching state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.stopTimersLocked()
}

// RecordEligible reports whether the finished solo time earns a place on
// the leaderboard.
func (s *Session) RecordEligible(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRecordLocked(); err != nil {
		return false, err
	}
	top, err := s.opts.Leaderboard.Top5(ctx)
	if err != nil {
		return false, fmt.Errorf("reading leaderboard: %w", err)
	}
	return scores.Qualifies(top, s.game.ElapsedSeconds), nil
}

// SaveRecord stores the finished solo time under name. It can be called
// once per game, and only for a time that makes the top 5.
func (s *Session) SaveRecord(ctx context.Context, name string) (scores.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err := s.checkRecordLocked(); err != nil {
		return scores.Submission{}, err
	}
	top, err := s.opts.Leaderboard.Top5(ctx)
	if err != nil {
		return scores.Submission{}, fmt.Errorf("reading leaderboard: %w", err)
	}
	if !scores.Qualifies(top, s.game.ElapsedSeconds) {
		return scores.Submission{}, ErrNotEligible
	}

	rec := scores.NewRecord(name, s.game.ElapsedSeconds, s.opts.Clock.Now())
	sub, err := s.opts.Leaderboard.Save(ctx, rec)
	if err != nil {
		return scores.Submission{}, err
	}
	s.outcome.RecordSaved = true
	s.logger.Info("record saved", "name", rec.Name, "time", rec.Time, "source", sub.Source, "degraded", sub.Degraded)
	return sub, nil
}

func (s *Session) checkRecordLocked() error {
	switch {
	case s.opts.Leaderboard == nil:
		return ErrNoLeaderboard
	case s.phase != PhaseGameComplete || s.game.Mode != ModeSolo || s.outcome == nil:
		return ErrRecordNotAllowed
	case s.outcome.RecordSaved:
		return ErrRecordSaved
	}
	return nil
}

func (s *Session) resetLocked() {
	s.epoch++
	s.stopTimersLocked()
	s.phase = PhaseMenu
	s.game = GameSession{}
	s.versus = nil
	s.engine = nil
	s.rounds = nil
	s.outcome = nil
}

func (s *Session) stopTimersLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.stopTickLocked()
}

func (s *Session) stopTickLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// scheduleLocked runs fn under the session lock after d, unless the epoch
// has moved on in the meantime.
func (s *Session) scheduleLocked(d time.Duration, fn func()) Timer {
	epoch := s.epoch
	return s.opts.Scheduler.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		fn()
	})
}

func (s *Session) initLevelLocked() {
	s.epoch++
	s.stopTimersLocked()

	level := s.opts.Catalog[s.game.LevelIndex]
	cards, err := Deal(s.opts.Rand, level, s.opts.Symbols)
	if err != nil {
		// Unreachable: NewSession validated the catalog against the pool.
		s.logger.Error("dealing level", "level", level.Ordinal, "error", err)
		return
	}

	s.engine = NewEngine(level, cards)
	s.game.MatchedPairs = 0
	s.game.Active = true
	s.phase = PhasePlaying

	s.opts.Renderer.DrawBoard(level, s.cardViewsLocked())
	s.renderHUDLocked()
	if s.game.Mode == ModeSolo {
		s.ticker = s.scheduleLocked(s.opts.Delays.Tick, s.tickLocked)
	}
	s.logger.Debug("level started", "level", level.Ordinal, "mode", s.game.Mode)
}

func (s *Session) tickLocked() {
	if !s.game.Active {
		s.ticker = nil
		return
	}
	s.game.ElapsedSeconds++
	s.renderHUDLocked()
	s.ticker = s.scheduleLocked(s.opts.Delays.Tick, s.tickLocked)
}

func (s *Session) resolveLocked() {
	s.pending = nil
	res, ok := s.engine.Resolve(s.versus)
	if !ok {
		return
	}
	// Missed cards become tappable again at once in solo; in versus the
	// turn announcement redraws the board.
	interactive := res.Result == FlipMiss && s.versus == nil
	for _, id := range []int{res.First, res.Second} {
		card, _ := s.engine.Card(id)
		s.opts.Renderer.SetCard(viewOf(card, interactive))
	}

	switch res.Result {
	case FlipMatch:
		s.game.MatchedPairs = s.engine.MatchedPairs()
		s.renderHUDLocked()
		if res.LevelComplete {
			s.completeLevelLocked()
		}
	case FlipMiss:
		s.renderHUDLocked()
		if s.versus != nil {
			s.announceLocked()
		}
	}
}

// announceLocked shows whose turn it is and holds the board until the
// pause ends. Before a level's first turn the pause ends by dealing it.
func (s *Session) announceLocked() {
	s.phase = PhaseAnnouncing
	s.opts.Renderer.ShowModal(ModalTurn, ModalDetail{
		Title:  "Your turn",
		Player: s.versus.Current().Name,
		Level:  s.opts.Catalog[s.game.LevelIndex].Ordinal,
	})
	s.pending = s.scheduleLocked(s.opts.Delays.Turn, func() {
		s.pending = nil
		s.opts.Renderer.HideModal(ModalTurn)
		if !s.game.Active {
			s.initLevelLocked()
			return
		}
		s.phase = PhasePlaying
		s.opts.Renderer.DrawBoard(s.engine.Level(), s.cardViewsLocked())
	})
}

func (s *Session) completeLevelLocked() {
	s.stopTickLocked()
	s.game.Active = false
	level := s.opts.Catalog[s.game.LevelIndex]

	detail := ModalDetail{Title: "Level complete", Level: level.Ordinal}
	if s.versus != nil {
		winner := s.versus.tallyRound()
		name := s.versus.Name(winner, DrawLabel)
		s.rounds = append(s.rounds, RoundResult{Level: level.Ordinal, Winner: name})
		detail.Player = name
	} else {
		detail.StatLabel = "Time"
		detail.StatValue = FormatElapsed(s.game.ElapsedSeconds)
	}
	s.logger.Info("level complete", "level", level.Ordinal, "elapsed", s.game.ElapsedSeconds)

	if s.opts.Catalog.IsLast(s.game.LevelIndex) {
		s.completeGameLocked()
		return
	}
	s.phase = PhaseLevelComplete
	s.opts.Renderer.ShowModal(ModalLevelComplete, detail)
}

func (s *Session) completeGameLocked() {
	s.phase = PhaseGameComplete
	out := &Outcome{Mode: s.game.Mode}
	if s.versus != nil {
		out.Winner = s.versus.Name(s.versus.GameWinner(), TotalDrawLabel)
		out.StatLabel = "Rounds"
		out.StatValue = fmt.Sprintf("%d - %d", s.versus.Player1.TotalWins, s.versus.Player2.TotalWins)
	} else {
		out.StatLabel = "Total time"
		out.StatValue = FormatElapsed(s.game.ElapsedSeconds)
	}
	s.outcome = out

	s.opts.Renderer.ShowModal(ModalVictory, ModalDetail{
		Title:     "Victory",
		Player:    out.Winner,
		StatLabel: out.StatLabel,
		StatValue: out.StatValue,
	})
	s.logger.Info("game complete", "mode", s.game.Mode, "elapsed", s.game.ElapsedSeconds, "winner", out.Winner)
}

func (s *Session) interactiveLocked(c Card) bool {
	if s.phase != PhasePlaying || s.engine == nil || s.engine.Locked() || c.Matched {
		return false
	}
	first, _ := s.engine.Pending()
	return c.ID != first
}

func (s *Session) cardViewsLocked() []CardView {
	if s.engine == nil {
		return nil
	}
	return lo.Map(s.engine.Cards(), func(c Card, _ int) CardView {
		return viewOf(c, s.interactiveLocked(c))
	})
}

func (s *Session) hudLocked() (left, right Stat) {
	if s.versus != nil {
		return Stat{
				Label:  s.versus.Player1.Name,
				Value:  strconv.Itoa(s.versus.Player1.RoundScore),
				Active: s.versus.CurrentTurn == 1,
			}, Stat{
				Label:  s.versus.Player2.Name,
				Value:  strconv.Itoa(s.versus.Player2.RoundScore),
				Active: s.versus.CurrentTurn == 2,
			}
	}
	pairs := 0
	if s.engine != nil {
		pairs = s.engine.Level().PairCount
	}
	return Stat{Label: "Time", Value: FormatElapsed(s.game.ElapsedSeconds)},
		Stat{Label: "Pairs", Value: fmt.Sprintf("%d/%d", s.game.MatchedPairs, pairs)}
}

func (s *Session) renderHUDLocked() {
	s.opts.Renderer.SetHUD(s.hudLocked())
}

// Snapshot is the full client-facing state of a session.
type Snapshot struct {
	ID             string           `json:"id"`
	Phase          Phase            `json:"phase"`
	Mode           Mode             `json:"mode,omitempty"`
	Level          *LevelDefinition `json:"level,omitempty"`
	LevelCount     int              `json:"levelCount"`
	EngineState    string           `json:"engineState,omitempty"`
	Cards          []CardView       `json:"cards,omitempty"`
	ElapsedSeconds int              `json:"elapsedSeconds"`
	MatchedPairs   int              `json:"matchedPairs"`
	Active         bool             `json:"active"`
	HUD            [2]Stat          `json:"hud"`
	Versus         *VersusState     `json:"versus,omitempty"`
	Rounds         []RoundResult    `json:"rounds,omitempty"`
	Outcome        *Outcome         `json:"outcome,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		Phase:          s.phase,
		Mode:           s.game.Mode,
		LevelCount:     len(s.opts.Catalog),
		ElapsedSeconds: s.game.ElapsedSeconds,
		MatchedPairs:   s.game.MatchedPairs,
		Active:         s.game.Active,
		Cards:          s.cardViewsLocked(),
		Rounds:         append([]RoundResult(nil), s.rounds...),
	}
	if s.phase != PhaseMenu {
		left, right := s.hudLocked()
		snap.HUD = [2]Stat{left, right}
	}
	if s.engine != nil {
		level := s.engine.Level()
		snap.Level = &level
		snap.EngineState = s.engine.State().String()
	}
	if s.versus != nil {
		v := *s.versus
		snap.Versus = &v
	}
	if s.outcome != nil {
		o := *s.outcome
		snap.Outcome = &o
	}
	return snap
}
