package memory

import "slices"

type EngineState int

const (
	StateIdle EngineState = iota
	StateOneFlipped
	StateResolvingMatch
	StateResolvingMiss
	StateLevelComplete
)

func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOneFlipped:
		return "one_flipped"
	case StateResolvingMatch:
		return "resolving_match"
	case StateResolvingMiss:
		return "resolving_miss"
	case StateLevelComplete:
		return "level_complete"
	}
	return "unknown"
}

type FlipResult int

const (
	FlipIgnored FlipResult = iota
	FlipFirst
	FlipMatch
	FlipMiss
)

func (r FlipResult) String() string {
	switch r {
	case FlipFirst:
		return "first"
	case FlipMatch:
		return "match"
	case FlipMiss:
		return "miss"
	}
	return "ignored"
}

// Resolution describes what Resolve did with the pending pair.
type Resolution struct {
	Result        FlipResult
	First         int
	Second        int
	LevelComplete bool
}

// Engine is the flip/match state machine for one dealt level. It does not
// keep time: the caller decides when a pending pair is resolved.
// Engine is not safe for concurrent use.
type Engine struct {
	level   LevelDefinition
	cards   []Card
	state   EngineState
	first   int
	second  int
	matched int
}

func NewEngine(level LevelDefinition, cards []Card) *Engine {
	return &Engine{
		level:  level,
		cards:  cards,
		state:  StateIdle,
		first:  -1,
		second: -1,
	}
}

func (e *Engine) Level() LevelDefinition { return e.level }
func (e *Engine) State() EngineState     { return e.state }
func (e *Engine) MatchedPairs() int      { return e.matched }
func (e *Engine) Cards() []Card          { return slices.Clone(e.cards) }

// Locked reports whether flips are currently rejected. The board is locked
// exactly while a pair is pending resolution and after the last pair.
func (e *Engine) Locked() bool {
	return e.state == StateResolvingMatch || e.state == StateResolvingMiss || e.state == StateLevelComplete
}

// Card returns the card at id. ok is false when id is out of range.
func (e *Engine) Card(id int) (Card, bool) {
	if id < 0 || id >= len(e.cards) {
		return Card{}, false
	}
	return e.cards[id], true
}

// Pending returns the ids of the flipped, unresolved cards, -1 when absent.
func (e *Engine) Pending() (first, second int) { return e.first, e.second }

// Flip turns card id face up. Versus scoring, when vs is non-nil, is
// applied at detection time so the HUD can update before the pair resolves.
func (e *Engine) Flip(id int, vs *VersusState) FlipResult {
	if e.Locked() || id < 0 || id >= len(e.cards) {
		return FlipIgnored
	}
	c := &e.cards[id]
	if c.Matched || c.FaceUp || id == e.first {
		return FlipIgnored
	}

	c.FaceUp = true
	if e.state == StateIdle {
		e.first = id
		e.state = StateOneFlipped
		return FlipFirst
	}

	e.second = id
	if e.cards[e.first].Symbol == c.Symbol {
		e.state = StateResolvingMatch
		if vs != nil {
			vs.scoreMatch()
		}
		return FlipMatch
	}
	e.state = StateResolvingMiss
	if vs != nil {
		vs.breakStreak()
	}
	return FlipMiss
}

// Resolve settles the pending pair. Matched cards stay face up; missed
// cards are turned back down and, in versus, the turn passes. ok is false
// when no pair was pending.
func (e *Engine) Resolve(vs *VersusState) (res Resolution, ok bool) {
	res = Resolution{First: e.first, Second: e.second}
	switch e.state {
	case StateResolvingMatch:
		e.cards[e.first].Matched = true
		e.cards[e.second].Matched = true
		e.matched++
		res.Result = FlipMatch
		if e.matched == e.level.PairCount {
			e.state = StateLevelComplete
			res.LevelComplete = true
		} else {
			e.state = StateIdle
		}
	case StateResolvingMiss:
		e.cards[e.first].FaceUp = false
		e.cards[e.second].FaceUp = false
		e.state = StateIdle
		res.Result = FlipMiss
		if vs != nil {
			vs.SwitchTurn()
		}
	default:
		return Resolution{}, false
	}
	e.first, e.second = -1, -1
	return res, true
}
