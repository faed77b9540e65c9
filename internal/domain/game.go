package domain

import "math/rand"

// MoveKind tags a move by the mechanics it needs.
type MoveKind int

const (
	// MoveSingle moves the top card of a Waste, Foundation or Tableau pile.
	MoveSingle MoveKind = iota
	// MoveRun moves a face-up Tableau suffix starting at Move.Index.
	MoveRun
)

func (k MoveKind) String() string {
	if k == MoveRun {
		return "run"
	}
	return "single"
}

// Move is a request to relocate a card or run between piles.
type Move struct {
	Kind  MoveKind
	From  PileRef
	Index int // first card of the run; MoveRun only
	To    PileRef
}

// SingleCard builds a move of the top card of from onto to.
func SingleCard(from, to PileRef) Move {
	return Move{Kind: MoveSingle, From: from, To: to}
}

// RunFrom builds a move of the tableau suffix starting at index onto to.
func RunFrom(tableau, index int, to PileRef) Move {
	return Move{Kind: MoveRun, From: Tableau(tableau), Index: index, To: to}
}

// MoveOutcome reports the effect of AttemptMove.
type MoveOutcome struct {
	Accepted bool
	Cards    []Card // the cards that moved, in order
	Revealed bool   // the source tableau's new top card was turned face-up
}

// DrawResult reports what Draw did.
type DrawResult int

const (
	// DrawIdle means both Stock and Waste were empty.
	DrawIdle DrawResult = iota
	// DrawDrawn means cards went from Stock to Waste.
	DrawDrawn
	// DrawRecycled means the Waste was turned back over into the Stock.
	DrawRecycled
)

func (r DrawResult) String() string {
	switch r {
	case DrawDrawn:
		return "drawn"
	case DrawRecycled:
		return "recycled"
	default:
		return "idle"
	}
}

// Options tune rules that vary between Klondike tables.
type Options struct {
	// DrawCount is the number of cards turned per draw (1 or 3). Zero means 1.
	DrawCount int
	// StrictRuns rejects tableau runs that are not themselves ordered before checking the destination.
	StrictRuns bool
}

// Game holds the complete state of one deal: Stock, Waste, four Foundations and seven Tableau columns.
// Each of the 52 cards lives in exactly one pile.
type Game struct {
	ID          string
	Stock       Pile
	Waste       Pile
	Foundations [FoundationCount]Pile
	Tableau     [TableauCount]Pile

	opts Options
}

// NewGame returns a game with every pile empty. Deal is the normal constructor.
func NewGame(id string, opts Options) *Game {
	return &Game{ID: id, opts: opts}
}

// Deal builds a fresh shuffled deck and lays it out: column i receives i+1 cards with only the
// last one face-up, and the remaining 24 cards form the face-down Stock.
func Deal(id string, rng *rand.Rand, opts Options) *Game {
	g := NewGame(id, opts)

	deck := NewDeck()
	Shuffle(deck, rng)

	pop := func() Card {
		c := deck[len(deck)-1]
		deck = deck[:len(deck)-1]
		return c
	}

	for i := 0; i < TableauCount; i++ {
		for j := 0; j <= i; j++ {
			c := pop()
			c.FaceUp = j == i
			g.Tableau[i].Push(c)
		}
	}
	for len(deck) > 0 {
		g.Stock.Push(pop())
	}
	return g
}

// Options returns the rule options the game was dealt with.
func (g *Game) Options() Options {
	return g.opts
}

// DrawCount returns the number of cards turned per draw.
func (g *Game) DrawCount() int {
	if g.opts.DrawCount <= 0 {
		return 1
	}
	return g.opts.DrawCount
}

// Pile resolves a reference to the pile it names, or nil if the reference is invalid.
func (g *Game) Pile(ref PileRef) *Pile {
	if !ref.Valid() {
		return nil
	}
	switch ref.Kind {
	case PileStock:
		return &g.Stock
	case PileWaste:
		return &g.Waste
	case PileFoundation:
		return &g.Foundations[ref.Index]
	default:
		return &g.Tableau[ref.Index]
	}
}

// Draw turns cards from Stock onto Waste face-up. With an empty Stock it recycles the Waste back
// into the Stock face-down in reverse order; with both empty it does nothing.
func (g *Game) Draw() DrawResult {
	if g.Stock.Empty() {
		if g.Waste.Empty() {
			return DrawIdle
		}
		for !g.Waste.Empty() {
			c, _ := g.Waste.Pop()
			c.FaceUp = false
			g.Stock.Push(c)
		}
		return DrawRecycled
	}

	for n := 0; n < g.DrawCount(); n++ {
		c, ok := g.Stock.Pop()
		if !ok {
			break
		}
		c.FaceUp = true
		g.Waste.Push(c)
	}
	return DrawDrawn
}

// AttemptMove validates m against the legality rules and applies it. A rejected move leaves the
// game untouched. After a tableau source loses cards its new top card is turned face-up.
func (g *Game) AttemptMove(m Move) MoveOutcome {
	if m.From == m.To || !m.From.Valid() || !m.To.Valid() {
		return MoveOutcome{}
	}
	if m.From.Kind == PileStock {
		return MoveOutcome{}
	}

	src := g.Pile(m.From)
	start, ok := g.movableFrom(m, src)
	if !ok {
		return MoveOutcome{}
	}
	run := src.Run(start)
	dest := g.Pile(m.To)

	switch m.To.Kind {
	case PileFoundation:
		if len(run) != 1 || !CanMoveToFoundation(run[0], dest) {
			return MoveOutcome{}
		}
	case PileTableau:
		if g.opts.StrictRuns && !IsOrderedRun(run) {
			return MoveOutcome{}
		}
		if !CanMoveToTableau(run, dest) {
			return MoveOutcome{}
		}
	default:
		return MoveOutcome{}
	}

	dest.Push(src.Split(start)...)

	out := MoveOutcome{Accepted: true, Cards: run}
	if m.From.Kind == PileTableau {
		out.Revealed = g.revealTop(m.From.Index)
	}
	return out
}

// movableFrom returns the index of the first card the move would take from src.
func (g *Game) movableFrom(m Move, src *Pile) (int, bool) {
	if src.Empty() {
		return 0, false
	}
	switch m.Kind {
	case MoveSingle:
		top := src.Len() - 1
		if !src.At(top).FaceUp {
			return 0, false
		}
		return top, true
	case MoveRun:
		if m.From.Kind != PileTableau {
			return 0, false
		}
		if m.Index < src.RunStart() || m.Index >= src.Len() {
			return 0, false
		}
		return m.Index, true
	default:
		return 0, false
	}
}

// FlipTop turns the top card of tableau column i face-up. Only a face-down top card can be flipped.
func (g *Game) FlipTop(i int) bool {
	if i < 0 || i >= TableauCount {
		return false
	}
	return g.revealTop(i)
}

func (g *Game) revealTop(i int) bool {
	col := &g.Tableau[i]
	top, ok := col.Top()
	if !ok || top.FaceUp {
		return false
	}
	col.setTopFaceUp()
	return true
}
