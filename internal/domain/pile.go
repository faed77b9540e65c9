package domain

import "fmt"

// PileKind is the role tag of a pile.
type PileKind string

const (
	PileStock      PileKind = "stock"
	PileWaste      PileKind = "waste"
	PileFoundation PileKind = "foundation"
	PileTableau    PileKind = "tableau"
)

const (
	// FoundationCount is the number of foundation piles, one per suit.
	FoundationCount = 4
	// TableauCount is the number of tableau columns.
	TableauCount = 7
)

// PileRef addresses a single pile of the game. Index is ignored for Stock and Waste.
type PileRef struct {
	Kind  PileKind
	Index int
}

// Stock, Waste, Foundation and Tableau build pile references.
func Stock() PileRef           { return PileRef{Kind: PileStock} }
func Waste() PileRef           { return PileRef{Kind: PileWaste} }
func Foundation(i int) PileRef { return PileRef{Kind: PileFoundation, Index: i} }
func Tableau(i int) PileRef    { return PileRef{Kind: PileTableau, Index: i} }

// Ref builds a reference from wire fields. The index of Stock and Waste is dropped.
func Ref(kind PileKind, index int) PileRef {
	if kind == PileStock || kind == PileWaste {
		index = 0
	}
	return PileRef{Kind: kind, Index: index}
}

// Valid reports whether the reference names an existing pile.
func (r PileRef) Valid() bool {
	switch r.Kind {
	case PileStock, PileWaste:
		return r.Index == 0
	case PileFoundation:
		return r.Index >= 0 && r.Index < FoundationCount
	case PileTableau:
		return r.Index >= 0 && r.Index < TableauCount
	default:
		return false
	}
}

func (r PileRef) String() string {
	switch r.Kind {
	case PileFoundation, PileTableau:
		return fmt.Sprintf("%s[%d]", r.Kind, r.Index)
	default:
		return string(r.Kind)
	}
}

// Pile is an ordered bottom-to-top sequence of cards (index 0 is the bottom, the last index the top).
type Pile struct {
	cards []Card
}

// Len returns the number of cards in the pile.
func (p *Pile) Len() int {
	return len(p.cards)
}

// Empty reports whether the pile holds no cards.
func (p *Pile) Empty() bool {
	return len(p.cards) == 0
}

// Top returns the top card, or false when the pile is empty.
func (p *Pile) Top() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// At returns the card at index i.
func (p *Pile) At(i int) Card {
	return p.cards[i]
}

// Push appends cards in order onto the top of the pile.
func (p *Pile) Push(cards ...Card) {
	p.cards = append(p.cards, cards...)
}

// Pop removes and returns the top card.
func (p *Pile) Pop() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	top := p.cards[len(p.cards)-1]
	p.cards = p.cards[:len(p.cards)-1]
	return top, true
}

// Split excises the contiguous suffix starting at index i and returns it.
func (p *Pile) Split(i int) []Card {
	run := append([]Card(nil), p.cards[i:]...)
	p.cards = p.cards[:i]
	return run
}

// RunStart returns the index of the first card of the maximal face-up suffix.
// It returns Len() when the top card is face-down or the pile is empty.
func (p *Pile) RunStart() int {
	i := len(p.cards)
	for i > 0 && p.cards[i-1].FaceUp {
		i--
	}
	return i
}

// Run returns a copy of the cards from index i to the top.
func (p *Pile) Run(i int) []Card {
	return append([]Card(nil), p.cards[i:]...)
}

// Cards returns a copy of the pile contents.
func (p *Pile) Cards() []Card {
	return append([]Card{}, p.cards...)
}

func (p *Pile) setTopFaceUp() {
	p.cards[len(p.cards)-1].FaceUp = true
}
