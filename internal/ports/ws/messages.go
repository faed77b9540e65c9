package ws

import (
	"encoding/json"
	"fmt"

	"klondike/internal/app"
	"klondike/internal/domain"
)

// Envelope is the JSON frame exchanged on the socket.
type Envelope struct {
	T string          `json:"t"`           // type
	M json.RawMessage `json:"m,omitempty"` // payload
}

// Inbound message types.
const (
	TypeDeal = "deal"
	TypeDraw = "draw"
	TypeMove = "move"
	TypeFlip = "flip"
)

// Outbound message types.
const (
	TypeState    = "state"
	TypeRejected = "rejected"
	TypeError    = "error"
)

// CardView is a card as the client sees it. Face-down cards carry no identity.
type CardView struct {
	Suit   string `json:"suit,omitempty"`
	Rank   int    `json:"rank,omitempty"`
	FaceUp bool   `json:"face_up"`
	Label  string `json:"label,omitempty"`
}

// StateView is the public table.
type StateView struct {
	GameID      string       `json:"game_id"`
	DrawCount   int          `json:"draw_count"`
	Stock       []CardView   `json:"stock"`
	Waste       []CardView   `json:"waste"`
	Foundations [][]CardView `json:"foundations"`
	Tableau     [][]CardView `json:"tableau"`
}

// PileView addresses a pile; Index is ignored for stock and waste.
type PileView struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

// MoveView is a move request, echoed back in rejections.
// A present CardIndex makes it a run move out of a tableau column.
type MoveView struct {
	From      PileView `json:"from"`
	To        PileView `json:"to"`
	CardIndex *int     `json:"card_index,omitempty"`
}

// FlipView asks for the face-down top card of a tableau column to be turned.
type FlipView struct {
	Tableau *int `json:"tableau"`
}

// ErrorView reports a request the server could not act on.
type ErrorView struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newStateView(s domain.Snapshot) StateView {
	v := StateView{
		GameID:      s.ID,
		DrawCount:   s.DrawCount,
		Stock:       cardViews(s.Stock),
		Waste:       cardViews(s.Waste),
		Foundations: make([][]CardView, len(s.Foundations)),
		Tableau:     make([][]CardView, len(s.Tableau)),
	}
	for i, f := range s.Foundations {
		v.Foundations[i] = cardViews(f)
	}
	for i, col := range s.Tableau {
		v.Tableau[i] = cardViews(col)
	}
	return v
}

func cardViews(cards []domain.Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		if !c.FaceUp {
			out = append(out, CardView{})
			continue
		}
		out = append(out, CardView{Suit: c.Suit.Code(), Rank: c.Rank, FaceUp: true, Label: c.String()})
	}
	return out
}

func newMoveView(m domain.Move) MoveView {
	v := MoveView{
		From: PileView{Kind: string(m.From.Kind), Index: m.From.Index},
		To:   PileView{Kind: string(m.To.Kind), Index: m.To.Index},
	}
	if m.Kind == domain.MoveRun {
		idx := m.Index
		v.CardIndex = &idx
	}
	return v
}

func (p PileView) ref() (domain.PileRef, error) {
	ref := domain.Ref(domain.PileKind(p.Kind), p.Index)
	if !ref.Valid() {
		return domain.PileRef{}, fmt.Errorf("%w: %s", app.ErrInvalidPile, ref)
	}
	return ref, nil
}

func (v MoveView) move() (domain.Move, error) {
	from, err := v.From.ref()
	if err != nil {
		return domain.Move{}, fmt.Errorf("from: %w", err)
	}
	to, err := v.To.ref()
	if err != nil {
		return domain.Move{}, fmt.Errorf("to: %w", err)
	}
	if v.CardIndex == nil {
		return domain.SingleCard(from, to), nil
	}
	return domain.Move{Kind: domain.MoveRun, From: from, Index: *v.CardIndex, To: to}, nil
}
