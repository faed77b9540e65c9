package app

import "klondike/internal/domain"

// EventKind identifies emitted game events for adapter dispatch.
type EventKind string

const (
	EventGameDealt     EventKind = "game_dealt"
	EventCardsDrawn    EventKind = "cards_drawn"
	EventStockRecycled EventKind = "stock_recycled"
	EventCardsMoved    EventKind = "cards_moved"
	EventCardFlipped   EventKind = "card_flipped"
	EventMoveRejected  EventKind = "move_rejected"
	EventStateChanged  EventKind = "state_changed"
)

// Event is an app event. Adapters translate it to their wire format.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameDealtPayload struct {
	GameID    string
	DrawCount int
}

type CardsDrawnPayload struct {
	Cards []domain.Card
}

type StockRecycledPayload struct {
	Count int
}

type CardsMovedPayload struct {
	Move     domain.Move
	Cards    []domain.Card
	Revealed bool
}

type CardFlippedPayload struct {
	Tableau int
	Card    domain.Card
}

type MoveRejectedPayload struct {
	Move domain.Move
}

// StateChangedPayload carries the public snapshot the shell re-renders from.
type StateChangedPayload struct {
	Snapshot domain.Snapshot
}
