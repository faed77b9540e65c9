package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"klondike/internal/domain"
)

// Service contains the Klondike use-cases operating on domain state.
// A Service is owned by a single match or connection and is not safe for concurrent use.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// NewServiceWithSeed constructs a Service whose deals are reproducible from seed. Zero seeds from the clock.
func NewServiceWithSeed(seed int64) *Service {
	if seed == 0 {
		return NewService(nil)
	}
	return NewService(rand.New(rand.NewSource(seed)))
}

var (
	ErrNoGame       = errors.New("no game dealt")
	ErrInvalidPile  = errors.New("invalid pile reference")
	ErrCorruptState = errors.New("game state corrupted")
)

// Deal replaces any previous game with a freshly shuffled layout.
func (s *Service) Deal(opts domain.Options) (*domain.Game, []Event) {
	game := domain.Deal(uuid.NewString(), s.rng, opts)

	events := []Event{
		{
			Kind:    EventGameDealt,
			Payload: GameDealtPayload{GameID: game.ID, DrawCount: game.DrawCount()},
		},
		stateChanged(game),
	}
	return game, events
}

// Draw turns cards from the Stock, or recycles the Waste when the Stock is empty.
// Drawing with both piles empty is a no-op and emits nothing.
func (s *Service) Draw(game *domain.Game) ([]Event, error) {
	if game == nil {
		return nil, ErrNoGame
	}

	wasteBefore := game.Waste.Len()
	var ev Event
	switch game.Draw() {
	case domain.DrawDrawn:
		drawn := game.Waste.Cards()[wasteBefore:]
		ev = Event{Kind: EventCardsDrawn, Payload: CardsDrawnPayload{Cards: drawn}}
	case domain.DrawRecycled:
		ev = Event{Kind: EventStockRecycled, Payload: StockRecycledPayload{Count: game.Stock.Len()}}
	default:
		return nil, nil
	}
	return settle(game, ev)
}

// Move attempts to relocate a card or run. An illegal move is not an error: it yields a single
// EventMoveRejected and the game is left untouched.
func (s *Service) Move(game *domain.Game, move domain.Move) ([]Event, error) {
	if game == nil {
		return nil, ErrNoGame
	}
	if !move.From.Valid() || !move.To.Valid() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidPile, move.From, move.To)
	}

	out := game.AttemptMove(move)
	if !out.Accepted {
		return []Event{{Kind: EventMoveRejected, Payload: MoveRejectedPayload{Move: move}}}, nil
	}
	return settle(game, Event{
		Kind:    EventCardsMoved,
		Payload: CardsMovedPayload{Move: move, Cards: out.Cards, Revealed: out.Revealed},
	})
}

// Flip turns over the face-down top card of a tableau column. Flipping anything else is a no-op.
func (s *Service) Flip(game *domain.Game, tableau int) ([]Event, error) {
	if game == nil {
		return nil, ErrNoGame
	}
	if !domain.Tableau(tableau).Valid() {
		return nil, fmt.Errorf("%w: tableau %d", ErrInvalidPile, tableau)
	}
	if !game.FlipTop(tableau) {
		return nil, nil
	}

	top, _ := game.Tableau[tableau].Top()
	return settle(game, Event{Kind: EventCardFlipped, Payload: CardFlippedPayload{Tableau: tableau, Card: top}})
}

// settle re-checks the game invariants after a mutation and appends the state change.
func settle(game *domain.Game, ev Event) ([]Event, error) {
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	return []Event{ev, stateChanged(game)}, nil
}

func stateChanged(game *domain.Game) Event {
	return Event{
		Kind:    EventStateChanged,
		Payload: StateChangedPayload{Snapshot: game.Snapshot().Public()},
	}
}
