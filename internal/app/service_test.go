package app

import (
	"errors"
	"math/rand"
	"testing"

	"klondike/internal/domain"
)

// nearlyWon builds a valid full-deck layout: spades up to the Queen with the King on the Waste,
// hearts up to the Jack with the Queen showing over a face-down King, and diamonds and clubs complete.
func nearlyWon(queenFaceUp bool) *domain.Game {
	g := domain.NewGame("nearly-won", domain.Options{})
	run := func(s domain.Suit, to int) []domain.Card {
		var cards []domain.Card
		for r := domain.Ace; r <= to; r++ {
			cards = append(cards, domain.Card{Suit: s, Rank: r, FaceUp: true})
		}
		return cards
	}
	g.Foundations[0].Push(run(domain.Spade, domain.Queen)...)
	g.Foundations[1].Push(run(domain.Heart, domain.Jack)...)
	g.Foundations[2].Push(run(domain.Diamond, domain.King)...)
	g.Foundations[3].Push(run(domain.Club, domain.King)...)
	g.Waste.Push(domain.Card{Suit: domain.Spade, Rank: domain.King, FaceUp: true})
	g.Tableau[0].Push(
		domain.Card{Suit: domain.Heart, Rank: domain.King},
		domain.Card{Suit: domain.Heart, Rank: domain.Queen, FaceUp: queenFaceUp},
	)
	return g
}

func eventKinds(evs []Event) []EventKind {
	kinds := make([]EventKind, len(evs))
	for i, ev := range evs {
		kinds[i] = ev.Kind
	}
	return kinds
}

func TestDealEmitsStartAndState(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)))

	game, evs := svc.Deal(domain.Options{DrawCount: 3})
	if game == nil || game.ID == "" {
		t.Fatalf("deal returned no game or empty id")
	}
	if len(evs) != 2 || evs[0].Kind != EventGameDealt || evs[1].Kind != EventStateChanged {
		t.Fatalf("events = %v", eventKinds(evs))
	}
	dealt := evs[0].Payload.(GameDealtPayload)
	if dealt.GameID != game.ID || dealt.DrawCount != 3 {
		t.Fatalf("unexpected payload: %+v", dealt)
	}
	snap := evs[1].Payload.(StateChangedPayload).Snapshot
	if len(snap.Stock) != 24 {
		t.Fatalf("snapshot stock = %d, want 24", len(snap.Stock))
	}
	for _, c := range snap.Stock {
		if c.Rank != 0 {
			t.Fatalf("snapshot leaked a stock card: %+v", c)
		}
	}

	next, _ := svc.Deal(domain.Options{})
	if next.ID == game.ID {
		t.Fatalf("redeal reused game id %s", game.ID)
	}
}

func TestDrawEvents(t *testing.T) {
	svc := NewServiceWithSeed(7)
	game, _ := svc.Deal(domain.Options{})

	evs, err := svc.Draw(game)
	if err != nil {
		t.Fatalf("draw error: %v", err)
	}
	if len(evs) != 2 || evs[0].Kind != EventCardsDrawn {
		t.Fatalf("events = %v", eventKinds(evs))
	}
	drawn := evs[0].Payload.(CardsDrawnPayload).Cards
	if len(drawn) != 1 || !drawn[0].FaceUp {
		t.Fatalf("drawn = %+v", drawn)
	}

	for game.Stock.Len() > 0 {
		if _, err := svc.Draw(game); err != nil {
			t.Fatalf("draw error: %v", err)
		}
	}
	evs, err = svc.Draw(game)
	if err != nil {
		t.Fatalf("recycle error: %v", err)
	}
	if evs[0].Kind != EventStockRecycled || evs[0].Payload.(StockRecycledPayload).Count != 24 {
		t.Fatalf("recycle event = %+v", evs[0])
	}
}

func TestDrawWithNothingLeftIsSilent(t *testing.T) {
	svc := NewService(nil)
	evs, err := svc.Draw(domain.NewGame("empty", domain.Options{}))
	if err != nil || len(evs) != 0 {
		t.Fatalf("Draw() = %v, %v; want no events and no error", evs, err)
	}
}

func TestMoveAcceptedRevealsCard(t *testing.T) {
	svc := NewService(nil)
	game := nearlyWon(true)

	evs, err := svc.Move(game, domain.SingleCard(domain.Tableau(0), domain.Foundation(1)))
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if len(evs) != 2 || evs[0].Kind != EventCardsMoved || evs[1].Kind != EventStateChanged {
		t.Fatalf("events = %v", eventKinds(evs))
	}
	moved := evs[0].Payload.(CardsMovedPayload)
	if !moved.Revealed || len(moved.Cards) != 1 || moved.Cards[0].Rank != domain.Queen {
		t.Fatalf("moved payload = %+v", moved)
	}

	snap := evs[1].Payload.(StateChangedPayload).Snapshot
	if top := snap.Tableau[0][0]; !top.FaceUp || top.Rank != domain.King {
		t.Fatalf("revealed card missing from snapshot: %+v", top)
	}
}

func TestMoveRejectedIsNotAnError(t *testing.T) {
	svc := NewService(nil)
	game := nearlyWon(true)
	before := game.Snapshot()

	move := domain.SingleCard(domain.Waste(), domain.Foundation(1))
	evs, err := svc.Move(game, move)
	if err != nil {
		t.Fatalf("rejected move returned error: %v", err)
	}
	if len(evs) != 1 || evs[0].Kind != EventMoveRejected {
		t.Fatalf("events = %v", eventKinds(evs))
	}
	if evs[0].Payload.(MoveRejectedPayload).Move != move {
		t.Fatalf("rejected payload lost the move")
	}
	if game.Waste.Len() != len(before.Waste) {
		t.Fatalf("rejected move changed the waste")
	}
}

func TestMoveInvalidPile(t *testing.T) {
	svc := NewService(nil)
	game := nearlyWon(true)

	_, err := svc.Move(game, domain.SingleCard(domain.Tableau(9), domain.Foundation(0)))
	if !errors.Is(err, ErrInvalidPile) {
		t.Fatalf("err = %v, want ErrInvalidPile", err)
	}
}

func TestOperationsWithoutGame(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Draw(nil); !errors.Is(err, ErrNoGame) {
		t.Fatalf("Draw(nil) err = %v", err)
	}
	if _, err := svc.Move(nil, domain.SingleCard(domain.Waste(), domain.Tableau(0))); !errors.Is(err, ErrNoGame) {
		t.Fatalf("Move(nil) err = %v", err)
	}
	if _, err := svc.Flip(nil, 0); !errors.Is(err, ErrNoGame) {
		t.Fatalf("Flip(nil) err = %v", err)
	}
}

func TestFlip(t *testing.T) {
	svc := NewService(nil)
	game := nearlyWon(false)

	evs, err := svc.Flip(game, 0)
	if err != nil {
		t.Fatalf("flip error: %v", err)
	}
	if len(evs) != 2 || evs[0].Kind != EventCardFlipped {
		t.Fatalf("events = %v", eventKinds(evs))
	}
	flipped := evs[0].Payload.(CardFlippedPayload)
	if flipped.Tableau != 0 || flipped.Card.Rank != domain.Queen || !flipped.Card.FaceUp {
		t.Fatalf("flipped payload = %+v", flipped)
	}

	evs, err = svc.Flip(game, 0)
	if err != nil || len(evs) != 0 {
		t.Fatalf("second flip = %v, %v; want silent no-op", evs, err)
	}
	if _, err := svc.Flip(game, 7); !errors.Is(err, ErrInvalidPile) {
		t.Fatalf("Flip(7) err = %v, want ErrInvalidPile", err)
	}
}

func TestCorruptStateIsReported(t *testing.T) {
	svc := NewService(nil)
	game := domain.NewGame("partial", domain.Options{})
	game.Waste.Push(domain.Card{Suit: domain.Club, Rank: domain.Ace, FaceUp: true})

	_, err := svc.Move(game, domain.SingleCard(domain.Waste(), domain.Foundation(0)))
	if !errors.Is(err, ErrCorruptState) || !errors.Is(err, domain.ErrInvariant) {
		t.Fatalf("err = %v, want ErrCorruptState wrapping ErrInvariant", err)
	}
}
