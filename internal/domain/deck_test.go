package domain

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}

	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card found: %s", cardName(c))
		}
		seen[c] = true
		if c.Rank < Ace || c.Rank > King {
			t.Fatalf("rank out of range: %d", c.Rank)
		}
		if c.FaceUp {
			t.Fatalf("card %s dealt face-up", cardName(c))
		}
	}

	if deck[0] != (Card{Suit: Spade, Rank: Ace}) || deck[51] != (Card{Suit: Club, Rank: King}) {
		t.Fatalf("unexpected base order: first %+v, last %+v", deck[0], deck[51])
	}
}

func TestShuffle(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, rand.New(rand.NewSource(7)))

	if reflect.DeepEqual(deck, NewDeck()) {
		t.Fatalf("shuffle left deck in base order")
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		seen[c] = true
	}
	if len(seen) != DeckSize {
		t.Fatalf("shuffle lost cards: %d unique", len(seen))
	}

	again := NewDeck()
	Shuffle(again, rand.New(rand.NewSource(7)))
	if !reflect.DeepEqual(deck, again) {
		t.Fatalf("same seed produced different orders")
	}
}

func TestShuffleSmallInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	var empty []Card
	Shuffle(empty, rng)

	single := []Card{{Suit: Heart, Rank: 5}}
	Shuffle(single, rng)
	if single[0] != (Card{Suit: Heart, Rank: 5}) {
		t.Fatalf("singleton changed: %+v", single[0])
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{card: up(Spade, Ace), want: "A♠"},
		{card: up(Heart, 10), want: "10♥"},
		{card: up(Diamond, Jack), want: "J♦"},
		{card: up(Club, King), want: "K♣"},
		{card: down(Club, King), want: "??"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSuitColor(t *testing.T) {
	want := map[Suit]Color{Spade: Black, Heart: Red, Diamond: Red, Club: Black}
	for s, c := range want {
		if got := s.Color(); got != c {
			t.Errorf("%s.Color() = %v, want %v", s, got, c)
		}
	}
}
