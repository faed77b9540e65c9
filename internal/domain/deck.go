package domain

import "math/rand"

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// NewDeck returns the 52-card deck in base order (suit-major, Ace..King), all face-down.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle permutes deck in place with a Fisher-Yates pass driven by rng.
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}
