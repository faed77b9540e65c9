package domain

import "strconv"

// Suit identifies one of the four French suits.
type Suit int

const (
	Spade Suit = iota
	Heart
	Diamond
	Club
)

// Suits lists the suits in base deck order.
var Suits = [4]Suit{Spade, Heart, Diamond, Club}

// Color is the derived colour of a suit.
type Color int

const (
	Black Color = iota
	Red
)

// Rank values run from Ace (1) to King (13).
const (
	Ace   = 1
	Jack  = 11
	Queen = 12
	King  = 13
)

// Card is a single playing card. Suit and Rank are its identity; FaceUp is its only mutable attribute.
type Card struct {
	Suit   Suit
	Rank   int  // 1..13 (A=1, K=13)
	FaceUp bool
}

// Color reports the card colour: Hearts and Diamonds are red.
func (s Suit) Color() Color {
	if s == Heart || s == Diamond {
		return Red
	}
	return Black
}

// Symbol returns the unicode glyph for the suit.
func (s Suit) Symbol() string {
	switch s {
	case Spade:
		return "♠"
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	default:
		return "?"
	}
}

// Code returns the single-letter wire code for the suit.
func (s Suit) Code() string {
	switch s {
	case Spade:
		return "S"
	case Heart:
		return "H"
	case Diamond:
		return "D"
	case Club:
		return "C"
	default:
		return ""
	}
}

func (s Suit) String() string {
	switch s {
	case Spade:
		return "spades"
	case Heart:
		return "hearts"
	case Diamond:
		return "diamonds"
	case Club:
		return "clubs"
	default:
		return "suit(" + strconv.Itoa(int(s)) + ")"
	}
}

// Color returns the colour of the card's suit.
func (c Card) Color() Color {
	return c.Suit.Color()
}


// RankLabel returns the printed rank: A, 2..10, J, Q, K.
func RankLabel(rank int) string {
	switch rank {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(rank)
	}
}

// String renders the face-up glyph (e.g. "10♥"), or "??" for a face-down card.
func (c Card) String() string {
	if !c.FaceUp {
		return "??"
	}
	return RankLabel(c.Rank) + c.Suit.Symbol()
}
