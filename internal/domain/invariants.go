package domain

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a game state that no sequence of legal operations can produce.
var ErrInvariant = errors.New("game invariant violated")

// Validate checks the structural invariants of a dealt game: the 52 cards are partitioned across
// the piles without duplicates, Stock is face-down, Waste is face-up, every foundation is an
// Ace-up run of one suit, and each tableau column is a face-down prefix under a face-up suffix.
func (g *Game) Validate() error {
	seen := make(map[Card]PileRef, DeckSize)

	check := func(ref PileRef, p *Pile) error {
		for i := 0; i < p.Len(); i++ {
			c := p.At(i)
			if c.Rank < Ace || c.Rank > King || c.Suit < Spade || c.Suit > Club {
				return fmt.Errorf("%w: %s holds malformed card %d/%d", ErrInvariant, ref, c.Suit, c.Rank)
			}
			key := Card{Suit: c.Suit, Rank: c.Rank}
			if prev, dup := seen[key]; dup {
				return fmt.Errorf("%w: %s found in both %s and %s", ErrInvariant, cardName(c), prev, ref)
			}
			seen[key] = ref
		}
		return nil
	}

	if err := check(Stock(), &g.Stock); err != nil {
		return err
	}
	if err := check(Waste(), &g.Waste); err != nil {
		return err
	}
	for i := range g.Foundations {
		if err := check(Foundation(i), &g.Foundations[i]); err != nil {
			return err
		}
	}
	for i := range g.Tableau {
		if err := check(Tableau(i), &g.Tableau[i]); err != nil {
			return err
		}
	}
	if len(seen) != DeckSize {
		return fmt.Errorf("%w: piles hold %d cards, want %d", ErrInvariant, len(seen), DeckSize)
	}

	for i := 0; i < g.Stock.Len(); i++ {
		if g.Stock.At(i).FaceUp {
			return fmt.Errorf("%w: stock card %d is face-up", ErrInvariant, i)
		}
	}
	for i := 0; i < g.Waste.Len(); i++ {
		if !g.Waste.At(i).FaceUp {
			return fmt.Errorf("%w: waste card %d is face-down", ErrInvariant, i)
		}
	}

	for fi := range g.Foundations {
		f := &g.Foundations[fi]
		for i := 0; i < f.Len(); i++ {
			c := f.At(i)
			if c.Rank != i+1 || c.Suit != f.At(0).Suit || !c.FaceUp {
				return fmt.Errorf("%w: %s out of sequence at %d (%s)", ErrInvariant, Foundation(fi), i, cardName(c))
			}
		}
	}

	for ti := range g.Tableau {
		t := &g.Tableau[ti]
		for i := t.RunStart(); i > 0; i-- {
			if t.At(i - 1).FaceUp {
				return fmt.Errorf("%w: %s has a face-up card under a face-down card at %d", ErrInvariant, Tableau(ti), i-1)
			}
		}
	}
	return nil
}

func cardName(c Card) string {
	return RankLabel(c.Rank) + c.Suit.Symbol()
}
