package domain

// Snapshot is a detached copy of the game's piles for rendering.
type Snapshot struct {
	ID          string
	DrawCount   int
	Stock       []Card
	Waste       []Card
	Foundations [FoundationCount][]Card
	Tableau     [TableauCount][]Card
}

// Snapshot copies the current state. Mutating the result does not affect the game.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:        g.ID,
		DrawCount: g.DrawCount(),
		Stock:     g.Stock.Cards(),
		Waste:     g.Waste.Cards(),
	}
	for i := range g.Foundations {
		s.Foundations[i] = g.Foundations[i].Cards()
	}
	for i := range g.Tableau {
		s.Tableau[i] = g.Tableau[i].Cards()
	}
	return s
}

// Public returns a copy with the identity of every face-down card cleared (Rank 0).
func (s Snapshot) Public() Snapshot {
	out := Snapshot{
		ID:        s.ID,
		DrawCount: s.DrawCount,
		Stock:     maskHidden(s.Stock),
		Waste:     maskHidden(s.Waste),
	}
	for i := range s.Foundations {
		out.Foundations[i] = maskHidden(s.Foundations[i])
	}
	for i := range s.Tableau {
		out.Tableau[i] = maskHidden(s.Tableau[i])
	}
	return out
}

func maskHidden(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		if c.FaceUp {
			out[i] = c
		}
	}
	return out
}
