package domain

// CanMoveToFoundation reports whether a single card may land on the given foundation pile.
// An empty foundation takes an Ace; otherwise the card must follow the top card in the same suit.
func CanMoveToFoundation(card Card, foundation *Pile) bool {
	top, ok := foundation.Top()
	if !ok {
		return card.Rank == Ace
	}
	return top.Suit == card.Suit && card.Rank == top.Rank+1
}

// CanMoveToTableau reports whether a run may land on the given tableau pile.
// Only the leading card of the run is examined: an empty column takes a King, otherwise the
// destination top must be face-up, of the opposite colour and exactly one rank higher.
func CanMoveToTableau(run []Card, dest *Pile) bool {
	if len(run) == 0 {
		return false
	}
	lead := run[0]
	top, ok := dest.Top()
	if !ok {
		return lead.Rank == King
	}
	return top.FaceUp && lead.Color() != top.Color() && lead.Rank == top.Rank-1
}

// IsOrderedRun reports whether run is a face-up, strictly descending, alternating-colour sequence.
// Tableau construction guarantees this for any face-up suffix, so it is only consulted in strict mode.
func IsOrderedRun(run []Card) bool {
	for i, c := range run {
		if !c.FaceUp {
			return false
		}
		if i == 0 {
			continue
		}
		prev := run[i-1]
		if c.Color() == prev.Color() || c.Rank != prev.Rank-1 {
			return false
		}
	}
	return len(run) > 0
}
