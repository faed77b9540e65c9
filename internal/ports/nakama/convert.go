package nakama

import (
	"fmt"
	"math"

	"klondike/internal/app"
	"klondike/internal/domain"

	"google.golang.org/protobuf/types/known/structpb"
)

func snapshotToProto(s domain.Snapshot) (*structpb.Struct, error) {
	foundations := make([]interface{}, len(s.Foundations))
	for i, f := range s.Foundations {
		foundations[i] = cardsToList(f)
	}
	tableau := make([]interface{}, len(s.Tableau))
	for i, col := range s.Tableau {
		tableau[i] = cardsToList(col)
	}

	return structpb.NewStruct(map[string]interface{}{
		"game_id":     s.ID,
		"draw_count":  s.DrawCount,
		"stock":       cardsToList(s.Stock),
		"waste":       cardsToList(s.Waste),
		"foundations": foundations,
		"tableau":     tableau,
	})
}

func cardsToList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToMap(c))
	}
	return out
}

// cardToMap encodes a card; face-down cards carry no identity.
func cardToMap(c domain.Card) map[string]interface{} {
	if !c.FaceUp {
		return map[string]interface{}{"face_up": false}
	}
	return map[string]interface{}{
		"suit":    c.Suit.Code(),
		"rank":    c.Rank,
		"face_up": true,
		"label":   c.String(),
	}
}

func moveToProto(m domain.Move) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"from": pileRefToMap(m.From),
		"to":   pileRefToMap(m.To),
	}
	if m.Kind == domain.MoveRun {
		fields["card_index"] = m.Index
	}
	return structpb.NewStruct(fields)
}

func pileRefToMap(ref domain.PileRef) map[string]interface{} {
	return map[string]interface{}{"kind": string(ref.Kind), "index": ref.Index}
}

// moveFromProto decodes a move request. A card_index field makes it a run move.
func moveFromProto(req *structpb.Struct) (domain.Move, error) {
	fields := req.GetFields()
	from, err := pileRefFromValue(fields["from"])
	if err != nil {
		return domain.Move{}, fmt.Errorf("from: %w", err)
	}
	to, err := pileRefFromValue(fields["to"])
	if err != nil {
		return domain.Move{}, fmt.Errorf("to: %w", err)
	}

	idx, ok := fields["card_index"]
	if !ok {
		return domain.SingleCard(from, to), nil
	}
	index, err := intFromValue(idx)
	if err != nil {
		return domain.Move{}, fmt.Errorf("card_index: %w", err)
	}
	return domain.Move{Kind: domain.MoveRun, From: from, Index: index, To: to}, nil
}

func pileRefFromValue(v *structpb.Value) (domain.PileRef, error) {
	s := v.GetStructValue()
	if s == nil {
		return domain.PileRef{}, fmt.Errorf("%w: missing pile", app.ErrInvalidPile)
	}
	index := 0
	if idx, ok := s.GetFields()["index"]; ok {
		var err error
		if index, err = intFromValue(idx); err != nil {
			return domain.PileRef{}, err
		}
	}
	ref := domain.Ref(domain.PileKind(s.GetFields()["kind"].GetStringValue()), index)
	if !ref.Valid() {
		return domain.PileRef{}, fmt.Errorf("%w: %s", app.ErrInvalidPile, ref)
	}
	return ref, nil
}

// flipFromProto decodes a flip request of the form {"tableau": n}.
func flipFromProto(req *structpb.Struct) (int, error) {
	v, ok := req.GetFields()["tableau"]
	if !ok {
		return 0, fmt.Errorf("%w: missing tableau", app.ErrInvalidPile)
	}
	return intFromValue(v)
}

func intFromValue(v *structpb.Value) (int, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("expected a number")
	}
	if n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, fmt.Errorf("expected an integer, got %v", n.NumberValue)
	}
	return int(n.NumberValue), nil
}
