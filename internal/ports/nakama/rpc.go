package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NewGameRequest is the optional payload of RpcNewGame.
type NewGameRequest struct {
	DrawCount int `json:"draw_count,omitempty"`
}

// NewGameResponse is the payload returned to clients when a solitaire match is created.
type NewGameResponse struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcNewGame, rpcNewGame)
}

// rpcNewGame creates a private authoritative match for the caller.
// Seating happens in MatchJoin; the match deals on first join.
func rpcNewGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	params, err := newGameParams(payload)
	if err != nil {
		logger.Warn("rpcNewGame [User:%s]: Bad payload: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3) // INVALID_ARGUMENT
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameKlondike, params)
	if err != nil {
		logger.Error("rpcNewGame [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}
	logger.Info("rpcNewGame [User:%s]: Created match %s", userID, matchID)

	b, err := json.Marshal(NewGameResponse{MatchID: matchID})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newGameParams(payload string) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if payload == "" {
		return params, nil
	}

	var req NewGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	switch req.DrawCount {
	case 0:
	case 1, 3:
		params["draw_count"] = req.DrawCount
	default:
		return nil, fmt.Errorf("draw_count must be 1 or 3, got %d", req.DrawCount)
	}
	return params, nil
}
