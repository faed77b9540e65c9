package nakama

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"klondike/internal/app"
	"klondike/internal/config"
	"klondike/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const gameConfigPath = "data/game_config.json"

// MatchState holds the authoritative runtime state for one solitaire match.
// A match seats exactly one player; the game is replaced wholesale on every deal.
type MatchState struct {
	UserID    string           `json:"user_id"`   // The seated player, empty until the first join
	Presence  runtime.Presence `json:"-"`         // Presence of the seated player while connected
	Options   domain.Options   `json:"options"`   // Table rules applied to every deal
	TickRate  int              `json:"tick_rate"` // Match loop ticks per second
	Tick      int64            `json:"tick"`      // Current tick of the match
	IdleTicks int64            `json:"idle_ticks"`
	App       *app.Service     `json:"-"`
	Game      *domain.Game     `json:"-"` // Current deal (nil until dealt)
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing solitaire match.")

	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()

	// Environment overrides, then per-match params from the RPC.
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["klondike_draw_count"]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				cfg.DrawCount = i
			}
		}
		if val, ok := env["klondike_strict_runs"]; ok {
			cfg.StrictRuns = val == "true"
		}
	}
	if n, ok := drawCountParam(params); ok {
		cfg.DrawCount = n
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("MatchInit: Invalid settings (%v), falling back to defaults.", err)
		cfg = config.DefaultGameConfig()
	}

	state := &MatchState{
		Options:  cfg.Options(),
		TickRate: cfg.TickRate,
		App:      app.NewServiceWithSeed(cfg.Seed),
	}

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, state.TickRate, label
}

func drawCountParam(params map[string]interface{}) (int, bool) {
	switch v := params["draw_count"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Single-player: only the seated user may (re)join.
	if matchState.UserID != "" && matchState.UserID != presence.GetUserId() {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.UserID != "" && matchState.UserID != p.GetUserId() {
			logger.Warn("MatchJoin: Ignoring unexpected presence %s in match of %s.", p.GetUserId(), matchState.UserID)
			continue
		}
		matchState.UserID = p.GetUserId()
		matchState.Presence = p
		matchState.IdleTicks = 0
	}

	if matchState.Presence == nil {
		return matchState
	}

	if matchState.Game == nil {
		mh.deal(matchState, dispatcher, logger)
	} else {
		// Rejoin: resend the current table.
		mh.sendState(matchState, dispatcher, logger, matchState.Game.Snapshot().Public())
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if p.GetUserId() == matchState.UserID {
			logger.Info("MatchLeave: Player %s left, terminating match.", p.GetUserId())
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	if matchState.Presence == nil {
		matchState.IdleTicks++
		if matchState.IdleTicks > int64(idleTimeoutSeconds*matchState.TickRate) {
			logger.Info("MatchLoop: No player after %d ticks, terminating match.", matchState.IdleTicks)
			return nil
		}
	}

	for _, msg := range messages {
		if msg.GetUserId() != matchState.UserID {
			logger.Warn("MatchLoop: Ignoring message from non-player %s.", msg.GetUserId())
			continue
		}
		mh.handleMessage(matchState, dispatcher, logger, msg.GetOpCode(), msg.GetData())
	}

	return matchState
}

// handleMessage routes one client gesture into the app service.
func (mh *matchHandler) handleMessage(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, data []byte) {
	switch opCode {
	case OpDeal:
		mh.deal(state, dispatcher, logger)
	case OpDraw:
		events, err := state.App.Draw(state.Game)
		mh.dispatch(state, dispatcher, logger, "Draw", events, err)
	case OpMove:
		request := &structpb.Struct{}
		if err := proto.Unmarshal(data, request); err != nil {
			logger.Warn("handleMove: Failed to unmarshal request: %v", err)
			mh.sendError(state, dispatcher, logger, errCodeBadRequest, "malformed move request")
			return
		}
		move, err := moveFromProto(request)
		if err != nil {
			logger.Warn("handleMove: Invalid move request: %v", err)
			mh.sendError(state, dispatcher, logger, errCodeBadRequest, err.Error())
			return
		}
		events, err := state.App.Move(state.Game, move)
		mh.dispatch(state, dispatcher, logger, "Move", events, err)
	case OpFlip:
		request := &structpb.Struct{}
		if err := proto.Unmarshal(data, request); err != nil {
			logger.Warn("handleFlip: Failed to unmarshal request: %v", err)
			mh.sendError(state, dispatcher, logger, errCodeBadRequest, "malformed flip request")
			return
		}
		tableau, err := flipFromProto(request)
		if err != nil {
			logger.Warn("handleFlip: Invalid flip request: %v", err)
			mh.sendError(state, dispatcher, logger, errCodeBadRequest, err.Error())
			return
		}
		events, err := state.App.Flip(state.Game, tableau)
		mh.dispatch(state, dispatcher, logger, "Flip", events, err)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", opCode)
	}
}

func (mh *matchHandler) deal(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	game, events := state.App.Deal(state.Options)
	state.Game = game
	logger.Info("Deal: New game %s for %s (draw %d).", game.ID, state.UserID, game.DrawCount())
	mh.dispatch(state, dispatcher, logger, "Deal", events, nil)
}

// dispatch converts app events to client messages, or reports the app error to the player.
func (mh *matchHandler) dispatch(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, op string, events []app.Event, err error) {
	if err != nil {
		code := errCodeBadRequest
		switch {
		case errors.Is(err, app.ErrNoGame):
			code = errCodeNoGame
		case errors.Is(err, app.ErrCorruptState):
			code = errCodeInternal
			logger.Error("%s: Game %s failed invariant check: %v", op, gameID(state), err)
		default:
			logger.Warn("%s: Rejected request from %s: %v", op, state.UserID, err)
		}
		mh.sendError(state, dispatcher, logger, code, err.Error())
		return
	}

	for _, ev := range events {
		switch ev.Kind {
		case app.EventStateChanged:
			mh.sendState(state, dispatcher, logger, ev.Payload.(app.StateChangedPayload).Snapshot)
		case app.EventMoveRejected:
			p := ev.Payload.(app.MoveRejectedPayload)
			logger.Debug("%s: Move %s %s -> %s rejected.", op, p.Move.Kind, p.Move.From, p.Move.To)
			payload, err := moveToProto(p.Move)
			if err != nil {
				logger.Error("Failed to build rejection payload: %v", err)
				continue
			}
			mh.send(state, dispatcher, logger, OpMoveRejected, payload)
		case app.EventCardsMoved:
			p := ev.Payload.(app.CardsMovedPayload)
			logger.Debug("Event: cards_moved (%d cards %s -> %s, revealed=%t)", len(p.Cards), p.Move.From, p.Move.To, p.Revealed)
		default:
			logger.Debug("Event: %s (game %s)", ev.Kind, gameID(state))
		}
	}
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, snapshot domain.Snapshot) {
	payload, err := snapshotToProto(snapshot)
	if err != nil {
		logger.Error("Failed to build snapshot: %v", err)
		return
	}
	mh.send(state, dispatcher, logger, OpState, payload)
}

// sendError sends an error message to the player only.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	payload, err := structpb.NewStruct(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to build error payload: %v", err)
		return
	}
	mh.send(state, dispatcher, logger, OpError, payload)
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload proto.Message) {
	if state.Presence == nil {
		return
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send message %d: %v", opCode, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

// buildLabel advertises the rules of the current deal, or of the next deal before the first join.
func buildLabel(state *MatchState) (string, error) {
	opts := state.Options
	if state.Game != nil {
		opts = state.Game.Options()
	}
	drawCount := opts.DrawCount
	if drawCount <= 0 {
		drawCount = 1
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":       gameLabel,
		"open":       state.UserID == "",
		"draw_count": drawCount,
	})
	if err != nil {
		return "", err
	}
	bytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func gameID(state *MatchState) string {
	if state.Game == nil {
		return "-"
	}
	return state.Game.ID
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated (grace %ds)", graceSeconds)
	return state
}

// MatchSignal answers "snapshot" with the public table as JSON; other signals are ignored.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok || data != "snapshot" || matchState.Game == nil {
		return state, ""
	}
	payload, err := snapshotToProto(matchState.Game.Snapshot().Public())
	if err != nil {
		logger.Error("MatchSignal: Failed to build snapshot: %v", err)
		return state, ""
	}
	bytes, err := protojson.Marshal(payload)
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal snapshot: %v", err)
		return state, ""
	}
	return state, string(bytes)
}
