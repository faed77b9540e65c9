package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"klondike/internal/app"
	"klondike/internal/domain"
)

// session is one connection and the game it owns.
// Only the reader goroutine touches the game; only the writer touches the socket.
type session struct {
	id      string
	conn    *websocket.Conn
	logger  *zap.Logger
	app     *app.Service
	opts    domain.Options
	game    *domain.Game
	limiter *rate.Limiter
	send    chan Envelope
}

func (s *session) gameID() string {
	if s.game == nil {
		return ""
	}
	return s.game.ID
}

func (s *session) readLoop(ctx context.Context) {
	s.deal(ctx)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				s.logger.Debug("read failed", zap.Error(err))
			}
			return
		}

		if !s.limiter.Allow() {
			s.logger.Warn("rate limited", zap.Int("bytes", len(data)))
			s.sendError(ctx, http.StatusTooManyRequests, "slow down")
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.sendError(ctx, http.StatusBadRequest, "malformed message")
			continue
		}
		s.handle(ctx, env)
	}
}

func (s *session) handle(ctx context.Context, env Envelope) {
	switch env.T {
	case TypeDeal:
		s.deal(ctx)
	case TypeDraw:
		events, err := s.app.Draw(s.game)
		s.dispatch(ctx, events, err)
	case TypeMove:
		var req MoveView
		if err := json.Unmarshal(env.M, &req); err != nil {
			s.sendError(ctx, http.StatusBadRequest, "malformed move request")
			return
		}
		move, err := req.move()
		if err != nil {
			s.dispatch(ctx, nil, err)
			return
		}
		events, err := s.app.Move(s.game, move)
		s.dispatch(ctx, events, err)
	case TypeFlip:
		var req FlipView
		if err := json.Unmarshal(env.M, &req); err != nil || req.Tableau == nil {
			s.sendError(ctx, http.StatusBadRequest, "malformed flip request")
			return
		}
		events, err := s.app.Flip(s.game, *req.Tableau)
		s.dispatch(ctx, events, err)
	default:
		s.sendError(ctx, http.StatusBadRequest, fmt.Sprintf("unknown message type %q", env.T))
	}
}

func (s *session) deal(ctx context.Context) {
	game, events := s.app.Deal(s.opts)
	s.game = game
	s.logger.Info("dealt", zap.String("game", game.ID), zap.Int("draw_count", game.DrawCount()))
	s.dispatch(ctx, events, nil)
}

func (s *session) dispatch(ctx context.Context, events []app.Event, err error) {
	if err != nil {
		code := http.StatusBadRequest
		switch {
		case errors.Is(err, app.ErrNoGame):
			code = http.StatusConflict
		case errors.Is(err, app.ErrCorruptState):
			code = http.StatusInternalServerError
			s.logger.Error("game failed invariant check", zap.String("game", s.gameID()), zap.Error(err))
		}
		s.sendError(ctx, code, err.Error())
		return
	}

	for _, ev := range events {
		switch ev.Kind {
		case app.EventStateChanged:
			s.sendJSON(ctx, TypeState, newStateView(ev.Payload.(app.StateChangedPayload).Snapshot))
		case app.EventMoveRejected:
			s.sendJSON(ctx, TypeRejected, newMoveView(ev.Payload.(app.MoveRejectedPayload).Move))
		default:
			s.logger.Debug("event", zap.String("kind", string(ev.Kind)), zap.String("game", s.gameID()))
		}
	}
}

func (s *session) sendError(ctx context.Context, code int, message string) {
	s.sendJSON(ctx, TypeError, ErrorView{Code: code, Message: message})
}

func (s *session) sendJSON(ctx context.Context, t string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal failed", zap.String("type", t), zap.Error(err))
		return
	}
	select {
	case s.send <- Envelope{T: t, M: data}:
	case <-ctx.Done():
	}
}

// writeLoop owns all socket writes. It cancels the session when the socket fails.
func (s *session) writeLoop(ctx context.Context, cancel context.CancelFunc, pingInterval time.Duration) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case env := <-s.send:
			if err := wsjson.Write(ctx, s.conn, env); err != nil {
				s.logger.Debug("write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := s.conn.Ping(ctx); err != nil {
				s.logger.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}
