package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"klondike/internal/app"
	"klondike/internal/config"
)

const readLimit = 4096

// Server serves solitaire games over websockets, one game per connection.
type Server struct {
	cfg          config.ServerConfig
	game         config.GameConfig
	logger       *zap.Logger
	allowOrigins map[string]bool

	closing context.Context
	stopAll context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer builds a server from the given settings. Unset server fields take their defaults and
// a nil logger disables logging.
func NewServer(cfg config.ServerConfig, game config.GameConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()
	allow := map[string]bool{}
	for _, a := range cfg.AllowOrigins {
		if a != "" {
			allow[a] = true
		}
	}
	closing, closeFn := context.WithCancel(context.Background())
	return &Server{cfg: cfg, game: game, logger: logger, allowOrigins: allow, closing: closing, stopAll: closeFn}
}

// Handler returns the HTTP routes: /ws for play and /health for probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Close ends every open session. http.Server.Shutdown does not reach hijacked connections.
func (s *Server) Close() {
	s.stopAll()
}

// Wait blocks until every open session has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// ServeWS upgrades the request and plays one game until the client disconnects.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !s.allowOrigins[origin] {
		s.logger.Warn("rejected websocket origin", zap.String("origin", origin))
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(readLimit)

	s.wg.Add(1)
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.closing, cancel)
	defer stop()

	sess := &session{
		id:      uuid.NewString(),
		conn:    conn,
		app:     app.NewServiceWithSeed(s.game.Seed),
		opts:    s.game.Options(),
		limiter: rate.NewLimiter(rate.Limit(s.cfg.MessageRate), s.cfg.MessageBurst),
		send:    make(chan Envelope, 16),
	}
	sess.logger = s.logger.With(zap.String("session", sess.id))
	sess.logger.Info("client connected", zap.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.writeLoop(ctx, cancel, s.cfg.PingInterval)
	}()

	sess.readLoop(ctx)
	cancel()
	<-done

	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	sess.logger.Info("client disconnected", zap.String("game", sess.gameID()))
}
